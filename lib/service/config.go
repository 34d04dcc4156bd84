package service

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	DatabaseTimeout         int     `envconfig:"DATABASE_TIMEOUT" default:"60"`             // 60 seconds
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	DatadogAgentUrl         string  `envconfig:"DATADOG_AGENT_URL"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit        int     `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit         int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit          int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus        bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int     `envconfig:"PROMETHEUS_PORT" default:"9092"`

	// AdminToken is the owner identity: every administrative operation
	// (registering payment instruments, changing the webpage URI) requires
	// this bearer token.
	AdminToken string `envconfig:"ADMIN_TOKEN" required:"true"`

	// Chain access. The custody address receives all collected payments;
	// the collector key signs the transferFrom pulls.
	ChainRPCUrl     string `envconfig:"CHAIN_RPC_URL"`
	CustodyAddress  string `envconfig:"CUSTODY_ADDRESS"`
	CollectorKeyHex string `envconfig:"COLLECTOR_KEY"`

	// NativePriceFeed is fixed at deployment per network and can not be
	// removed at runtime (see helper-network configs of the deployment
	// tooling for the per-chain aggregator addresses).
	NativePriceFeed string `envconfig:"NATIVE_PRICE_FEED" required:"true"`
	MaxQuoteAge     int    `envconfig:"MAX_QUOTE_AGE" default:"3600"` // seconds, 0 disables

	// Fee schedule. The fee is USD-pegged: a decimal string like "10" or
	// "9.99". After every FeeIncrementThreshold issuances the required fee
	// is multiplied by FeeEscalationFactor.
	InitialMintFeeUsd     string `envconfig:"INITIAL_MINT_FEE_USD" default:"10"`
	FeeIncrementThreshold int64  `envconfig:"FEE_INCREMENT_THRESHOLD" default:"5"`
	FeeEscalationFactor   int64  `envconfig:"FEE_ESCALATION_FACTOR" default:"2"`

	// Whether two mints may carry the same profile name. Off by default;
	// the ledger only rejects duplicates when this is set.
	EnforceUniqueProfiles bool `envconfig:"ENFORCE_UNIQUE_PROFILES" default:"false"`

	// Collection-level metadata.
	CollectionName        string `envconfig:"COLLECTION_NAME" default:"Avatar NFT Me"`
	CollectionSymbol      string `envconfig:"COLLECTION_SYMBOL" default:"AVME"`
	CollectionDescription string `envconfig:"COLLECTION_DESCRIPTION" default:"A unique avatar collectible minted against a USD-pegged fee"`
	WebpageUri            string `envconfig:"WEBPAGE_URI"`

	RabbitMQUri          string `envconfig:"RABBITMQ_URI"`
	RabbitMQMintExchange string `envconfig:"RABBITMQ_MINT_EXCHANGE" default:"minthub_mint"`
}
