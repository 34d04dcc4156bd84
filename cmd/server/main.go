package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/uptrace/bun/migrate"
	ddEcho "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/avatarlabs/minthub.go/db"
	"github.com/avatarlabs/minthub.go/db/migrations"
	"github.com/avatarlabs/minthub.go/lib"
	"github.com/avatarlabs/minthub.go/lib/service"
	"github.com/avatarlabs/minthub.go/lib/tokens"
	"github.com/avatarlabs/minthub.go/lib/transport"
	"github.com/avatarlabs/minthub.go/oracle"
	"github.com/avatarlabs/minthub.go/payment"
	"github.com/avatarlabs/minthub.go/rabbitmq"
)

// @title        Minthub.go
// @version      1.0.0
// @description  Oracle-priced minting service issuing avatar collectibles against USD-pegged fees.

// @BasePath  /

// @securitydefinitions.apikey  OwnerToken
// @in                          header
// @name                        Authorization
// @schemes                     https http
func main() {

	c := &service.Config{}

	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := lib.Logger(c.LogFilePath)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	// Migrate the DB
	startupCtx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(startupCtx)
	if err != nil {
		logger.Fatalf("Error initializing db migrator: %v", err)
	}
	_, err = migrator.Migrate(startupCtx)
	if err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}
	// Setup exception tracking with Sentry if configured
	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"401"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	// Connect to the chain. Without a configured RPC endpoint the service
	// runs with in-memory mocks, which is only useful for local development.
	var priceOracle oracle.PriceOracle
	var collector payment.Collector
	if c.ChainRPCUrl != "" {
		chainClient, err := ethclient.DialContext(startupCtx, c.ChainRPCUrl)
		if err != nil {
			logger.Fatalf("Error connecting to chain rpc: %v", err)
		}
		chainID, err := chainClient.ChainID(startupCtx)
		if err != nil {
			logger.Fatalf("Error reading chain id: %v", err)
		}
		logger.Infof("Connected to chain id %s via %s", chainID, c.ChainRPCUrl)

		priceOracle, err = oracle.NewChainlinkOracle(chainClient, time.Duration(c.MaxQuoteAge)*time.Second)
		if err != nil {
			logger.Fatalf("Error initializing price oracle: %v", err)
		}

		collectorKey, err := crypto.HexToECDSA(c.CollectorKeyHex)
		if err != nil {
			logger.Fatalf("Error parsing collector key: %v", err)
		}
		auth, err := bind.NewKeyedTransactorWithChainID(collectorKey, chainID)
		if err != nil {
			logger.Fatalf("Error creating collector transactor: %v", err)
		}
		collector, err = payment.NewOnchainCollector(chainClient, auth, ethcommon.HexToAddress(c.CustodyAddress), chainID)
		if err != nil {
			logger.Fatalf("Error initializing payment collector: %v", err)
		}
	} else {
		logger.Info("No CHAIN_RPC_URL configured, running with mock oracle and collector")
		mockOracle := oracle.NewMockOracle()
		mockOracle.SetQuote(ethcommon.HexToAddress(c.NativePriceFeed), oracle.Quote{
			Price:     big.NewInt(2000_00000000),
			Decimals:  8,
			UpdatedAt: time.Now(),
		})
		priceOracle = mockOracle
		collector = payment.NewMockCollector()
	}

	// If no RABBITMQ_URI was provided we will not attempt to create a client
	// No rabbitmq features will be available in this case.
	var rabbitmqClient rabbitmq.Client
	if c.RabbitMQUri != "" {
		amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri)
		if err != nil {
			logger.Fatal(err)
		}

		defer amqpClient.Close()

		rabbitmqClient, err = rabbitmq.NewClient(amqpClient,
			rabbitmq.WithLogger(logger),
			rabbitmq.WithMintExchange(c.RabbitMQMintExchange),
		)
		if err != nil {
			logger.Fatal(err)
		}

		// close the connection gently at the end of the runtime
		defer rabbitmqClient.Close()
	}

	svc := &service.MinthubService{
		Config:         c,
		DB:             dbConn,
		Oracle:         priceOracle,
		Collector:      collector,
		Logger:         logger,
		EventPubSub:    service.NewPubsub(),
		RabbitMQClient: rabbitmqClient,
		NativeFeedAddr: ethcommon.HexToAddress(c.NativePriceFeed),
	}
	if err := svc.InitState(startupCtx); err != nil {
		logger.Fatalf("Error seeding fee schedule and contract metadata: %v", err)
	}

	//init echo server
	e := transport.InitEcho(c, logger)
	//if Datadog is configured, add datadog middleware
	if c.DatadogAgentUrl != "" {
		tracer.Start(tracer.WithAgentAddr(c.DatadogAgentUrl))
		defer tracer.Stop()
		e.Use(ddEcho.Middleware(ddEcho.WithServiceName("minthub.go")))
	}

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for requests that move funds
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)
	cacheClient := transport.CreateCacheClient()

	admin := e.Group("/v2/admin", tokens.OwnerTokenMiddleware(c.AdminToken), logMw)
	transport.RegisterEndpoints(svc, e, admin, strictRateLimitMiddleware, logMw, cacheClient)

	//Start Prometheus server if necessary
	if svc.Config.EnablePrometheus {
		go transport.StartPrometheusEcho(logger, svc, e)
	}

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	backGroundCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)
	<-backGroundCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	svc.Logger.Info("Minthub exiting gracefully. Goodbye.")
}
