package service

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"

	"github.com/avatarlabs/minthub.go/db/models"
	"github.com/avatarlabs/minthub.go/oracle"
	"github.com/avatarlabs/minthub.go/payment"
	"github.com/avatarlabs/minthub.go/pricing"
	"github.com/avatarlabs/minthub.go/rabbitmq"
)

// MinthubService orchestrates the pricing-and-minting engine: the price feed
// registry, the fee schedule, the item ledger and the contract metadata all
// hang off this struct.
type MinthubService struct {
	Config         *Config
	DB             *bun.DB
	Oracle         oracle.PriceOracle
	Collector      payment.Collector
	Logger         *lecho.Logger
	EventPubSub    *Pubsub
	RabbitMQClient rabbitmq.Client

	// NativeFeedAddr is the aggregator for the native currency, fixed at
	// construction. It is served for the zero-address instrument and is
	// not part of the mutable registry.
	NativeFeedAddr common.Address

	// Mints mutate the shared fee/ledger state image one at a time.
	mintMu sync.Mutex
}

// InitState seeds the fee schedule and contract metadata singletons on first
// start. Both inserts are no-ops when the rows already exist, so restarts
// never reset an escalated fee.
func (svc *MinthubService) InitState(ctx context.Context) error {
	initialFee, err := pricing.ParseUSD(svc.Config.InitialMintFeeUsd)
	if err != nil {
		return err
	}

	feeState := models.FeeState{
		ID:            models.FeeStateID,
		IssuedCount:   0,
		CurrentFeeUsd: initialFee.String(),
		InitialFeeUsd: initialFee.String(),
		UpdatedAt:     time.Now(),
	}
	if _, err := svc.DB.NewInsert().Model(&feeState).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
		return err
	}

	meta := models.ContractMeta{
		ID:         models.ContractMetaID,
		WebpageURI: svc.Config.WebpageUri,
		UpdatedAt:  time.Now(),
	}
	if _, err := svc.DB.NewInsert().Model(&meta).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
		return err
	}
	return nil
}
