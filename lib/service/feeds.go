package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/db/models"
	"github.com/avatarlabs/minthub.go/oracle"
)

// FeedFor resolves the price feed bound to an instrument. The zero address is
// the native currency and always resolves to the feed fixed at construction.
func (svc *MinthubService) FeedFor(ctx context.Context, instrument ethcommon.Address) (ethcommon.Address, error) {
	if instrument == (ethcommon.Address{}) {
		return svc.NativeFeedAddr, nil
	}
	var binding models.PriceFeed
	err := svc.DB.NewSelect().Model(&binding).Where("instrument = ?", instrument.Hex()).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ethcommon.Address{}, fmt.Errorf("%w: %s", common.ErrUnsupportedInstrument, instrument)
		}
		return ethcommon.Address{}, err
	}
	return ethcommon.HexToAddress(binding.Feed), nil
}

// ResolveQuote reads a fresh price quote for the instrument. Quotes are never
// cached: every conversion prices against the current oracle reading.
func (svc *MinthubService) ResolveQuote(ctx context.Context, instrument ethcommon.Address) (oracle.Quote, error) {
	feed, err := svc.FeedFor(ctx, instrument)
	if err != nil {
		return oracle.Quote{}, err
	}
	return svc.Oracle.LatestQuote(ctx, feed)
}

// AddTokenSupport registers (or overwrites) the price feed for an ERC-20
// instrument. The native binding is fixed and can not be replaced through
// this path.
func (svc *MinthubService) AddTokenSupport(ctx context.Context, instrument, feed ethcommon.Address) (*models.PriceFeed, error) {
	if instrument == (ethcommon.Address{}) {
		return nil, fmt.Errorf("%w: the native price feed is fixed at deployment", common.ErrInvalidFeed)
	}
	if feed == (ethcommon.Address{}) {
		return nil, fmt.Errorf("%w: zero feed address", common.ErrInvalidFeed)
	}
	if err := svc.Oracle.VerifyFeed(ctx, feed); err != nil {
		return nil, err
	}

	binding := models.PriceFeed{
		Instrument: instrument.Hex(),
		Feed:       feed.Hex(),
		UpdatedAt:  bun.NullTime{Time: time.Now()},
	}
	_, err := svc.DB.NewInsert().
		Model(&binding).
		On("CONFLICT (instrument) DO UPDATE").
		Set("feed = EXCLUDED.feed, updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	svc.Logger.Infof("Token support added: instrument:%s feed:%s", binding.Instrument, binding.Feed)
	svc.publishEvent(ctx, common.EventTokenSupportAdded, TokenSupportAddedEvent{
		Instrument: binding.Instrument,
		Feed:       binding.Feed,
	})
	return &binding, nil
}
