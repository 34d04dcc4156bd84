// Package oracle resolves current USD prices for payment instruments from
// on-chain price feed aggregators. Feeds are untrusted input: every quote is
// checked for sign and staleness at this boundary before it reaches any
// arithmetic.
package oracle

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	minthub "github.com/avatarlabs/minthub.go/common"
)

// Quote is a point-in-time price reading from a feed. It is never persisted;
// the engine reads a fresh one on every conversion.
type Quote struct {
	// Price in USD per whole instrument unit, fixed-point with Decimals
	// fractional digits.
	Price     *big.Int
	Decimals  uint8
	UpdatedAt time.Time
}

// Validate rejects non-positive prices and, when maxAge is non-zero, quotes
// older than maxAge.
func (q Quote) Validate(now time.Time, maxAge time.Duration) error {
	if q.Price == nil || q.Price.Sign() <= 0 {
		return fmt.Errorf("%w: non-positive price", minthub.ErrStaleOrInvalidQuote)
	}
	if maxAge > 0 {
		if q.UpdatedAt.IsZero() || now.Sub(q.UpdatedAt) > maxAge {
			return fmt.Errorf("%w: last update %s", minthub.ErrStaleOrInvalidQuote, q.UpdatedAt)
		}
	}
	return nil
}

// PriceOracle is the capability the minting engine is constructed with.
// Implementations must return validated quotes only.
type PriceOracle interface {
	// LatestQuote reads the current price from the given feed.
	LatestQuote(ctx context.Context, feed common.Address) (Quote, error)
	// VerifyFeed checks that the given address answers as a price feed.
	// Used before a feed is registered for an instrument.
	VerifyFeed(ctx context.Context, feed common.Address) error
}
