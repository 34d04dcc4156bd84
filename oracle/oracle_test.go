package oracle

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	minthub "github.com/avatarlabs/minthub.go/common"
)

var testFeed = common.HexToAddress("0x62CAe0FA2da220f43a51F86Db2EDb36DcA9A5A08")

func TestQuoteValidate(t *testing.T) {
	now := time.Now()

	fresh := Quote{Price: big.NewInt(2000e8), Decimals: 8, UpdatedAt: now}
	assert.NoError(t, fresh.Validate(now, time.Hour))

	zero := Quote{Price: big.NewInt(0), Decimals: 8, UpdatedAt: now}
	assert.ErrorIs(t, zero.Validate(now, time.Hour), minthub.ErrStaleOrInvalidQuote)

	negative := Quote{Price: big.NewInt(-1), Decimals: 8, UpdatedAt: now}
	assert.ErrorIs(t, negative.Validate(now, time.Hour), minthub.ErrStaleOrInvalidQuote)

	stale := Quote{Price: big.NewInt(2000e8), Decimals: 8, UpdatedAt: now.Add(-2 * time.Hour)}
	assert.ErrorIs(t, stale.Validate(now, time.Hour), minthub.ErrStaleOrInvalidQuote)

	// A zero maxAge disables the staleness check entirely.
	assert.NoError(t, stale.Validate(now, 0))
}

func TestMockOracle(t *testing.T) {
	ctx := context.Background()
	mock := NewMockOracle()

	_, err := mock.LatestQuote(ctx, testFeed)
	assert.ErrorIs(t, err, minthub.ErrStaleOrInvalidQuote)
	assert.ErrorIs(t, mock.VerifyFeed(ctx, testFeed), minthub.ErrInvalidFeed)

	mock.SetQuote(testFeed, Quote{Price: big.NewInt(2000e8), Decimals: 8, UpdatedAt: time.Now()})
	assert.NoError(t, mock.VerifyFeed(ctx, testFeed))

	quote, err := mock.LatestQuote(ctx, testFeed)
	assert.NoError(t, err)
	assert.Equal(t, uint8(8), quote.Decimals)
	assert.Equal(t, 0, big.NewInt(2000e8).Cmp(quote.Price))
}
