package oracle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	minthub "github.com/avatarlabs/minthub.go/common"
)

// MockOracle serves fixed quotes from memory. Used in tests and as a stand-in
// on networks without deployed aggregators.
type MockOracle struct {
	mu     sync.RWMutex
	quotes map[common.Address]Quote
	maxAge time.Duration
}

func NewMockOracle() *MockOracle {
	return &MockOracle{quotes: map[common.Address]Quote{}}
}

// SetQuote installs or replaces the quote served for a feed.
func (m *MockOracle) SetQuote(feed common.Address, quote Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[feed] = quote
}

// SetMaxQuoteAge enables staleness checking for subsequently served quotes.
func (m *MockOracle) SetMaxQuoteAge(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxAge = maxAge
}

func (m *MockOracle) LatestQuote(ctx context.Context, feed common.Address) (Quote, error) {
	m.mu.RLock()
	quote, ok := m.quotes[feed]
	maxAge := m.maxAge
	m.mu.RUnlock()
	if !ok {
		return Quote{}, fmt.Errorf("%w: no quote for feed %s", minthub.ErrStaleOrInvalidQuote, feed)
	}
	if err := quote.Validate(time.Now(), maxAge); err != nil {
		return Quote{}, err
	}
	return quote, nil
}

func (m *MockOracle) VerifyFeed(ctx context.Context, feed common.Address) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.quotes[feed]; !ok {
		return fmt.Errorf("%w: %s", minthub.ErrInvalidFeed, feed)
	}
	return nil
}

var _ PriceOracle = (*MockOracle)(nil)
