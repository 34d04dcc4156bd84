package payment

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Pull records one successful collection made through the mock.
type Pull struct {
	Instrument common.Address
	Payer      common.Address
	Amount     *big.Int
}

// MockCollector approves every collection unless a failure is armed.
// Successful pulls are recorded so tests can assert on custody movements.
type MockCollector struct {
	mu       sync.Mutex
	decimals map[common.Address]uint8
	failWith error
	pulls    []Pull
	seq      int
}

func NewMockCollector() *MockCollector {
	return &MockCollector{decimals: map[common.Address]uint8{}}
}

// SetTokenDecimals registers the precision reported for a token.
func (m *MockCollector) SetTokenDecimals(token common.Address, decimals uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decimals[token] = decimals
}

// FailWith makes every subsequent collection fail with err. Pass nil to
// restore normal behavior.
func (m *MockCollector) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Pulls returns the collections recorded so far.
func (m *MockCollector) Pulls() []Pull {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Pull, len(m.pulls))
	copy(out, m.pulls)
	return out
}

func (m *MockCollector) collect(instrument, payer common.Address, amount *big.Int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return "", fmt.Errorf("%w: %v", ErrCollectionFailed, m.failWith)
	}
	m.seq++
	m.pulls = append(m.pulls, Pull{Instrument: instrument, Payer: payer, Amount: new(big.Int).Set(amount)})
	return fmt.Sprintf("0xmock%08d", m.seq), nil
}

func (m *MockCollector) PullToken(ctx context.Context, token, payer common.Address, amount *big.Int) (string, error) {
	return m.collect(token, payer, amount)
}

func (m *MockCollector) VerifyNativeDeposit(ctx context.Context, payer common.Address, amount *big.Int, txRef string) (string, error) {
	if _, err := m.collect(common.Address{}, payer, amount); err != nil {
		return "", err
	}
	// A verified deposit is referenced by the hash the payer submitted,
	// normalized the same way the on-chain collector normalizes it.
	return common.HexToHash(txRef).Hex(), nil
}

func (m *MockCollector) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	decimals, ok := m.decimals[token]
	if !ok {
		return 0, fmt.Errorf("no decimals registered for token %s", token)
	}
	return decimals, nil
}

var _ Collector = (*MockCollector)(nil)
