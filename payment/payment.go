// Package payment moves tendered funds from the payer into the service's
// custody account. Collection failures (insufficient balance, missing
// allowance, unknown deposit) surface the underlying reason verbatim; the
// engine treats any of them as fatal to the whole mint.
package payment

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NativeDecimals is the fractional precision of the chain's native currency.
const NativeDecimals = 18

var ErrCollectionFailed = errors.New("payment collection failed")

// Collector is the capability the minting engine uses to take custody of a
// tendered payment.
type Collector interface {
	// PullToken pulls `amount` of the ERC-20 `token` from `payer` into
	// custody and returns the transaction reference. Requires a prior
	// allowance from the payer.
	PullToken(ctx context.Context, token, payer common.Address, amount *big.Int) (string, error)

	// VerifyNativeDeposit checks that txRef is a confirmed transfer of at
	// least `amount` native currency from `payer` to custody and returns
	// the normalized transaction reference.
	VerifyNativeDeposit(ctx context.Context, payer common.Address, amount *big.Int, txRef string) (string, error)

	// TokenDecimals reports the fractional precision of an ERC-20 token.
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)
}
