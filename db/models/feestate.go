package models

import (
	"fmt"
	"math/big"
	"time"

	"github.com/uptrace/bun"
)

// FeeState is a singleton row tracking how many items have been issued and
// the fee currently required for the next mint. current_fee_usd only ever
// moves up, by the configured escalation factor once per threshold crossing.
type FeeState struct {
	bun.BaseModel `bun:"table:fee_state"`

	ID            int64     `bun:",pk"`
	IssuedCount   int64     `bun:",notnull"`
	CurrentFeeUsd string    `bun:",notnull"`
	InitialFeeUsd string    `bun:",notnull"`
	UpdatedAt     time.Time `bun:",nullzero"`
}

// FeeStateID is the primary key of the only fee_state row.
const FeeStateID = 1

// CurrentFee parses the stored canonical USD fee.
func (fs *FeeState) CurrentFee() (*big.Int, error) {
	fee, ok := new(big.Int).SetString(fs.CurrentFeeUsd, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt fee state: %q", fs.CurrentFeeUsd)
	}
	return fee, nil
}

// InitialFee parses the fee the service was constructed with.
func (fs *FeeState) InitialFee() (*big.Int, error) {
	fee, ok := new(big.Int).SetString(fs.InitialFeeUsd, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt fee state: %q", fs.InitialFeeUsd)
	}
	return fee, nil
}
