package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/uptrace/bun"

	"github.com/avatarlabs/minthub.go/db/models"
)

// FeeState reads the fee schedule singleton.
func (svc *MinthubService) FeeState(ctx context.Context) (*models.FeeState, error) {
	var state models.FeeState
	err := svc.DB.NewSelect().Model(&state).Where("id = ?", models.FeeStateID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fee state not seeded: %w", err)
	}
	return &state, nil
}

// RequiredFee returns the canonical USD fee the next mint must cover.
func (svc *MinthubService) RequiredFee(ctx context.Context) (*big.Int, error) {
	state, err := svc.FeeState(ctx)
	if err != nil {
		return nil, err
	}
	return state.CurrentFee()
}

// escalatedFee applies one escalation step. Pure so the schedule arithmetic
// is testable without a database.
func escalatedFee(current *big.Int, factor int64) *big.Int {
	return new(big.Int).Mul(current, big.NewInt(factor))
}

// allocateIssuance assigns the next item id and advances the fee schedule,
// inside the caller's transaction and under a row lock. The count and the
// escalation move together with the item insert: a rolled back mint consumes
// no id and never bumps the fee.
func (svc *MinthubService) allocateIssuance(ctx context.Context, tx bun.Tx) (id int64, state *models.FeeState, err error) {
	state = &models.FeeState{}
	err = tx.NewSelect().Model(state).Where("id = ?", models.FeeStateID).For("UPDATE").Limit(1).Scan(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("fee state not seeded: %w", err)
	}

	id = state.IssuedCount + 1
	state.IssuedCount = id
	if svc.Config.FeeIncrementThreshold > 0 && id%svc.Config.FeeIncrementThreshold == 0 {
		currentFee, err := state.CurrentFee()
		if err != nil {
			return 0, nil, err
		}
		state.CurrentFeeUsd = escalatedFee(currentFee, svc.Config.FeeEscalationFactor).String()
	}
	state.UpdatedAt = time.Now()

	if _, err := tx.NewUpdate().Model(state).WherePK().Exec(ctx); err != nil {
		return 0, nil, err
	}
	return id, state, nil
}
