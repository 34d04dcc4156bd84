package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// One native deposit pays for at most one item. Token pulls are
		// collector-signed transactions and get a fresh hash every time,
		// so only native rows are constrained.
		_, err := db.ExecContext(ctx,
			"CREATE UNIQUE INDEX IF NOT EXISTS items_native_deposit_ref_key ON items (payment_tx_ref) WHERE instrument_kind = 'native'")
		return err
	}, nil)
}
