package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// Duplicate-profile enforcement is a partial index: rows minted
		// while uniqueness was disabled carry a NULL hash and never
		// conflict.
		if _, err := db.ExecContext(ctx,
			"CREATE UNIQUE INDEX IF NOT EXISTS items_profile_hash_key ON items (profile_hash) WHERE profile_hash IS NOT NULL"); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			"ALTER TABLE fee_state ADD CONSTRAINT issued_count_not_negative CHECK (issued_count >= 0)"); err != nil {
			return err
		}
		return nil
	}, nil)
}
