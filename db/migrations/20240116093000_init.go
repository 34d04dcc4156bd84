package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/avatarlabs/minthub.go/db/models"
)

/* This init reflects the latest model fields when run on a fresh db.
Make sure that when you add/remove columns in subsequent migrations
IfNotExists/IfExists is used, otherwise it's going to result in errors. */
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().Model((*models.Item)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.PriceFeed)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.FeeState)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.ContractMeta)(nil)).Exec(ctx); err != nil {
			return err
		}
		return nil
	}, nil)
}
