package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PriceFeed binds a payment instrument to the oracle feed used to price it.
// Bindings are only ever added or overwritten, never deleted; the native
// currency's binding lives in service config, not in this table.
type PriceFeed struct {
	bun.BaseModel `bun:"table:price_feeds"`

	ID         int64        `json:"-" bun:",pk,autoincrement"`
	Instrument string       `json:"instrument" bun:",notnull,unique"`
	Feed       string       `json:"feed" bun:",notnull"`
	CreatedAt  time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt  bun.NullTime `json:"updated_at"`
}
