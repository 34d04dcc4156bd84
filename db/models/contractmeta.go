package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ContractMeta holds the single mutable contract-level metadata record: the
// official webpage URI. Versioned only by overwrite, no history kept.
type ContractMeta struct {
	bun.BaseModel `bun:"table:contract_meta"`

	ID         int64     `bun:",pk"`
	WebpageURI string    `bun:",nullzero"`
	UpdatedAt  time.Time `bun:",nullzero"`
}

// ContractMetaID is the primary key of the only contract_meta row.
const ContractMetaID = 1
