package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Item is one issued collectible. Rows are append-only: ids are assigned
// sequentially by the minting engine inside the issuance transaction, and no
// code path updates or deletes an item once committed.
type Item struct {
	bun.BaseModel `bun:"table:items"`

	ID int64 `json:"id" bun:",pk"`

	// Profile metadata, immutable after mint.
	FirstName    string `json:"first_name" bun:",notnull"`
	LastName     string `json:"last_name" bun:",notnull"`
	Website      string `json:"website" bun:",nullzero"`
	BodyType     string `json:"body_type" bun:",nullzero"`
	OutfitGender string `json:"outfit_gender" bun:",nullzero"`
	SkinTone     string `json:"skin_tone" bun:",nullzero"`
	AvatarDate   string `json:"avatar_date" bun:",nullzero"`
	ImageURI     string `json:"image_uri" bun:",notnull"`

	// Assembled ERC-721 style metadata document (data URI).
	TokenURI string `json:"token_uri" bun:",notnull"`

	// Set only when global profile uniqueness is enforced; the partial
	// unique index on this column turns duplicates into insert conflicts.
	ProfileHash string `json:"-" bun:",nullzero"`

	// Payment trail. Native deposit refs are unique across the ledger (a
	// partial index on native rows): one deposit pays for one item.
	Payer          string `json:"payer" bun:",notnull"`
	Instrument     string `json:"instrument" bun:",notnull"`
	InstrumentKind string `json:"instrument_kind" bun:",notnull"`
	AmountTendered string `json:"amount_tendered" bun:",notnull"`
	UsdValuePaid   string `json:"usd_value_paid" bun:",notnull"`
	PaymentTxRef   string `json:"payment_tx_ref" bun:",nullzero"`

	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

// HashProfile derives the uniqueness key for a profile. Case-insensitive on
// the name fields so "Alice" and "alice" collide.
func HashProfile(firstName, lastName string) string {
	h := sha256.Sum256([]byte(strings.ToLower(firstName) + "\x00" + strings.ToLower(lastName)))
	return hex.EncodeToString(h[:])
}
