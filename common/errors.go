package common

import "errors"

// Rejection kinds surfaced by the minting engine and the registry. Every one
// of these is a synchronous, non-retryable rejection of the triggering call:
// when a caller sees one, no state was changed.
var (
	ErrUnsupportedInstrument = errors.New("no price feed registered for instrument")
	ErrInvalidFeed           = errors.New("price feed does not resolve")
	ErrStaleOrInvalidQuote   = errors.New("oracle quote is stale or invalid")
	ErrZeroPayment           = errors.New("tendered amount must be greater than zero")
	ErrInvalidProfile        = errors.New("profile is missing required fields")
	ErrInsufficientPayment   = errors.New("payment does not cover the required mint fee")
	ErrNotFound              = errors.New("item not found")
	ErrDuplicateProfile      = errors.New("an item with this profile already exists")
)
