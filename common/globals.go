package common

const (
	// All USD amounts (fees, converted payment values) are fixed-point
	// integers with this many fractional digits.
	CanonicalUsdDecimals = 18

	// The native currency is addressed with the zero address; every other
	// instrument is the contract address of an ERC-20 token.
	NativeInstrument = "0x0000000000000000000000000000000000000000"

	InstrumentKindNative = "native"
	InstrumentKindToken  = "token"

	EventMintIssued        = "mint.issued"
	EventWebpageUpdated    = "webpage.updated"
	EventTokenSupportAdded = "token.support_added"

	// EventTopicAll receives every published event regardless of kind.
	EventTopicAll = "*"
)
