// Package pricing normalizes oracle quotes and raw payment amounts, each with
// their own decimal precision, into one canonical USD fixed-point
// representation. Amounts of differing precision are never mixed: everything
// is rescaled to the canonical precision before any multiplication happens.
package pricing

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/avatarlabs/minthub.go/common"
)

// CanonicalDecimals is the fractional precision of every USD value produced
// by this package.
const CanonicalDecimals = common.CanonicalUsdDecimals

// Intermediate products are computed in big integers and can not wrap, but a
// result that needs more than 256 bits could not be carried by any of the
// token amounts we deal with and indicates garbage input. The intermediate
// guard is twice that.
const (
	maxResultBits       = 256
	maxIntermediateBits = 512
)

var (
	ErrInvalidQuote       = errors.New("pricing: quote price must be positive")
	ErrNegativeAmount     = errors.New("pricing: amount must not be negative")
	ErrArithmeticOverflow = errors.New("pricing: value exceeds representable range")
)

var canonicalUnit = pow10(CanonicalDecimals)

// ToUSD converts `amount` units of an instrument with `amountDecimals`
// fractional digits into a canonical USD value, using a quote of `price` with
// `priceDecimals` fractional digits (USD per whole instrument unit).
//
// Fractional remainders are truncated, never rounded up, so a payment can not
// be credited more USD value than it is worth.
func ToUSD(amount *big.Int, amountDecimals uint8, price *big.Int, priceDecimals uint8) (*big.Int, error) {
	if price == nil || price.Sign() <= 0 {
		return nil, ErrInvalidQuote
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}

	scaledAmount, err := rescale(amount, amountDecimals)
	if err != nil {
		return nil, err
	}
	scaledPrice, err := rescale(price, priceDecimals)
	if err != nil {
		return nil, err
	}

	// scaledAmount and scaledPrice both carry the canonical unit, so the
	// product carries it twice; dividing once brings it back.
	product := new(big.Int).Mul(scaledAmount, scaledPrice)
	if product.BitLen() > maxIntermediateBits {
		return nil, ErrArithmeticOverflow
	}
	usd := product.Quo(product, canonicalUnit)
	if usd.BitLen() > maxResultBits {
		return nil, ErrArithmeticOverflow
	}
	return usd, nil
}

// rescale converts a value with the given decimal precision to canonical
// precision, truncating when the source is more precise than the target.
func rescale(v *big.Int, decimals uint8) (*big.Int, error) {
	switch {
	case decimals == CanonicalDecimals:
		return new(big.Int).Set(v), nil
	case decimals < CanonicalDecimals:
		scaled := new(big.Int).Mul(v, pow10(int(CanonicalDecimals-decimals)))
		if scaled.BitLen() > maxIntermediateBits {
			return nil, ErrArithmeticOverflow
		}
		return scaled, nil
	default:
		return new(big.Int).Quo(v, pow10(int(decimals-CanonicalDecimals))), nil
	}
}

// ParseUSD parses a decimal USD string ("10", "9.99") into a canonical value.
// More than CanonicalDecimals fractional digits is rejected rather than
// silently truncated: a configured fee should be representable exactly.
func ParseUSD(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("pricing: empty USD amount")
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > CanonicalDecimals {
		return nil, fmt.Errorf("pricing: USD amount %q has more than %d fractional digits", s, CanonicalDecimals)
	}
	digits := whole + frac + strings.Repeat("0", CanonicalDecimals-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("pricing: invalid USD amount %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("pricing: USD amount %q must not be negative", s)
	}
	return v, nil
}

// FormatUSD renders a canonical USD value as a decimal string for responses
// and log lines.
func FormatUSD(v *big.Int) string {
	if v == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(v, canonicalUnit, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := strings.TrimRight(fmt.Sprintf("%018d", r), "0")
	return q.String() + "." + frac
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
