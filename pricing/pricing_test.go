package pricing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func usd(s string) *big.Int {
	v, err := ParseUSD(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestToUSDAcrossDecimals(t *testing.T) {
	tests := []struct {
		name           string
		amount         *big.Int
		amountDecimals uint8
		price          *big.Int
		priceDecimals  uint8
		expected       *big.Int
	}{
		{
			// 0.01 WETH at 2000 USD reported with 8 feed decimals
			name:           "18 decimal token, 8 decimal feed",
			amount:         big.NewInt(1e16),
			amountDecimals: 18,
			price:          big.NewInt(2000e8),
			priceDecimals:  8,
			expected:       usd("20"),
		},
		{
			// 50 USDC at 1 USD
			name:           "6 decimal token",
			amount:         big.NewInt(50e6),
			amountDecimals: 6,
			price:          big.NewInt(1e8),
			priceDecimals:  8,
			expected:       usd("50"),
		},
		{
			// 0.5 WBTC at 40000 USD
			name:           "8 decimal token",
			amount:         big.NewInt(5e7),
			amountDecimals: 8,
			price:          big.NewInt(40000e8),
			priceDecimals:  8,
			expected:       usd("20000"),
		},
		{
			name:           "feed already at canonical precision",
			amount:         big.NewInt(1e16),
			amountDecimals: 18,
			price:          usd("2000"),
			priceDecimals:  18,
			expected:       usd("20"),
		},
		{
			name:           "zero amount is worth zero",
			amount:         big.NewInt(0),
			amountDecimals: 18,
			price:          big.NewInt(2000e8),
			priceDecimals:  8,
			expected:       big.NewInt(0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := ToUSD(tt.amount, tt.amountDecimals, tt.price, tt.priceDecimals)
			assert.NoError(t, err)
			assert.Equal(t, 0, tt.expected.Cmp(value), "expected %s, got %s", tt.expected, value)
		})
	}
}

func TestToUSDTruncatesTowardZero(t *testing.T) {
	// 1 wei at 1.50 USD per unit is worth 1.5 canonical units; the payer is
	// credited 1, never 2.
	value, err := ToUSD(big.NewInt(1), 18, big.NewInt(15e7), 8)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), value.Int64())
}

func TestToUSDRequiredFeeBoundary(t *testing.T) {
	fee := usd("10")
	price := big.NewInt(2000e8)

	// The exact instrument amount covering the fee: 10 / 2000 = 0.005 units.
	exact := big.NewInt(5e15)
	value, err := ToUSD(exact, 18, price, 8)
	assert.NoError(t, err)
	assert.Equal(t, 0, fee.Cmp(value))

	// One minimal unit less must fall short by exactly the per-wei price.
	short, err := ToUSD(new(big.Int).Sub(exact, big.NewInt(1)), 18, price, 8)
	assert.NoError(t, err)
	assert.Equal(t, -1, short.Cmp(fee))
	assert.Equal(t, int64(2000), new(big.Int).Sub(fee, short).Int64())
}

func TestToUSDRejectsInvalidQuotes(t *testing.T) {
	_, err := ToUSD(big.NewInt(1e16), 18, big.NewInt(0), 8)
	assert.ErrorIs(t, err, ErrInvalidQuote)

	_, err = ToUSD(big.NewInt(1e16), 18, big.NewInt(-2000e8), 8)
	assert.ErrorIs(t, err, ErrInvalidQuote)

	_, err = ToUSD(big.NewInt(-1), 18, big.NewInt(2000e8), 8)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestToUSDOverflowGuard(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 500)

	_, err := ToUSD(huge, 18, big.NewInt(2000e8), 8)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)

	// Rescaling a low-precision amount can overflow before the multiply.
	_, err = ToUSD(huge, 0, big.NewInt(2000e8), 8)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestParseUSD(t *testing.T) {
	v, err := ParseUSD("10")
	assert.NoError(t, err)
	assert.Equal(t, "10000000000000000000", v.String())

	v, err = ParseUSD("9.99")
	assert.NoError(t, err)
	assert.Equal(t, "9990000000000000000", v.String())

	v, err = ParseUSD("0.000000000000000001")
	assert.NoError(t, err)
	assert.Equal(t, "1", v.String())

	_, err = ParseUSD("0.0000000000000000001")
	assert.Error(t, err)
	_, err = ParseUSD("ten")
	assert.Error(t, err)
	_, err = ParseUSD("-10")
	assert.Error(t, err)
	_, err = ParseUSD("")
	assert.Error(t, err)
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "20", FormatUSD(usd("20")))
	assert.Equal(t, "1.5", FormatUSD(usd("1.5")))
	assert.Equal(t, "0.000000000000000001", FormatUSD(big.NewInt(1)))
	assert.Equal(t, "0", FormatUSD(nil))
}
