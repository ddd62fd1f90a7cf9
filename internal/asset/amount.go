package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	ErrNilAsset        = errors.New("asset: nil asset")
	ErrNegativeAmount  = errors.New("asset: negative amount")
	ErrTooManyDecimals = errors.New("asset: too many decimal places for asset")
)

// Amount is an immutable quantity of an asset in minor units.
type Amount struct {
	raw   *big.Int
	asset *Asset
}

// NewAmount wraps raw minor units. raw is copied.
func NewAmount(a *Asset, raw *big.Int) (Amount, error) {
	if a == nil {
		return Amount{}, ErrNilAsset
	}
	if raw == nil || raw.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{raw: new(big.Int).Set(raw), asset: a}, nil
}

// ParseDecimal converts a human amount into minor units.
// Fractional digits beyond the asset's precision are an error, never silently dropped.
func ParseDecimal(a *Asset, d decimal.Decimal) (Amount, error) {
	if a == nil {
		return Amount{}, ErrNilAsset
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	scaled := d.Shift(a.decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, fmt.Errorf("%w: %s has more than %d for %s", ErrTooManyDecimals, d, a.decimals, a.symbol)
	}

	return Amount{raw: scaled.BigInt(), asset: a}, nil
}

// ParseString parses a decimal string such as "0.001234" into minor units.
func ParseString(a *Asset, s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("asset: invalid decimal %q: %w", s, err)
	}
	return ParseDecimal(a, d)
}

// Raw returns a copy of the minor-unit value.
func (m Amount) Raw() *big.Int {
	if m.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(m.raw)
}

// Asset returns the denomination.
func (m Amount) Asset() *Asset { return m.asset }

// IsZero reports whether the amount is zero.
func (m Amount) IsZero() bool { return m.raw == nil || m.raw.Sign() == 0 }

// ToDecimal converts back to a human amount. Display only.
func (m Amount) ToDecimal() decimal.Decimal {
	if m.raw == nil || m.asset == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(m.raw, -m.asset.decimals)
}

// String renders e.g. "0.1234 USDT".
func (m Amount) String() string {
	if m.asset == nil {
		return "0 ???"
	}
	return m.ToDecimal().String() + " " + m.asset.symbol
}
