// Package domain contains the core types of the automation context.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fd1az/crosschain-cycler/internal/config"
)

// Range is a closed interval used for amounts and delay minutes.
type Range struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// NewRange validates and creates a Range.
func NewRange(min, max decimal.Decimal) (Range, error) {
	if min.IsNegative() || max.IsNegative() {
		return Range{}, fmt.Errorf("range bounds must be non-negative: [%s, %s]", min, max)
	}
	if min.GreaterThan(max) {
		return Range{}, fmt.Errorf("range min %s > max %s", min, max)
	}
	return Range{Min: min, Max: max}, nil
}

// MustRange is NewRange for literals.
func MustRange(min, max string) Range {
	r, err := NewRange(decimal.RequireFromString(min), decimal.RequireFromString(max))
	if err != nil {
		panic(err)
	}
	return r
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Min, r.Max)
}

// RangeFromConfig converts a configured interval.
func RangeFromConfig(r config.RangeConfig) (Range, error) {
	return NewRange(r.MinDecimal(), r.MaxDecimal())
}
