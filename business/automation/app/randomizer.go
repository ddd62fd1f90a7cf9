package app

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/fd1az/crosschain-cycler/business/automation/domain"
)

// Randomizer draws humanized amounts.
type Randomizer struct {
	float func() float64 // uniform in [0, 1)
}

// NewRandomizer creates a Randomizer. A nil source uses math/rand/v2.
func NewRandomizer(float func() float64) *Randomizer {
	if float == nil {
		float = rand.Float64
	}
	return &Randomizer{float: float}
}

// Random draws a value in r and formats it with exactly decimals fractional
// digits. The draw is floored to the grid and clamped to the grid points
// inside r, so the result never falls outside the range.
func (z *Randomizer) Random(r domain.Range, decimals int32) (string, error) {
	if decimals < 0 {
		return "", fmt.Errorf("negative precision %d", decimals)
	}

	lo := r.Min.Shift(decimals).Ceil()
	hi := r.Max.Shift(decimals).Floor()
	if lo.GreaterThan(hi) {
		return "", fmt.Errorf("no %d-decimal value fits in %s", decimals, r)
	}

	u := decimal.NewFromFloat(z.float())
	v := r.Min.Add(r.Max.Sub(r.Min).Mul(u)).Shift(decimals).Floor()

	switch {
	case v.LessThan(lo):
		v = lo
	case v.GreaterThan(hi):
		v = hi
	}

	return v.Shift(-decimals).StringFixed(decimals), nil
}
