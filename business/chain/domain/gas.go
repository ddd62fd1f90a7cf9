package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// GasPrice is a suggested gas price observed at a point in time.
type GasPrice struct {
	Wei       *big.Int
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int, at time.Time) *GasPrice {
	return &GasPrice{Wei: new(big.Int).Set(wei), Timestamp: at}
}

// Gwei returns the price in gwei.
func (g *GasPrice) Gwei() float64 {
	f, _ := decimal.NewFromBigInt(g.Wei, -9).Float64()
	return f
}

// Exceeds reports whether the price is above ceiling. A nil ceiling never trips.
func (g *GasPrice) Exceeds(ceiling *big.Int) bool {
	return ceiling != nil && g.Wei.Cmp(ceiling) > 0
}
