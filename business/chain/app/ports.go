// Package app contains application services and port definitions for the chain context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/crosschain-cycler/business/chain/domain"
)

// KeySource supplies raw hex private keys.
type KeySource interface {
	// Keys returns every configured key, possibly empty.
	Keys(ctx context.Context) ([]string, error)

	// Name identifies the source in logs.
	Name() string
}

// GasOracle defines the interface for gas price information.
type GasOracle interface {
	// GetGasPrice retrieves the current suggested gas price.
	GetGasPrice(ctx context.Context) (*domain.GasPrice, error)

	// Check refuses with GAS_PRICE_TOO_HIGH when the price is above the network ceiling.
	Check(ctx context.Context) error
}

// Pending is a submitted transaction awaiting its receipt.
type Pending interface {
	Hash() common.Hash

	// Wait blocks until the receipt arrives or ctx is done. A reverted
	// receipt is returned together with a TRANSACTION_REVERTED error.
	Wait(ctx context.Context) (*domain.Receipt, error)
}

// Transactor signs and submits calls for one account on one network.
type Transactor interface {
	Network() domain.Network
	Address() common.Address

	// Transact signs and broadcasts call. It returns once the node accepted it.
	Transact(ctx context.Context, call domain.Call) (Pending, error)

	// Read performs an eth_call against the latest block.
	Read(ctx context.Context, call domain.Call) ([]byte, error)

	Close()
}

// SessionOpener dials a fresh Transactor for one account on one network.
type SessionOpener interface {
	Open(ctx context.Context, network domain.Network, account domain.Account) (Transactor, error)
}
