// Package asset models the coins and tokens moved by the cycler.
// On-chain quantities are big.Int minor units; decimal.Decimal is only used
// at the boundary where human amounts are drawn and logged.
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Kind tells how an asset exists on its chain.
type Kind uint8

const (
	KindNative Kind = iota
	KindToken
	// KindBridged is a representation minted by a bridge whose token
	// address is not configured; the bridge contract stands in for it.
	KindBridged
)

// ID identifies an asset by chain, kind and address.
// Native coins have the zero address.
type ID struct {
	chainID uint64
	address common.Address
	kind    Kind
}

// NativeID returns the ID of chainID's native coin.
func NativeID(chainID uint64) ID {
	return ID{chainID: chainID, kind: KindNative}
}

// TokenID returns the ID of an ERC20 token.
func TokenID(chainID uint64, addr common.Address) ID {
	if addr == (common.Address{}) {
		panic("asset: token address cannot be zero, use NativeID")
	}
	return ID{chainID: chainID, address: addr, kind: KindToken}
}

// BridgedID returns the ID of an asset held through bridge.
func BridgedID(chainID uint64, bridge common.Address) ID {
	return ID{chainID: chainID, address: bridge, kind: KindBridged}
}

// ChainID returns the chain the asset lives on.
func (id ID) ChainID() uint64 { return id.chainID }

// Address returns the token contract, zero for native coins.
func (id ID) Address() common.Address { return id.address }

// Kind returns how the asset exists on its chain.
func (id ID) Kind() Kind { return id.kind }

// IsNative reports whether id is a native coin.
func (id ID) IsNative() bool { return id.kind == KindNative }

func (id ID) String() string {
	switch id.kind {
	case KindNative:
		return fmt.Sprintf("chain:%d/native", id.chainID)
	case KindBridged:
		return fmt.Sprintf("chain:%d/bridged:%s", id.chainID, id.address.Hex())
	default:
		return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
	}
}

// Asset is the metadata needed to convert human amounts to minor units.
type Asset struct {
	id       ID
	symbol   string
	decimals int32
}

// New creates an asset. Decimals above 36 are rejected as misconfiguration.
func New(id ID, symbol string, decimals int32) (*Asset, error) {
	if symbol == "" {
		return nil, fmt.Errorf("asset: empty symbol for %s", id)
	}
	if decimals < 0 || decimals > 36 {
		return nil, fmt.Errorf("asset: %s decimals %d out of range", symbol, decimals)
	}
	return &Asset{id: id, symbol: symbol, decimals: decimals}, nil
}

// MustNew is New that panics, for package-level definitions.
func MustNew(id ID, symbol string, decimals int32) *Asset {
	a, err := New(id, symbol, decimals)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Asset) ID() ID { return a.id }
func (a *Asset) Symbol() string { return a.symbol }
func (a *Asset) Decimals() int32 { return a.decimals }
func (a *Asset) ChainID() uint64 { return a.id.chainID }
func (a *Asset) IsNative() bool { return a.id.IsNative() }
func (a *Asset) String() string { return a.symbol }

// Address returns the token contract, zero for native coins.
func (a *Asset) Address() common.Address { return a.id.address }
