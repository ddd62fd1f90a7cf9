package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDBaseSepolia = 84532
	ChainIDKiteTestnet = 2368
)

// Symbols
const (
	SymbolETH   = "ETH"
	SymbolKITE  = "KITE"
	SymbolUSDT  = "USDT"
	SymbolWKITE = "WKITE"
)

// NetworkAssets is everything the steps move, on both chains.
type NetworkAssets struct {
	BaseChainID uint64
	KiteChainID uint64

	// Base Sepolia
	BaseETH  *Asset
	BaseKITE *Asset
	BaseUSDT *Asset

	// KITE testnet
	KiteKITE  *Asset
	KiteETH   *Asset
	KiteUSDT  *Asset
	KiteWKITE *Asset
}

// NetworkAddresses are the contracts that define the non-native assets.
type NetworkAddresses struct {
	USDTTokenKite       common.Address
	WKITEKite           common.Address
	ETHBridgeKite       common.Address
	KiteTokenBridgeBase common.Address
	USDTBridgeBase      common.Address
}

// NewNetworkAssets builds the asset set. ETH is 18 decimals everywhere.
func NewNetworkAssets(baseChain, kiteChain uint64, addrs NetworkAddresses, kiteDecimals, usdtDecimals int32) (*NetworkAssets, error) {
	defs := []struct {
		id     ID
		symbol string
		dec    int32
	}{
		{NativeID(baseChain), SymbolETH, 18},
		{BridgedID(baseChain, addrs.KiteTokenBridgeBase), SymbolKITE, kiteDecimals},
		{BridgedID(baseChain, addrs.USDTBridgeBase), SymbolUSDT, usdtDecimals},
		{NativeID(kiteChain), SymbolKITE, kiteDecimals},
		{BridgedID(kiteChain, addrs.ETHBridgeKite), SymbolETH, 18},
		{TokenID(kiteChain, addrs.USDTTokenKite), SymbolUSDT, usdtDecimals},
		{TokenID(kiteChain, addrs.WKITEKite), SymbolWKITE, kiteDecimals},
	}

	na := &NetworkAssets{BaseChainID: baseChain, KiteChainID: kiteChain}
	targets := []**Asset{&na.BaseETH, &na.BaseKITE, &na.BaseUSDT, &na.KiteKITE, &na.KiteETH, &na.KiteUSDT, &na.KiteWKITE}

	for i := range defs {
		a, err := New(defs[i].id, defs[i].symbol, defs[i].dec)
		if err != nil {
			return nil, err
		}
		*targets[i] = a
	}
	return na, nil
}

// Registry returns a registry holding every asset in the set.
func (n *NetworkAssets) Registry() (*Registry, error) {
	r := NewRegistry()
	for _, a := range []*Asset{n.BaseETH, n.BaseKITE, n.BaseUSDT, n.KiteKITE, n.KiteETH, n.KiteUSDT, n.KiteWKITE} {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}
