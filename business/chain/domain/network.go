package domain

import "math/big"

// Network names used across contexts.
const (
	NetworkBase = "base"
	NetworkKite = "kite"
)

// Network is one EVM chain the cycler talks to.
type Network struct {
	Key     string // NetworkBase or NetworkKite
	Name    string // display name, e.g. base-sepolia
	ChainID *big.Int
	RPCURL  string
	// MaxGasPrice is the submission ceiling in wei; nil disables it.
	MaxGasPrice *big.Int
}
