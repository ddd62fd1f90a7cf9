package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const bridgeABIJSON = `[{
	"type": "function",
	"name": "send",
	"stateMutability": "payable",
	"inputs": [
		{"name": "id", "type": "uint256"},
		{"name": "to", "type": "address"},
		{"name": "tokenXAmount", "type": "uint256"}
	],
	"outputs": []
}]`

const erc20ABIJSON = `[{
	"type": "function",
	"name": "approve",
	"stateMutability": "nonpayable",
	"inputs": [
		{"name": "spender", "type": "address"},
		{"name": "amount", "type": "uint256"}
	],
	"outputs": [{"name": "", "type": "bool"}]
}]`

var (
	BridgeABI = MustParseABI(bridgeABIJSON)
	ERC20ABI  = MustParseABI(erc20ABIJSON)
)

// MustParseABI parses a JSON ABI known at compile time.
func MustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("invalid abi: " + err.Error())
	}
	return parsed
}

// Call is a single contract method invocation.
type Call struct {
	Contract common.Address
	ABI      abi.ABI
	Method   string
	Args     []any
	Value    *big.Int // native value sent along; nil means zero
}

// Pack encodes the calldata.
func (c Call) Pack() ([]byte, error) {
	return c.ABI.Pack(c.Method, c.Args...)
}

// NativeValue returns Value, or zero when unset.
func (c Call) NativeValue() *big.Int {
	if c.Value == nil {
		return new(big.Int)
	}
	return c.Value
}

// BridgeSend builds send(destChainID, to, amount). Native bridges carry the
// amount as value as well.
func BridgeSend(bridge common.Address, destChainID *big.Int, to common.Address, amount *big.Int, native bool) Call {
	c := Call{
		Contract: bridge,
		ABI:      BridgeABI,
		Method:   "send",
		Args:     []any{destChainID, to, amount},
	}
	if native {
		c.Value = amount
	}
	return c
}

// Approve builds approve(spender, amount) on an ERC-20 token.
func Approve(token, spender common.Address, amount *big.Int) Call {
	return Call{
		Contract: token,
		ABI:      ERC20ABI,
		Method:   "approve",
		Args:     []any{spender, amount},
	}
}
