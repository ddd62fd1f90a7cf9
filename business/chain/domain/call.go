package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CallError is a failed contract interaction together with what was attempted.
type CallError struct {
	Network  string
	Contract common.Address
	Method   string
	Value    *big.Int
	Calldata []byte
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s %s.%s: %v", e.Network, e.Contract.Hex(), e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// CalldataHex returns the 0x-encoded calldata.
func (e *CallError) CalldataHex() string {
	return hexutil.Encode(e.Calldata)
}

// Receipt is the confirmation outcome of a transaction.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Success     bool
}
