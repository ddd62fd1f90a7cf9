// Package router adapts the KITE swap router contract.
package router

import (
	"github.com/ethereum/go-ethereum/accounts/abi"

	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
)

const (
	tracerName = "github.com/fd1az/crosschain-cycler/business/swap/infra/router"
	meterName  = "github.com/fd1az/crosschain-cycler/business/swap/infra/router"
)

const bridgePathComponents = `[
	{"name": "bridgeSourceChain", "type": "address"},
	{"name": "sourceBridgeIsNative", "type": "bool"},
	{"name": "bridgeDestinationChain", "type": "address"},
	{"name": "cellDestinationChain", "type": "address"},
	{"name": "destinationBlockchainID", "type": "bytes32"},
	{"name": "teleporterFee", "type": "uint256"},
	{"name": "secondaryTeleporterFee", "type": "uint256"}
]`

const routerABIJSON = `[
{
	"type": "function",
	"name": "route",
	"stateMutability": "view",
	"inputs": [
		{"name": "amountIn", "type": "uint256"},
		{"name": "tokenIn", "type": "address"},
		{"name": "tokenOut", "type": "address"},
		{"name": "data", "type": "bytes"}
	],
	"outputs": [{"name": "trade", "type": "bytes"}]
},
{
	"type": "function",
	"name": "initiate",
	"stateMutability": "payable",
	"inputs": [
		{"name": "token", "type": "address"},
		{"name": "amount", "type": "uint256"},
		{"name": "instructions", "type": "tuple", "components": [
			{"name": "sourceId", "type": "uint256"},
			{"name": "receiver", "type": "address"},
			{"name": "payableReceiver", "type": "bool"},
			{"name": "rollbackReceiver", "type": "address"},
			{"name": "rollbackTeleporterFee", "type": "uint256"},
			{"name": "rollbackGasLimit", "type": "uint256"},
			{"name": "hops", "type": "tuple[]", "components": [
				{"name": "action", "type": "uint8"},
				{"name": "requiredGasLimit", "type": "uint256"},
				{"name": "recipientGasLimit", "type": "uint256"},
				{"name": "trade", "type": "bytes"},
				{"name": "bridgePath", "type": "tuple", "components": ` + bridgePathComponents + `}
			]}
		]}
	],
	"outputs": []
}
]`

// RouterABI is the subset of the router interface the cycler calls.
var RouterABI = chaindomain.MustParseABI(routerABIJSON)

var pathArgs = abi.Arguments{{Type: mustType("address[]")}}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}
