// Package domain contains the swap instruction model.
package domain

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/fd1az/crosschain-cycler/internal/config"
)

// ActionSwap marks a hop whose trade bytes come from a fresh route quote.
const ActionSwap uint8 = 3

// BridgePath is the cross-chain leg of a hop.
type BridgePath struct {
	BridgeSourceChain       common.Address `abi:"bridgeSourceChain"`
	SourceBridgeIsNative    bool           `abi:"sourceBridgeIsNative"`
	BridgeDestinationChain  common.Address `abi:"bridgeDestinationChain"`
	CellDestinationChain    common.Address `abi:"cellDestinationChain"`
	DestinationBlockchainID [32]byte       `abi:"destinationBlockchainID"`
	TeleporterFee           *big.Int       `abi:"teleporterFee"`
	SecondaryTeleporterFee  *big.Int       `abi:"secondaryTeleporterFee"`
}

// Hop is one router step.
type Hop struct {
	Action            uint8      `abi:"action"`
	RequiredGasLimit  *big.Int   `abi:"requiredGasLimit"`
	RecipientGasLimit *big.Int   `abi:"recipientGasLimit"`
	Trade             []byte     `abi:"trade"`
	BridgePath        BridgePath `abi:"bridgePath"`
}

// Instructions is the payload of router initiate(). Values loaded from
// configuration are templates; use WithTrade to get a submittable copy.
type Instructions struct {
	SourceID              *big.Int       `abi:"sourceId"`
	Receiver              common.Address `abi:"receiver"`
	PayableReceiver       bool           `abi:"payableReceiver"`
	RollbackReceiver      common.Address `abi:"rollbackReceiver"`
	RollbackTeleporterFee *big.Int       `abi:"rollbackTeleporterFee"`
	RollbackGasLimit      *big.Int       `abi:"rollbackGasLimit"`
	Hops                  []Hop          `abi:"hops"`
}

// WithTrade returns a deep copy with trade substituted into every swap hop.
// The receiver is left untouched.
func (in Instructions) WithTrade(trade []byte) Instructions {
	out := Instructions{
		SourceID:              cloneInt(in.SourceID),
		Receiver:              in.Receiver,
		PayableReceiver:       in.PayableReceiver,
		RollbackReceiver:      in.RollbackReceiver,
		RollbackTeleporterFee: cloneInt(in.RollbackTeleporterFee),
		RollbackGasLimit:      cloneInt(in.RollbackGasLimit),
		Hops:                  make([]Hop, len(in.Hops)),
	}

	for i, h := range in.Hops {
		hop := Hop{
			Action:            h.Action,
			RequiredGasLimit:  cloneInt(h.RequiredGasLimit),
			RecipientGasLimit: cloneInt(h.RecipientGasLimit),
			Trade:             bytes.Clone(h.Trade),
			BridgePath:        h.BridgePath,
		}
		hop.BridgePath.TeleporterFee = cloneInt(h.BridgePath.TeleporterFee)
		hop.BridgePath.SecondaryTeleporterFee = cloneInt(h.BridgePath.SecondaryTeleporterFee)
		if h.Action == ActionSwap {
			hop.Trade = bytes.Clone(trade)
		}
		out.Hops[i] = hop
	}

	return out
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// FromConfig parses a configured template.
func FromConfig(c config.InstructionsConfig) (Instructions, error) {
	var firstErr error
	num := func(name, s string) *big.Int {
		n, err := config.ParseUint(s)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", name, err)
			}
			return new(big.Int)
		}
		return n
	}

	in := Instructions{
		SourceID:              num("source_id", c.SourceID),
		Receiver:              common.HexToAddress(c.Receiver),
		PayableReceiver:       c.PayableReceiver,
		RollbackReceiver:      common.HexToAddress(c.RollbackReceiver),
		RollbackTeleporterFee: num("rollback_teleporter_fee", c.RollbackTeleporterFee),
		RollbackGasLimit:      num("rollback_gas_limit", c.RollbackGasLimit),
	}

	for i, h := range c.Hops {
		var trade []byte
		if h.Trade != "" {
			b, err := hexutil.Decode(h.Trade)
			if err != nil {
				return Instructions{}, fmt.Errorf("hops[%d].trade: %w", i, err)
			}
			trade = b
		}

		id, err := hexutil.Decode(h.BridgePath.DestinationBlockchainID)
		if err != nil || len(id) != 32 {
			return Instructions{}, fmt.Errorf("hops[%d].destination_blockchain_id: want 32 bytes", i)
		}

		bp := h.BridgePath
		in.Hops = append(in.Hops, Hop{
			Action:            h.Action,
			RequiredGasLimit:  num("required_gas_limit", h.RequiredGasLimit),
			RecipientGasLimit: num("recipient_gas_limit", h.RecipientGasLimit),
			Trade:             trade,
			BridgePath: BridgePath{
				BridgeSourceChain:       common.HexToAddress(bp.BridgeSourceChain),
				SourceBridgeIsNative:    bp.SourceBridgeIsNative,
				BridgeDestinationChain:  common.HexToAddress(bp.BridgeDestinationChain),
				CellDestinationChain:    common.HexToAddress(bp.CellDestinationChain),
				DestinationBlockchainID: common.BytesToHash(id),
				TeleporterFee:           num("teleporter_fee", bp.TeleporterFee),
				SecondaryTeleporterFee:  num("secondary_teleporter_fee", bp.SecondaryTeleporterFee),
			},
		})
	}

	if firstErr != nil {
		return Instructions{}, firstErr
	}
	return in, nil
}
