package domain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeSend_Pack(t *testing.T) {
	bridge := common.HexToAddress("0x226D7950D4d304e749b0015Ccd3e2c7a4979bB7b")
	to := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	amount := big.NewInt(1_000_000)

	call := BridgeSend(bridge, big.NewInt(2368), to, amount, true)
	data, err := call.Pack()
	require.NoError(t, err)

	// selector + three 32-byte words
	require.Len(t, data, 4+3*32)
	assert.Equal(t, BridgeABI.Methods["send"].ID, data[:4])
	assert.Equal(t, big.NewInt(2368), new(big.Int).SetBytes(data[4:36]))
	assert.Equal(t, amount, call.NativeValue())
}

func TestBridgeSend_TokenBridgeHasNoValue(t *testing.T) {
	call := BridgeSend(common.Address{1}, big.NewInt(84532), common.Address{2}, big.NewInt(5), false)
	assert.Zero(t, call.NativeValue().Sign())
}

func TestApprove_Pack(t *testing.T) {
	call := Approve(common.Address{1}, common.Address{2}, big.NewInt(10))
	data, err := call.Pack()
	require.NoError(t, err)
	assert.Equal(t, "0x095ea7b3", hexutil.Encode(data[:4]))
}
