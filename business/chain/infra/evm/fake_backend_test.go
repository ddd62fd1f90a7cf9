package evm

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeBackend is an in-memory Backend.
type fakeBackend struct {
	mu sync.Mutex

	nonce    uint64
	baseFee  *big.Int
	tip      *big.Int
	gasPrice *big.Int
	estimate uint64

	estimateErr error
	sendErr     error
	gasPriceErr error
	callOut     []byte
	callErr     error

	// receipt returned once a tx was sent; nil keeps answering NotFound
	receiptStatus *uint64

	sent          []*types.Transaction
	gasPriceCalls int
	closed        bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nonce:    7,
		baseFee:  big.NewInt(1_000_000_000),
		tip:      big.NewInt(100_000_000),
		gasPrice: big.NewInt(1_500_000_000),
		estimate: 50_000,
	}
}

func status(s uint64) *uint64 { return &s }

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100), BaseFee: f.baseFee}, nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return f.tip, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gasPriceCalls++
	if f.gasPriceErr != nil {
		return nil, f.gasPriceErr
	}
	return f.gasPrice, nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return f.estimate, f.estimateErr
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	f.sent = append(f.sent, tx)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.receiptStatus == nil || len(f.sent) == 0 {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{
		Status:      *f.receiptStatus,
		TxHash:      hash,
		BlockNumber: big.NewInt(101),
		GasUsed:     42_000,
	}, nil
}

func (f *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return f.callOut, f.callErr
}

func (f *fakeBackend) Close() {
	f.closed = true
}
