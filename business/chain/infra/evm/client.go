// Package evm provides EVM JSON-RPC infrastructure adapters.
package evm

import (
	"context"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/fd1az/crosschain-cycler/internal/apperror"
)

const (
	tracerName = "github.com/fd1az/crosschain-cycler/business/chain/infra/evm"
	meterName  = "github.com/fd1az/crosschain-cycler/business/chain/infra/evm"
)

// Backend is the subset of *ethclient.Client the adapters use.
type Backend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}

var _ Backend = (*ethclient.Client)(nil)

// Dial connects to url using hc for every request, so the caller's
// transport decorators (tracing, rate limit, User-Agent) apply.
func Dial(ctx context.Context, url string, hc *http.Client) (*ethclient.Client, error) {
	opts := []rpc.ClientOption{}
	if hc != nil {
		opts = append(opts, rpc.WithHTTPClient(hc))
	}

	rc, err := rpc.DialOptions(ctx, url, opts...)
	if err != nil {
		return nil, apperror.External(apperror.CodeRPCConnectionFailed, "dial "+url, err)
	}

	return ethclient.NewClient(rc), nil
}
