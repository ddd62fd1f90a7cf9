package evm

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

func newTestOracle(t *testing.T, b *fakeBackend, ceiling *big.Int) *GasOracle {
	t.Helper()

	network := testNetwork
	network.MaxGasPrice = ceiling

	g, err := NewGasOracle(DefaultGasOracleConfig(network), logger.NewDiscard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })

	if b != nil {
		g.setClient(b)
	}
	return g
}

func TestGasOracle_CachesPrice(t *testing.T) {
	b := newFakeBackend()
	g := newTestOracle(t, b, nil)

	p1, err := g.GetGasPrice(context.Background())
	require.NoError(t, err)
	p2, err := g.GetGasPrice(context.Background())
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, b.gasPriceCalls)
	assert.InDelta(t, 1.5, p1.Gwei(), 1e-9)
}

func TestGasOracle_Check(t *testing.T) {
	t.Run("below ceiling", func(t *testing.T) {
		g := newTestOracle(t, newFakeBackend(), big.NewInt(2_000_000_000))
		assert.NoError(t, g.Check(context.Background()))
	})

	t.Run("above ceiling", func(t *testing.T) {
		g := newTestOracle(t, newFakeBackend(), big.NewInt(1_000_000_000))
		err := g.Check(context.Background())
		assert.Equal(t, apperror.CodeGasPriceTooHigh, apperror.GetCode(err))
	})

	t.Run("no ceiling never fetches", func(t *testing.T) {
		g := newTestOracle(t, nil, nil)
		assert.NoError(t, g.Check(context.Background()))
	})

	t.Run("fetch failure refuses", func(t *testing.T) {
		b := newFakeBackend()
		b.gasPriceErr = errors.New("503")
		g := newTestOracle(t, b, big.NewInt(1))
		assert.Equal(t, apperror.CodeRPCError, apperror.GetCode(g.Check(context.Background())))
	})
}

func TestGasOracle_HealthCheck(t *testing.T) {
	g := newTestOracle(t, nil, nil)
	ok, msg := g.HealthCheck()(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "not connected", msg)

	g.setClient(newFakeBackend())
	ok, _ = g.HealthCheck()(context.Background())
	assert.True(t, ok)
}

func TestGasPrice_Timestamp(t *testing.T) {
	p := domain.NewGasPrice(big.NewInt(1), time.Unix(10, 0))
	assert.Equal(t, int64(10), p.Timestamp.Unix())
}
