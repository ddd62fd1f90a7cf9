package app

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/config"
)

func accounts(n int) []chaindomain.Account {
	out := make([]chaindomain.Account, n)
	for i := range out {
		out[i] = chaindomain.Account{Address: common.BigToAddress(big.NewInt(int64(i + 1)))}
	}
	return out
}

func TestSelector_Empty(t *testing.T) {
	_, err := NewSelector(config.SelectRandom, 0).Select(nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConfigurationError, apperror.GetCode(err))
}

func TestSelector_SingleAccountAlwaysReturned(t *testing.T) {
	accs := accounts(1)
	s := NewSelector(config.SelectRandom, 0)
	s.intn = func(int) int { panic("no draw expected for one account") }

	for i := 0; i < 5; i++ {
		got, err := s.Select(accs)
		require.NoError(t, err)
		assert.Equal(t, accs[0].Address, got.Address)
	}

	got, err := NewSelector(config.SelectFixed, 0).Select(accs)
	require.NoError(t, err)
	assert.Equal(t, accs[0].Address, got.Address)
}

func TestSelector_FixedIndexOutOfRangeWithOneAccount(t *testing.T) {
	_, err := NewSelector(config.SelectFixed, 7).Select(accounts(1))

	require.Error(t, err)
	assert.Equal(t, apperror.CodeConfigurationError, apperror.GetCode(err))
}

func TestSelector_Fixed(t *testing.T) {
	accs := accounts(3)

	got, err := NewSelector(config.SelectFixed, 2).Select(accs)
	require.NoError(t, err)
	assert.Equal(t, accs[2].Address, got.Address)

	_, err = NewSelector(config.SelectFixed, 3).Select(accs)
	assert.Equal(t, apperror.CodeConfigurationError, apperror.GetCode(err))
}

func TestSelector_RandomCoversAllAccounts(t *testing.T) {
	accs := accounts(3)
	s := NewSelector(config.SelectRandom, 0)

	seen := map[common.Address]int{}
	for i := 0; i < 3_000; i++ {
		got, err := s.Select(accs)
		require.NoError(t, err)
		seen[got.Address]++
	}

	require.Len(t, seen, 3)
	for addr, n := range seen {
		assert.Greater(t, n, 500, addr.Hex())
	}
}

func TestSelector_RandomUsesSource(t *testing.T) {
	accs := accounts(4)
	s := NewSelector(config.SelectRandom, 0)
	s.intn = func(n int) int { return n - 1 }

	got, err := s.Select(accs)
	require.NoError(t, err)
	assert.Equal(t, accs[3].Address, got.Address)
}
