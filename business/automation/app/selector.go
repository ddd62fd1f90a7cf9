package app

import (
	"fmt"
	"math/rand/v2"

	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/config"
)

// Selector picks the account of the next cycle.
type Selector struct {
	mode  string
	index int
	intn  func(n int) int
}

// NewSelector creates a Selector for config.SelectRandom or config.SelectFixed.
// index is only used in fixed mode.
func NewSelector(mode string, index int) *Selector {
	return &Selector{mode: mode, index: index, intn: rand.IntN}
}

// Select returns one account. Random mode draws uniformly on every call with
// no memory of previous picks; a single account is always returned as is.
// In fixed mode the index must be valid whatever the number of accounts.
func (s *Selector) Select(accounts []chaindomain.Account) (chaindomain.Account, error) {
	if len(accounts) == 0 {
		return chaindomain.Account{}, apperror.New(apperror.CodeConfigurationError,
			apperror.WithMessage("No private keys found"))
	}

	if s.mode == config.SelectFixed {
		if s.index < 0 || s.index >= len(accounts) {
			return chaindomain.Account{}, apperror.New(apperror.CodeConfigurationError,
				apperror.WithContext(fmt.Sprintf("fixed_index %d out of range for %d accounts", s.index, len(accounts))))
		}
		return accounts[s.index], nil
	}

	if len(accounts) == 1 {
		return accounts[0], nil
	}
	return accounts[s.intn(len(accounts))], nil
}
