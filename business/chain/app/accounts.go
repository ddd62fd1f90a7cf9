package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

// AccountService turns configured keys into signing accounts.
type AccountService struct {
	source KeySource
	logger logger.LoggerInterface

	mu       sync.RWMutex
	accounts []domain.Account
}

// NewAccountService creates a new AccountService.
func NewAccountService(source KeySource, log logger.LoggerInterface) *AccountService {
	return &AccountService{source: source, logger: log}
}

// Load reads and parses every key. No keys, or any unparsable key, is a
// configuration error and must stop the process before the loop starts.
func (s *AccountService) Load(ctx context.Context) ([]domain.Account, error) {
	keys, err := s.source.Keys(ctx)
	if err != nil {
		return nil, apperror.Configuration("read private keys from "+s.source.Name(), err)
	}
	if len(keys) == 0 {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithMessage("No private keys found"),
			apperror.WithContext("source "+s.source.Name()),
			apperror.WithCause(apperror.New(apperror.CodeNoCredentials)))
	}

	accounts := make([]domain.Account, 0, len(keys))
	for i, k := range keys {
		acc, err := domain.ParseAccount(k)
		if err != nil {
			// never log the key itself
			return nil, apperror.Configuration(fmt.Sprintf("private key #%d", i+1),
				apperror.New(apperror.CodeInvalidKey, apperror.WithCause(err)))
		}
		accounts = append(accounts, acc)
	}

	s.mu.Lock()
	s.accounts = accounts
	s.mu.Unlock()

	s.logger.Info(ctx, "accounts loaded",
		"source", s.source.Name(),
		"count", len(accounts),
	)

	return accounts, nil
}

// Accounts returns the accounts of the last successful Load.
func (s *AccountService) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Account(nil), s.accounts...)
}
