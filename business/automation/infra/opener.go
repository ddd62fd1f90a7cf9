// Package infra contains infrastructure adapters for the automation context.
package infra

import (
	"context"
	"fmt"

	"github.com/fd1az/crosschain-cycler/business/automation/app"
	chainapp "github.com/fd1az/crosschain-cycler/business/chain/app"
	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/business/swap/infra/router"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

// AccountOpener dials both networks for one account and binds the swap
// router to the KITE session.
type AccountOpener struct {
	sessions chainapp.SessionOpener
	networks chainapp.Networks
	router   *router.Router
	logger   logger.LoggerInterface
}

var _ app.ContextOpener = (*AccountOpener)(nil)

// NewAccountOpener creates an AccountOpener.
func NewAccountOpener(sessions chainapp.SessionOpener, networks chainapp.Networks, r *router.Router, log logger.LoggerInterface) *AccountOpener {
	return &AccountOpener{
		sessions: sessions,
		networks: networks,
		router:   r,
		logger:   log,
	}
}

// Open returns a fresh AccountContext. Nothing stays open when it fails.
func (o *AccountOpener) Open(ctx context.Context, account chaindomain.Account) (*app.AccountContext, error) {
	base, err := o.sessions.Open(ctx, o.networks.Base, account)
	if err != nil {
		return nil, fmt.Errorf("open %s session: %w", o.networks.Base.Name, err)
	}

	kite, err := o.sessions.Open(ctx, o.networks.Kite, account)
	if err != nil {
		base.Close()
		return nil, fmt.Errorf("open %s session: %w", o.networks.Kite.Name, err)
	}

	o.logger.Debug(ctx, "account context opened",
		"account", account.Short(),
		"base", o.networks.Base.Name,
		"kite", o.networks.Kite.Name,
	)

	return &app.AccountContext{
		Account: account,
		Base:    base,
		Kite:    kite,
		Router:  o.router.For(kite),
	}, nil
}
