// Package swap implements the swap bounded context: router quotes and instruction templates.
package swap

import (
	"context"

	"github.com/fd1az/crosschain-cycler/business/swap/app"
	swapDI "github.com/fd1az/crosschain-cycler/business/swap/di"
	"github.com/fd1az/crosschain-cycler/business/swap/infra/router"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/config"
	"github.com/fd1az/crosschain-cycler/internal/di"
	"github.com/fd1az/crosschain-cycler/internal/logger"
	"github.com/fd1az/crosschain-cycler/internal/monolith"
)

// Module implements the swap bounded context.
type Module struct{}

// RegisterServices registers all swap services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, swapDI.Router, func(sr di.ServiceRegistry) *router.Router {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		r, err := router.NewRouter(config.Address(cfg.Contracts.SwapRouterKite), log)
		if err != nil {
			panic("failed to create swap router: " + err.Error())
		}
		return r
	})

	di.RegisterToken(c, swapDI.Templates, func(sr di.ServiceRegistry) app.Templates {
		cfg := sr.Get("config").(*config.Config)

		t, err := app.LoadTemplates(cfg.Swap)
		if err != nil {
			panic("failed to load swap templates: " + err.Error())
		}
		return t
	})

	return nil
}

// Startup parses the templates eagerly so a bad template stops the process.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	if _, err := app.LoadTemplates(mono.Config().Swap); err != nil {
		return apperror.Configuration("swap templates", err)
	}

	r := swapDI.GetRouter(mono.Services())
	mono.Logger().Info(ctx, "swap module started", "router", r.Address().Hex())

	return nil
}

