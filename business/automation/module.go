// Package automation implements the automation bounded context: the step
// catalog, the orchestrator and the cycle loop.
package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/fd1az/crosschain-cycler/business/automation/app"
	automationDI "github.com/fd1az/crosschain-cycler/business/automation/di"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	"github.com/fd1az/crosschain-cycler/business/automation/infra"
	"github.com/fd1az/crosschain-cycler/business/automation/infra/journal"
	chainDI "github.com/fd1az/crosschain-cycler/business/chain/di"
	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	swapDI "github.com/fd1az/crosschain-cycler/business/swap/di"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/asset"
	"github.com/fd1az/crosschain-cycler/internal/config"
	"github.com/fd1az/crosschain-cycler/internal/di"
	"github.com/fd1az/crosschain-cycler/internal/health"
	"github.com/fd1az/crosschain-cycler/internal/logger"
	"github.com/fd1az/crosschain-cycler/internal/monolith"
)

// Module implements the automation bounded context.
type Module struct{}

// RegisterServices registers all automation services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, automationDI.Heartbeat, func(di.ServiceRegistry) *health.Heartbeat {
		return health.NewHeartbeat()
	})

	di.RegisterToken(c, automationDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		if cfg.App.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter()
	})

	di.RegisterToken(c, automationDI.RedisJournal, func(sr di.ServiceRegistry) *journal.RedisJournal {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if !cfg.Journal.Redis.Enabled {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		j, err := journal.NewRedisJournal(ctx, cfg.Journal.Redis)
		if err != nil {
			// journal problems are never fatal; the log journal still runs
			log.Warn(ctx, "redis journal disabled", "addr", cfg.Journal.Redis.Addr, "error", err)
			return nil
		}
		return j
	})

	di.RegisterToken(c, automationDI.Journal, func(sr di.ServiceRegistry) app.Journal {
		log := sr.Get("logger").(logger.LoggerInterface)

		sinks := journal.Multi{journal.NewLogJournal(log)}
		if rj := automationDI.GetRedisJournal(sr); rj != nil {
			sinks = append(sinks, rj)
		}
		return sinks
	})

	di.RegisterToken(c, automationDI.Scheduler, func(sr di.ServiceRegistry) *app.Scheduler {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewScheduler(app.TimerSleeper{}, automationDI.GetReporter(sr), log)
	})

	di.RegisterToken(c, automationDI.Orchestrator, func(sr di.ServiceRegistry) *app.Orchestrator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		policy, err := domain.ParsePolicy(cfg.Automation.FailurePolicy)
		if err != nil {
			panic("invalid failure policy: " + err.Error())
		}
		stepDelay, err := domain.RangeFromConfig(cfg.Automation.StepDelay)
		if err != nil {
			panic("invalid step delay: " + err.Error())
		}

		o, err := app.NewOrchestrator(
			app.OrchestratorConfig{Policy: policy, StepDelay: stepDelay},
			app.NewRandomizer(nil),
			automationDI.GetScheduler(sr),
			automationDI.GetReporter(sr),
			log,
		)
		if err != nil {
			panic("failed to create orchestrator: " + err.Error())
		}
		return o
	})

	di.RegisterToken(c, automationDI.Catalog, func(sr di.ServiceRegistry) *app.Catalog {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		assets := sr.Get("assets").(*asset.NetworkAssets)

		ccfg, err := catalogConfig(cfg, assets)
		if err != nil {
			panic("invalid amount ranges: " + err.Error())
		}
		ccfg.Templates = swapDI.GetTemplates(sr)

		runner := app.NewRunner(app.RunnerConfig{
			SubmitTimeout:  cfg.Automation.SubmitTimeout,
			ConfirmTimeout: cfg.Automation.ConfirmTimeout,
		}, log)

		catalog, err := app.NewCatalog(ccfg, runner, log)
		if err != nil {
			panic("failed to create step catalog: " + err.Error())
		}
		return catalog
	})

	di.RegisterToken(c, automationDI.Opener, func(sr di.ServiceRegistry) app.ContextOpener {
		log := sr.Get("logger").(logger.LoggerInterface)
		return infra.NewAccountOpener(
			chainDI.GetSessionOpener(sr),
			chainDI.GetNetworks(sr),
			swapDI.GetRouter(sr),
			log,
		)
	})

	di.RegisterToken(c, automationDI.CycleLoop, func(sr di.ServiceRegistry) *app.CycleLoop {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		cycleDelay, err := domain.RangeFromConfig(cfg.Automation.CycleDelay)
		if err != nil {
			panic("invalid cycle delay: " + err.Error())
		}

		accounts := chainDI.GetAccounts(sr)
		hb := automationDI.GetHeartbeat(sr)

		loop, err := app.NewCycleLoop(app.CycleConfig{CycleDelay: cycleDelay}, app.CycleDeps{
			Accounts:     func() []chaindomain.Account { return accounts.Accounts() },
			Selector:     app.NewSelector(cfg.Accounts.Selection, cfg.Accounts.FixedIndex),
			Opener:       automationDI.GetOpener(sr),
			Builder:      automationDI.GetCatalog(sr),
			Orchestrator: automationDI.GetOrchestrator(sr),
			Scheduler:    automationDI.GetScheduler(sr),
			Journal:      automationDI.GetJournal(sr),
			Reporter:     automationDI.GetReporter(sr),
			Heartbeat:    hb.Beat,
		}, log)
		if err != nil {
			panic("failed to create cycle loop: " + err.Error())
		}
		return loop
	})

	return nil
}

func catalogConfig(cfg *config.Config, assets *asset.NetworkAssets) (app.CatalogConfig, error) {
	var amounts app.AmountRanges
	for _, r := range []struct {
		key string
		in  config.RangeConfig
		out *domain.Range
	}{
		{"amounts.eth", cfg.Amounts.ETH, &amounts.ETH},
		{"amounts.kite_token", cfg.Amounts.KiteToken, &amounts.KiteToken},
		{"amounts.usdt", cfg.Amounts.USDT, &amounts.USDT},
		{"amounts.swap_kite", cfg.Amounts.SwapKite, &amounts.SwapKite},
		{"amounts.swap_usdt", cfg.Amounts.SwapUSDT, &amounts.SwapUSDT},
	} {
		rng, err := domain.RangeFromConfig(r.in)
		if err != nil {
			return app.CatalogConfig{}, fmt.Errorf("%s: %w", r.key, err)
		}
		*r.out = rng
	}

	c := cfg.Contracts
	return app.CatalogConfig{
		Steps:    cfg.Automation.Steps,
		Decimals: cfg.Automation.AmountDecimals,
		Amounts:  amounts,
		Contracts: app.Contracts{
			ETHBridgeBase:       config.Address(c.ETHBridgeBase),
			ETHBridgeKite:       config.Address(c.ETHBridgeKite),
			KiteTokenBridgeBase: config.Address(c.KiteTokenBridgeBase),
			KiteTokenBridgeKite: config.Address(c.KiteTokenBridgeKite),
			USDTTokenKite:       config.Address(c.USDTTokenKite),
			USDTBridgeKite:      config.Address(c.USDTBridgeKite),
			USDTBridgeBase:      config.Address(c.USDTBridgeBase),
			SwapRouterKite:      config.Address(c.SwapRouterKite),
			WKITEKite:           config.Address(c.WKITEKite),
		},
		Assets: assets,
	}, nil
}

// Startup validates the automation settings and builds the cycle loop so a
// bad configuration stops the process before the first cycle.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	sr := mono.Services()

	if _, err := domain.ParsePolicy(cfg.Automation.FailurePolicy); err != nil {
		return apperror.Configuration("automation.failure_policy", err)
	}
	if err := app.ValidateSteps(cfg.Automation.Steps); err != nil {
		return err
	}
	for key, r := range map[string]config.RangeConfig{
		"automation.step_delay_minutes":  cfg.Automation.StepDelay,
		"automation.cycle_delay_minutes": cfg.Automation.CycleDelay,
	} {
		if _, err := domain.RangeFromConfig(r); err != nil {
			return apperror.Configuration(key, err)
		}
	}
	if _, err := catalogConfig(cfg, mono.Assets()); err != nil {
		return apperror.Configuration("amounts", err)
	}

	if rj := automationDI.GetRedisJournal(sr); rj != nil {
		mono.OnClose(rj.Close)
	}

	automationDI.GetCycleLoop(sr)

	mono.Logger().Info(ctx, "automation module started",
		"steps", len(cfg.Automation.Steps),
		"policy", cfg.Automation.FailurePolicy,
		"selection", cfg.Accounts.Selection,
	)
	return nil
}
