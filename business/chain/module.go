// Package chain implements the chain bounded context: keys, RPC sessions and gas guards.
package chain

import (
	"context"

	"github.com/fd1az/crosschain-cycler/business/chain/app"
	chainDI "github.com/fd1az/crosschain-cycler/business/chain/di"
	"github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/business/chain/infra/evm"
	"github.com/fd1az/crosschain-cycler/business/chain/infra/keystore"
	"github.com/fd1az/crosschain-cycler/internal/config"
	"github.com/fd1az/crosschain-cycler/internal/di"
	"github.com/fd1az/crosschain-cycler/internal/logger"
	"github.com/fd1az/crosschain-cycler/internal/monolith"
)

// Module implements the chain bounded context.
type Module struct{}

// RegisterServices registers all chain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, chainDI.KeySource, func(sr di.ServiceRegistry) app.KeySource {
		cfg := sr.Get("config").(*config.Config)

		if cfg.Accounts.Source == config.SourceVault {
			src, err := keystore.NewVaultSource(cfg.Vault)
			if err != nil {
				panic("failed to create vault key source: " + err.Error())
			}
			return src
		}
		return keystore.NewEnvSource(cfg.Accounts.PrivateKeys)
	})

	di.RegisterToken(c, chainDI.Accounts, func(sr di.ServiceRegistry) *app.AccountService {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewAccountService(chainDI.GetKeySource(sr), log)
	})

	di.RegisterToken(c, chainDI.Networks, func(sr di.ServiceRegistry) app.Networks {
		return app.NetworksFromConfig(sr.Get("config").(*config.Config))
	})

	di.RegisterToken(c, chainDI.BaseGasOracle, func(sr di.ServiceRegistry) *evm.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		return newGasOracle(sr, chainDI.GetNetworks(sr).Base, cfg.Networks.Base)
	})

	di.RegisterToken(c, chainDI.KiteGasOracle, func(sr di.ServiceRegistry) *evm.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		return newGasOracle(sr, chainDI.GetNetworks(sr).Kite, cfg.Networks.Kite)
	})

	// Resolved after Startup loaded the accounts, so the account count is known.
	di.RegisterToken(c, chainDI.SessionOpener, func(sr di.ServiceRegistry) app.SessionOpener {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		dcfg := evm.DialerConfig{
			Session:           evm.DefaultSessionConfig(),
			RequestTimeout:    cfg.RPC.Timeout,
			RequestsPerMinute: cfg.RPC.RequestsPerMinute,
		}
		if cfg.RPC.RotateUserAgents(len(chainDI.GetAccounts(sr).Accounts())) {
			dcfg.UserAgents = cfg.RPC.UserAgents
		}

		guards := map[string]app.GasOracle{
			domain.NetworkBase: chainDI.GetBaseGasOracle(sr),
			domain.NetworkKite: chainDI.GetKiteGasOracle(sr),
		}
		return evm.NewDialer(dcfg, guards, log)
	})

	return nil
}

func newGasOracle(sr di.ServiceRegistry, network domain.Network, ncfg config.NetworkConfig) *evm.GasOracle {
	log := sr.Get("logger").(logger.LoggerInterface)

	oracleCfg := evm.DefaultGasOracleConfig(network)
	if ncfg.GasCacheTTL > 0 {
		oracleCfg.CacheTTL = ncfg.GasCacheTTL
	}

	oracle, err := evm.NewGasOracle(oracleCfg, log)
	if err != nil {
		panic("failed to create gas oracle: " + err.Error())
	}
	return oracle
}

// Startup loads the accounts and connects the gas oracles. A key problem is
// returned as a configuration error and stops the process.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	sr := mono.Services()

	if _, err := chainDI.GetAccounts(sr).Load(ctx); err != nil {
		return err
	}

	for _, oracle := range []*evm.GasOracle{chainDI.GetBaseGasOracle(sr), chainDI.GetKiteGasOracle(sr)} {
		if err := oracle.Connect(ctx); err != nil {
			// don't fail: Check reports the problem per submission
			log.Error(ctx, "failed to connect gas oracle", "error", err)
		}
		mono.OnClose(oracle.Close)
	}

	log.Info(ctx, "chain module started")
	return nil
}
