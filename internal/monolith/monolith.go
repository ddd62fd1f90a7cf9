// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/crosschain-cycler/internal/asset"
	"github.com/fd1az/crosschain-cycler/internal/config"
	"github.com/fd1az/crosschain-cycler/internal/di"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

// Registry keys for the shared services.
const (
	ConfigKey = "config"
	LoggerKey = "logger"
	AssetsKey = "assets"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	Assets() *asset.NetworkAssets
	Services() di.ServiceRegistry
	// OnClose registers fn to run when the container closes, last registered first.
	OnClose(fn func() error)
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

type app struct {
	config    *config.Config
	logger    logger.LoggerInterface
	assets    *asset.NetworkAssets
	container di.Container
	closers   []func() error
}

// New creates the container. Per-account RPC clients are not created here;
// they belong to each cycle.
func New(cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	assets, err := asset.NewNetworkAssets(
		cfg.Networks.Base.ChainID,
		cfg.Networks.Kite.ChainID,
		asset.NetworkAddresses{
			USDTTokenKite:       common.HexToAddress(cfg.Contracts.USDTTokenKite),
			WKITEKite:           common.HexToAddress(cfg.Contracts.WKITEKite),
			ETHBridgeKite:       common.HexToAddress(cfg.Contracts.ETHBridgeKite),
			KiteTokenBridgeBase: common.HexToAddress(cfg.Contracts.KiteTokenBridgeBase),
			USDTBridgeBase:      common.HexToAddress(cfg.Contracts.USDTBridgeBase),
		},
		cfg.Amounts.KiteDecimals,
		cfg.Amounts.USDTDecimals,
	)
	if err != nil {
		return nil, fmt.Errorf("build assets: %w", err)
	}

	container := di.NewContainer()
	container.Register(ConfigKey, cfg)
	container.Register(LoggerKey, log)
	container.Register(AssetsKey, assets)

	return &app{
		config:    cfg,
		logger:    log,
		assets:    assets,
		container: container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) Assets() *asset.NetworkAssets {
	return a.assets
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

func (a *app) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close runs registered closers in reverse order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
