package app

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	chainapp "github.com/fd1az/crosschain-cycler/business/chain/app"
	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	swapapp "github.com/fd1az/crosschain-cycler/business/swap/app"
	swapdomain "github.com/fd1az/crosschain-cycler/business/swap/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/asset"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

// Step names, in default execution order.
const (
	StepBridgeETHBaseToKite  = "bridge_eth_base_to_kite"
	StepBridgeETHKiteToBase  = "bridge_eth_kite_to_base"
	StepBridgeKiteKiteToBase = "bridge_kite_kite_to_base"
	StepBridgeKiteBaseToKite = "bridge_kite_base_to_kite"
	StepBridgeUSDTKiteToBase = "bridge_usdt_kite_to_base"
	StepBridgeUSDTBaseToKite = "bridge_usdt_base_to_kite"
	StepSwapUSDTToKite       = "swap_usdt_to_kite"
	StepSwapKiteToUSDT       = "swap_kite_to_usdt"
)

// Contracts are the fixed addresses the steps talk to.
type Contracts struct {
	ETHBridgeBase       common.Address
	ETHBridgeKite       common.Address
	KiteTokenBridgeBase common.Address
	KiteTokenBridgeKite common.Address
	USDTTokenKite       common.Address
	USDTBridgeKite      common.Address
	USDTBridgeBase      common.Address
	SwapRouterKite      common.Address
	WKITEKite           common.Address
}

// AmountRanges are the draw ranges per asset.
type AmountRanges struct {
	ETH       domain.Range
	KiteToken domain.Range
	USDT      domain.Range
	SwapKite  domain.Range
	SwapUSDT  domain.Range
}

// CatalogConfig selects and parameterizes the steps.
type CatalogConfig struct {
	Steps     []string
	Decimals  int32 // formatting precision of drawn amounts
	Amounts   AmountRanges
	Contracts Contracts
	Assets    *asset.NetworkAssets
	Templates swapapp.Templates
}

type stepSpec struct {
	title    string
	from, to string
	amount   func(AmountRanges) domain.Range
	asset    func(*asset.NetworkAssets) *asset.Asset
	build    func(c *Catalog, actx *AccountContext, n int, label string, a *asset.Asset) domain.StepFunc
}

var catalog = map[string]stepSpec{
	StepBridgeETHBaseToKite: {
		title: "Bridge ETH (Base -> KITE)", from: chaindomain.NetworkBase, to: chaindomain.NetworkKite,
		amount: func(r AmountRanges) domain.Range { return r.ETH },
		asset:  func(a *asset.NetworkAssets) *asset.Asset { return a.BaseETH },
		build: func(c *Catalog, actx *AccountContext, _ int, label string, a *asset.Asset) domain.StepFunc {
			return c.bridge(actx, actx.Base, actx.Kite, c.config.Contracts.ETHBridgeBase, true, label, a)
		},
	},
	StepBridgeETHKiteToBase: {
		title: "Bridge ETH (KITE -> Base)", from: chaindomain.NetworkKite, to: chaindomain.NetworkBase,
		amount: func(r AmountRanges) domain.Range { return r.ETH },
		asset:  func(a *asset.NetworkAssets) *asset.Asset { return a.KiteETH },
		build: func(c *Catalog, actx *AccountContext, _ int, label string, a *asset.Asset) domain.StepFunc {
			return c.bridge(actx, actx.Kite, actx.Base, c.config.Contracts.ETHBridgeKite, false, label, a)
		},
	},
	StepBridgeKiteKiteToBase: {
		title: "Bridge KITE Token (KITE -> Base)", from: chaindomain.NetworkKite, to: chaindomain.NetworkBase,
		amount: func(r AmountRanges) domain.Range { return r.KiteToken },
		asset:  func(a *asset.NetworkAssets) *asset.Asset { return a.KiteKITE },
		build: func(c *Catalog, actx *AccountContext, _ int, label string, a *asset.Asset) domain.StepFunc {
			return c.bridge(actx, actx.Kite, actx.Base, c.config.Contracts.KiteTokenBridgeKite, true, label, a)
		},
	},
	StepBridgeKiteBaseToKite: {
		title: "Bridge KITE Token (Base -> KITE)", from: chaindomain.NetworkBase, to: chaindomain.NetworkKite,
		amount: func(r AmountRanges) domain.Range { return r.KiteToken },
		asset:  func(a *asset.NetworkAssets) *asset.Asset { return a.BaseKITE },
		build: func(c *Catalog, actx *AccountContext, _ int, label string, a *asset.Asset) domain.StepFunc {
			send := c.bridge(actx, actx.Base, actx.Kite, c.config.Contracts.KiteTokenBridgeBase, false, label, a)
			return func(ctx context.Context, amount string) domain.StepOutcome {
				c.logger.Warn(ctx, "This step requires a one-time manual 'approve' transaction on Base Sepolia.")
				return send(ctx, amount)
			}
		},
	},
	StepBridgeUSDTKiteToBase: {
		title: "Bridge USDT (KITE -> Base)", from: chaindomain.NetworkKite, to: chaindomain.NetworkBase,
		amount: func(r AmountRanges) domain.Range { return r.USDT },
		asset:  func(a *asset.NetworkAssets) *asset.Asset { return a.KiteUSDT },
		build:  (*Catalog).approveAndBridgeUSDT,
	},
	StepBridgeUSDTBaseToKite: {
		title: "Bridge USDT (Base -> KITE)", from: chaindomain.NetworkBase, to: chaindomain.NetworkKite,
		amount: func(r AmountRanges) domain.Range { return r.USDT },
		asset:  func(a *asset.NetworkAssets) *asset.Asset { return a.BaseUSDT },
		build: func(c *Catalog, actx *AccountContext, _ int, label string, a *asset.Asset) domain.StepFunc {
			return c.bridge(actx, actx.Base, actx.Kite, c.config.Contracts.USDTBridgeBase, false, label, a)
		},
	},
	StepSwapUSDTToKite: {
		title: "Swap USDT -> KITE", from: chaindomain.NetworkKite, to: chaindomain.NetworkKite,
		amount: func(r AmountRanges) domain.Range { return r.SwapUSDT },
		asset:  func(a *asset.NetworkAssets) *asset.Asset { return a.KiteUSDT },
		build:  (*Catalog).swapUSDTToKite,
	},
	StepSwapKiteToUSDT: {
		title: "Swap KITE -> USDT", from: chaindomain.NetworkKite, to: chaindomain.NetworkKite,
		amount: func(r AmountRanges) domain.Range { return r.SwapKite },
		asset:  func(a *asset.NetworkAssets) *asset.Asset { return a.KiteWKITE },
		build:  (*Catalog).swapKiteToUSDT,
	},
}

// Catalog turns configured step names into runnable steps for one account.
type Catalog struct {
	config CatalogConfig
	runner *Runner
	logger logger.LoggerInterface
}

var _ StepBuilder = (*Catalog)(nil)

// ValidateSteps checks that names is non-empty and every name is a known step.
func ValidateSteps(names []string) error {
	if len(names) == 0 {
		return apperror.Configuration("automation.steps", fmt.Errorf("no steps enabled"))
	}
	for _, name := range names {
		if _, ok := catalog[name]; !ok {
			return apperror.Configuration("automation.steps", fmt.Errorf("unknown step %q", name))
		}
	}
	return nil
}

// NewCatalog validates the step list and creates a Catalog.
func NewCatalog(cfg CatalogConfig, runner *Runner, log logger.LoggerInterface) (*Catalog, error) {
	if err := ValidateSteps(cfg.Steps); err != nil {
		return nil, err
	}
	if cfg.Assets == nil {
		return nil, apperror.Configuration("catalog", fmt.Errorf("assets are required"))
	}
	return &Catalog{config: cfg, runner: runner, logger: log}, nil
}

// Build returns the enabled steps bound to actx, labelled "Step i/N: ...".
func (c *Catalog) Build(actx *AccountContext) ([]domain.StepDefinition, error) {
	total := len(c.config.Steps)
	steps := make([]domain.StepDefinition, 0, total)

	for i, name := range c.config.Steps {
		entry, ok := catalog[name]
		if !ok {
			return nil, fmt.Errorf("unknown step %q", name)
		}

		n := i + 1
		label := fmt.Sprintf("Step %d/%d: %s", n, total, entry.title)
		a := entry.asset(c.config.Assets)

		steps = append(steps, domain.StepDefinition{
			Name:     name,
			Label:    label,
			From:     entry.from,
			To:       entry.to,
			Amount:   entry.amount(c.config.Amounts),
			Decimals: min(c.config.Decimals, a.Decimals()),
			Asset:    a,
			Run:      entry.build(c, actx, n, label, a),
		})
	}

	return steps, nil
}

func transact(t chainapp.Transactor, call chaindomain.Call) PendingCall {
	return func(ctx context.Context) (chainapp.Pending, error) {
		return t.Transact(ctx, call)
	}
}

func units(a *asset.Asset, amount string) (*big.Int, error) {
	m, err := asset.ParseString(a, amount)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidAmount, apperror.WithCause(err), apperror.WithContext(amount+" "+a.Symbol()))
	}
	return m.Raw(), nil
}

// dependencyFailed reports a composite step whose prerequisite failed.
func dependencyFailed(amount, what string, pre domain.StepOutcome) domain.StepOutcome {
	return domain.StepOutcome{
		Amount: amount,
		TxHash: pre.TxHash,
		Error:  fmt.Sprintf("%s failed: %s", what, pre.Error),
		Code:   apperror.CodeDependencyFailed,
	}
}

// bridge sends amount through bridge on src towards dst's chain, to the same account.
func (c *Catalog) bridge(actx *AccountContext, src, dst chainapp.Transactor, bridge common.Address, native bool, label string, a *asset.Asset) domain.StepFunc {
	return func(ctx context.Context, amount string) domain.StepOutcome {
		raw, err := units(a, amount)
		if err != nil {
			return domain.Failed(amount, err)
		}
		call := chaindomain.BridgeSend(bridge, dst.Network().ChainID, actx.Account.Address, raw, native)
		return c.runner.RunOutcome(ctx, label, transact(src, call), amount)
	}
}

func (c *Catalog) approveAndBridgeUSDT(actx *AccountContext, n int, label string, a *asset.Asset) domain.StepFunc {
	ct := c.config.Contracts
	return func(ctx context.Context, amount string) domain.StepOutcome {
		raw, err := units(a, amount)
		if err != nil {
			return domain.Failed(amount, err)
		}
		c.logger.Info(ctx, fmt.Sprintf("--- [%s | Amount: %s] ---", label, amount))

		approve := chaindomain.Approve(ct.USDTTokenKite, ct.USDTBridgeKite, raw)
		pre := c.runner.RunOutcome(ctx, fmt.Sprintf("%da: Approve USDT on KITE", n), transact(actx.Kite, approve), "")
		if !pre.Success {
			return dependencyFailed(amount, "approve USDT on KITE", pre)
		}

		send := chaindomain.BridgeSend(ct.USDTBridgeKite, actx.Base.Network().ChainID, actx.Account.Address, raw, false)
		out := c.runner.RunOutcome(ctx, fmt.Sprintf("%db: Send USDT to Bridge on KITE", n), transact(actx.Kite, send), "")
		out.Amount = amount
		return out
	}
}

func (c *Catalog) swapUSDTToKite(actx *AccountContext, n int, label string, a *asset.Asset) domain.StepFunc {
	ct := c.config.Contracts
	return func(ctx context.Context, amount string) domain.StepOutcome {
		raw, err := units(a, amount)
		if err != nil {
			return domain.Failed(amount, err)
		}
		c.logger.Info(ctx, fmt.Sprintf("--- [%s | Amount: %s] ---", label, amount))

		approve := chaindomain.Approve(ct.USDTTokenKite, ct.SwapRouterKite, raw)
		pre := c.runner.RunOutcome(ctx, fmt.Sprintf("%da: Approve USDT for router on KITE", n), transact(actx.Kite, approve), "")
		if !pre.Success {
			return dependencyFailed(amount, "approve USDT for router", pre)
		}

		return c.swap(ctx, actx, n, amount, raw, ct.USDTTokenKite, ct.WKITEKite, c.config.Templates.USDTToKite, nil)
	}
}

func (c *Catalog) swapKiteToUSDT(actx *AccountContext, n int, label string, a *asset.Asset) domain.StepFunc {
	ct := c.config.Contracts
	return func(ctx context.Context, amount string) domain.StepOutcome {
		raw, err := units(a, amount)
		if err != nil {
			return domain.Failed(amount, err)
		}
		c.logger.Info(ctx, fmt.Sprintf("--- [%s | Amount: %s] ---", label, amount))

		// KITE goes in as native value and is wrapped by the router
		return c.swap(ctx, actx, n, amount, raw, ct.WKITEKite, ct.USDTTokenKite, c.config.Templates.KiteToUSDT, raw)
	}
}

// swap resolves a fresh route and submits initiate. Without a route nothing
// is submitted.
func (c *Catalog) swap(ctx context.Context, actx *AccountContext, n int, amount string, raw *big.Int, tokenIn, tokenOut common.Address, tmpl swapdomain.Instructions, value *big.Int) domain.StepOutcome {
	trade, err := actx.Router.ResolveTrade(ctx, raw, tokenIn, tokenOut, []common.Address{tokenIn, tokenOut})
	if err != nil {
		if !apperror.HasCode(err, apperror.CodeRouteResolutionFailed) {
			err = apperror.New(apperror.CodeRouteResolutionFailed,
				apperror.WithCause(err),
				apperror.WithContext("resolve trade"))
		}
		c.logger.Error(ctx, "Route resolution failed, swap not submitted",
			"step", n,
			"code", apperror.GetCode(err),
			"error", err.Error(),
		)
		return domain.Failed(amount, err)
	}
	c.logger.Debug(ctx, "trade resolved", "bytes", len(trade))

	call := actx.Router.Initiate(tokenIn, raw, tmpl.WithTrade(trade), value)
	out := c.runner.RunOutcome(ctx, fmt.Sprintf("%db: Initiate swap on KITE", n), transact(actx.Kite, call), "")
	out.Amount = amount
	return out
}
