package app

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chainapp "github.com/fd1az/crosschain-cycler/business/chain/app"
	chaindomain "github.com/fd1az/crosschain-cycler/business/chain/domain"
	"github.com/fd1az/crosschain-cycler/business/automation/domain"
	swapapp "github.com/fd1az/crosschain-cycler/business/swap/app"
	swapdomain "github.com/fd1az/crosschain-cycler/business/swap/domain"
	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/asset"
	"github.com/fd1az/crosschain-cycler/internal/logger"
)

var allSteps = []string{
	StepBridgeETHBaseToKite,
	StepBridgeETHKiteToBase,
	StepBridgeKiteKiteToBase,
	StepBridgeKiteBaseToKite,
	StepBridgeUSDTKiteToBase,
	StepBridgeUSDTBaseToKite,
	StepSwapUSDTToKite,
	StepSwapKiteToUSDT,
}

func testContracts() Contracts {
	return Contracts{
		ETHBridgeBase:       common.HexToAddress("0x0000000000000000000000000000000000000b01"),
		ETHBridgeKite:       common.HexToAddress("0x0000000000000000000000000000000000000a01"),
		KiteTokenBridgeBase: common.HexToAddress("0x0000000000000000000000000000000000000b02"),
		KiteTokenBridgeKite: common.HexToAddress("0x0000000000000000000000000000000000000a02"),
		USDTTokenKite:       common.HexToAddress("0x0000000000000000000000000000000000000a03"),
		USDTBridgeKite:      common.HexToAddress("0x0000000000000000000000000000000000000a04"),
		USDTBridgeBase:      common.HexToAddress("0x0000000000000000000000000000000000000b03"),
		SwapRouterKite:      common.HexToAddress("0x0000000000000000000000000000000000000a05"),
		WKITEKite:           common.HexToAddress("0x0000000000000000000000000000000000000a06"),
	}
}

func testTemplate() swapdomain.Instructions {
	return swapdomain.Instructions{
		SourceID:              big.NewInt(1),
		RollbackTeleporterFee: big.NewInt(0),
		RollbackGasLimit:      big.NewInt(500_000),
		Hops: []swapdomain.Hop{{
			Action:            swapdomain.ActionSwap,
			RequiredGasLimit:  big.NewInt(350_000),
			RecipientGasLimit: big.NewInt(0),
			Trade:             []byte{0xaa},
			BridgePath: swapdomain.BridgePath{
				TeleporterFee:          big.NewInt(0),
				SecondaryTeleporterFee: big.NewInt(0),
			},
		}},
	}
}

type catalogFixture struct {
	catalog *Catalog
	base    *fakeTransactor
	kite    *fakeTransactor
	router  *fakeRouter
	actx    *AccountContext
	ct      Contracts
	tmpl    swapapp.Templates
}

func newCatalogFixture(t *testing.T, steps ...string) *catalogFixture {
	t.Helper()
	if len(steps) == 0 {
		steps = allSteps
	}

	ct := testContracts()
	assets, err := asset.NewNetworkAssets(asset.ChainIDBaseSepolia, asset.ChainIDKiteTestnet, asset.NetworkAddresses{
		USDTTokenKite:       ct.USDTTokenKite,
		WKITEKite:           ct.WKITEKite,
		ETHBridgeKite:       ct.ETHBridgeKite,
		KiteTokenBridgeBase: ct.KiteTokenBridgeBase,
		USDTBridgeBase:      ct.USDTBridgeBase,
	}, 18, 6)
	require.NoError(t, err)

	tmpl := swapapp.Templates{USDTToKite: testTemplate(), KiteToUSDT: testTemplate()}
	log := logger.NewDiscard()

	c, err := NewCatalog(CatalogConfig{
		Steps:    steps,
		Decimals: 6,
		Amounts: AmountRanges{
			ETH:       domain.MustRange("0.001", "0.0015"),
			KiteToken: domain.MustRange("0.1", "0.3"),
			USDT:      domain.MustRange("0.1", "0.15"),
			SwapKite:  domain.MustRange("0.01", "0.03"),
			SwapUSDT:  domain.MustRange("0.01", "0.03"),
		},
		Contracts: ct,
		Assets:    assets,
		Templates: tmpl,
	}, newTestRunner(), log)
	require.NoError(t, err)

	base := newFakeTransactor(chaindomain.NetworkBase, asset.ChainIDBaseSepolia)
	kite := newFakeTransactor(chaindomain.NetworkKite, asset.ChainIDKiteTestnet)
	router := &fakeRouter{address: ct.SwapRouterKite, trade: []byte{0xbe, 0xef}}

	return &catalogFixture{
		catalog: c,
		base:    base,
		kite:    kite,
		router:  router,
		actx:    &AccountContext{Account: testAccount(), Base: base, Kite: kite, Router: router},
		ct:      ct,
		tmpl:    tmpl,
	}
}

func (f *catalogFixture) step(t *testing.T, name string) domain.StepDefinition {
	t.Helper()
	steps, err := f.catalog.Build(f.actx)
	require.NoError(t, err)
	for _, s := range steps {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("step %s not built", name)
	return domain.StepDefinition{}
}

func TestNewCatalog_RejectsUnknownStep(t *testing.T) {
	_, err := NewCatalog(CatalogConfig{Steps: []string{"teleport"}}, newTestRunner(), logger.NewDiscard())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConfigurationError, apperror.GetCode(err))

	_, err = NewCatalog(CatalogConfig{}, newTestRunner(), logger.NewDiscard())
	assert.Equal(t, apperror.CodeConfigurationError, apperror.GetCode(err))
}

func TestCatalog_BuildLabelsAndPrecision(t *testing.T) {
	f := newCatalogFixture(t)

	steps, err := f.catalog.Build(f.actx)
	require.NoError(t, err)
	require.Len(t, steps, 8)

	assert.Equal(t, "Step 1/8: Bridge ETH (Base -> KITE)", steps[0].Label)
	assert.Equal(t, "Step 5/8: Bridge USDT (KITE -> Base)", steps[4].Label)
	assert.Equal(t, "Step 8/8: Swap KITE -> USDT", steps[7].Label)

	for _, s := range steps {
		assert.Equal(t, int32(6), s.Decimals, s.Name)
		assert.NotNil(t, s.Run, s.Name)
		assert.NotNil(t, s.Asset, s.Name)
	}
	assert.Equal(t, chaindomain.NetworkBase, steps[0].From)
	assert.Equal(t, chaindomain.NetworkKite, steps[0].To)
}

func TestCatalog_SubsetRenumbers(t *testing.T) {
	f := newCatalogFixture(t, StepSwapKiteToUSDT, StepBridgeETHBaseToKite)

	steps, err := f.catalog.Build(f.actx)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "Step 1/2: Swap KITE -> USDT", steps[0].Label)
	assert.Equal(t, "Step 2/2: Bridge ETH (Base -> KITE)", steps[1].Label)
}

func TestCatalog_NativeBridgeCarriesValue(t *testing.T) {
	f := newCatalogFixture(t)

	out := f.step(t, StepBridgeETHBaseToKite).Run(context.Background(), "0.5")
	require.True(t, out.Success, out.Error)
	assert.Equal(t, "0.5", out.Amount)

	require.Len(t, f.base.calls, 1)
	assert.Empty(t, f.kite.calls)

	call := f.base.calls[0]
	want := new(big.Int).Mul(big.NewInt(5), new(big.Int).Exp(big.NewInt(10), big.NewInt(17), nil))
	assert.Equal(t, f.ct.ETHBridgeBase, call.Contract)
	assert.Equal(t, "send", call.Method)
	assert.Equal(t, big.NewInt(asset.ChainIDKiteTestnet), call.Args[0])
	assert.Equal(t, f.actx.Account.Address, call.Args[1])
	assert.Equal(t, 0, want.Cmp(call.Args[2].(*big.Int)))
	assert.Equal(t, 0, want.Cmp(call.NativeValue()))
}

func TestCatalog_TokenBridgeHasNoValue(t *testing.T) {
	f := newCatalogFixture(t)

	out := f.step(t, StepBridgeUSDTBaseToKite).Run(context.Background(), "0.12")
	require.True(t, out.Success, out.Error)

	require.Len(t, f.base.calls, 1)
	call := f.base.calls[0]
	assert.Equal(t, f.ct.USDTBridgeBase, call.Contract)
	assert.Equal(t, 0, big.NewInt(120_000).Cmp(call.Args[2].(*big.Int)))
	assert.Zero(t, call.NativeValue().Sign())
}

func TestCatalog_USDTBridgeApprovesThenSends(t *testing.T) {
	f := newCatalogFixture(t)

	out := f.step(t, StepBridgeUSDTKiteToBase).Run(context.Background(), "0.1")
	require.True(t, out.Success, out.Error)
	assert.Equal(t, "0.1", out.Amount)

	assert.Equal(t, []string{"approve", "send"}, f.kite.methods())
	approve, send := f.kite.calls[0], f.kite.calls[1]
	assert.Equal(t, f.ct.USDTTokenKite, approve.Contract)
	assert.Equal(t, f.ct.USDTBridgeKite, approve.Args[0])
	assert.Equal(t, f.ct.USDTBridgeKite, send.Contract)
	assert.Equal(t, big.NewInt(asset.ChainIDBaseSepolia), send.Args[0])
}

func TestCatalog_FailedApproveSkipsDependentSend(t *testing.T) {
	f := newCatalogFixture(t)
	f.kite.revert()

	out := f.step(t, StepBridgeUSDTKiteToBase).Run(context.Background(), "0.1")

	assert.False(t, out.Success)
	assert.Equal(t, apperror.CodeDependencyFailed, out.Code)
	assert.Equal(t, []string{"approve"}, f.kite.methods())
}

func TestCatalog_SwapUSDTToKite(t *testing.T) {
	f := newCatalogFixture(t)

	out := f.step(t, StepSwapUSDTToKite).Run(context.Background(), "0.02")
	require.True(t, out.Success, out.Error)

	assert.Equal(t, []string{"approve", "initiate"}, f.kite.methods())
	assert.Equal(t, f.ct.SwapRouterKite, f.kite.calls[0].Args[0], "approval targets the router")

	require.Len(t, f.router.resolved, 1)
	r := f.router.resolved[0]
	assert.Equal(t, f.ct.USDTTokenKite, r.tokenIn)
	assert.Equal(t, f.ct.WKITEKite, r.tokenOut)
	assert.Equal(t, []common.Address{f.ct.USDTTokenKite, f.ct.WKITEKite}, r.path)
	assert.Equal(t, 0, big.NewInt(20_000).Cmp(r.amount))

	initiate := f.kite.calls[1]
	assert.Zero(t, initiate.NativeValue().Sign())
	require.Len(t, f.router.built, 1)
	assert.Equal(t, []byte{0xbe, 0xef}, f.router.built[0].Hops[0].Trade)
}

func TestCatalog_SwapKiteToUSDTSendsValue(t *testing.T) {
	f := newCatalogFixture(t)

	out := f.step(t, StepSwapKiteToUSDT).Run(context.Background(), "0.03")
	require.True(t, out.Success, out.Error)

	assert.Equal(t, []string{"initiate"}, f.kite.methods())
	want := new(big.Int).Mul(big.NewInt(3), new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil))
	assert.Equal(t, 0, want.Cmp(f.kite.calls[0].NativeValue()))

	r := f.router.resolved[0]
	assert.Equal(t, []common.Address{f.ct.WKITEKite, f.ct.USDTTokenKite}, r.path)

	// the template itself is never modified
	assert.Equal(t, []byte{0xaa}, f.tmpl.KiteToUSDT.Hops[0].Trade)
}

func TestCatalog_RouteFailureSubmitsNothing(t *testing.T) {
	f := newCatalogFixture(t)
	f.router.err = apperror.New(apperror.CodeCircuitOpen)

	out := f.step(t, StepSwapKiteToUSDT).Run(context.Background(), "0.03")

	assert.False(t, out.Success)
	assert.Equal(t, apperror.CodeRouteResolutionFailed, out.Code)
	assert.Contains(t, out.Error, string(apperror.CodeCircuitOpen))
	assert.Equal(t, "0.03", out.Amount)
	assert.Empty(t, f.kite.calls)
}

func TestCatalog_RouteFailureAfterApprove(t *testing.T) {
	f := newCatalogFixture(t)
	f.router.err = errors.New("execution reverted")

	out := f.step(t, StepSwapUSDTToKite).Run(context.Background(), "0.02")

	assert.Equal(t, apperror.CodeRouteResolutionFailed, out.Code)
	assert.Equal(t, []string{"approve"}, f.kite.methods())
}

func TestCatalog_SubmissionErrorIsClassified(t *testing.T) {
	f := newCatalogFixture(t)
	f.base.failSubmit(apperror.New(apperror.CodeGasPriceTooHigh))

	out := f.step(t, StepBridgeETHBaseToKite).Run(context.Background(), "0.001")

	assert.False(t, out.Success)
	assert.Equal(t, apperror.CodeGasPriceTooHigh, out.Code)
}

var _ chainapp.Transactor = (*fakeTransactor)(nil)
