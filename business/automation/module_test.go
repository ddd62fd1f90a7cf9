package automation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/crosschain-cycler/internal/apperror"
	"github.com/fd1az/crosschain-cycler/internal/config"
	"github.com/fd1az/crosschain-cycler/internal/logger"
	"github.com/fd1az/crosschain-cycler/internal/monolith"
)

func testConfig() *config.Config {
	return &config.Config{
		Networks: config.NetworksConfig{
			Base: config.NetworkConfig{ChainID: 84532},
			Kite: config.NetworkConfig{ChainID: 2368},
		},
		Automation: config.AutomationConfig{
			Steps:          config.DefaultSteps,
			FailurePolicy:  config.PolicySkip,
			StepDelay:      config.RangeConfig{Min: 3, Max: 5},
			CycleDelay:     config.RangeConfig{Min: 15, Max: 25},
			AmountDecimals: 6,
		},
		Contracts: config.ContractsConfig{
			ETHBridgeBase:  "0x226D7950D4d304e749b0015Ccd3e2c7a4979bB7C",
			SwapRouterKite: "0x04CfcA82fDf5F4210BC90f06C44EF25Bf743D556",
			USDTTokenKite:  "0x0fF5393387ad2f9f691FD6Fd28e07E3969e27e63",
			WKITEKite:      "0x3bC8f037691Ce1d28c0bB224BD33563b49F99dE8",
		},
		Amounts: config.AmountsConfig{
			ETH:          config.RangeConfig{Min: 0.001, Max: 0.0015},
			KiteToken:    config.RangeConfig{Min: 0.1, Max: 0.3},
			USDT:         config.RangeConfig{Min: 0.1, Max: 0.15},
			SwapKite:     config.RangeConfig{Min: 0.01, Max: 0.03},
			SwapUSDT:     config.RangeConfig{Min: 0.1, Max: 0.15},
			USDTDecimals: 6,
			KiteDecimals: 18,
		},
	}
}

func TestCatalogConfig_MapsSettings(t *testing.T) {
	ccfg, err := catalogConfig(testConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultSteps, ccfg.Steps)
	assert.Equal(t, int32(6), ccfg.Decimals)
	assert.Equal(t, "0.001", ccfg.Amounts.ETH.Min.String())
	assert.Equal(t, "0.03", ccfg.Amounts.SwapKite.Max.String())
	assert.Equal(t, config.Address("0x226D7950D4d304e749b0015Ccd3e2c7a4979bB7C"), ccfg.Contracts.ETHBridgeBase)
	assert.Equal(t, config.Address("0x04CfcA82fDf5F4210BC90f06C44EF25Bf743D556"), ccfg.Contracts.SwapRouterKite)
}

func TestCatalogConfig_RejectsInvertedRange(t *testing.T) {
	cfg := testConfig()
	cfg.Amounts.USDT = config.RangeConfig{Min: 0.2, Max: 0.1}

	_, err := catalogConfig(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amounts.usdt")
}

func TestStartup_RejectsUnknownStep(t *testing.T) {
	cfg := testConfig()
	cfg.Automation.Steps = []string{"bridge_eth_base_to_kite", "bridge_btc_to_moon"}

	mono, err := monolith.New(cfg, logger.NewDiscard())
	require.NoError(t, err)

	err = (&Module{}).Startup(context.Background(), mono)

	require.Error(t, err)
	assert.Equal(t, apperror.CodeConfigurationError, apperror.GetCode(err))
	assert.Contains(t, err.Error(), "bridge_btc_to_moon")
}
