package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BASE_SEPOLIA_RPC_URL", "https://base.example")
	t.Setenv("KITE_TESTNET_RPC_URL", "https://kite.example")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRIVATE_KEYS", " 0xaa , 0xbb,,")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"0xaa", "0xbb"}, cfg.Accounts.PrivateKeys)
	assert.Equal(t, PolicySkip, cfg.Automation.FailurePolicy)
	assert.Equal(t, DefaultSteps, cfg.Automation.Steps)
	assert.Equal(t, uint64(84532), cfg.Networks.Base.ChainID)
	assert.Equal(t, uint64(2368), cfg.Networks.Kite.ChainID)
	assert.Equal(t, 3.0, cfg.Automation.StepDelay.Min)
	assert.Equal(t, 25.0, cfg.Automation.CycleDelay.Max)
	assert.Equal(t, 5*time.Minute, cfg.Automation.ConfirmTimeout)
	assert.Equal(t, int32(6), cfg.Amounts.USDTDecimals)
	assert.Len(t, cfg.RPC.UserAgents, 5)

	require.Len(t, cfg.Swap.USDTToKite.Hops, 1)
	hop := cfg.Swap.USDTToKite.Hops[0]
	assert.Equal(t, uint8(3), hop.Action)
	assert.Equal(t, "2620000", hop.RequiredGasLimit)
	assert.True(t, cfg.Swap.USDTToKite.PayableReceiver)
	assert.False(t, cfg.Swap.KiteToUSDT.PayableReceiver)
	assert.Equal(t, "0x04CfcA82fDf5F4210BC90f06C44EF25Bf743D556", hop.BridgePath.CellDestinationChain)
}

func TestLoad_MissingRPC(t *testing.T) {
	t.Setenv("BASE_SEPOLIA_RPC_URL", "")
	t.Setenv("KITE_TESTNET_RPC_URL", "https://kite.example")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc.base_url")
}

func TestLoad_FileOverrides(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "cycler.yaml")
	yaml := `
automation:
  failure_policy: ABORT
  steps: [swap_kite_to_usdt]
  step_delay_minutes: {min: 1, max: 2}
accounts:
  selection: fixed
  fixed_index: 1
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, PolicyAbort, cfg.Automation.FailurePolicy)
	assert.Equal(t, []string{"swap_kite_to_usdt"}, cfg.Automation.Steps)
	assert.Equal(t, 2.0, cfg.Automation.StepDelay.Max)
	assert.Equal(t, SelectFixed, cfg.Accounts.Selection)
	assert.Equal(t, 1, cfg.Accounts.FixedIndex)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	setRequiredEnv(t)
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"policy", func(c *Config) { c.Automation.FailurePolicy = "retry" }, "failure_policy"},
		{"inverted range", func(c *Config) { c.Amounts.USDT = RangeConfig{Min: 2, Max: 1} }, "amounts.usdt"},
		{"negative range", func(c *Config) { c.Automation.CycleDelay = RangeConfig{Min: -1, Max: 1} }, "non-negative"},
		{"address", func(c *Config) { c.Contracts.SwapRouterKite = "router" }, "swap_router_kite"},
		{"gas limit", func(c *Config) { c.Swap.KiteToUSDT.Hops[0].RequiredGasLimit = "lots" }, "required_gas_limit"},
		{"no steps", func(c *Config) { c.Automation.Steps = nil }, "automation.steps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			cfg.Swap.KiteToUSDT.Hops = append([]HopConfig(nil), base.Swap.KiteToUSDT.Hops...)
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRotateUserAgents(t *testing.T) {
	rpc := RPCConfig{UserAgents: []string{"ua"}, UserAgentMode: UserAgentAuto}

	assert.False(t, rpc.RotateUserAgents(1))
	assert.True(t, rpc.RotateUserAgents(2))

	rpc.UserAgentMode = UserAgentAlways
	assert.True(t, rpc.RotateUserAgents(1))

	rpc.UserAgentMode = UserAgentNever
	assert.False(t, rpc.RotateUserAgents(3))
}

func TestMaxGasPriceWei(t *testing.T) {
	n := NetworkConfig{MaxGasPriceGwei: 1.5}
	assert.Equal(t, "1500000000", n.MaxGasPriceWei().String())

	n.MaxGasPriceGwei = 0
	assert.Nil(t, n.MaxGasPriceWei())
}
