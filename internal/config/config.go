// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Failure policies applied by the step orchestrator.
const (
	PolicySkip  = "skip"
	PolicyAbort = "abort"
)

// Account selection modes.
const (
	SelectRandom = "random"
	SelectFixed  = "fixed"
)

// Private key sources.
const (
	SourceEnv   = "env"
	SourceVault = "vault"
)

// User-Agent rotation modes.
const (
	UserAgentAuto   = "auto"
	UserAgentAlways = "always"
	UserAgentNever  = "never"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	RPC        RPCConfig        `mapstructure:"rpc"`
	Networks   NetworksConfig   `mapstructure:"networks"`
	Accounts   AccountsConfig   `mapstructure:"accounts"`
	Vault      VaultConfig      `mapstructure:"vault"`
	Automation AutomationConfig `mapstructure:"automation"`
	Amounts    AmountsConfig    `mapstructure:"amounts"`
	Contracts  ContractsConfig  `mapstructure:"contracts"`
	Swap       SwapConfig       `mapstructure:"swap"`
	Journal    JournalConfig    `mapstructure:"journal"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Health     HealthConfig     `mapstructure:"health"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // set at runtime from flags
}

// RPCConfig holds JSON-RPC endpoint settings for both networks.
type RPCConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	KiteURL           string        `mapstructure:"kite_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"` // 0 disables limiting
	UserAgentMode     string        `mapstructure:"user_agent_mode"`
	UserAgents        []string      `mapstructure:"user_agents"`
}

// RotateUserAgents reports whether outbound RPC requests get a random User-Agent.
// In auto mode rotation is on only when more than one account is configured.
func (c *RPCConfig) RotateUserAgents(accounts int) bool {
	switch c.UserAgentMode {
	case UserAgentAlways:
		return len(c.UserAgents) > 0
	case UserAgentNever:
		return false
	default:
		return accounts > 1 && len(c.UserAgents) > 0
	}
}

// NetworksConfig describes the two chains.
type NetworksConfig struct {
	Base NetworkConfig `mapstructure:"base"`
	Kite NetworkConfig `mapstructure:"kite"`
}

// NetworkConfig holds per-chain settings.
type NetworkConfig struct {
	Name            string        `mapstructure:"name"`
	ChainID         uint64        `mapstructure:"chain_id"`
	MaxGasPriceGwei float64       `mapstructure:"max_gas_price_gwei"` // 0 disables the ceiling
	GasCacheTTL     time.Duration `mapstructure:"gas_cache_ttl"`
}

// MaxGasPriceWei returns the gas ceiling in wei, nil when disabled.
func (c *NetworkConfig) MaxGasPriceWei() *big.Int {
	if c.MaxGasPriceGwei <= 0 {
		return nil
	}
	return decimal.NewFromFloat(c.MaxGasPriceGwei).Shift(9).Floor().BigInt()
}

// AccountsConfig controls where keys come from and how one is picked per cycle.
type AccountsConfig struct {
	Source      string   `mapstructure:"source"`
	PrivateKeys []string `mapstructure:"private_keys"`
	Selection   string   `mapstructure:"selection"`
	FixedIndex  int      `mapstructure:"fixed_index"`
}

// VaultConfig points at a KV secret holding comma separated private keys.
type VaultConfig struct {
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
	Path    string `mapstructure:"path"`
	Field   string `mapstructure:"field"`
}

// AutomationConfig controls step sequencing and pacing.
type AutomationConfig struct {
	Steps          []string      `mapstructure:"steps"`
	FailurePolicy  string        `mapstructure:"failure_policy"`
	StepDelay      RangeConfig   `mapstructure:"step_delay_minutes"`
	CycleDelay     RangeConfig   `mapstructure:"cycle_delay_minutes"`
	SubmitTimeout  time.Duration `mapstructure:"submit_timeout"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	AmountDecimals int32         `mapstructure:"amount_decimals"`
}

// RangeConfig is a closed numeric interval as read from config.
type RangeConfig struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// MinDecimal returns Min as decimal.Decimal.
func (r RangeConfig) MinDecimal() decimal.Decimal {
	return decimal.NewFromFloat(r.Min)
}

// MaxDecimal returns Max as decimal.Decimal.
func (r RangeConfig) MaxDecimal() decimal.Decimal {
	return decimal.NewFromFloat(r.Max)
}

func (r RangeConfig) validate(key string) error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("%s: bounds must be non-negative", key)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%s: min %v > max %v", key, r.Min, r.Max)
	}
	return nil
}

// AmountsConfig holds the per-asset draw ranges.
type AmountsConfig struct {
	ETH          RangeConfig `mapstructure:"eth"`
	KiteToken    RangeConfig `mapstructure:"kite_token"`
	USDT         RangeConfig `mapstructure:"usdt"`
	SwapKite     RangeConfig `mapstructure:"swap_kite"`
	SwapUSDT     RangeConfig `mapstructure:"swap_usdt"`
	USDTDecimals int32       `mapstructure:"usdt_decimals"`
	KiteDecimals int32       `mapstructure:"kite_decimals"`
}

// ContractsConfig holds fixed contract addresses.
type ContractsConfig struct {
	ETHBridgeBase       string `mapstructure:"eth_bridge_base"`
	ETHBridgeKite       string `mapstructure:"eth_bridge_kite"`
	KiteTokenBridgeBase string `mapstructure:"kite_token_bridge_base"`
	KiteTokenBridgeKite string `mapstructure:"kite_token_bridge_kite"`
	USDTTokenKite       string `mapstructure:"usdt_token_kite"`
	USDTBridgeKite      string `mapstructure:"usdt_bridge_kite"`
	USDTBridgeBase      string `mapstructure:"usdt_bridge_base"`
	SwapRouterKite      string `mapstructure:"swap_router_kite"`
	WKITEKite           string `mapstructure:"wkite_kite"`
}

// Address parses a configured hex address.
func Address(hex string) common.Address {
	return common.HexToAddress(hex)
}

func (c *ContractsConfig) all() map[string]string {
	return map[string]string{
		"eth_bridge_base":        c.ETHBridgeBase,
		"eth_bridge_kite":        c.ETHBridgeKite,
		"kite_token_bridge_base": c.KiteTokenBridgeBase,
		"kite_token_bridge_kite": c.KiteTokenBridgeKite,
		"usdt_token_kite":        c.USDTTokenKite,
		"usdt_bridge_kite":       c.USDTBridgeKite,
		"usdt_bridge_base":       c.USDTBridgeBase,
		"swap_router_kite":       c.SwapRouterKite,
		"wkite_kite":             c.WKITEKite,
	}
}

// SwapConfig holds the instruction templates for both swap directions.
type SwapConfig struct {
	USDTToKite InstructionsConfig `mapstructure:"usdt_to_kite"`
	KiteToUSDT InstructionsConfig `mapstructure:"kite_to_usdt"`
}

// InstructionsConfig is the raw router instruction template.
// Integers are decimal strings so large values survive YAML and env parsing.
type InstructionsConfig struct {
	SourceID              string      `mapstructure:"source_id"`
	Receiver              string      `mapstructure:"receiver"`
	PayableReceiver       bool        `mapstructure:"payable_receiver"`
	RollbackReceiver      string      `mapstructure:"rollback_receiver"`
	RollbackTeleporterFee string      `mapstructure:"rollback_teleporter_fee"`
	RollbackGasLimit      string      `mapstructure:"rollback_gas_limit"`
	Hops                  []HopConfig `mapstructure:"hops"`
}

// HopConfig is one router hop.
type HopConfig struct {
	Action            uint8            `mapstructure:"action"`
	RequiredGasLimit  string           `mapstructure:"required_gas_limit"`
	RecipientGasLimit string           `mapstructure:"recipient_gas_limit"`
	Trade             string           `mapstructure:"trade"`
	BridgePath        BridgePathConfig `mapstructure:"bridge_path"`
}

// BridgePathConfig is the cross-chain leg of a hop.
type BridgePathConfig struct {
	BridgeSourceChain       string `mapstructure:"bridge_source_chain"`
	SourceBridgeIsNative    bool   `mapstructure:"source_bridge_is_native"`
	BridgeDestinationChain  string `mapstructure:"bridge_destination_chain"`
	CellDestinationChain    string `mapstructure:"cell_destination_chain"`
	DestinationBlockchainID string `mapstructure:"destination_blockchain_id"`
	TeleporterFee           string `mapstructure:"teleporter_fee"`
	SecondaryTeleporterFee  string `mapstructure:"secondary_teleporter_fee"`
}

func (c *InstructionsConfig) validate(key string) error {
	for name, v := range map[string]string{
		"source_id":               c.SourceID,
		"rollback_teleporter_fee": c.RollbackTeleporterFee,
		"rollback_gas_limit":      c.RollbackGasLimit,
	} {
		if _, err := ParseUint(v); err != nil {
			return fmt.Errorf("%s.%s: %w", key, name, err)
		}
	}
	if !common.IsHexAddress(c.Receiver) || !common.IsHexAddress(c.RollbackReceiver) {
		return fmt.Errorf("%s: receiver and rollback_receiver must be addresses", key)
	}
	if len(c.Hops) == 0 {
		return fmt.Errorf("%s: at least one hop is required", key)
	}
	for i, h := range c.Hops {
		hk := fmt.Sprintf("%s.hops[%d]", key, i)
		for name, v := range map[string]string{
			"required_gas_limit":       h.RequiredGasLimit,
			"recipient_gas_limit":      h.RecipientGasLimit,
			"teleporter_fee":           h.BridgePath.TeleporterFee,
			"secondary_teleporter_fee": h.BridgePath.SecondaryTeleporterFee,
		} {
			if _, err := ParseUint(v); err != nil {
				return fmt.Errorf("%s.%s: %w", hk, name, err)
			}
		}
		if h.Trade != "" {
			if _, err := hexutil.Decode(h.Trade); err != nil {
				return fmt.Errorf("%s.trade: %w", hk, err)
			}
		}
		if _, err := hexutil.Decode(h.BridgePath.DestinationBlockchainID); err != nil {
			return fmt.Errorf("%s.bridge_path.destination_blockchain_id: %w", hk, err)
		}
	}
	return nil
}

// ParseUint parses a non-negative decimal integer string. Empty means zero.
func ParseUint(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid unsigned integer %q", s)
	}
	return n, nil
}

// JournalConfig controls where finished cycle records go.
type JournalConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds the optional Redis journal sink settings.
type RedisConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	Key        string `mapstructure:"key"`
	MaxEntries int64  `mapstructure:"max_entries"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	OTLPProtocol   string `mapstructure:"otlp_protocol"`
	ZipkinURL      string `mapstructure:"zipkin_url"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// HealthConfig holds the health server settings.
type HealthConfig struct {
	Port int `mapstructure:"port"`
	// StaleAfter marks the cycle loop unhealthy when no progress is seen for this long.
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CYCLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "CYCLER_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "CYCLER_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "CYCLER_LOG_LEVEL", "LOG_LEVEL")

	// RPC
	v.BindEnv("rpc.base_url", "CYCLER_RPC_BASE_URL", "BASE_SEPOLIA_RPC_URL")
	v.BindEnv("rpc.kite_url", "CYCLER_RPC_KITE_URL", "KITE_TESTNET_RPC_URL")

	// Accounts
	v.BindEnv("accounts.private_keys", "CYCLER_PRIVATE_KEYS", "PRIVATE_KEYS")
	v.BindEnv("accounts.source", "CYCLER_ACCOUNTS_SOURCE")

	// Vault
	v.BindEnv("vault.address", "CYCLER_VAULT_ADDRESS", "VAULT_ADDR")
	v.BindEnv("vault.token", "CYCLER_VAULT_TOKEN", "VAULT_TOKEN")

	// Automation
	v.BindEnv("automation.failure_policy", "CYCLER_FAILURE_POLICY")
	v.BindEnv("automation.steps", "CYCLER_STEPS")

	// Journal
	v.BindEnv("journal.redis.enabled", "CYCLER_REDIS_ENABLED")
	v.BindEnv("journal.redis.addr", "CYCLER_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("journal.redis.password", "CYCLER_REDIS_PASSWORD", "REDIS_PASSWORD")

	// Telemetry
	v.BindEnv("telemetry.enabled", "CYCLER_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "CYCLER_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "CYCLER_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "CYCLER_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
	v.BindEnv("telemetry.otlp_protocol", "CYCLER_OTEL_PROTOCOL", "OTEL_EXPORTER_OTLP_PROTOCOL")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "crosschain-cycler")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// RPC defaults
	v.SetDefault("rpc.timeout", "30s")
	v.SetDefault("rpc.requests_per_minute", 0)
	v.SetDefault("rpc.user_agent_mode", UserAgentAuto)
	v.SetDefault("rpc.user_agents", defaultUserAgents)

	// Networks
	v.SetDefault("networks.base.name", "base-sepolia")
	v.SetDefault("networks.base.chain_id", 84532)
	v.SetDefault("networks.base.max_gas_price_gwei", 0)
	v.SetDefault("networks.base.gas_cache_ttl", "12s")
	v.SetDefault("networks.kite.name", "kite-testnet")
	v.SetDefault("networks.kite.chain_id", 2368)
	v.SetDefault("networks.kite.max_gas_price_gwei", 0)
	v.SetDefault("networks.kite.gas_cache_ttl", "12s")

	// Accounts
	v.SetDefault("accounts.source", SourceEnv)
	v.SetDefault("accounts.selection", SelectRandom)
	v.SetDefault("accounts.fixed_index", 0)

	// Vault
	v.SetDefault("vault.address", "http://127.0.0.1:8200")
	v.SetDefault("vault.path", "secret/data/crosschain-cycler")
	v.SetDefault("vault.field", "private_keys")

	// Automation
	v.SetDefault("automation.steps", DefaultSteps)
	v.SetDefault("automation.failure_policy", PolicySkip)
	v.SetDefault("automation.step_delay_minutes.min", 3)
	v.SetDefault("automation.step_delay_minutes.max", 5)
	v.SetDefault("automation.cycle_delay_minutes.min", 15)
	v.SetDefault("automation.cycle_delay_minutes.max", 25)
	v.SetDefault("automation.submit_timeout", "60s")
	v.SetDefault("automation.confirm_timeout", "5m")
	v.SetDefault("automation.amount_decimals", 6)

	// Amounts
	v.SetDefault("amounts.eth.min", 0.001)
	v.SetDefault("amounts.eth.max", 0.0015)
	v.SetDefault("amounts.kite_token.min", 0.1)
	v.SetDefault("amounts.kite_token.max", 0.3)
	v.SetDefault("amounts.usdt.min", 0.1)
	v.SetDefault("amounts.usdt.max", 0.15)
	v.SetDefault("amounts.swap_kite.min", 0.01)
	v.SetDefault("amounts.swap_kite.max", 0.03)
	v.SetDefault("amounts.swap_usdt.min", 0.1)
	v.SetDefault("amounts.swap_usdt.max", 0.15)
	v.SetDefault("amounts.usdt_decimals", 6)
	v.SetDefault("amounts.kite_decimals", 18)

	// Contracts
	v.SetDefault("contracts.eth_bridge_base", "0x226D7950D4d304e749b0015Ccd3e2c7a4979bB7C")
	v.SetDefault("contracts.eth_bridge_kite", "0x7AEFdb35EEaAD1A15E869a6Ce0409F26BFd31239")
	v.SetDefault("contracts.kite_token_bridge_base", "0xFB9a6AF5C014c32414b4a6e208a89904c6dAe266")
	v.SetDefault("contracts.kite_token_bridge_kite", "0x0BBB7293c08dE4e62137a557BC40bc12FA1897d6")
	v.SetDefault("contracts.usdt_token_kite", "0x0fF5393387ad2f9f691FD6Fd28e07E3969e27e63")
	v.SetDefault("contracts.usdt_bridge_kite", "0xD1bd49F60A6257dC96B3A040e6a1E17296A51375")
	v.SetDefault("contracts.usdt_bridge_base", "0xdAD5b9eB32831D54b7f2D8c92ef4E2A68008989C")
	v.SetDefault("contracts.swap_router_kite", "0x04CfcA82fDf5F4210BC90f06C44EF25Bf743D556")
	v.SetDefault("contracts.wkite_kite", "0x3bC8f037691Ce1d28c0bB224BD33563b49F99dE8")

	// Swap templates
	v.SetDefault("swap.usdt_to_kite", defaultInstructions(true))
	v.SetDefault("swap.kite_to_usdt", defaultInstructions(false))

	// Journal
	v.SetDefault("journal.redis.enabled", false)
	v.SetDefault("journal.redis.addr", "localhost:6379")
	v.SetDefault("journal.redis.db", 0)
	v.SetDefault("journal.redis.key", "cycler:cycles")
	v.SetDefault("journal.redis.max_entries", 500)

	// Telemetry
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "crosschain-cycler")
	v.SetDefault("telemetry.trace_provider", "empty")
	v.SetDefault("telemetry.prometheus_port", 9090)

	// Health
	v.SetDefault("health.port", 8081)
	v.SetDefault("health.stale_after", "2h")
}

// DefaultSteps is the full step sequence in execution order.
var DefaultSteps = []string{
	"bridge_eth_base_to_kite",
	"bridge_eth_kite_to_base",
	"bridge_kite_kite_to_base",
	"bridge_kite_base_to_kite",
	"bridge_usdt_kite_to_base",
	"bridge_usdt_base_to_kite",
	"swap_usdt_to_kite",
	"swap_kite_to_usdt",
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
}

const (
	defaultSwapReceiver      = "0xbf4493f355266f9cB3a8cd8D9aF91fB831596bc1"
	defaultSwapCell          = "0x04CfcA82fDf5F4210BC90f06C44EF25Bf743D556"
	defaultDestinationChain  = "0x6715950e0aad8a92efaade30bd427599e88c459c2d8e29ec350fc4bfb371a114"
	defaultTradeUSDTToKite   = "0x00000000000000000000000000000000000000000000000000000000000000200000000000000000000000000000000000000000000000000000000000000060000000000000000000000000000000000000000000000000032647e6ed90bf84000000000000000000000000000000000000000000000000032443e1dee439ea00000000000000000000000000000000000000000000000000000000000000020000000000000000000000000ff5393387ad2f9f691fd6fd28e07e3969e27e630000000000000000000000003bc8f037691ce1d28c0bb224bd33563b49f99de8"
	defaultTradeKiteToUSDT   = "0x0000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000006000000000000000000000000000000000000000000000000005939fe6db25163c00000000000000000000000000000000000000000000000005900e38d6c1cb4c00000000000000000000000000000000000000000000000000000000000000020000000000000000000000003bc8f037691ce1d28c0bb224bd33563b49f99de80000000000000000000000000ff5393387ad2f9f691fd6fd28e07e3969e27e63"
	swapHopAction            = 3
	defaultRequiredGasLimit  = "2620000"
	defaultRecipientGasLimit = "2120000"
)

func defaultInstructions(usdtToKite bool) map[string]any {
	trade := defaultTradeKiteToUSDT
	if usdtToKite {
		trade = defaultTradeUSDTToKite
	}
	zero := common.Address{}.Hex()

	return map[string]any{
		"source_id":               "1",
		"receiver":                defaultSwapReceiver,
		"payable_receiver":        usdtToKite,
		"rollback_receiver":       defaultSwapReceiver,
		"rollback_teleporter_fee": "0",
		"rollback_gas_limit":      "500000",
		"hops": []map[string]any{{
			"action":              swapHopAction,
			"required_gas_limit":  defaultRequiredGasLimit,
			"recipient_gas_limit": defaultRecipientGasLimit,
			"trade":               trade,
			"bridge_path": map[string]any{
				"bridge_source_chain":       zero,
				"source_bridge_is_native":   false,
				"bridge_destination_chain":  zero,
				"cell_destination_chain":    defaultSwapCell,
				"destination_blockchain_id": defaultDestinationChain,
				"teleporter_fee":            "0",
				"secondary_teleporter_fee":  "0",
			},
		}},
	}
}

// normalize trims list entries that came from comma separated env values.
func (c *Config) normalize() {
	c.Accounts.PrivateKeys = splitTrim(c.Accounts.PrivateKeys)
	c.Automation.Steps = splitTrim(c.Automation.Steps)
	c.Automation.FailurePolicy = strings.ToLower(strings.TrimSpace(c.Automation.FailurePolicy))
	c.Accounts.Selection = strings.ToLower(strings.TrimSpace(c.Accounts.Selection))
	c.Accounts.Source = strings.ToLower(strings.TrimSpace(c.Accounts.Source))
}

func splitTrim(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate validates the configuration.
// Private keys are checked when accounts are loaded since they may come from Vault.
func (c *Config) Validate() error {
	if c.RPC.BaseURL == "" {
		return fmt.Errorf("rpc.base_url is required (BASE_SEPOLIA_RPC_URL)")
	}
	if c.RPC.KiteURL == "" {
		return fmt.Errorf("rpc.kite_url is required (KITE_TESTNET_RPC_URL)")
	}
	if c.Networks.Base.ChainID == 0 || c.Networks.Kite.ChainID == 0 {
		return fmt.Errorf("networks chain_id must be set")
	}
	for key, addr := range c.Contracts.all() {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid contracts.%s: %s", key, addr)
		}
	}

	switch c.Automation.FailurePolicy {
	case PolicySkip, PolicyAbort:
	default:
		return fmt.Errorf("automation.failure_policy must be %q or %q, got %q",
			PolicySkip, PolicyAbort, c.Automation.FailurePolicy)
	}
	switch c.Accounts.Selection {
	case SelectRandom, SelectFixed:
	default:
		return fmt.Errorf("accounts.selection must be %q or %q, got %q",
			SelectRandom, SelectFixed, c.Accounts.Selection)
	}
	switch c.Accounts.Source {
	case SourceEnv, SourceVault:
	default:
		return fmt.Errorf("accounts.source must be %q or %q, got %q",
			SourceEnv, SourceVault, c.Accounts.Source)
	}
	if c.Accounts.FixedIndex < 0 {
		return fmt.Errorf("accounts.fixed_index must be >= 0")
	}
	if len(c.Automation.Steps) == 0 {
		return fmt.Errorf("automation.steps cannot be empty")
	}
	if c.Automation.SubmitTimeout <= 0 || c.Automation.ConfirmTimeout <= 0 {
		return fmt.Errorf("automation submit_timeout and confirm_timeout must be positive")
	}
	if c.Automation.AmountDecimals < 0 || c.Amounts.USDTDecimals < 0 || c.Amounts.KiteDecimals < 0 {
		return fmt.Errorf("decimals must be non-negative")
	}

	ranges := map[string]RangeConfig{
		"automation.step_delay_minutes":  c.Automation.StepDelay,
		"automation.cycle_delay_minutes": c.Automation.CycleDelay,
		"amounts.eth":                    c.Amounts.ETH,
		"amounts.kite_token":             c.Amounts.KiteToken,
		"amounts.usdt":                   c.Amounts.USDT,
		"amounts.swap_kite":              c.Amounts.SwapKite,
		"amounts.swap_usdt":              c.Amounts.SwapUSDT,
	}
	for key, r := range ranges {
		if err := r.validate(key); err != nil {
			return err
		}
	}

	if err := c.Swap.USDTToKite.validate("swap.usdt_to_kite"); err != nil {
		return err
	}
	if err := c.Swap.KiteToUSDT.validate("swap.kite_to_usdt"); err != nil {
		return err
	}

	if c.Journal.Redis.Enabled && c.Journal.Redis.Addr == "" {
		return fmt.Errorf("journal.redis.addr is required when the redis journal is enabled")
	}
	return nil
}
