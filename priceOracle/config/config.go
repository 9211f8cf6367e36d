package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/pushchain/relayer-price-oracle/priceOracle/constant"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

const (
	defaultSchedulerTickMs       = 1000
	defaultPricePollingMs        = 60000
	defaultStrategyRunMs         = 1000
	defaultMetricsServerPort     = 3000
	defaultReceiptTimeoutSeconds = 120
	defaultPricePrecision        = 6
	defaultNativePriceDecimals   = 6
	defaultGasPriceGwei          = "30"
	defaultCoinGeckoBaseURL      = "https://api.coingecko.com/api/v3"
	defaultCoinGeckoTimeout      = 10
	defaultCoinGeckoRetries      = 3
	defaultStrategyName          = "generic-relayer"
	defaultHistoryRetention      = 7 * 24 * 3600
	defaultHistoryCleanup        = 3600
)

//go:embed default_config.json
var defaultConfigJSON []byte

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	if cfg.SchedulerTickMs == 0 {
		cfg.SchedulerTickMs = defaultSchedulerTickMs
	}
	if cfg.SchedulerTickMs < 0 {
		return fmt.Errorf("scheduler_tick_ms must be positive")
	}

	if cfg.MetricsServerPort == 0 {
		cfg.MetricsServerPort = defaultMetricsServerPort
	}

	if cfg.HistoryRetentionSeconds == 0 {
		cfg.HistoryRetentionSeconds = defaultHistoryRetention
	}
	if cfg.HistoryCleanupIntervalSeconds == 0 {
		cfg.HistoryCleanupIntervalSeconds = defaultHistoryCleanup
	}
	if cfg.HistoryRetentionSeconds < 0 || cfg.HistoryCleanupIntervalSeconds < 0 {
		return fmt.Errorf("history retention and cleanup interval must be positive")
	}

	if cfg.ChainConfigs == nil {
		cfg.ChainConfigs = make(map[string]ChainSpecificConfig)
	}
	if _, err := cfg.ChainIDs(); err != nil {
		return err
	}

	if err := validatePriceFetcher(&cfg.PriceFetcher); err != nil {
		return err
	}

	if len(cfg.Strategies) == 0 {
		return fmt.Errorf("at least one strategy must be configured")
	}
	seen := make(map[string]bool, len(cfg.Strategies))
	for i := range cfg.Strategies {
		if err := validateStrategy(&cfg.Strategies[i]); err != nil {
			return fmt.Errorf("strategy %d: %w", i, err)
		}
		if seen[cfg.Strategies[i].Name] {
			return fmt.Errorf("duplicate strategy name %q", cfg.Strategies[i].Name)
		}
		seen[cfg.Strategies[i].Name] = true
	}

	return nil
}

func validatePriceFetcher(pf *PriceFetcherConfig) error {
	if pf.Type == "" {
		pf.Type = PriceFetcherCoinGecko
	}
	if pf.PollingIntervalMs == 0 {
		pf.PollingIntervalMs = defaultPricePollingMs
	}
	if pf.PollingIntervalMs < 0 {
		return fmt.Errorf("price_fetcher.polling_interval_ms must be positive")
	}
	if pf.PricePrecision == 0 {
		pf.PricePrecision = defaultPricePrecision
	}
	if pf.NativePriceDecimals == 0 {
		pf.NativePriceDecimals = defaultNativePriceDecimals
	}
	if pf.GasPriceSource == "" {
		pf.GasPriceSource = GasPriceSourceFixed
	}
	if pf.DefaultGasPriceGwei == "" {
		pf.DefaultGasPriceGwei = defaultGasPriceGwei
	}

	if pf.GasPriceSource != GasPriceSourceRPC && pf.GasPriceSource != GasPriceSourceFixed {
		return fmt.Errorf("price_fetcher.gas_price_source must be 'rpc' or 'fixed'")
	}

	for key := range pf.FixedGasPricesGwei {
		if _, err := types.ParseChainID(key); err != nil {
			return fmt.Errorf("price_fetcher.fixed_gas_prices_gwei: %w", err)
		}
	}
	for key := range pf.FixedNativePrices {
		if _, err := types.ParseChainID(key); err != nil {
			return fmt.Errorf("price_fetcher.fixed_native_prices: %w", err)
		}
	}

	switch pf.Type {
	case PriceFetcherCoinGecko:
		if pf.CoinGecko.BaseURL == "" {
			pf.CoinGecko.BaseURL = defaultCoinGeckoBaseURL
		}
		if pf.CoinGecko.RequestTimeoutSeconds == 0 {
			pf.CoinGecko.RequestTimeoutSeconds = defaultCoinGeckoTimeout
		}
		if pf.CoinGecko.MaxRetries == 0 {
			pf.CoinGecko.MaxRetries = defaultCoinGeckoRetries
		}
		if len(pf.Tokens) == 0 {
			return fmt.Errorf("price_fetcher.tokens must not be empty for the coingecko provider")
		}
		for _, token := range pf.Tokens {
			if token.ChainID == 0 || token.CoinGeckoID == "" {
				return fmt.Errorf("price_fetcher.tokens entries need chain_id and coingecko_id")
			}
		}
	case PriceFetcherFixed:
		if len(pf.FixedNativePrices) == 0 {
			return fmt.Errorf("price_fetcher.fixed_native_prices must not be empty for the fixed provider")
		}
	default:
		return fmt.Errorf("price_fetcher.type must be 'coingecko' or 'fixed'")
	}
	return nil
}

// validateStrategy rejects absent or out of range tuning parameters.
// Missing contract addresses or RPC endpoints only disable the affected chain at runtime.
func validateStrategy(s *StrategyConfig) error {
	if s.Name == "" {
		s.Name = defaultStrategyName
	}
	if s.RunIntervalMs == 0 {
		s.RunIntervalMs = defaultStrategyRunMs
	}
	if s.RunIntervalMs < 0 {
		return fmt.Errorf("run_interval_ms must be positive")
	}

	params := []struct {
		name  string
		value float64
		below bool
	}{
		{"gas_price_tolerance", s.GasPriceTolerance, true},
		{"native_price_tolerance", s.NativePriceTolerance, true},
		{"gas_price_markup", s.GasPriceMarkup, false},
		{"max_increase", s.MaxIncrease, false},
		{"max_decrease", s.MaxDecrease, true},
	}
	for _, p := range params {
		if p.value <= 0 {
			return fmt.Errorf("%s must be set to a positive value", p.name)
		}
		if p.below && p.value >= 1 {
			return fmt.Errorf("%s must be lower than 1", p.name)
		}
	}

	if len(s.ContractAddresses) == 0 {
		return fmt.Errorf("contract_addresses must not be empty")
	}
	seen := make(map[uint16]bool, len(s.ContractAddresses))
	for _, c := range s.ContractAddresses {
		if c.ChainID == 0 {
			return fmt.Errorf("contract_addresses entries need a chain_id")
		}
		if seen[c.ChainID] {
			return fmt.Errorf("duplicate contract address for chain %d", c.ChainID)
		}
		seen[c.ChainID] = true
		if c.Address != "" && !common.IsHexAddress(c.Address) {
			return fmt.Errorf("invalid contract address %q for chain %d", c.Address, c.ChainID)
		}
	}
	return nil
}

// Validate fills defaults and checks the config.
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

// ApplyEnvOverrides replaces secrets with values from the environment
// (PORACLE_PRIVATE_KEY_<chain id>, PORACLE_COINGECKO_API_KEY).
func ApplyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(constant.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if key := v.GetString("coingecko_api_key"); key != "" {
		cfg.PriceFetcher.CoinGecko.APIKey = key
	}

	ids := make([]string, 0, len(cfg.ChainConfigs))
	for id := range cfg.ChainConfigs {
		ids = append(ids, id)
	}
	for _, c := range cfg.Strategies {
		for _, addr := range c.ContractAddresses {
			ids = append(ids, types.ChainID(addr.ChainID).String())
		}
	}
	for _, id := range ids {
		key := v.GetString("private_key_" + id)
		if key == "" {
			continue
		}
		if cfg.ChainConfigs == nil {
			cfg.ChainConfigs = make(map[string]ChainSpecificConfig)
		}
		chainCfg := cfg.ChainConfigs[id]
		chainCfg.PrivateKey = key
		cfg.ChainConfigs[id] = chainCfg
	}
}

// Save writes the given config to <NodeDir>/config/poracle_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, constant.ConfigSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, constant.ConfigFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads the config from <BasePath>/config/poracle_config.json, applies
// environment overrides and validates it.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, constant.ConfigSubdir, constant.ConfigFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.NodeHome == "" {
		cfg.NodeHome = basePath
	}

	ApplyEnvOverrides(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the default configuration from embedded JSON
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}
