package config

import (
	"fmt"
	"sort"

	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// PriceFetcherType selects the pricing snapshot provider
type PriceFetcherType string

const (
	// PriceFetcherCoinGecko quotes native tokens from the CoinGecko simple price API
	PriceFetcherCoinGecko PriceFetcherType = "coingecko"

	// PriceFetcherFixed serves static prices from this file
	PriceFetcherFixed PriceFetcherType = "fixed"
)

// GasPriceSourceType selects where the provider takes gas prices from
type GasPriceSourceType string

const (
	GasPriceSourceRPC   GasPriceSourceType = "rpc"
	GasPriceSourceFixed GasPriceSourceType = "fixed"
)

type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level"`   // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format"`  // "json" or "console"
	LogSampler bool   `json:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// Node Config
	NodeHome string `json:"node_home"` // Node home directory (default: ~/.poracle)

	// Scheduler Config
	SchedulerTickMs int `json:"scheduler_tick_ms"` // How often each loop checks whether its process is due (default: 1000)

	// Query + metrics server
	MetricsServerPort int `json:"metrics_server_port"` // Port serving /metrics and the query API (default: 3000)

	// Execution
	DryRun bool `json:"dry_run"` // if true, updates are computed and logged but never submitted

	// Update history
	HistoryRetentionSeconds       int `json:"history_retention_seconds"`        // How long recorded updates are kept (default: 604800)
	HistoryCleanupIntervalSeconds int `json:"history_cleanup_interval_seconds"` // How often old updates are purged (default: 3600)

	// Unified per-chain configuration
	ChainConfigs map[string]ChainSpecificConfig `json:"chain_configs"` // Map of chain ID to all chain-specific settings

	PriceFetcher PriceFetcherConfig `json:"price_fetcher"`

	// Each strategy runs in its own loop with its own cadence
	Strategies []StrategyConfig `json:"strategies"`
}

// ChainSpecificConfig holds all chain-specific configuration in one place
type ChainSpecificConfig struct {
	Name string `json:"name,omitempty"` // Display name used in logs and chain_name metric labels

	// RPC Configuration
	RPCURLs    []string `json:"rpc_urls,omitempty"`     // RPC endpoints for this chain, tried round-robin
	EVMChainID *int64   `json:"evm_chain_id,omitempty"` // If set, every endpoint must report this eth_chainId

	// Signing key, hex encoded. PORACLE_PRIVATE_KEY_<chain id> takes precedence.
	PrivateKey string `json:"private_key,omitempty"`

	// Transaction settings
	ReceiptTimeoutSeconds *int     `json:"receipt_timeout_seconds,omitempty"`  // How long to wait for an update receipt (default: 120)
	TxGasPriceMultiplier  *float64 `json:"tx_gas_price_multiplier,omitempty"` // Multiplies the node's suggested gas price for update txs (default: 1)
}

// PriceFetcherConfig configures the pricing snapshot provider
type PriceFetcherConfig struct {
	Type              PriceFetcherType `json:"type"`                // "coingecko" or "fixed"
	PollingIntervalMs int              `json:"polling_interval_ms"` // Snapshot refresh cadence (default: 60000)

	CoinGecko CoinGeckoConfig `json:"coingecko"`

	// Native token per chain, used by the coingecko provider
	Tokens []TokenConfig `json:"tokens,omitempty"`

	PricePrecision      uint32 `json:"price_precision"`       // Fractional digits kept from a quote (default: 6)
	NativePriceDecimals uint32 `json:"native_price_decimals"` // Decimals of the on-chain native price (default: 6)

	GasPriceSource      GasPriceSourceType `json:"gas_price_source"`        // "rpc" or "fixed" (default: fixed)
	DefaultGasPriceGwei string             `json:"default_gas_price_gwei"` // Used when no per-chain gas price is known (default: "30")

	// Static prices keyed by chain id. Native prices are on-chain integers, gas prices are gwei.
	FixedNativePrices  map[string]string `json:"fixed_native_prices,omitempty"`
	FixedGasPricesGwei map[string]string `json:"fixed_gas_prices_gwei,omitempty"`
}

// CoinGeckoConfig configures the HTTP price source
type CoinGeckoConfig struct {
	BaseURL               string `json:"base_url"`                // (default: https://api.coingecko.com/api/v3)
	APIKey                string `json:"api_key,omitempty"`       // Sent as x-cg-pro-api-key. PORACLE_COINGECKO_API_KEY takes precedence.
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"` // Per request timeout (default: 10)
	MaxRetries            int    `json:"max_retries"`             // Retries of transient failures within one fetch (default: 3)
}

// TokenConfig maps a chain to the CoinGecko id of its native token
type TokenConfig struct {
	ChainID     uint16 `json:"chain_id"`
	Symbol      string `json:"symbol"`
	CoinGeckoID string `json:"coingecko_id"`
}

// StrategyConfig holds the reconciliation parameters of one strategy
type StrategyConfig struct {
	Name          string `json:"name"`
	RunIntervalMs int    `json:"run_interval_ms"` // Strategy cadence (default: 1000)

	// Delivery provider per home chain. Order is the processing order.
	ContractAddresses []ContractAddressConfig `json:"contract_addresses"`

	// Remote chains read on every home chain. Empty means every chain in ContractAddresses.
	RemoteChains []uint16 `json:"remote_chains,omitempty"`

	GasPriceTolerance    float64 `json:"gas_price_tolerance"`
	NativePriceTolerance float64 `json:"native_price_tolerance"`
	GasPriceMarkup       float64 `json:"gas_price_markup"`
	MaxIncrease          float64 `json:"max_increase"`
	MaxDecrease          float64 `json:"max_decrease"`
	OverrideSafeGuard    bool    `json:"override_safe_guard"`
}

// ContractAddressConfig is the delivery provider deployed on a home chain
type ContractAddressConfig struct {
	ChainID uint16 `json:"chain_id"`
	Address string `json:"address"`
}

// GetChainConfig returns the complete configuration for a specific chain
func (c *Config) GetChainConfig(chainID types.ChainID) *ChainSpecificConfig {
	if c.ChainConfigs != nil {
		if config, ok := c.ChainConfigs[chainID.String()]; ok {
			return &config
		}
	}
	// Return empty config if not found
	return &ChainSpecificConfig{}
}

// ChainIDs returns the configured chains in ascending order.
func (c *Config) ChainIDs() ([]types.ChainID, error) {
	ids := make([]types.ChainID, 0, len(c.ChainConfigs))
	for key := range c.ChainConfigs {
		id, err := types.ParseChainID(key)
		if err != nil {
			return nil, fmt.Errorf("chain_configs: %w", err)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ChainNames returns the display names configured for chains.
func (c *Config) ChainNames() types.ChainNames {
	names := make(types.ChainNames)
	for key, chainCfg := range c.ChainConfigs {
		if chainCfg.Name == "" {
			continue
		}
		if id, err := types.ParseChainID(key); err == nil {
			names[id] = chainCfg.Name
		}
	}
	return names
}

// ReceiptTimeoutSeconds returns the receipt wait for a chain
func (c *Config) ReceiptTimeoutSeconds(chainID types.ChainID) int {
	if t := c.GetChainConfig(chainID).ReceiptTimeoutSeconds; t != nil && *t > 0 {
		return *t
	}
	return defaultReceiptTimeoutSeconds
}

// TxGasPriceMultiplier returns the submission gas price multiplier for a chain
func (c *Config) TxGasPriceMultiplier(chainID types.ChainID) float64 {
	if m := c.GetChainConfig(chainID).TxGasPriceMultiplier; m != nil && *m > 0 {
		return *m
	}
	return 1
}
