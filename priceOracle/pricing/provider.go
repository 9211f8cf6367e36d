package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	"github.com/pushchain/relayer-price-oracle/priceOracle/utils"
)

// Provider produces pricing snapshots. A failed Fetch returns an error and no
// snapshot; the previously published snapshot stays in effect.
type Provider interface {
	Name() string
	PollingInterval() time.Duration
	TokenList() []string
	Fetch(ctx context.Context) (*Snapshot, error)
}

// NewProvider builds the provider selected in the configuration.
func NewProvider(cfg config.PriceFetcherConfig, gasSource GasPriceSource, logger zerolog.Logger) (Provider, error) {
	interval := utils.Milliseconds(int64(cfg.PollingIntervalMs))
	switch cfg.Type {
	case config.PriceFetcherCoinGecko:
		return NewCoinGeckoProvider(cfg, gasSource, logger), nil
	case config.PriceFetcherFixed:
		return NewFixedProvider(cfg.FixedNativePrices, interval, gasSource, logger)
	default:
		return nil, fmt.Errorf("unsupported price fetcher %q", cfg.Type)
	}
}
