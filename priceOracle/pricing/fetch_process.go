package pricing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/metrics"
)

// FetchProcess refreshes the published snapshot from a provider on every run.
type FetchProcess struct {
	provider Provider
	store    *SnapshotStore
	reporter metrics.Reporter
	logger   zerolog.Logger
}

// NewFetchProcess creates the price polling process.
func NewFetchProcess(provider Provider, store *SnapshotStore, reporter metrics.Reporter, logger zerolog.Logger) *FetchProcess {
	return &FetchProcess{
		provider: provider,
		store:    store,
		reporter: reporter,
		logger:   logger.With().Str("component", "price_fetcher").Str("source", provider.Name()).Logger(),
	}
}

func (f *FetchProcess) Name() string { return "price-fetcher" }

func (f *FetchProcess) Interval() time.Duration { return f.provider.PollingInterval() }

// Run fetches once. On failure the previous snapshot stays published.
func (f *FetchProcess) Run(ctx context.Context) error {
	start := time.Now()
	snap, err := f.provider.Fetch(ctx)
	if err != nil {
		f.reporter.ReportPricePolling(metrics.StatusFailure)
		return err
	}

	published := f.store.Publish(snap)
	f.reporter.ReportPricePolling(metrics.StatusSuccess)
	for token, price := range published.Quotes {
		f.reporter.ReportProviderPrice(token, price)
	}

	f.logger.Info().
		Uint64("version", published.Version).
		Int("native_prices", len(published.NativeTokenPrices)).
		Int("gas_prices", len(published.GasPrices)).
		Dur("took", time.Since(start)).
		Msg("pricing snapshot published")
	return nil
}
