package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/api"
	"github.com/pushchain/relayer-price-oracle/priceOracle/chains"
	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	"github.com/pushchain/relayer-price-oracle/priceOracle/constant"
	"github.com/pushchain/relayer-price-oracle/priceOracle/db"
	"github.com/pushchain/relayer-price-oracle/priceOracle/executor"
	"github.com/pushchain/relayer-price-oracle/priceOracle/metrics"
	"github.com/pushchain/relayer-price-oracle/priceOracle/pricing"
	"github.com/pushchain/relayer-price-oracle/priceOracle/scheduler"
	"github.com/pushchain/relayer-price-oracle/priceOracle/signer"
	"github.com/pushchain/relayer-price-oracle/priceOracle/store"
	"github.com/pushchain/relayer-price-oracle/priceOracle/strategy"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// Oracle owns every long-lived component of the daemon.
type Oracle struct {
	cfg *config.Config
	log zerolog.Logger

	db         *db.DB
	registry   *chains.Registry
	exporter   *metrics.Exporter
	snapshots  *pricing.SnapshotStore
	provider   pricing.Provider
	fetcher    *pricing.FetchProcess
	strategies []*strategy.RelayerStrategy
	scheduler  *scheduler.Scheduler
	server     *api.Server
}

var _ api.OracleInterface = (*Oracle)(nil)

// NewOracle wires the components described by cfg. Nothing is dialed until a
// process first needs a chain.
func NewOracle(cfg *config.Config, log zerolog.Logger) (*Oracle, error) {
	dbDir := filepath.Join(cfg.NodeHome, constant.DatabasesSubdir)
	database, err := db.OpenFileDB(dbDir, constant.HistoryDatabaseName, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open update history: %w", err)
	}

	o, err := newOracle(cfg, database, log)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return o, nil
}

func newOracle(cfg *config.Config, database *db.DB, log zerolog.Logger) (*Oracle, error) {
	o := &Oracle{
		cfg:       cfg,
		log:       log,
		db:        database,
		registry:  chains.NewRegistry(cfg, log),
		exporter:  metrics.NewExporter(true),
		snapshots: pricing.NewSnapshotStore(),
		scheduler: scheduler.New(time.Duration(cfg.SchedulerTickMs)*time.Millisecond, log),
	}

	gasSource, err := pricing.NewGasPriceSource(cfg.PriceFetcher, o.registry.Suggester, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create gas price source: %w", err)
	}
	provider, err := pricing.NewProvider(cfg.PriceFetcher, gasSource, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create price provider: %w", err)
	}
	o.provider = provider
	o.fetcher = pricing.NewFetchProcess(provider, o.snapshots, o.exporter, log)

	signingKeys, err := signingKeys(cfg)
	if err != nil {
		return nil, err
	}
	signers := signer.NewResolver(signingKeys)
	exec := executor.New(executor.Config{
		Signers:    signers,
		Writers:    o.registry,
		History:    database,
		Reporter:   o.exporter,
		ChainNames: cfg.ChainNames(),
		ReceiptTimeout: func(id types.ChainID) time.Duration {
			return time.Duration(cfg.ReceiptTimeoutSeconds(id)) * time.Second
		},
		DryRun: cfg.DryRun,
		Logger: log,
	})

	for _, strategyCfg := range cfg.Strategies {
		s, err := strategy.NewRelayerStrategy(strategy.Config{
			Strategy:   strategyCfg,
			Snapshots:  o.snapshots,
			Readers:    o.registry,
			Executor:   exec,
			Reporter:   o.exporter,
			ChainNames: cfg.ChainNames(),
			Logger:     log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create strategy %q: %w", strategyCfg.Name, err)
		}
		o.strategies = append(o.strategies, s)
		if !cfg.DryRun {
			warnMissingSigners(s, signers, log)
		}
	}

	o.scheduler.Register(o.fetcher)
	for _, s := range o.strategies {
		o.scheduler.Register(s)
	}
	o.scheduler.Register(NewHistoryCleaner(
		database,
		time.Duration(cfg.HistoryCleanupIntervalSeconds)*time.Second,
		time.Duration(cfg.HistoryRetentionSeconds)*time.Second,
		log,
	))

	o.server = api.NewServer(o, o.exporter.Handler(), log, cfg.MetricsServerPort)
	return o, nil
}

// warnMissingSigners flags home chains whose updates will fail for lack of a key.
func warnMissingSigners(s *strategy.RelayerStrategy, signers *signer.Resolver, log zerolog.Logger) {
	for _, c := range s.Contracts() {
		if !signers.HasSigner(c.ChainID) {
			log.Warn().
				Str("strategy", s.Name()).
				Uint16("chain_id", uint16(c.ChainID)).
				Msg("no signing key configured, updates for this home chain will fail")
		}
	}
}

func signingKeys(cfg *config.Config) (map[types.ChainID]string, error) {
	keys := make(map[types.ChainID]string)
	for key, chainCfg := range cfg.ChainConfigs {
		if chainCfg.PrivateKey == "" {
			continue
		}
		id, err := types.ParseChainID(key)
		if err != nil {
			return nil, fmt.Errorf("chain_configs: %w", err)
		}
		keys[id] = chainCfg.PrivateKey
	}
	return keys, nil
}

// Start serves the API and runs every process until ctx is cancelled.
func (o *Oracle) Start(ctx context.Context) error {
	o.log.Info().
		Int("processes", o.scheduler.Len()).
		Bool("dry_run", o.cfg.DryRun).
		Strs("tokens", o.provider.TokenList()).
		Msg("🚀 Starting price oracle...")

	if err := o.server.Start(); err != nil {
		o.close()
		return fmt.Errorf("failed to start query server: %w", err)
	}
	o.log.Info().Msg("✅ Initialization complete. Entering main loop...")

	err := o.scheduler.Run(ctx)

	o.log.Info().Msg("🛑 Shutting down price oracle...")
	if stopErr := o.server.Stop(); stopErr != nil {
		o.log.Warn().Err(stopErr).Msg("failed to stop query server")
	}
	o.close()
	return err
}

// Close releases the chain clients and the database of an oracle that was never started.
func (o *Oracle) Close() {
	o.close()
}

func (o *Oracle) close() {
	o.registry.Close()
	if err := o.db.Close(); err != nil {
		o.log.Warn().Err(err).Msg("failed to close update history")
	}
}

// FetchPrices runs the price source once and returns the published snapshot.
func (o *Oracle) FetchPrices(ctx context.Context) (*pricing.Snapshot, error) {
	if err := o.fetcher.Run(ctx); err != nil {
		return nil, err
	}
	return o.snapshots.Current(), nil
}

// ReadState reads every configured contract, keyed by strategy name.
func (o *Oracle) ReadState(ctx context.Context) map[string][]strategy.HomeChainState {
	state := make(map[string][]strategy.HomeChainState, len(o.strategies))
	for _, s := range o.strategies {
		state[s.Name()] = s.ReadState(ctx)
	}
	return state
}

func (o *Oracle) CurrentSnapshot() *pricing.Snapshot {
	return o.snapshots.Current()
}

func (o *Oracle) RecentUpdates(limit int, chainID uint16) ([]store.PriceUpdateTransaction, error) {
	return o.db.RecentUpdates(limit, chainID)
}

func (o *Oracle) ChainHealth(ctx context.Context) map[types.ChainID]bool {
	return o.registry.Health(ctx)
}
