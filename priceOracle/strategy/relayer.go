package strategy

import (
	"context"
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/common"
	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/metrics"
	"github.com/pushchain/relayer-price-oracle/priceOracle/pricing"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
	"github.com/pushchain/relayer-price-oracle/priceOracle/utils"
)

// ReaderFactory binds a price reader to the delivery provider on a home chain.
// It fails with a configuration error when the chain has no RPC endpoint.
type ReaderFactory interface {
	Reader(ctx context.Context, chainID types.ChainID, contract ethcommon.Address) (common.PriceReader, error)
}

// SnapshotSource returns the latest published pricing snapshot.
type SnapshotSource interface {
	Current() *pricing.Snapshot
}

// Executor submits the pending updates of one cycle. Per-chain failures are
// handled inside and never returned.
type Executor interface {
	ExecuteAll(ctx context.Context, strategy string, updates []types.PendingUpdate)
}

// Contract is the delivery provider of one home chain. A zero Address means
// none is configured.
type Contract struct {
	ChainID types.ChainID
	Address ethcommon.Address
}

// HomeChainState is the on-chain price state read from one home chain.
type HomeChainState struct {
	ChainID  types.ChainID
	Contract ethcommon.Address
	Entries  []types.OnChainPrice
	Err      error
}

// Config wires a RelayerStrategy.
type Config struct {
	Strategy   config.StrategyConfig
	Snapshots  SnapshotSource
	Readers    ReaderFactory
	Executor   Executor
	Reporter   metrics.Reporter
	ChainNames types.ChainNames
	Logger     zerolog.Logger
}

// RelayerStrategy keeps the delivery providers of every configured home chain
// in line with the pricing snapshot.
type RelayerStrategy struct {
	name      string
	interval  time.Duration
	params    Params
	contracts []Contract
	remotes   []types.ChainID

	snapshots  SnapshotSource
	readers    ReaderFactory
	executor   Executor
	reporter   metrics.Reporter
	chainNames types.ChainNames
	logger     zerolog.Logger
}

// NewRelayerStrategy validates the tuning parameters and builds the strategy.
func NewRelayerStrategy(cfg Config) (*RelayerStrategy, error) {
	params, err := ParamsFromConfig(cfg.Strategy)
	if err != nil {
		return nil, oerrors.NewConfigError("", fmt.Sprintf("strategy %q: %v", cfg.Strategy.Name, err))
	}

	contracts := make([]Contract, 0, len(cfg.Strategy.ContractAddresses))
	for _, c := range cfg.Strategy.ContractAddresses {
		contract := Contract{ChainID: types.ChainID(c.ChainID)}
		if c.Address != "" {
			if !ethcommon.IsHexAddress(c.Address) {
				return nil, oerrors.NewConfigError(contract.ChainID.String(), fmt.Sprintf("invalid contract address %q", c.Address))
			}
			contract.Address = ethcommon.HexToAddress(c.Address)
		}
		contracts = append(contracts, contract)
	}

	remotes := make([]types.ChainID, 0, len(contracts))
	if len(cfg.Strategy.RemoteChains) > 0 {
		for _, id := range cfg.Strategy.RemoteChains {
			remotes = append(remotes, types.ChainID(id))
		}
	} else {
		for _, c := range contracts {
			remotes = append(remotes, c.ChainID)
		}
	}

	return &RelayerStrategy{
		name:       cfg.Strategy.Name,
		interval:   utils.Milliseconds(int64(cfg.Strategy.RunIntervalMs)),
		params:     params,
		contracts:  contracts,
		remotes:    remotes,
		snapshots:  cfg.Snapshots,
		readers:    cfg.Readers,
		executor:   cfg.Executor,
		reporter:   cfg.Reporter,
		chainNames: cfg.ChainNames,
		logger:     cfg.Logger.With().Str("component", "strategy").Str("strategy", cfg.Strategy.Name).Logger(),
	}, nil
}

func (s *RelayerStrategy) Name() string { return s.name }

func (s *RelayerStrategy) Interval() time.Duration { return s.interval }

// Contracts returns the home chains in processing order.
func (s *RelayerStrategy) Contracts() []Contract {
	return append([]Contract(nil), s.contracts...)
}

// Run performs one reconciliation cycle against the latest snapshot.
func (s *RelayerStrategy) Run(ctx context.Context) error {
	snap := s.snapshots.Current()
	if snap == nil || !snap.IsValid {
		s.logger.Info().Msg("pricing snapshot not valid yet, skipping cycle")
		return nil
	}

	updates := s.Calculate(ctx, snap)
	if len(updates) == 0 {
		s.logger.Debug().Uint64("snapshot_version", snap.Version).Msg("all contract prices within tolerance")
		return nil
	}

	s.logger.Info().
		Uint64("snapshot_version", snap.Version).
		Int("home_chains", len(updates)).
		Msg("submitting price updates")
	s.executor.ExecuteAll(ctx, s.name, updates)
	return nil
}

// Calculate reads every home chain and returns one pending update per home
// chain with at least one entry to change. Chains whose state cannot be read
// are logged and left out.
func (s *RelayerStrategy) Calculate(ctx context.Context, snap *pricing.Snapshot) []types.PendingUpdate {
	var updates []types.PendingUpdate
	for _, state := range s.ReadState(ctx) {
		if state.Err != nil {
			s.logger.Error().
				Err(state.Err).
				Uint16("chain_id", uint16(state.ChainID)).
				Str("severity", string(oerrors.GetSeverity(state.Err))).
				Msg("skipping home chain")
			continue
		}

		prices := calculateRequiredUpdates(state.ChainID, state.Entries, snap, s.params, s.logger)
		if len(prices) == 0 {
			continue
		}
		updates = append(updates, types.PendingUpdate{
			ChainID:         state.ChainID,
			Kind:            types.PayloadDeliveryProviderPrices,
			ContractAddress: state.Contract,
			Prices:          prices,
		})
	}
	return updates
}

// ReadState reads the stored prices of every remote chain on every home chain, in order.
func (s *RelayerStrategy) ReadState(ctx context.Context) []HomeChainState {
	states := make([]HomeChainState, 0, len(s.contracts))
	for _, c := range s.contracts {
		if ctx.Err() != nil {
			break
		}
		entries, err := s.readHomeChain(ctx, c)
		states = append(states, HomeChainState{
			ChainID:  c.ChainID,
			Contract: c.Address,
			Entries:  entries,
			Err:      err,
		})
	}
	return states
}

func (s *RelayerStrategy) readHomeChain(ctx context.Context, c Contract) ([]types.OnChainPrice, error) {
	chain := c.ChainID.String()
	if c.Address == (ethcommon.Address{}) {
		return nil, oerrors.NewConfigError(chain, "no contract address configured")
	}

	reader, err := s.readers.Reader(ctx, c.ChainID, c.Address)
	if err != nil {
		var chainErr *oerrors.ChainError
		if oerrors.As(err, &chainErr) {
			return nil, err
		}
		return nil, oerrors.NewOnChainReadError(chain, "failed to connect", err)
	}

	entries := make([]types.OnChainPrice, 0, len(s.remotes))
	var lastErr error
	failures := 0
	for _, remote := range s.remotes {
		data, err := readEntry(ctx, reader, remote)
		if err != nil {
			failures++
			lastErr = err
			s.logger.Error().
				Err(err).
				Uint16("chain_id", uint16(c.ChainID)).
				Uint16("remote_chain", uint16(remote)).
				Msg("failed to read contract prices")
			entries = append(entries, types.OnChainPrice{RemoteChainID: remote})
			continue
		}

		entries = append(entries, types.OnChainPrice{RemoteChainID: remote, Data: data})
		name := s.chainNames.Lookup(remote)
		s.reporter.ReportContractPrice(name, false, utils.ToFloat64(data.NativePrice))
		s.reporter.ReportContractPrice(name, true, utils.ToFloat64(data.GasPrice))
	}

	if failures > 0 && failures == len(s.remotes) {
		return nil, oerrors.NewOnChainReadError(chain, "every price read failed", lastErr)
	}
	return entries, nil
}

func readEntry(ctx context.Context, reader common.PriceReader, remote types.ChainID) (*types.PriceData, error) {
	gas, err := reader.GasPrice(ctx, remote)
	if err != nil {
		return nil, err
	}
	native, err := reader.NativeCurrencyPrice(ctx, remote)
	if err != nil {
		return nil, err
	}
	return &types.PriceData{GasPrice: gas, NativePrice: native}, nil
}
