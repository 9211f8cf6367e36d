package pricing

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/common"
	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
	"github.com/pushchain/relayer-price-oracle/priceOracle/utils"
)

// GasPriceSource supplies the raw gas price (wei) of each chain in a snapshot.
type GasPriceSource interface {
	GasPrices(ctx context.Context, chains []types.ChainID) (map[types.ChainID]sdkmath.Int, error)
}

// SuggesterLookup returns the gas price suggester of a chain.
type SuggesterLookup func(ctx context.Context, chainID types.ChainID) (common.GasPriceSuggester, error)

// FixedGasPriceSource serves configured gas prices, falling back to a default.
type FixedGasPriceSource struct {
	prices   map[types.ChainID]sdkmath.Int
	fallback sdkmath.Int
}

// NewFixedGasPriceSource parses per-chain gwei prices and the default.
func NewFixedGasPriceSource(pricesGwei map[string]string, defaultGwei string) (*FixedGasPriceSource, error) {
	fallback, err := utils.ParseUnits(defaultGwei, utils.GweiDecimals)
	if err != nil {
		return nil, fmt.Errorf("default gas price: %w", err)
	}
	prices := make(map[types.ChainID]sdkmath.Int, len(pricesGwei))
	for key, gwei := range pricesGwei {
		id, err := types.ParseChainID(key)
		if err != nil {
			return nil, err
		}
		wei, err := utils.ParseUnits(gwei, utils.GweiDecimals)
		if err != nil {
			return nil, fmt.Errorf("gas price of chain %d: %w", id, err)
		}
		prices[id] = wei
	}
	return &FixedGasPriceSource{prices: prices, fallback: fallback}, nil
}

func (s *FixedGasPriceSource) GasPrices(_ context.Context, chains []types.ChainID) (map[types.ChainID]sdkmath.Int, error) {
	out := make(map[types.ChainID]sdkmath.Int, len(chains))
	for _, id := range chains {
		if p, ok := s.prices[id]; ok {
			out[id] = p
			continue
		}
		out[id] = s.fallback
	}
	return out, nil
}

// RPCGasPriceSource asks each chain's node for its gas price. Chains that
// cannot be reached get the fallback price.
type RPCGasPriceSource struct {
	lookup   SuggesterLookup
	fallback sdkmath.Int
	logger   zerolog.Logger
}

// NewRPCGasPriceSource creates a node-backed gas price source.
func NewRPCGasPriceSource(lookup SuggesterLookup, defaultGwei string, logger zerolog.Logger) (*RPCGasPriceSource, error) {
	fallback, err := utils.ParseUnits(defaultGwei, utils.GweiDecimals)
	if err != nil {
		return nil, fmt.Errorf("default gas price: %w", err)
	}
	return &RPCGasPriceSource{
		lookup:   lookup,
		fallback: fallback,
		logger:   logger.With().Str("component", "rpc_gas_price_source").Logger(),
	}, nil
}

func (s *RPCGasPriceSource) GasPrices(ctx context.Context, chains []types.ChainID) (map[types.ChainID]sdkmath.Int, error) {
	out := make(map[types.ChainID]sdkmath.Int, len(chains))
	for _, id := range chains {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[id] = s.gasPrice(ctx, id)
	}
	return out, nil
}

func (s *RPCGasPriceSource) gasPrice(ctx context.Context, id types.ChainID) sdkmath.Int {
	suggester, err := s.lookup(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Uint16("chain_id", uint16(id)).Msg("no gas price suggester, using default gas price")
		return s.fallback
	}
	price, err := suggester.SuggestGasPrice(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Uint16("chain_id", uint16(id)).Msg("failed to get gas price, using default gas price")
		return s.fallback
	}
	return price
}

// NewGasPriceSource builds the gas price source selected in the configuration.
func NewGasPriceSource(cfg config.PriceFetcherConfig, lookup SuggesterLookup, logger zerolog.Logger) (GasPriceSource, error) {
	switch cfg.GasPriceSource {
	case config.GasPriceSourceRPC:
		return NewRPCGasPriceSource(lookup, cfg.DefaultGasPriceGwei, logger)
	case config.GasPriceSourceFixed, "":
		return NewFixedGasPriceSource(cfg.FixedGasPricesGwei, cfg.DefaultGasPriceGwei)
	default:
		return nil, fmt.Errorf("unsupported gas price source %q", cfg.GasPriceSource)
	}
}
