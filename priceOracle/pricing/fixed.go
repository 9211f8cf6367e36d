package pricing

import (
	"context"
	"sort"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
	"github.com/pushchain/relayer-price-oracle/priceOracle/utils"
)

const fixedSourceName = "fixed"

// FixedProvider serves static native prices. Useful for testnets and local runs.
type FixedProvider struct {
	nativePrices map[types.ChainID]sdkmath.Int
	chains       []types.ChainID
	interval     time.Duration
	gasSource    GasPriceSource
	logger       zerolog.Logger
}

var _ Provider = (*FixedProvider)(nil)

// NewFixedProvider parses native prices given as on-chain integers keyed by chain id.
func NewFixedProvider(nativePrices map[string]string, interval time.Duration, gasSource GasPriceSource, logger zerolog.Logger) (*FixedProvider, error) {
	parsed := make(map[types.ChainID]sdkmath.Int, len(nativePrices))
	chains := make([]types.ChainID, 0, len(nativePrices))
	for key, value := range nativePrices {
		id, err := types.ParseChainID(key)
		if err != nil {
			return nil, err
		}
		price, err := utils.ParseInt(value)
		if err != nil {
			return nil, oerrors.Wrapf(err, "native price of chain %d", id)
		}
		parsed[id] = price
		chains = append(chains, id)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })

	return &FixedProvider{
		nativePrices: parsed,
		chains:       chains,
		interval:     interval,
		gasSource:    gasSource,
		logger:       logger.With().Str("component", "fixed_price_provider").Logger(),
	}, nil
}

func (p *FixedProvider) Name() string { return fixedSourceName }

func (p *FixedProvider) PollingInterval() time.Duration { return p.interval }

func (p *FixedProvider) TokenList() []string {
	tokens := make([]string, 0, len(p.chains))
	for _, id := range p.chains {
		tokens = append(tokens, id.Name())
	}
	return tokens
}

func (p *FixedProvider) Fetch(ctx context.Context) (*Snapshot, error) {
	gasPrices, err := p.gasSource.GasPrices(ctx, p.chains)
	if err != nil {
		return nil, oerrors.NewFetchError(fixedSourceName, "failed to get gas prices", err)
	}

	native := make(map[types.ChainID]sdkmath.Int, len(p.nativePrices))
	quotes := make(map[string]float64, len(p.nativePrices))
	for id, price := range p.nativePrices {
		native[id] = price
		quotes[id.Name()] = utils.ToFloat64(price)
	}

	return &Snapshot{
		IsValid:           true,
		Source:            fixedSourceName,
		FetchedAt:         time.Now().UTC(),
		NativeTokenPrices: native,
		GasPrices:         gasPrices,
		Quotes:            quotes,
	}, nil
}
