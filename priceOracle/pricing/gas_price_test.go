package pricing

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/common"
	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	"github.com/pushchain/relayer-price-oracle/priceOracle/mocks"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

func TestFixedGasPriceSource(t *testing.T) {
	src, err := NewFixedGasPriceSource(map[string]string{"2": "12.5"}, "30")
	require.NoError(t, err)

	prices, err := src.GasPrices(context.Background(), []types.ChainID{2, 4})
	require.NoError(t, err)
	assert.Equal(t, "12500000000", prices[2].String())
	assert.Equal(t, "30000000000", prices[4].String())
}

func TestFixedGasPriceSourceErrors(t *testing.T) {
	_, err := NewFixedGasPriceSource(nil, "thirty")
	require.Error(t, err)

	_, err = NewFixedGasPriceSource(map[string]string{"2": "-1"}, "30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gas price of chain 2")

	_, err = NewFixedGasPriceSource(map[string]string{"x": "1"}, "30")
	require.Error(t, err)
}

func TestRPCGasPriceSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	healthy := mocks.NewMockGasPriceSuggester(ctrl)
	healthy.EXPECT().SuggestGasPrice(gomock.Any()).Return(sdkmath.NewInt(15_000_000_000), nil)

	failing := mocks.NewMockGasPriceSuggester(ctrl)
	failing.EXPECT().SuggestGasPrice(gomock.Any()).Return(sdkmath.Int{}, errors.New("connection refused"))

	lookup := func(_ context.Context, id types.ChainID) (common.GasPriceSuggester, error) {
		switch id {
		case 2:
			return healthy, nil
		case 5:
			return failing, nil
		}
		return nil, errors.New("no rpc configured")
	}

	src, err := NewRPCGasPriceSource(lookup, "30", zerolog.Nop())
	require.NoError(t, err)

	prices, err := src.GasPrices(context.Background(), []types.ChainID{2, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, "15000000000", prices[2].String())
	assert.Equal(t, "30000000000", prices[4].String(), "unknown chain falls back to the default")
	assert.Equal(t, "30000000000", prices[5].String(), "failed rpc falls back to the default")
}

func TestRPCGasPriceSourceCancelled(t *testing.T) {
	src, err := NewRPCGasPriceSource(func(context.Context, types.ChainID) (common.GasPriceSuggester, error) {
		return nil, errors.New("unused")
	}, "30", zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = src.GasPrices(ctx, []types.ChainID{2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGasPriceSource(t *testing.T) {
	cfg := config.PriceFetcherConfig{GasPriceSource: config.GasPriceSourceFixed, DefaultGasPriceGwei: "30"}
	src, err := NewGasPriceSource(cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &FixedGasPriceSource{}, src)

	cfg.GasPriceSource = config.GasPriceSourceRPC
	src, err = NewGasPriceSource(cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &RPCGasPriceSource{}, src)

	cfg.GasPriceSource = "oracle"
	_, err = NewGasPriceSource(cfg, nil, zerolog.Nop())
	require.Error(t, err)
}
