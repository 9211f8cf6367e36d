package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/common"
	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/mocks"
	"github.com/pushchain/relayer-price-oracle/priceOracle/pricing"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

const (
	ethContract = "0x1111111111111111111111111111111111111111"
	bscContract = "0x2222222222222222222222222222222222222222"
)

type fakeReaders struct {
	readers map[types.ChainID]common.PriceReader
	calls   []types.ChainID
}

func (f *fakeReaders) Reader(_ context.Context, chainID types.ChainID, _ ethcommon.Address) (common.PriceReader, error) {
	f.calls = append(f.calls, chainID)
	r, ok := f.readers[chainID]
	if !ok {
		return nil, oerrors.NewConfigError(chainID.String(), "no rpc_urls configured")
	}
	return r, nil
}

type recordingExecutor struct {
	strategy string
	updates  []types.PendingUpdate
	calls    int
}

func (r *recordingExecutor) ExecuteAll(_ context.Context, strategy string, updates []types.PendingUpdate) {
	r.calls++
	r.strategy = strategy
	r.updates = updates
}

type staticSnapshots struct {
	snap *pricing.Snapshot
}

func (s staticSnapshots) Current() *pricing.Snapshot { return s.snap }

type strategyFixture struct {
	ctrl     *gomock.Controller
	reporter *mocks.MockReporter
	readers  *fakeReaders
	executor *recordingExecutor
}

func newStrategyFixture(t *testing.T) *strategyFixture {
	t.Helper()
	f := &strategyFixture{
		ctrl:     gomock.NewController(t),
		readers:  &fakeReaders{readers: map[types.ChainID]common.PriceReader{}},
		executor: &recordingExecutor{},
	}
	t.Cleanup(f.ctrl.Finish)
	f.reporter = mocks.NewMockReporter(f.ctrl)
	return f
}

func (f *strategyFixture) newStrategy(t *testing.T, snap *pricing.Snapshot, mutate func(cfg *config.StrategyConfig)) *RelayerStrategy {
	t.Helper()
	cfg := config.StrategyConfig{
		Name:          "generic-relayer",
		RunIntervalMs: 1500,
		ContractAddresses: []config.ContractAddressConfig{
			{ChainID: 2, Address: ethContract},
			{ChainID: 4, Address: bscContract},
		},
		GasPriceTolerance:    0.05,
		NativePriceTolerance: 0.05,
		GasPriceMarkup:       0.1,
		MaxIncrease:          0.5,
		MaxDecrease:          0.5,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	s, err := NewRelayerStrategy(Config{
		Strategy:   cfg,
		Snapshots:  staticSnapshots{snap: snap},
		Readers:    f.readers,
		Executor:   f.executor,
		Reporter:   f.reporter,
		ChainNames: types.ChainNames{4: "bnb-smart-chain"},
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	return s
}

// expectStored makes reader return the given (native, gas) for each remote chain.
func expectStored(reader *mocks.MockPriceReader, prices map[types.ChainID][2]int64) {
	for remote, p := range prices {
		reader.EXPECT().NativeCurrencyPrice(gomock.Any(), remote).Return(sdkmath.NewInt(p[0]), nil).AnyTimes()
		reader.EXPECT().GasPrice(gomock.Any(), remote).Return(sdkmath.NewInt(p[1]), nil).AnyTimes()
	}
}

func TestRelayerStrategyProcessSurface(t *testing.T) {
	f := newStrategyFixture(t)
	s := f.newStrategy(t, pricing.InvalidSnapshot(), nil)

	assert.Equal(t, "generic-relayer", s.Name())
	assert.Equal(t, 1500*time.Millisecond, s.Interval())
	require.Len(t, s.Contracts(), 2)
	assert.Equal(t, ethcommon.HexToAddress(ethContract), s.Contracts()[0].Address)
}

func TestRelayerStrategySkipsInvalidSnapshot(t *testing.T) {
	f := newStrategyFixture(t)
	s := f.newStrategy(t, pricing.InvalidSnapshot(), nil)

	require.NoError(t, s.Run(context.Background()))
	assert.Empty(t, f.readers.calls, "no chain is read without a valid snapshot")
	assert.Zero(t, f.executor.calls)
}

func TestRelayerStrategyFailureIsolation(t *testing.T) {
	f := newStrategyFixture(t)
	f.reporter.EXPECT().ReportContractPrice(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	ethReader := mocks.NewMockPriceReader(f.ctrl)
	expectStored(ethReader, map[types.ChainID][2]int64{
		2: {2_000_000_000, 33_000_000_000},
		4: {500_000_000, 3_300_000_000},
	})
	f.readers.readers[2] = ethReader
	// chain 4 has no RPC endpoint

	snap := snapshotOf(map[types.ChainID][2]int64{
		2: {2_500_000_000, 30_000_000_000},
		4: {500_000_000, 3_000_000_000},
	})
	s := f.newStrategy(t, snap, nil)

	require.NoError(t, s.Run(context.Background()))

	require.Equal(t, 1, f.executor.calls)
	assert.Equal(t, "generic-relayer", f.executor.strategy)
	require.Len(t, f.executor.updates, 1)

	update := f.executor.updates[0]
	assert.Equal(t, types.ChainID(2), update.ChainID)
	assert.Equal(t, types.PayloadDeliveryProviderPrices, update.Kind)
	assert.Equal(t, ethcommon.HexToAddress(ethContract), update.ContractAddress)
	require.Len(t, update.Prices, 1)
	assert.Equal(t, types.ChainID(2), update.Prices[0].RemoteChainID)
	assert.Equal(t, "2500000000", update.Prices[0].NativePrice.String())
	assert.Equal(t, "33000000000", update.Prices[0].GasPrice.String())
	assert.NoError(t, update.Validate())

	assert.Equal(t, []types.ChainID{2, 4}, f.readers.calls)
}

func TestRelayerStrategyOutOfRangeStoredPrice(t *testing.T) {
	f := newStrategyFixture(t)
	f.reporter.EXPECT().ReportContractPrice(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	huge := maxUint256()
	ethReader := mocks.NewMockPriceReader(f.ctrl)
	for _, remote := range []types.ChainID{2, 4} {
		ethReader.EXPECT().NativeCurrencyPrice(gomock.Any(), remote).Return(huge, nil)
		ethReader.EXPECT().GasPrice(gomock.Any(), remote).Return(huge, nil)
	}
	f.readers.readers[2] = ethReader

	bscReader := mocks.NewMockPriceReader(f.ctrl)
	expectStored(bscReader, map[types.ChainID][2]int64{2: {100, 11}, 4: {100, 11}})
	f.readers.readers[4] = bscReader

	s := f.newStrategy(t, snapshotOf(map[types.ChainID][2]int64{2: {120, 10}, 4: {100, 10}}), nil)

	require.NotPanics(t, func() { require.NoError(t, s.Run(context.Background())) })

	require.Equal(t, 1, f.executor.calls)
	require.Len(t, f.executor.updates, 1)
	assert.Equal(t, types.ChainID(4), f.executor.updates[0].ChainID)
	require.Len(t, f.executor.updates[0].Prices, 1)
	assert.Equal(t, "120", f.executor.updates[0].Prices[0].NativePrice.String())
}

func TestRelayerStrategyNoUpdatesWithinTolerance(t *testing.T) {
	f := newStrategyFixture(t)
	f.reporter.EXPECT().ReportContractPrice(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	onChain := map[types.ChainID][2]int64{2: {100, 11}, 4: {100, 11}}
	for _, id := range []types.ChainID{2, 4} {
		reader := mocks.NewMockPriceReader(f.ctrl)
		expectStored(reader, onChain)
		f.readers.readers[id] = reader
	}

	s := f.newStrategy(t, snapshotOf(map[types.ChainID][2]int64{2: {101, 10}, 4: {99, 10}}), nil)

	require.NoError(t, s.Run(context.Background()))
	assert.Zero(t, f.executor.calls, "home chains without qualifying entries produce nothing")
}

func TestRelayerStrategyReadState(t *testing.T) {
	f := newStrategyFixture(t)

	reader := mocks.NewMockPriceReader(f.ctrl)
	reader.EXPECT().GasPrice(gomock.Any(), types.ChainID(2)).Return(sdkmath.NewInt(30), nil)
	reader.EXPECT().NativeCurrencyPrice(gomock.Any(), types.ChainID(2)).Return(sdkmath.NewInt(3000), nil)
	reader.EXPECT().GasPrice(gomock.Any(), types.ChainID(4)).Return(sdkmath.Int{}, errors.New("execution reverted"))
	f.readers.readers[2] = reader

	f.reporter.EXPECT().ReportContractPrice("ethereum", false, 3000.0)
	f.reporter.EXPECT().ReportContractPrice("ethereum", true, 30.0)

	s := f.newStrategy(t, nil, func(cfg *config.StrategyConfig) {
		cfg.ContractAddresses[1].Address = ""
	})

	states := s.ReadState(context.Background())
	require.Len(t, states, 2)

	eth := states[0]
	require.NoError(t, eth.Err)
	require.Len(t, eth.Entries, 2)
	require.NotNil(t, eth.Entries[0].Data)
	assert.Equal(t, "3000", eth.Entries[0].Data.NativePrice.String())
	assert.Equal(t, types.ChainID(4), eth.Entries[1].RemoteChainID)
	assert.Nil(t, eth.Entries[1].Data, "a failed entry read is kept as nil data")

	bsc := states[1]
	require.Error(t, bsc.Err)
	assert.True(t, oerrors.IsChainError(bsc.Err, oerrors.ErrCodeConfig))
	assert.Contains(t, bsc.Err.Error(), "no contract address configured")
	assert.Equal(t, []types.ChainID{2}, f.readers.calls, "a chain without an address is never dialed")
}

func TestRelayerStrategyWholeChainReadFailure(t *testing.T) {
	f := newStrategyFixture(t)

	reader := mocks.NewMockPriceReader(f.ctrl)
	reader.EXPECT().GasPrice(gomock.Any(), gomock.Any()).Return(sdkmath.Int{}, errors.New("connection refused")).Times(2)
	f.readers.readers[2] = reader

	s := f.newStrategy(t, nil, func(cfg *config.StrategyConfig) {
		cfg.ContractAddresses = cfg.ContractAddresses[:1]
		cfg.RemoteChains = []uint16{2, 4}
	})

	states := s.ReadState(context.Background())
	require.Len(t, states, 1)
	require.Error(t, states[0].Err)
	assert.True(t, oerrors.IsChainError(states[0].Err, oerrors.ErrCodeOnChainRead))
	assert.Contains(t, states[0].Err.Error(), "connection refused")
}

func TestRelayerStrategyRemoteChainsAndNames(t *testing.T) {
	f := newStrategyFixture(t)

	reader := mocks.NewMockPriceReader(f.ctrl)
	expectStored(reader, map[types.ChainID][2]int64{4: {600, 3}})
	f.readers.readers[2] = reader

	f.reporter.EXPECT().ReportContractPrice("bnb-smart-chain", false, 600.0)
	f.reporter.EXPECT().ReportContractPrice("bnb-smart-chain", true, 3.0)

	s := f.newStrategy(t, nil, func(cfg *config.StrategyConfig) {
		cfg.ContractAddresses = cfg.ContractAddresses[:1]
		cfg.RemoteChains = []uint16{4}
	})

	states := s.ReadState(context.Background())
	require.Len(t, states, 1)
	require.NoError(t, states[0].Err)
	require.Len(t, states[0].Entries, 1)
	assert.Equal(t, types.ChainID(4), states[0].Entries[0].RemoteChainID)
}

func TestRelayerStrategyStopsOnCancel(t *testing.T) {
	f := newStrategyFixture(t)
	s := f.newStrategy(t, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, s.ReadState(ctx))
	assert.Empty(t, f.readers.calls)
}

func TestNewRelayerStrategyErrors(t *testing.T) {
	f := newStrategyFixture(t)

	_, err := NewRelayerStrategy(Config{
		Strategy: config.StrategyConfig{Name: "broken", GasPriceTolerance: 0.1},
		Logger:   zerolog.Nop(),
	})
	require.Error(t, err)
	assert.True(t, oerrors.IsGlobalConfigError(err))

	_, err = NewRelayerStrategy(Config{
		Strategy: config.StrategyConfig{
			Name:                 "bad-address",
			ContractAddresses:    []config.ContractAddressConfig{{ChainID: 2, Address: "0x12"}},
			GasPriceTolerance:    0.1,
			NativePriceTolerance: 0.1,
			GasPriceMarkup:       0.1,
			MaxIncrease:          0.1,
			MaxDecrease:          0.1,
		},
		Readers: f.readers,
		Logger:  zerolog.Nop(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid contract address")
}
