package chains

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/evm"
	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// unreachableRPC is never dialed eagerly by ethclient for http endpoints.
const unreachableRPC = "http://127.0.0.1:1"

type noopSigner struct{}

func (noopSigner) Address() ethcommon.Address { return ethcommon.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266") }

func (noopSigner) SignTx(tx *ethtypes.Transaction, _ *big.Int) (*ethtypes.Transaction, error) {
	return tx, nil
}

func testConfig() *config.Config {
	evmChainID := int64(1)
	multiplier := 1.5
	return &config.Config{
		ChainConfigs: map[string]config.ChainSpecificConfig{
			"2": {RPCURLs: []string{unreachableRPC}, EVMChainID: &evmChainID},
			"5": {RPCURLs: []string{unreachableRPC}, TxGasPriceMultiplier: &multiplier},
			"6": {Name: "avalanche"},
		},
	}
}

func countingDialer(calls *int, err error) dialFunc {
	return func(ctx context.Context, urls []string, expected *int64, logger zerolog.Logger) (*evm.RPCClient, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		return evm.NewRPCClient(ctx, urls, expected, logger)
	}
}

func TestRegistryClient(t *testing.T) {
	r := NewRegistry(testConfig(), zerolog.Nop())
	dials := 0
	r.dial = countingDialer(&dials, nil)

	ctx := context.Background()
	first, err := r.Client(ctx, 2)
	require.NoError(t, err)
	second, err := r.Client(ctx, 2)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, dials)
	assert.Len(t, r.Health(ctx), 1)

	r.Close()
	assert.Empty(t, r.Health(ctx))

	_, err = r.Client(ctx, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry closed")
}

func TestRegistryMissingRPC(t *testing.T) {
	r := NewRegistry(testConfig(), zerolog.Nop())

	for _, id := range []types.ChainID{6, 30} {
		_, err := r.Client(context.Background(), id)
		require.Error(t, err)
		assert.True(t, oerrors.IsChainError(err, oerrors.ErrCodeConfig))
		assert.Contains(t, err.Error(), "no rpc_urls configured")
	}
}

func TestRegistryDialFailureIsRetried(t *testing.T) {
	r := NewRegistry(testConfig(), zerolog.Nop())
	dials := 0
	r.dial = countingDialer(&dials, errors.New("failed to connect to any valid RPC endpoints"))

	for i := 0; i < 2; i++ {
		_, err := r.Client(context.Background(), 2)
		require.Error(t, err)
		assert.True(t, oerrors.IsChainError(err, oerrors.ErrCodeOnChainRead))
		assert.True(t, oerrors.IsRetryable(err))
	}
	assert.Equal(t, 2, dials)
	assert.Empty(t, r.Health(context.Background()))
}

func TestRegistryBindings(t *testing.T) {
	r := NewRegistry(testConfig(), zerolog.Nop())
	t.Cleanup(r.Close)
	contract := ethcommon.HexToAddress("0x1111111111111111111111111111111111111111")

	reader, err := r.Reader(context.Background(), 2, contract)
	require.NoError(t, err)
	provider, ok := reader.(*evm.DeliveryProvider)
	require.True(t, ok)
	assert.Equal(t, contract, provider.Address())

	writer, err := r.Writer(context.Background(), 2, contract, noopSigner{})
	require.NoError(t, err)
	assert.IsType(t, &evm.PriceUpdater{}, writer)

	suggester, err := r.Suggester(context.Background(), 2)
	require.NoError(t, err)
	assert.NotNil(t, suggester)

	_, err = r.Writer(context.Background(), 6, contract, noopSigner{})
	require.Error(t, err)
	assert.True(t, oerrors.IsChainError(err, oerrors.ErrCodeConfig))
}

func TestRegistryWriterNeedsChainID(t *testing.T) {
	r := NewRegistry(testConfig(), zerolog.Nop())
	t.Cleanup(r.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// chain 5 has no evm_chain_id and its node is unreachable
	_, err := r.Writer(ctx, 5, ethcommon.Address{}, noopSigner{})
	require.Error(t, err)
	assert.True(t, oerrors.IsChainError(err, oerrors.ErrCodeOnChainRead))
	assert.Contains(t, err.Error(), "eth_chainId")
}

func TestRegistryHealth(t *testing.T) {
	r := NewRegistry(testConfig(), zerolog.Nop())
	t.Cleanup(r.Close)

	_, err := r.Client(context.Background(), 2)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	health := r.Health(ctx)
	assert.Equal(t, map[types.ChainID]bool{2: false}, health)
}

// hangingDialer blocks dials of chain 2 until ctx is done and dials every
// other chain normally.
func hangingDialer(started chan<- struct{}) dialFunc {
	return func(ctx context.Context, urls []string, expected *int64, logger zerolog.Logger) (*evm.RPCClient, error) {
		if urls[0] == hangingRPC {
			started <- struct{}{}
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return evm.NewRPCClient(ctx, urls, expected, logger)
	}
}

const hangingRPC = "http://127.0.0.1:2"

func hangingConfig() *config.Config {
	cfg := testConfig()
	chain2 := cfg.ChainConfigs["2"]
	chain2.RPCURLs = []string{hangingRPC}
	cfg.ChainConfigs["2"] = chain2
	cfg.ChainConfigs["4"] = config.ChainSpecificConfig{RPCURLs: []string{unreachableRPC}}
	return cfg
}

func TestRegistrySlowDialDoesNotBlockOtherChains(t *testing.T) {
	r := NewRegistry(hangingConfig(), zerolog.Nop())
	t.Cleanup(r.Close)
	started := make(chan struct{}, 1)
	r.dial = hangingDialer(started)

	_, err := r.Client(context.Background(), 5)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dialErr := make(chan error, 1)
	go func() {
		_, err := r.Client(ctx, 2)
		dialErr <- err
	}()
	<-started

	done := make(chan error, 1)
	go func() {
		_, err := r.Suggester(context.Background(), 5)
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("connected chain 5 blocked behind the dial of chain 2")
	}

	// a second chain can dial while chain 2 is still hanging
	_, err = r.Client(context.Background(), 4)
	require.NoError(t, err)

	cancel()
	select {
	case err := <-dialErr:
		require.Error(t, err)
		assert.True(t, oerrors.IsChainError(err, oerrors.ErrCodeOnChainRead))
	case <-time.After(time.Second):
		t.Fatal("dial of chain 2 ignored cancellation")
	}
}

func TestRegistryWaitingDialHonoursContext(t *testing.T) {
	r := NewRegistry(hangingConfig(), zerolog.Nop())
	t.Cleanup(r.Close)
	started := make(chan struct{}, 1)
	r.dial = hangingDialer(started)

	first, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()
	go func() { _, _ = r.Client(first, 2) }()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := r.Client(ctx, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
