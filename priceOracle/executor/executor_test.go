package executor

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/common"
	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/evm"
	"github.com/pushchain/relayer-price-oracle/priceOracle/db"
	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/metrics"
	"github.com/pushchain/relayer-price-oracle/priceOracle/mocks"
	"github.com/pushchain/relayer-price-oracle/priceOracle/store"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

var contractAddr = ethcommon.HexToAddress("0x1111111111111111111111111111111111111111")

type staticSigner struct{}

func (staticSigner) Address() ethcommon.Address {
	return ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa")
}

func (staticSigner) SignTx(tx *ethtypes.Transaction, _ *big.Int) (*ethtypes.Transaction, error) {
	return tx, nil
}

type signerMap map[types.ChainID]bool

func (s signerMap) TxSigner(chainID types.ChainID) (evm.TxSigner, error) {
	if !s[chainID] {
		return nil, oerrors.NewMissingSignerError(chainID.String())
	}
	return staticSigner{}, nil
}

type writerMap map[types.ChainID]common.PriceWriter

func (w writerMap) Writer(_ context.Context, chainID types.ChainID, _ ethcommon.Address, _ evm.TxSigner) (common.PriceWriter, error) {
	writer, ok := w[chainID]
	if !ok {
		return nil, oerrors.NewOnChainReadError(chainID.String(), "failed to connect", errors.New("dial refused"))
	}
	return writer, nil
}

func updateFor(chainID types.ChainID, remotes ...types.ChainID) types.PendingUpdate {
	prices := make([]types.PriceInfo, 0, len(remotes))
	for i, remote := range remotes {
		prices = append(prices, types.PriceInfo{
			RemoteChainID: remote,
			GasPrice:      sdkmath.NewInt(int64(30_000_000_000 + i)),
			NativePrice:   sdkmath.NewInt(int64(3_000_000_000 + i)),
		})
	}
	return types.PendingUpdate{
		ChainID:         chainID,
		Kind:            types.PayloadDeliveryProviderPrices,
		ContractAddress: contractAddr,
		Prices:          prices,
	}
}

type fixture struct {
	ctrl     *gomock.Controller
	reporter *mocks.MockReporter
	history  *db.DB
	writers  writerMap
	signers  signerMap
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	history, err := db.OpenInMemoryDB(true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })

	return &fixture{
		ctrl:     ctrl,
		reporter: mocks.NewMockReporter(ctrl),
		history:  history,
		writers:  writerMap{},
		signers:  signerMap{},
	}
}

func (f *fixture) executor(dryRun bool) *Executor {
	return New(Config{
		Signers:        f.signers,
		Writers:        f.writers,
		History:        f.history,
		Reporter:       f.reporter,
		ChainNames:     types.ChainNames{2: "ethereum", 4: "bsc", 6: "avalanche"},
		ReceiptTimeout: func(types.ChainID) time.Duration { return time.Second },
		DryRun:         dryRun,
		Logger:         zerolog.Nop(),
	})
}

func (f *fixture) confirmedWriter(hash string, receipt *common.Receipt) *mocks.MockPriceWriter {
	handle := mocks.NewMockTxHandle(f.ctrl)
	handle.EXPECT().Hash().Return(hash).AnyTimes()
	handle.EXPECT().Wait(gomock.Any()).Return(receipt, nil)

	writer := mocks.NewMockPriceWriter(f.ctrl)
	writer.EXPECT().UpdatePrices(gomock.Any(), gomock.Any()).Return(handle, nil)
	return writer
}

func (f *fixture) records(t *testing.T) []store.PriceUpdateTransaction {
	records, err := f.history.RecentUpdates(10, 0)
	require.NoError(t, err)
	return records
}

func TestExecuteSuccess(t *testing.T) {
	f := newFixture(t)
	f.signers[2] = true
	f.writers[2] = f.confirmedWriter("0xabc", &common.Receipt{TxHash: "0xabc", Status: 1, GasUsed: 51000, BlockNumber: 7})

	f.reporter.EXPECT().ReportPriceUpdate(types.ChainID(2), metrics.StatusSuccess)
	f.reporter.EXPECT().ReportPriceUpdateGas("ethereum", uint64(51000))
	f.reporter.EXPECT().ReportContractPrice("bsc", false, gomock.Any())
	f.reporter.EXPECT().ReportContractPrice("bsc", true, gomock.Any())
	f.reporter.EXPECT().ReportContractPrice("avalanche", false, gomock.Any())
	f.reporter.EXPECT().ReportContractPrice("avalanche", true, gomock.Any())

	res, err := f.executor(false).Execute(context.Background(), "generic-relayer", updateFor(2, 4, 6))
	require.NoError(t, err)
	assert.Equal(t, "0xabc", res.TxHash)
	assert.Equal(t, uint64(51000), res.GasUsed)
	assert.False(t, res.DryRun)

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, store.StatusSuccess, records[0].Status)
	assert.Equal(t, "0xabc", records[0].TxHash)
	assert.Equal(t, 2, records[0].Entries)
	assert.Equal(t, uint64(51000), records[0].GasUsed)
	assert.Equal(t, "generic-relayer", records[0].Strategy)
	assert.Contains(t, string(records[0].Payload), `"gas_price":"30000000000"`)
}

func TestExecuteFailures(t *testing.T) {
	testCases := []struct {
		name     string
		setup    func(f *fixture)
		update   types.PendingUpdate
		errorMsg string
		code     oerrors.ErrorCode
		recorded bool
		txHash   string
	}{
		{
			name:     "invalid update",
			update:   types.PendingUpdate{ChainID: 2, Kind: types.PayloadDeliveryProviderPrices},
			errorMsg: "invalid update",
			code:     oerrors.ErrCodeExecution,
		},
		{
			name: "unsupported payload kind",
			update: func() types.PendingUpdate {
				u := updateFor(2, 4)
				u.Kind = "wormhole_vaa"
				return u
			}(),
			errorMsg: "unsupported payload kind",
			code:     oerrors.ErrCodeExecution,
		},
		{
			name:     "missing signer",
			update:   updateFor(2, 4),
			errorMsg: "missing signer",
			code:     oerrors.ErrCodeConfig,
			recorded: true,
		},
		{
			name:     "unreachable chain",
			setup:    func(f *fixture) { f.signers[2] = true },
			update:   updateFor(2, 4),
			errorMsg: "failed to connect",
			code:     oerrors.ErrCodeOnChainRead,
			recorded: true,
		},
		{
			name: "broadcast rejected",
			setup: func(f *fixture) {
				f.signers[2] = true
				writer := mocks.NewMockPriceWriter(f.ctrl)
				writer.EXPECT().UpdatePrices(gomock.Any(), gomock.Any()).Return(nil, errors.New("nonce too low"))
				f.writers[2] = writer
			},
			update:   updateFor(2, 4),
			errorMsg: "failed to submit update",
			code:     oerrors.ErrCodeExecution,
			recorded: true,
		},
		{
			name: "reverted",
			setup: func(f *fixture) {
				f.signers[2] = true
				f.writers[2] = f.confirmedWriter("0xdead", &common.Receipt{TxHash: "0xdead", Status: 0, GasUsed: 30000})
			},
			update:   updateFor(2, 4),
			errorMsg: "reverted",
			code:     oerrors.ErrCodeExecution,
			recorded: true,
			txHash:   "0xdead",
		},
		{
			name: "receipt never arrives",
			setup: func(f *fixture) {
				f.signers[2] = true
				handle := mocks.NewMockTxHandle(f.ctrl)
				handle.EXPECT().Hash().Return("0xslow").AnyTimes()
				handle.EXPECT().Wait(gomock.Any()).Return(nil, context.DeadlineExceeded)
				writer := mocks.NewMockPriceWriter(f.ctrl)
				writer.EXPECT().UpdatePrices(gomock.Any(), gomock.Any()).Return(handle, nil)
				f.writers[2] = writer
			},
			update:   updateFor(2, 4),
			errorMsg: "failed to await receipt",
			code:     oerrors.ErrCodeExecution,
			recorded: true,
			txHash:   "0xslow",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if tc.setup != nil {
				tc.setup(f)
			}
			if tc.recorded {
				f.reporter.EXPECT().ReportPriceUpdate(types.ChainID(2), metrics.StatusFailure)
			}

			_, err := f.executor(false).Execute(context.Background(), "generic-relayer", tc.update)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorMsg)
			assert.True(t, oerrors.IsChainError(err, tc.code), "unexpected error code: %v", err)

			records := f.records(t)
			if !tc.recorded {
				assert.Empty(t, records)
				return
			}
			require.Len(t, records, 1)
			assert.Equal(t, store.StatusFailed, records[0].Status)
			assert.Equal(t, tc.txHash, records[0].TxHash)
			assert.NotEmpty(t, records[0].ErrorMsg)
		})
	}
}

func TestExecuteDryRun(t *testing.T) {
	f := newFixture(t)
	// no signer, no writer: a dry run must not need either

	res, err := f.executor(true).Execute(context.Background(), "generic-relayer", updateFor(4, 2, 6))
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Empty(t, res.TxHash)

	records := f.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, store.StatusDryRun, records[0].Status)
	assert.Equal(t, uint16(4), records[0].ChainID)
	assert.Equal(t, 2, records[0].Entries)
}

func TestExecuteAllIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	f.signers[2] = true
	f.signers[4] = true
	f.signers[6] = true

	failing := mocks.NewMockPriceWriter(f.ctrl)
	failing.EXPECT().UpdatePrices(gomock.Any(), gomock.Any()).Return(nil, errors.New("insufficient funds"))
	f.writers[2] = failing
	f.writers[6] = f.confirmedWriter("0x06", &common.Receipt{TxHash: "0x06", Status: 1, GasUsed: 42000})
	// chain 4 has no writer and fails to connect

	gomock.InOrder(
		f.reporter.EXPECT().ReportPriceUpdate(types.ChainID(2), metrics.StatusFailure),
		f.reporter.EXPECT().ReportPriceUpdate(types.ChainID(4), metrics.StatusFailure),
		f.reporter.EXPECT().ReportPriceUpdate(types.ChainID(6), metrics.StatusSuccess),
	)
	f.reporter.EXPECT().ReportPriceUpdateGas("avalanche", uint64(42000))
	f.reporter.EXPECT().ReportContractPrice("ethereum", gomock.Any(), gomock.Any()).Times(2)

	f.executor(false).ExecuteAll(context.Background(), "generic-relayer", []types.PendingUpdate{
		updateFor(2, 4),
		updateFor(4, 2),
		updateFor(6, 2),
	})

	statuses := map[uint16]string{}
	for _, r := range f.records(t) {
		statuses[r.ChainID] = r.Status
	}
	assert.Equal(t, map[uint16]string{2: store.StatusFailed, 4: store.StatusFailed, 6: store.StatusSuccess}, statuses)
}

func TestExecuteAllStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.executor(false).ExecuteAll(ctx, "generic-relayer", []types.PendingUpdate{updateFor(2, 4)})
	assert.Empty(t, f.records(t))
}

func TestExecuteWithoutHistory(t *testing.T) {
	f := newFixture(t)
	f.signers[2] = true
	f.writers[2] = f.confirmedWriter("0x01", &common.Receipt{Status: 1, GasUsed: 1})
	f.reporter.EXPECT().ReportPriceUpdate(types.ChainID(2), metrics.StatusSuccess)
	f.reporter.EXPECT().ReportPriceUpdateGas(gomock.Any(), gomock.Any())
	f.reporter.EXPECT().ReportContractPrice(gomock.Any(), gomock.Any(), gomock.Any()).Times(2)

	exec := New(Config{
		Signers:  f.signers,
		Writers:  f.writers,
		Reporter: f.reporter,
		Logger:   zerolog.Nop(),
	})
	res, err := exec.Execute(context.Background(), "generic-relayer", updateFor(2, 4))
	require.NoError(t, err)
	assert.Equal(t, "0x01", res.TxHash)
}
