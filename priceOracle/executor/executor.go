package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/common"
	"github.com/pushchain/relayer-price-oracle/priceOracle/chains/evm"
	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/metrics"
	"github.com/pushchain/relayer-price-oracle/priceOracle/store"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
	"github.com/pushchain/relayer-price-oracle/priceOracle/utils"
)

const defaultReceiptTimeout = 120 * time.Second

// SignerResolver returns the signing identity of a home chain.
type SignerResolver interface {
	TxSigner(chainID types.ChainID) (evm.TxSigner, error)
}

// WriterFactory binds a signer to the delivery provider on a home chain.
type WriterFactory interface {
	Writer(ctx context.Context, chainID types.ChainID, contract ethcommon.Address, signer evm.TxSigner) (common.PriceWriter, error)
}

// HistoryRecorder persists update attempts.
type HistoryRecorder interface {
	RecordUpdate(record *store.PriceUpdateTransaction) error
	SaveUpdate(record *store.PriceUpdateTransaction) error
}

// Config wires an Executor.
type Config struct {
	Signers        SignerResolver
	Writers        WriterFactory
	History        HistoryRecorder // optional
	Reporter       metrics.Reporter
	ChainNames     types.ChainNames
	ReceiptTimeout func(chainID types.ChainID) time.Duration // optional, defaults to 120s
	DryRun         bool
	Logger         zerolog.Logger
}

// Result describes a completed update.
type Result struct {
	ChainID types.ChainID
	TxHash  string
	GasUsed uint64
	DryRun  bool
}

// Executor submits pending updates, one transaction per home chain.
type Executor struct {
	signers        SignerResolver
	writers        WriterFactory
	history        HistoryRecorder
	reporter       metrics.Reporter
	chainNames     types.ChainNames
	receiptTimeout func(types.ChainID) time.Duration
	dryRun         bool
	logger         zerolog.Logger
}

// New creates an executor.
func New(cfg Config) *Executor {
	timeout := cfg.ReceiptTimeout
	if timeout == nil {
		timeout = func(types.ChainID) time.Duration { return defaultReceiptTimeout }
	}
	return &Executor{
		signers:        cfg.Signers,
		writers:        cfg.Writers,
		history:        cfg.History,
		reporter:       cfg.Reporter,
		chainNames:     cfg.ChainNames,
		receiptTimeout: timeout,
		dryRun:         cfg.DryRun,
		logger:         cfg.Logger.With().Str("component", "executor").Logger(),
	}
}

// ExecuteAll executes every update in order. A failure on one home chain is
// logged and never prevents the next one.
func (e *Executor) ExecuteAll(ctx context.Context, strategy string, updates []types.PendingUpdate) {
	succeeded, failed := 0, 0
	for _, update := range updates {
		if ctx.Err() != nil {
			e.logger.Warn().Str("strategy", strategy).Msg("execution cancelled")
			return
		}
		if _, err := e.Execute(ctx, strategy, update); err != nil {
			failed++
			e.logger.Error().
				Err(err).
				Str("strategy", strategy).
				Uint16("chain_id", uint16(update.ChainID)).
				Str("severity", string(oerrors.GetSeverity(err))).
				Msg("price update failed")
			continue
		}
		succeeded++
	}

	e.logger.Info().
		Str("strategy", strategy).
		Int("succeeded", succeeded).
		Int("failed", failed).
		Msg("price update executions finished")
}

// Execute submits one home chain's update and waits for its receipt.
func (e *Executor) Execute(ctx context.Context, strategy string, update types.PendingUpdate) (*Result, error) {
	chain := update.ChainID.String()
	if err := update.Validate(); err != nil {
		return nil, oerrors.NewExecutionError(chain, "invalid update", err)
	}

	switch update.Kind {
	case types.PayloadDeliveryProviderPrices:
		return e.executeDeliveryProviderPrices(ctx, strategy, update)
	default:
		return nil, oerrors.NewExecutionError(chain, fmt.Sprintf("unsupported payload kind %q", update.Kind), nil)
	}
}

func (e *Executor) executeDeliveryProviderPrices(ctx context.Context, strategy string, update types.PendingUpdate) (*Result, error) {
	chainID := update.ChainID
	chain := chainID.String()
	log := e.logger.With().
		Str("strategy", strategy).
		Uint16("chain_id", uint16(chainID)).
		Str("contract", update.ContractAddress.Hex()).
		Int("entries", len(update.Prices)).
		Logger()

	payload, err := json.Marshal(update.Prices)
	if err != nil {
		return nil, oerrors.NewInternalError(chain, "failed to encode update payload", err)
	}
	record := &store.PriceUpdateTransaction{
		Strategy: strategy,
		ChainID:  uint16(chainID),
		Contract: update.ContractAddress.Hex(),
		Status:   store.StatusPending,
		Entries:  len(update.Prices),
		Payload:  payload,
	}

	if e.dryRun {
		record.Status = store.StatusDryRun
		e.recordNew(record, log)
		log.Info().RawJSON("prices", payload).Msg("dry run, update not submitted")
		return &Result{ChainID: chainID, DryRun: true}, nil
	}

	signer, err := e.signers.TxSigner(chainID)
	if err != nil {
		return nil, e.fail(record, err, log)
	}

	writer, err := e.writers.Writer(ctx, chainID, update.ContractAddress, signer)
	if err != nil {
		return nil, e.fail(record, err, log)
	}

	log.Info().Str("signer", signer.Address().Hex()).Msg("sending price update transaction")
	handle, err := writer.UpdatePrices(ctx, update.Prices)
	if err != nil {
		return nil, e.fail(record, oerrors.NewExecutionError(chain, "failed to submit update", err), log)
	}
	record.TxHash = handle.Hash()
	e.recordNew(record, log)

	waitCtx, cancel := context.WithTimeout(ctx, e.receiptTimeout(chainID))
	defer cancel()

	receipt, err := handle.Wait(waitCtx)
	if err != nil {
		return nil, e.fail(record, oerrors.NewExecutionError(chain, "failed to await receipt", err).
			WithContext("tx_hash", record.TxHash), log)
	}
	record.GasUsed = receipt.GasUsed
	if !receipt.Succeeded() {
		return nil, e.fail(record, oerrors.NewExecutionError(chain, "update transaction reverted", nil).
			WithContext("tx_hash", record.TxHash), log)
	}

	record.Status = store.StatusSuccess
	e.save(record, log)

	chainName := e.chainNames.Lookup(chainID)
	e.reporter.ReportPriceUpdate(chainID, metrics.StatusSuccess)
	e.reporter.ReportPriceUpdateGas(chainName, receipt.GasUsed)
	for _, p := range update.Prices {
		remoteName := e.chainNames.Lookup(p.RemoteChainID)
		e.reporter.ReportContractPrice(remoteName, false, utils.ToFloat64(p.NativePrice))
		e.reporter.ReportContractPrice(remoteName, true, utils.ToFloat64(p.GasPrice))
	}

	log.Info().
		Str("tx_hash", record.TxHash).
		Uint64("gas_used", receipt.GasUsed).
		Uint64("block", receipt.BlockNumber).
		Msg("price update confirmed")

	return &Result{ChainID: chainID, TxHash: record.TxHash, GasUsed: receipt.GasUsed}, nil
}

// fail reports and records a failed attempt and returns err.
func (e *Executor) fail(record *store.PriceUpdateTransaction, err error, log zerolog.Logger) error {
	e.reporter.ReportPriceUpdate(types.ChainID(record.ChainID), metrics.StatusFailure)

	record.Status = store.StatusFailed
	record.ErrorMsg = err.Error()
	if record.ID == 0 {
		e.recordNew(record, log)
	} else {
		e.save(record, log)
	}
	return err
}

func (e *Executor) recordNew(record *store.PriceUpdateTransaction, log zerolog.Logger) {
	if e.history == nil {
		return
	}
	if err := e.history.RecordUpdate(record); err != nil {
		log.Warn().Err(err).Msg("failed to record update history")
	}
}

func (e *Executor) save(record *store.PriceUpdateTransaction, log zerolog.Logger) {
	if e.history == nil {
		return
	}
	if err := e.history.SaveUpdate(record); err != nil {
		log.Warn().Err(err).Msg("failed to save update history")
	}
}
