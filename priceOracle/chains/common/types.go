package common

//go:generate mockgen -destination=../../mocks/chains.go -package=mocks github.com/pushchain/relayer-price-oracle/priceOracle/chains/common PriceReader,PriceWriter,GasPriceSuggester,TxHandle

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// PriceReader reads the prices a home chain's delivery provider stores for remote chains.
type PriceReader interface {
	// GasPrice returns the stored gas price of the remote chain
	GasPrice(ctx context.Context, remote types.ChainID) (sdkmath.Int, error)

	// NativeCurrencyPrice returns the stored native token price of the remote chain
	NativeCurrencyPrice(ctx context.Context, remote types.ChainID) (sdkmath.Int, error)
}

// PriceWriter submits updatePrices transactions on a home chain.
type PriceWriter interface {
	// UpdatePrices broadcasts a single transaction carrying every entry and returns without waiting for inclusion
	UpdatePrices(ctx context.Context, prices []types.PriceInfo) (TxHandle, error)
}

// GasPriceSuggester returns a chain's current gas price.
type GasPriceSuggester interface {
	SuggestGasPrice(ctx context.Context) (sdkmath.Int, error)
}

// TxHandle tracks a broadcast transaction.
type TxHandle interface {
	Hash() string

	// Wait blocks until the transaction is included or ctx is done
	Wait(ctx context.Context) (*Receipt, error)
}

// Receipt is the chain-independent part of a transaction receipt.
type Receipt struct {
	TxHash      string
	Status      uint64 // 1 = success, 0 = reverted
	GasUsed     uint64
	BlockNumber uint64
}

// Succeeded reports whether the transaction executed without reverting.
func (r *Receipt) Succeeded() bool {
	return r != nil && r.Status == 1
}
