package api

import (
	"context"

	"github.com/pushchain/relayer-price-oracle/priceOracle/pricing"
	"github.com/pushchain/relayer-price-oracle/priceOracle/store"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// OracleInterface defines the methods needed by the API server
type OracleInterface interface {
	CurrentSnapshot() *pricing.Snapshot
	RecentUpdates(limit int, chainID uint16) ([]store.PriceUpdateTransaction, error)
	ChainHealth(ctx context.Context) map[types.ChainID]bool
}
