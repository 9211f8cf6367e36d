package pricing

import (
	"sort"
	"sync/atomic"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// Snapshot is an immutable set of target prices. Native token prices and gas
// prices are on-chain integers keyed by chain. A snapshot is never modified
// after it is published; every fetch builds a new one.
type Snapshot struct {
	IsValid           bool                          `json:"is_valid"`
	Version           uint64                        `json:"version"`
	Source            string                        `json:"source"`
	FetchedAt         time.Time                     `json:"fetched_at"`
	NativeTokenPrices map[types.ChainID]sdkmath.Int `json:"native_token_prices"`
	GasPrices         map[types.ChainID]sdkmath.Int `json:"gas_prices"`
	Quotes            map[string]float64            `json:"quotes,omitempty"` // raw quote per token, for reporting
}

// InvalidSnapshot is the state before the first successful fetch.
func InvalidSnapshot() *Snapshot {
	return &Snapshot{
		NativeTokenPrices: map[types.ChainID]sdkmath.Int{},
		GasPrices:         map[types.ChainID]sdkmath.Int{},
	}
}

// NativePrice returns the target native price of a chain.
func (s *Snapshot) NativePrice(chainID types.ChainID) (sdkmath.Int, bool) {
	p, ok := s.NativeTokenPrices[chainID]
	return p, ok && !p.IsNil()
}

// GasPrice returns the raw (not marked up) target gas price of a chain.
func (s *Snapshot) GasPrice(chainID types.ChainID) (sdkmath.Int, bool) {
	p, ok := s.GasPrices[chainID]
	return p, ok && !p.IsNil()
}

// Chains returns every chain with a native price, in ascending order.
func (s *Snapshot) Chains() []types.ChainID {
	ids := make([]types.ChainID, 0, len(s.NativeTokenPrices))
	for id := range s.NativeTokenPrices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SnapshotStore holds the latest published snapshot. Readers always see a
// complete snapshot; publication is a single pointer swap.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewSnapshotStore creates a store holding the invalid default snapshot.
func NewSnapshotStore() *SnapshotStore {
	s := &SnapshotStore{}
	s.current.Store(InvalidSnapshot())
	return s
}

// Current returns the latest snapshot. It must not be modified.
func (s *SnapshotStore) Current() *Snapshot {
	return s.current.Load()
}

// Publish stamps the next version on snap and makes it current.
func (s *SnapshotStore) Publish(snap *Snapshot) *Snapshot {
	snap.Version = s.version.Add(1)
	s.current.Store(snap)
	return snap
}
