package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// PriceData is the pair of prices a delivery provider stores for one remote chain.
// Both values are integers in the contract's base units.
type PriceData struct {
	GasPrice    sdkmath.Int
	NativePrice sdkmath.Int
}

// OnChainPrice is the state read for one (home, remote) pair.
// Data is nil when the read for this entry failed; a nil entry is never treated as zero.
type OnChainPrice struct {
	RemoteChainID ChainID
	Data          *PriceData
}

// PriceInfo is one element of an updatePrices call.
type PriceInfo struct {
	RemoteChainID ChainID     `json:"chain_id"`
	GasPrice      sdkmath.Int `json:"gas_price"`
	NativePrice   sdkmath.Int `json:"native_currency_price"`
}

// PayloadKind tags the shape of a PendingUpdate so executors can dispatch on it.
type PayloadKind string

const (
	// PayloadDeliveryProviderPrices carries updatePrices((uint16,uint256,uint256)[]).
	PayloadDeliveryProviderPrices PayloadKind = "delivery_provider_prices"
)

// PendingUpdate is the batch of price writes for one home chain, sent in a single transaction.
type PendingUpdate struct {
	ChainID         ChainID        `json:"chain_id"`
	Kind            PayloadKind    `json:"kind"`
	ContractAddress common.Address `json:"contract_address"`
	Prices          []PriceInfo    `json:"prices"`
}

// Validate checks the structural preconditions of an update before it is submitted.
func (u PendingUpdate) Validate() error {
	if u.Kind == "" {
		return fmt.Errorf("update for chain %d has no payload kind", u.ChainID)
	}
	if len(u.Prices) == 0 {
		return fmt.Errorf("update for chain %d has no prices", u.ChainID)
	}
	for _, p := range u.Prices {
		if p.GasPrice.IsNil() || p.NativePrice.IsNil() {
			return fmt.Errorf("update for chain %d has an unset price for remote chain %d", u.ChainID, p.RemoteChainID)
		}
		if p.GasPrice.IsNegative() || p.NativePrice.IsNegative() {
			return fmt.Errorf("update for chain %d has a negative price for remote chain %d", u.ChainID, p.RemoteChainID)
		}
	}
	return nil
}
