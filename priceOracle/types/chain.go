package types

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cast"
)

// ChainID identifies a chain in the relayer network, both as a home chain
// (where a delivery provider is deployed) and as a remote chain (whose prices
// a delivery provider stores).
type ChainID uint16

// wellKnownChains mirrors the relayer network's chain id assignments.
var wellKnownChains = map[ChainID]string{
	1:     "solana",
	2:     "ethereum",
	3:     "terra",
	4:     "bsc",
	5:     "polygon",
	6:     "avalanche",
	7:     "oasis",
	8:     "algorand",
	9:     "aurora",
	10:    "fantom",
	11:    "karura",
	12:    "acala",
	13:    "klaytn",
	14:    "celo",
	15:    "near",
	16:    "moonbeam",
	18:    "terra2",
	19:    "injective",
	21:    "sui",
	22:    "aptos",
	23:    "arbitrum",
	24:    "optimism",
	28:    "xpla",
	30:    "base",
	10002: "sepolia",
}

// Name resolves a human-readable chain name, falling back to "chain-<id>".
func (c ChainID) Name() string {
	if name, ok := wellKnownChains[c]; ok {
		return name
	}
	return fmt.Sprintf("chain-%d", c)
}

// ChainNames holds operator-provided display names that take precedence over the built-in table.
type ChainNames map[ChainID]string

// Lookup returns the configured name of id, else its built-in name.
func (n ChainNames) Lookup(id ChainID) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return id.Name()
}

// String returns the decimal id, used for log fields and metric labels.
func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// ParseChainID parses a decimal chain id such as a JSON object key.
func ParseChainID(s string) (ChainID, error) {
	v, err := cast.ToUint64E(s)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", s, err)
	}
	if v == 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("invalid chain id %q: must be in [1, %d]", s, math.MaxUint16)
	}
	return ChainID(v), nil
}
