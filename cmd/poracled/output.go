package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/pushchain/relayer-price-oracle/priceOracle/pricing"
	"github.com/pushchain/relayer-price-oracle/priceOracle/strategy"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

// Output formats
const (
	OutputFormatYAML = "yaml"
	OutputFormatJSON = "json"
)

// ChainPriceOutput is one chain's prices as decimal strings
type ChainPriceOutput struct {
	ChainID     uint16 `yaml:"chain_id" json:"chain_id"`
	Name        string `yaml:"name" json:"name"`
	NativePrice string `yaml:"native_price,omitempty" json:"native_price,omitempty"`
	GasPrice    string `yaml:"gas_price,omitempty" json:"gas_price,omitempty"`
	Error       string `yaml:"error,omitempty" json:"error,omitempty"`
}

// SnapshotOutput represents the output format for a pricing snapshot
type SnapshotOutput struct {
	Valid     bool               `yaml:"valid" json:"valid"`
	Version   uint64             `yaml:"version" json:"version"`
	Source    string             `yaml:"source" json:"source"`
	FetchedAt time.Time          `yaml:"fetched_at" json:"fetched_at"`
	Chains    []ChainPriceOutput `yaml:"chains" json:"chains"`
}

// HomeChainOutput represents the prices stored by one delivery provider
type HomeChainOutput struct {
	ChainID  uint16             `yaml:"chain_id" json:"chain_id"`
	Name     string             `yaml:"name" json:"name"`
	Contract string             `yaml:"contract" json:"contract"`
	Error    string             `yaml:"error,omitempty" json:"error,omitempty"`
	Prices   []ChainPriceOutput `yaml:"prices,omitempty" json:"prices,omitempty"`
}

// StrategyStateOutput represents the output format of read-state
type StrategyStateOutput struct {
	Strategy string            `yaml:"strategy" json:"strategy"`
	Chains   []HomeChainOutput `yaml:"chains" json:"chains"`
}

// UpdateOutput represents one recorded update attempt
type UpdateOutput struct {
	ID        uint      `yaml:"id" json:"id"`
	Strategy  string    `yaml:"strategy" json:"strategy"`
	ChainID   uint16    `yaml:"chain_id" json:"chain_id"`
	Contract  string    `yaml:"contract" json:"contract"`
	TxHash    string    `yaml:"tx_hash,omitempty" json:"tx_hash,omitempty"`
	Status    string    `yaml:"status" json:"status"`
	Entries   int       `yaml:"entries" json:"entries"`
	GasUsed   uint64    `yaml:"gas_used" json:"gas_used"`
	Prices    string    `yaml:"prices,omitempty" json:"prices,omitempty"`
	Error     string    `yaml:"error,omitempty" json:"error,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
}

// UpdatesOutput represents the output format for the update history
type UpdatesOutput struct {
	Updates     []UpdateOutput `yaml:"updates" json:"updates"`
	LastFetched time.Time      `yaml:"last_fetched" json:"last_fetched"`
}

func newSnapshotOutput(snap *pricing.Snapshot, names types.ChainNames) SnapshotOutput {
	out := SnapshotOutput{
		Valid:     snap.IsValid,
		Version:   snap.Version,
		Source:    snap.Source,
		FetchedAt: snap.FetchedAt,
		Chains:    []ChainPriceOutput{},
	}
	for _, id := range snap.Chains() {
		row := ChainPriceOutput{ChainID: uint16(id), Name: names.Lookup(id)}
		if p, ok := snap.NativePrice(id); ok {
			row.NativePrice = p.String()
		}
		if p, ok := snap.GasPrice(id); ok {
			row.GasPrice = p.String()
		}
		out.Chains = append(out.Chains, row)
	}
	return out
}

func newStateOutput(state map[string][]strategy.HomeChainState, names types.ChainNames) []StrategyStateOutput {
	strategies := make([]string, 0, len(state))
	for name := range state {
		strategies = append(strategies, name)
	}
	sort.Strings(strategies)

	out := make([]StrategyStateOutput, 0, len(state))
	for _, name := range strategies {
		s := StrategyStateOutput{Strategy: name, Chains: []HomeChainOutput{}}
		for _, home := range state[name] {
			h := HomeChainOutput{
				ChainID:  uint16(home.ChainID),
				Name:     names.Lookup(home.ChainID),
				Contract: home.Contract.Hex(),
			}
			if home.Err != nil {
				h.Error = home.Err.Error()
			}
			for _, entry := range home.Entries {
				row := ChainPriceOutput{ChainID: uint16(entry.RemoteChainID), Name: names.Lookup(entry.RemoteChainID)}
				if entry.Data == nil {
					row.Error = "read failed"
				} else {
					row.NativePrice = entry.Data.NativePrice.String()
					row.GasPrice = entry.Data.GasPrice.String()
				}
				h.Prices = append(h.Prices, row)
			}
			s.Chains = append(s.Chains, h)
		}
		out = append(out, s)
	}
	return out
}

// printOutput prints the output in the specified format
func printOutput(w io.Writer, data interface{}, format string) error {
	switch format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(data)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
