package api

import (
	"encoding/json"
	"time"
)

// QueryResponse represents the standard query response format
type QueryResponse struct {
	Data        interface{} `json:"data"`
	LastFetched time.Time   `json:"last_fetched"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateRecord is the API view of a recorded update attempt
type UpdateRecord struct {
	ID        uint            `json:"id"`
	Strategy  string          `json:"strategy"`
	ChainID   uint16          `json:"chain_id"`
	Contract  string          `json:"contract"`
	TxHash    string          `json:"tx_hash,omitempty"`
	Status    string          `json:"status"`
	Entries   int             `json:"entries"`
	GasUsed   uint64          `json:"gas_used"`
	Prices    json.RawMessage `json:"prices,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HealthResponse reports RPC reachability per connected chain
type HealthResponse struct {
	Status string          `json:"status"`
	Chains map[string]bool `json:"chains"`
}
