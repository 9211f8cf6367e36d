package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"github.com/pushchain/relayer-price-oracle/priceOracle/store"
)

const (
	defaultUpdatesLimit = 20
	maxUpdatesLimit     = 500
	healthCheckTimeout  = 5 * time.Second
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleChainHealth handles GET /health/chains
func (s *Server) handleChainHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	health := s.oracle.ChainHealth(ctx)
	response := HealthResponse{Status: "ok", Chains: make(map[string]bool, len(health))}
	for id, ok := range health {
		response.Chains[id.String()] = ok
		if !ok {
			response.Status = "degraded"
		}
	}

	status := http.StatusOK
	if response.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// handleSnapshot handles GET /api/v1/snapshot
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.oracle.CurrentSnapshot()
	if snap == nil || !snap.IsValid {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "no valid price snapshot yet"})
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Data:        snap,
		LastFetched: snap.FetchedAt,
	})
}

// handleUpdates handles GET /api/v1/updates?limit=<n>&chain_id=<id>
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := defaultUpdatesLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxUpdatesLimit {
		limit = maxUpdatesLimit
	}

	var chainID uint16
	if raw := query.Get("chain_id"); raw != "" {
		id, err := cast.ToUint16E(raw)
		if err != nil || id == 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "chain_id must be a positive chain id"})
			return
		}
		chainID = id
	}

	records, err := s.oracle.RecentUpdates(limit, chainID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query update history")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to query update history"})
		return
	}

	updates := make([]UpdateRecord, 0, len(records))
	var lastFetched time.Time
	for _, rec := range records {
		updates = append(updates, toUpdateRecord(rec))
		if rec.UpdatedAt.After(lastFetched) {
			lastFetched = rec.UpdatedAt
		}
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Data:        updates,
		LastFetched: lastFetched,
	})
}

func toUpdateRecord(rec store.PriceUpdateTransaction) UpdateRecord {
	out := UpdateRecord{
		ID:        rec.ID,
		Strategy:  rec.Strategy,
		ChainID:   rec.ChainID,
		Contract:  rec.Contract,
		TxHash:    rec.TxHash,
		Status:    rec.Status,
		Entries:   rec.Entries,
		GasUsed:   rec.GasUsed,
		Error:     rec.ErrorMsg,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if json.Valid(rec.Payload) {
		out.Prices = json.RawMessage(rec.Payload)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
