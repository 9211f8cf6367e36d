package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
)

func TestSetupRoutes(t *testing.T) {
	server := &Server{
		oracle: &stubOracle{snapshot: validSnapshot(), health: map[types.ChainID]bool{2: true}},
		logger: zerolog.New(zerolog.NewTestWriter(t)),
	}

	router := server.setupRoutes()

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"Health endpoint", http.MethodGet, "/health", http.StatusOK},
		{"Chain health endpoint", http.MethodGet, "/health/chains", http.StatusOK},
		{"Snapshot endpoint", http.MethodGet, "/api/v1/snapshot", http.StatusOK},
		{"Updates endpoint", http.MethodGet, "/api/v1/updates", http.StatusOK},
		{"Metrics without exporter", http.MethodGet, "/metrics", http.StatusNotFound},
		{"Wrong method", http.MethodPost, "/api/v1/snapshot", http.StatusMethodNotAllowed},
		{"Non-existent endpoint", http.MethodGet, "/api/v1/non-existent", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}
