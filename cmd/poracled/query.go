package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	"github.com/pushchain/relayer-price-oracle/priceOracle/pricing"
)

const queryTimeout = 10 * time.Second

// QueryResponse represents the standard query response format from HTTP API
type QueryResponse struct {
	Data        json.RawMessage `json:"data"`
	LastFetched time.Time       `json:"last_fetched"`
}

// ErrorResponse represents an error response from HTTP API
type ErrorResponse struct {
	Error string `json:"error"`
}

// updateRecord mirrors the update records served by /api/v1/updates
type updateRecord struct {
	ID        uint            `json:"id"`
	Strategy  string          `json:"strategy"`
	ChainID   uint16          `json:"chain_id"`
	Contract  string          `json:"contract"`
	TxHash    string          `json:"tx_hash"`
	Status    string          `json:"status"`
	Entries   int             `json:"entries"`
	GasUsed   uint64          `json:"gas_used"`
	Prices    json.RawMessage `json:"prices"`
	Error     string          `json:"error"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Query a running oracle",
	}

	cmd.AddCommand(
		snapshotCmd(),
		updatesCmd(),
	)

	return cmd
}

func snapshotCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Query the current pricing snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(homeDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			queryResp, err := queryAPI(queryServerURL(cfg.MetricsServerPort, "/api/v1/snapshot", nil))
			if err != nil {
				return err
			}

			var snap pricing.Snapshot
			if err := json.Unmarshal(queryResp.Data, &snap); err != nil {
				return fmt.Errorf("failed to unmarshal snapshot: %w", err)
			}

			return printOutput(cmd.OutOrStdout(), newSnapshotOutput(&snap, cfg.ChainNames()), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", OutputFormatYAML, "Output format (yaml|json)")
	return cmd
}

func updatesCmd() *cobra.Command {
	var (
		limit        int
		chainID      uint16
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Query the most recent price update attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(homeDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			params := url.Values{}
			params.Set("limit", strconv.Itoa(limit))
			if chainID != 0 {
				params.Set("chain_id", strconv.Itoa(int(chainID)))
			}

			queryResp, err := queryAPI(queryServerURL(cfg.MetricsServerPort, "/api/v1/updates", params))
			if err != nil {
				return err
			}

			output, err := newUpdatesOutput(queryResp)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), output, outputFormat)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of records to return")
	cmd.Flags().Uint16Var(&chainID, "chain-id", 0, "Only show updates sent to this home chain")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", OutputFormatYAML, "Output format (yaml|json)")
	return cmd
}

func newUpdatesOutput(queryResp *QueryResponse) (UpdatesOutput, error) {
	var records []updateRecord
	if err := json.Unmarshal(queryResp.Data, &records); err != nil {
		return UpdatesOutput{}, fmt.Errorf("failed to unmarshal updates: %w", err)
	}

	output := UpdatesOutput{
		Updates:     make([]UpdateOutput, 0, len(records)),
		LastFetched: queryResp.LastFetched,
	}
	for _, r := range records {
		output.Updates = append(output.Updates, UpdateOutput{
			ID:        r.ID,
			Strategy:  r.Strategy,
			ChainID:   r.ChainID,
			Contract:  r.Contract,
			TxHash:    r.TxHash,
			Status:    r.Status,
			Entries:   r.Entries,
			GasUsed:   r.GasUsed,
			Prices:    string(r.Prices),
			Error:     r.Error,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return output, nil
}

func queryServerURL(port int, path string, params url.Values) string {
	u := url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("localhost:%d", port),
		Path:   path,
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// queryAPI performs a GET against the oracle's query server
func queryAPI(endpoint string) (*QueryResponse, error) {
	client := &http.Client{Timeout: queryTimeout}
	resp, err := client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("server error: %s", errResp.Error)
	}

	var queryResp QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &queryResp, nil
}
