package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/config"
	oerrors "github.com/pushchain/relayer-price-oracle/priceOracle/errors"
	"github.com/pushchain/relayer-price-oracle/priceOracle/types"
	"github.com/pushchain/relayer-price-oracle/priceOracle/utils"
)

const (
	coinGeckoSourceName = "coingecko"
	coinGeckoAPIKeyHdr  = "x-cg-pro-api-key"
	maxResponseBytes    = 1 << 20
)

// HTTPError is a non-200 response from the price API.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("GET %s: %s: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Retryable reports whether the request may succeed when repeated.
func (e *HTTPError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return e.StatusCode >= http.StatusInternalServerError
}

// retryConfig holds the backoff applied within one fetch.
type retryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// CoinGeckoProvider quotes native tokens in USD from the CoinGecko simple price endpoint.
type CoinGeckoProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      retryConfig

	tokens    []config.TokenConfig
	precision uint32
	decimals  uint32
	interval  time.Duration
	gasSource GasPriceSource
	logger    zerolog.Logger
}

var _ Provider = (*CoinGeckoProvider)(nil)

// NewCoinGeckoProvider creates a provider for the configured token list.
func NewCoinGeckoProvider(cfg config.PriceFetcherConfig, gasSource GasPriceSource, logger zerolog.Logger) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		baseURL: strings.TrimRight(cfg.CoinGecko.BaseURL, "/"),
		apiKey:  cfg.CoinGecko.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.CoinGecko.RequestTimeoutSeconds) * time.Second,
		},
		retry: retryConfig{
			MaxRetries:      cfg.CoinGecko.MaxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
		},
		tokens:    cfg.Tokens,
		precision: cfg.PricePrecision,
		decimals:  cfg.NativePriceDecimals,
		interval:  utils.Milliseconds(int64(cfg.PollingIntervalMs)),
		gasSource: gasSource,
		logger:    logger.With().Str("component", "coingecko_provider").Logger(),
	}
}

func (p *CoinGeckoProvider) Name() string { return coinGeckoSourceName }

func (p *CoinGeckoProvider) PollingInterval() time.Duration { return p.interval }

func (p *CoinGeckoProvider) TokenList() []string {
	tokens := make([]string, 0, len(p.tokens))
	for _, t := range p.tokens {
		tokens = append(tokens, t.Symbol)
	}
	return tokens
}

func (p *CoinGeckoProvider) Fetch(ctx context.Context) (*Snapshot, error) {
	usdQuotes, err := p.fetchQuotes(ctx)
	if err != nil {
		return nil, oerrors.NewFetchError(coinGeckoSourceName, "failed to fetch token prices", err)
	}

	native := make(map[types.ChainID]sdkmath.Int, len(p.tokens))
	quotes := make(map[string]float64, len(p.tokens))
	chains := make([]types.ChainID, 0, len(p.tokens))
	for _, token := range p.tokens {
		usd, ok := usdQuotes[token.CoinGeckoID]
		if !ok {
			p.logger.Warn().Str("token", token.CoinGeckoID).Msg("token missing from price response")
			continue
		}
		price, err := utils.ScaleFloat(usd, p.precision, p.decimals)
		if err != nil {
			p.logger.Warn().Err(err).Str("token", token.CoinGeckoID).Msg("unusable token price")
			continue
		}
		id := types.ChainID(token.ChainID)
		native[id] = price
		quotes[token.Symbol] = usd
		chains = append(chains, id)
	}
	if len(native) == 0 {
		return nil, oerrors.NewFetchError(coinGeckoSourceName, "no token prices in response", nil)
	}

	gasPrices, err := p.gasSource.GasPrices(ctx, chains)
	if err != nil {
		return nil, oerrors.NewFetchError(coinGeckoSourceName, "failed to get gas prices", err)
	}

	return &Snapshot{
		IsValid:           true,
		Source:            coinGeckoSourceName,
		FetchedAt:         time.Now().UTC(),
		NativeTokenPrices: native,
		GasPrices:         gasPrices,
		Quotes:            quotes,
	}, nil
}

// fetchQuotes returns the USD price of every configured token id found in the response.
func (p *CoinGeckoProvider) fetchQuotes(ctx context.Context) (map[string]float64, error) {
	endpoint, err := p.priceURL()
	if err != nil {
		return nil, err
	}

	var body []byte
	operation := func() error {
		data, err := p.get(ctx, endpoint)
		if err != nil {
			return err
		}
		body = data
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = p.retry.InitialInterval
	expBackoff.MaxInterval = p.retry.MaxInterval
	expBackoff.Multiplier = p.retry.Multiplier
	expBackoff.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(p.retry.MaxRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		p.logger.Warn().Err(err).Dur("retry_in", wait).Msg("price request failed, retrying")
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}

	var parsed map[string]struct {
		USD *float64 `json:"usd"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	quotes := make(map[string]float64, len(parsed))
	for id, entry := range parsed {
		if entry.USD != nil {
			quotes[id] = *entry.USD
		}
	}
	return quotes, nil
}

func (p *CoinGeckoProvider) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set(coinGeckoAPIKeyHdr, p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        endpoint,
			Body:       strings.TrimSpace(string(data)),
		}
		if !httpErr.Retryable() {
			return nil, backoff.Permanent(httpErr)
		}
		return nil, httpErr
	}
	return data, nil
}

func (p *CoinGeckoProvider) priceURL() (string, error) {
	seen := make(map[string]bool, len(p.tokens))
	ids := make([]string, 0, len(p.tokens))
	for _, t := range p.tokens {
		if !seen[t.CoinGeckoID] {
			seen[t.CoinGeckoID] = true
			ids = append(ids, t.CoinGeckoID)
		}
	}
	sort.Strings(ids)

	u, err := url.Parse(p.baseURL + "/simple/price")
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", p.baseURL, err)
	}
	q := u.Query()
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
