// Package coingecko is a minimal CoinGecko REST client covering the
// endpoints the crypto advisor needs: simple price, market chart and
// per-coin market data. The free tier requires no API key.
package coingecko

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/openhands-ai/agents-go/pkg/metricskey"
)

// DefaultBaseURL is the public CoinGecko API v3 endpoint.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

const providerName = "coingecko"

// ErrNotFound is returned when the coin ID is unknown to CoinGecko.
var ErrNotFound = errors.New("coingecko: coin not found")

// Client calls the CoinGecko REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient returns a Client with a 10 second request timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MarketChart is a time series of [unix millis, value] pairs.
type MarketChart struct {
	Prices       [][]float64 `json:"prices"`
	MarketCaps   [][]float64 `json:"market_caps"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

// MarketData is the market_data block of a coin response, per-currency
// values keyed by lowercase currency code.
type MarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
	MarketCap                map[string]float64 `json:"market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
}

// Coin is a subset of the /coins/{id} response.
type Coin struct {
	ID         string     `json:"id"`
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	MarketData MarketData `json:"market_data"`
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	started := time.Now()
	defer metricskey.PerfMarketRequest.MeasureSince(started, providerName, endpoint)
	metricskey.StatsMarketRequests.IncrCounter(1, providerName, endpoint)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metricskey.StatsMarketRequestsFailed.IncrCounter(1, providerName, endpoint)
		return errors.WithMessagef(err, "coingecko: request failed: %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metricskey.StatsMarketRequestsFailed.IncrCounter(1, providerName, endpoint)
		return errors.WithStack(ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		metricskey.StatsMarketRequestsFailed.IncrCounter(1, providerName, endpoint)
		return errors.Newf("coingecko: unexpected status %d: %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metricskey.StatsMarketRequestsFailed.IncrCounter(1, providerName, endpoint)
		return errors.WithMessage(err, "coingecko: failed to decode response")
	}
	return nil
}

// SimplePrice returns the current price of the coin in the given currency.
func (c *Client) SimplePrice(ctx context.Context, coinID, vsCurrency string) (float64, error) {
	query := url.Values{
		"ids":           {coinID},
		"vs_currencies": {vsCurrency},
	}
	var data map[string]map[string]float64
	if err := c.get(ctx, "simple_price", "/simple/price", query, &data); err != nil {
		return 0, err
	}
	price, ok := data[coinID][vsCurrency]
	if !ok {
		return 0, errors.WithMessagef(ErrNotFound, "%s/%s", coinID, vsCurrency)
	}
	return price, nil
}

// GetMarketChart returns hourly price, market cap and volume series for the
// coin over the given number of days.
func (c *Client) GetMarketChart(ctx context.Context, coinID, vsCurrency string, days int) (*MarketChart, error) {
	query := url.Values{
		"vs_currency": {vsCurrency},
		"days":        {strconv.Itoa(days)},
		"interval":    {"hourly"},
	}
	var chart MarketChart
	if err := c.get(ctx, "market_chart", "/coins/"+url.PathEscape(coinID)+"/market_chart", query, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

// GetCoin returns coin metadata and current market data.
func (c *Client) GetCoin(ctx context.Context, coinID string) (*Coin, error) {
	var coin Coin
	if err := c.get(ctx, "coin", "/coins/"+url.PathEscape(coinID), nil, &coin); err != nil {
		return nil, err
	}
	return &coin, nil
}
