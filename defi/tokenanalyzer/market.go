package tokenanalyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/openhands-ai/agents-go/pkg/metricskey"
)

var logger = xlog.NewPackageLogger("github.com/openhands-ai/agents-go", "tokenanalyzer")

// Default market data endpoints.
const (
	CoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	DeFiLlamaBaseURL = "https://api.llama.fi"
	DexToolsBaseURL  = "https://api.dextools.io/v1"
)

// ErrAllSourcesFailed is returned when every price source errored.
var ErrAllSourcesFailed = errors.New("tokenanalyzer: failed to get price from all sources")

// MultiSourceClient tries market data sources in order and returns the first
// successful quote.
type MultiSourceClient struct {
	sources []MarketDataClient
}

var _ MarketDataClient = (*MultiSourceClient)(nil)

// NewMultiSourceClient returns a client over the given sources in priority
// order. With no sources it defaults to CoinGecko, then DeFiLlama, then
// DexTools.
func NewMultiSourceClient(sources ...MarketDataClient) *MultiSourceClient {
	if len(sources) == 0 {
		hc := &http.Client{Timeout: 10 * time.Second}
		sources = []MarketDataClient{
			NewCoinGeckoSource(CoinGeckoBaseURL, hc),
			NewDeFiLlamaSource(DeFiLlamaBaseURL, hc),
			NewDexToolsSource(DexToolsBaseURL, "", hc),
		}
	}
	return &MultiSourceClient{sources: sources}
}

// GetTokenPrice implements MarketDataClient.
func (c *MultiSourceClient) GetTokenPrice(ctx context.Context, contractAddress, blockchain string) (*PriceQuote, error) {
	if err := ValidateTarget(contractAddress, blockchain); err != nil {
		return nil, err
	}
	for _, src := range c.sources {
		quote, err := src.GetTokenPrice(ctx, contractAddress, blockchain)
		if err == nil {
			return quote, nil
		}
		if ctx.Err() != nil {
			return nil, errors.WithStack(ctx.Err())
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "price_source_failed",
			"address", contractAddress,
			"chain", blockchain,
			"err", err.Error(),
		)
	}
	return nil, errors.WithStack(ErrAllSourcesFailed)
}

func fetchJSON(ctx context.Context, hc *http.Client, provider, endpoint, u string, header http.Header, out any) error {
	started := time.Now()
	defer metricskey.PerfMarketRequest.MeasureSince(started, provider, endpoint)
	metricskey.StatsMarketRequests.IncrCounter(1, provider, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := hc.Do(req)
	if err != nil {
		metricskey.StatsMarketRequestsFailed.IncrCounter(1, provider, endpoint)
		return errors.WithMessagef(err, "%s: request failed", provider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metricskey.StatsMarketRequestsFailed.IncrCounter(1, provider, endpoint)
		return errors.Newf("%s: unexpected status %d", provider, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metricskey.StatsMarketRequestsFailed.IncrCounter(1, provider, endpoint)
		return errors.WithMessagef(err, "%s: failed to decode response", provider)
	}
	return nil
}

// CoinGeckoSource fetches token prices by contract address from CoinGecko.
type CoinGeckoSource struct {
	baseURL    string
	httpClient *http.Client
}

var _ MarketDataClient = (*CoinGeckoSource)(nil)

// NewCoinGeckoSource returns a CoinGecko price source.
func NewCoinGeckoSource(baseURL string, hc *http.Client) *CoinGeckoSource {
	return &CoinGeckoSource{baseURL: baseURL, httpClient: hc}
}

// CoinGecko asset platform IDs by blockchain.
var coingeckoPlatforms = map[string]string{
	ChainEthereum: "ethereum",
	ChainBSC:      "binance-smart-chain",
}

// GetTokenPrice implements MarketDataClient.
func (s *CoinGeckoSource) GetTokenPrice(ctx context.Context, contractAddress, blockchain string) (*PriceQuote, error) {
	platform, ok := coingeckoPlatforms[blockchain]
	if !ok {
		return nil, errors.WithMessage(ErrUnsupportedChain, blockchain)
	}

	query := url.Values{
		"contract_addresses":  {contractAddress},
		"vs_currencies":       {"usd"},
		"include_24hr_vol":    {"true"},
		"include_24hr_change": {"true"},
	}
	u := s.baseURL + "/simple/token_price/" + platform + "?" + query.Encode()

	var data map[string]struct {
		USD          float64 `json:"usd"`
		USD24hVol    float64 `json:"usd_24h_vol"`
		USD24hChange float64 `json:"usd_24h_change"`
	}
	if err := fetchJSON(ctx, s.httpClient, "coingecko", "token_price", u, nil, &data); err != nil {
		return nil, err
	}
	quote, ok := data[contractAddress]
	if !ok {
		return nil, errors.Newf("coingecko: no price for %s", contractAddress)
	}
	return &PriceQuote{
		PriceUSD:       quote.USD,
		PriceChange24h: quote.USD24hChange,
		Volume24hUSD:   quote.USD24hVol,
		Source:         "coingecko",
	}, nil
}

// DeFiLlamaSource fetches token prices from the DeFiLlama coins API.
type DeFiLlamaSource struct {
	baseURL    string
	httpClient *http.Client
}

var _ MarketDataClient = (*DeFiLlamaSource)(nil)

// NewDeFiLlamaSource returns a DeFiLlama price source.
func NewDeFiLlamaSource(baseURL string, hc *http.Client) *DeFiLlamaSource {
	return &DeFiLlamaSource{baseURL: baseURL, httpClient: hc}
}

// GetTokenPrice implements MarketDataClient.
func (s *DeFiLlamaSource) GetTokenPrice(ctx context.Context, contractAddress, blockchain string) (*PriceQuote, error) {
	key := blockchain + ":" + contractAddress
	u := s.baseURL + "/prices/current/" + key

	var data struct {
		Coins map[string]struct {
			Price  float64 `json:"price"`
			Symbol string  `json:"symbol"`
		} `json:"coins"`
	}
	if err := fetchJSON(ctx, s.httpClient, "defillama", "prices_current", u, nil, &data); err != nil {
		return nil, err
	}
	coin, ok := data.Coins[key]
	if !ok {
		return nil, errors.Newf("defillama: no price for %s", key)
	}
	// DeFiLlama carries no change or volume data on this endpoint.
	return &PriceQuote{
		PriceUSD: coin.Price,
		Source:   "defillama",
	}, nil
}

// DexToolsSource fetches token prices from the DexTools API.
type DexToolsSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ MarketDataClient = (*DexToolsSource)(nil)

// NewDexToolsSource returns a DexTools price source. The API key may be empty
// for test servers.
func NewDexToolsSource(baseURL, apiKey string, hc *http.Client) *DexToolsSource {
	return &DexToolsSource{baseURL: baseURL, apiKey: apiKey, httpClient: hc}
}

// GetTokenPrice implements MarketDataClient.
func (s *DexToolsSource) GetTokenPrice(ctx context.Context, contractAddress, blockchain string) (*PriceQuote, error) {
	query := url.Values{
		"chain":   {blockchain},
		"address": {contractAddress},
	}
	u := s.baseURL + "/token?" + query.Encode()

	header := http.Header{}
	if s.apiKey != "" {
		header.Set("X-API-Key", s.apiKey)
	}

	var data struct {
		Data struct {
			Price          float64 `json:"price"`
			PriceChange24h float64 `json:"priceChange24h"`
			Volume24h      float64 `json:"volume24h"`
		} `json:"data"`
	}
	if err := fetchJSON(ctx, s.httpClient, "dextools", "token", u, header, &data); err != nil {
		return nil, err
	}
	return &PriceQuote{
		PriceUSD:       data.Data.Price,
		PriceChange24h: data.Data.PriceChange24h,
		Volume24hUSD:   data.Data.Volume24h,
		Source:         "dextools",
	}, nil
}
