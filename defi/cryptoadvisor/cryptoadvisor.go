// Package cryptoadvisor routes free-text cryptocurrency questions to one of
// four actions backed by CoinGecko market data: price fetch, market trend
// analysis, risk assessment and portfolio recommendation.
package cryptoadvisor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/openhands-ai/agents-go/defi/coingecko"
)

var logger = xlog.NewPackageLogger("github.com/openhands-ai/agents-go", "cryptoadvisor")

// Risk profiles for portfolio recommendations.
const (
	ProfileConservative = "conservative"
	ProfileModerate     = "moderate"
	ProfileAggressive   = "aggressive"
)

// Config holds the risk thresholds and portfolio weights.
type Config struct {
	// DefaultCurrency is the quote currency for prices, default USD.
	DefaultCurrency string `json:"default_currency" yaml:"default_currency"`
	// VolatilityThreshold is the 24h price change (in percent) above which an
	// asset counts as volatile.
	VolatilityThreshold float64 `json:"volatility_threshold" yaml:"volatility_threshold"`
	// VolumeThreshold is the minimum healthy 24h trading volume in USD.
	VolumeThreshold float64 `json:"volume_threshold" yaml:"volume_threshold"`
	// MarketCapThreshold is the minimum healthy market cap in USD.
	MarketCapThreshold float64 `json:"market_cap_threshold" yaml:"market_cap_threshold"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency:     "USD",
		VolatilityThreshold: 0.1,
		VolumeThreshold:     1000000,
		MarketCapThreshold:  10000000,
	}
}

// Weight is one asset class share of a portfolio.
type Weight struct {
	Asset string  `json:"asset"`
	Share float64 `json:"share"`
}

var riskProfiles = map[string][]Weight{
	ProfileConservative: {
		{Asset: "btc", Share: 0.6},
		{Asset: "eth", Share: 0.3},
		{Asset: "stables", Share: 0.1},
	},
	ProfileModerate: {
		{Asset: "btc", Share: 0.4},
		{Asset: "eth", Share: 0.3},
		{Asset: "defi", Share: 0.2},
		{Asset: "stables", Share: 0.1},
	},
	ProfileAggressive: {
		{Asset: "btc", Share: 0.3},
		{Asset: "eth", Share: 0.3},
		{Asset: "defi", Share: 0.3},
		{Asset: "other", Share: 0.1},
	},
}

// PriceData is the result of a price fetch.
type PriceData struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Crypto   string  `json:"crypto"`
}

// TrendData is the result of a market trend analysis.
type TrendData struct {
	Trend          string `json:"trend"`
	PriceChange24h string `json:"price_change_24h"`
	Analysis       string `json:"analysis"`
}

// RiskData is the result of a risk assessment.
type RiskData struct {
	RiskLevel   string   `json:"risk_level"`
	RiskFactors []string `json:"risk_factors"`
	Assessment  string   `json:"assessment"`
}

// PortfolioData is the result of a portfolio recommendation.
type PortfolioData struct {
	RiskProfile    string   `json:"risk_profile"`
	Allocation     []Weight `json:"allocation"`
	Recommendation string   `json:"recommendation"`
}

// Response wraps an action result for the agent. Data is one of PriceData,
// TrendData, RiskData or PortfolioData on success.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Advisor processes advice requests over a market data client.
type Advisor struct {
	client *coingecko.Client
	cfg    Config
}

// New returns an Advisor over the given CoinGecko client.
func New(client *coingecko.Client, cfg Config) *Advisor {
	if cfg.DefaultCurrency == "" {
		cfg = DefaultConfig()
	}
	return &Advisor{client: client, cfg: cfg}
}

// Capabilities lists what the advisor can do.
func (a *Advisor) Capabilities() []string {
	return []string{
		"Real-time cryptocurrency price data",
		"Market trend analysis",
		"Risk assessment for DeFi investments",
		"Portfolio recommendations",
		"DeFi protocol analysis",
	}
}

// ProcessRequest classifies the request and runs the matching action.
// Failures are reported in the response status, never as an error, so the
// agent can relay them to the user.
func (a *Advisor) ProcessRequest(ctx context.Context, request string) *Response {
	kind := ClassifyRequest(request)
	logger.ContextKV(ctx, xlog.DEBUG, "kind", kind, "request", request)

	switch kind {
	case KindPrice:
		asset := ExtractPriceAsset(request)
		data, err := a.FetchPrice(ctx, asset)
		if err != nil {
			logger.ContextKV(ctx, xlog.DEBUG, "action", kind, "asset", asset, "err", err.Error())
			return &Response{Status: "error", Message: "Unable to fetch price for " + asset}
		}
		return &Response{Status: "success", Data: data}

	case KindTrend:
		asset := ExtractTrendAsset(request)
		data, err := a.AnalyzeTrend(ctx, asset)
		if err != nil {
			logger.ContextKV(ctx, xlog.DEBUG, "action", kind, "asset", asset, "err", err.Error())
			return &Response{Status: "error", Message: "Unable to analyze market trend for " + asset}
		}
		return &Response{Status: "success", Data: data}

	case KindRisk:
		asset := ExtractRiskAsset(request)
		data, err := a.AssessRisk(ctx, asset)
		if err != nil {
			logger.ContextKV(ctx, xlog.DEBUG, "action", kind, "asset", asset, "err", err.Error())
			return &Response{Status: "error", Message: "Unable to assess risk for " + asset}
		}
		return &Response{Status: "success", Data: data}

	case KindPortfolio:
		data := a.RecommendPortfolio(ExtractRiskProfile(request))
		return &Response{Status: "success", Data: data}

	default:
		return &Response{
			Status: "error",
			Message: "Unable to classify request. Please specify if you want price information, " +
				"market analysis, risk assessment, or portfolio recommendations.",
		}
	}
}

// FetchPrice returns the current price of the asset in the default currency.
func (a *Advisor) FetchPrice(ctx context.Context, asset string) (*PriceData, error) {
	currency := strings.ToLower(a.cfg.DefaultCurrency)
	price, err := a.client.SimplePrice(ctx, strings.ToLower(asset), currency)
	if err != nil {
		return nil, err
	}
	return &PriceData{
		Price:    price,
		Currency: a.cfg.DefaultCurrency,
		Crypto:   asset,
	}, nil
}

// AnalyzeTrend labels the last 24 hours of hourly prices as bullish or
// bearish by comparing the first and last points of the series.
func (a *Advisor) AnalyzeTrend(ctx context.Context, asset string) (*TrendData, error) {
	chart, err := a.client.GetMarketChart(ctx, strings.ToLower(asset), "usd", 1)
	if err != nil {
		return nil, err
	}
	if len(chart.Prices) < 2 {
		return nil, errors.Newf("cryptoadvisor: not enough price points for %s", asset)
	}

	start := chart.Prices[0][1]
	end := chart.Prices[len(chart.Prices)-1][1]
	change := (end - start) / start * 100

	trend := "bearish"
	if change > 0 {
		trend = "bullish"
	}

	return &TrendData{
		Trend:          trend,
		PriceChange24h: fmt.Sprintf("%.2f%%", change),
		Analysis: fmt.Sprintf(
			"The market for %s is showing a %s trend with a %.2f%% price change in the last 24 hours.",
			asset, trend, change),
	}, nil
}

// AssessRisk grades the asset from its volatility, market cap and volume.
func (a *Advisor) AssessRisk(ctx context.Context, asset string) (*RiskData, error) {
	coin, err := a.client.GetCoin(ctx, strings.ToLower(asset))
	if err != nil {
		return nil, err
	}

	change := math.Abs(coin.MarketData.PriceChangePercentage24h)
	marketCap := coin.MarketData.MarketCap["usd"]
	volume := coin.MarketData.TotalVolume["usd"]

	var factors []string
	level := "low"

	if change > a.cfg.VolatilityThreshold {
		factors = append(factors, "high volatility")
		level = "high"
	}
	if marketCap < a.cfg.MarketCapThreshold {
		factors = append(factors, "low market cap")
		level = "high"
	}
	if volume < a.cfg.VolumeThreshold {
		factors = append(factors, "low trading volume")
		if level != "high" {
			level = "medium"
		}
	}

	reason := "stable market conditions"
	if len(factors) > 0 {
		reason = strings.Join(factors, ", ")
	}

	return &RiskData{
		RiskLevel:   level,
		RiskFactors: factors,
		Assessment:  fmt.Sprintf("Investment in %s is considered %s risk due to %s.", asset, level, reason),
	}, nil
}

// RecommendPortfolio returns the static allocation for the risk profile.
func (a *Advisor) RecommendPortfolio(profile string) *PortfolioData {
	allocation, ok := riskProfiles[profile]
	if !ok {
		profile = ProfileModerate
		allocation = riskProfiles[profile]
	}

	parts := make([]string, 0, len(allocation))
	for _, w := range allocation {
		parts = append(parts, fmt.Sprintf("%d%% %s", int(w.Share*100), strings.ToUpper(w.Asset)))
	}

	return &PortfolioData{
		RiskProfile: profile,
		Allocation:  allocation,
		Recommendation: fmt.Sprintf("For a %s risk profile, we recommend the following allocation: %s",
			profile, strings.Join(parts, ", ")),
	}
}
