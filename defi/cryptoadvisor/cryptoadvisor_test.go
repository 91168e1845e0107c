package cryptoadvisor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openhands-ai/agents-go/defi/coingecko"
	"github.com/openhands-ai/agents-go/defi/cryptoadvisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdvisor(t *testing.T, handler http.HandlerFunc) *cryptoadvisor.Advisor {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := coingecko.NewClient(coingecko.WithBaseURL(server.URL))
	return cryptoadvisor.New(client, cryptoadvisor.DefaultConfig())
}

func Test_ProcessRequest_Price(t *testing.T) {
	adv := newTestAdvisor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		_, _ = w.Write([]byte(`{"ethereum":{"usd":3150.42}}`))
	})

	resp := adv.ProcessRequest(context.Background(), "What's the current price of ethereum?")
	require.Equal(t, "success", resp.Status)

	data, ok := resp.Data.(*cryptoadvisor.PriceData)
	require.True(t, ok)
	assert.Equal(t, 3150.42, data.Price)
	assert.Equal(t, "USD", data.Currency)
	assert.Equal(t, "ETHEREUM", data.Crypto)
}

func Test_ProcessRequest_Trend(t *testing.T) {
	adv := newTestAdvisor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		_, _ = w.Write([]byte(`{"prices":[[1700000000000,40000],[1700003600000,41000]]}`))
	})

	resp := adv.ProcessRequest(context.Background(), "Analyze the market trend for bitcoin")
	require.Equal(t, "success", resp.Status)

	data, ok := resp.Data.(*cryptoadvisor.TrendData)
	require.True(t, ok)
	assert.Equal(t, "bullish", data.Trend)
	assert.Equal(t, "2.50%", data.PriceChange24h)
	assert.Equal(t,
		"The market for BITCOIN is showing a bullish trend with a 2.50% price change in the last 24 hours.",
		data.Analysis)
}

func Test_ProcessRequest_Trend_Bearish(t *testing.T) {
	adv := newTestAdvisor(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"prices":[[1700000000000,41000],[1700003600000,40000]]}`))
	})

	resp := adv.ProcessRequest(context.Background(), "trend for bitcoin")
	require.Equal(t, "success", resp.Status)
	data := resp.Data.(*cryptoadvisor.TrendData)
	assert.Equal(t, "bearish", data.Trend)
}

func Test_ProcessRequest_Risk(t *testing.T) {
	t.Run("volatile", func(t *testing.T) {
		adv := newTestAdvisor(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/coins/ethereum", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"id":"ethereum",
				"market_data":{
					"price_change_percentage_24h":-2.15,
					"market_cap":{"usd":380000000000},
					"total_volume":{"usd":18000000000}
				}
			}`))
		})

		resp := adv.ProcessRequest(context.Background(), "Assess the risk of ethereum today")
		require.Equal(t, "success", resp.Status)

		data := resp.Data.(*cryptoadvisor.RiskData)
		assert.Equal(t, "high", data.RiskLevel)
		assert.Equal(t, []string{"high volatility"}, data.RiskFactors)
		assert.Equal(t,
			"Investment in ETHEREUM is considered high risk due to high volatility.",
			data.Assessment)
	})

	t.Run("stable", func(t *testing.T) {
		adv := newTestAdvisor(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{
				"id":"ethereum",
				"market_data":{
					"price_change_percentage_24h":0.05,
					"market_cap":{"usd":380000000000},
					"total_volume":{"usd":18000000000}
				}
			}`))
		})

		resp := adv.ProcessRequest(context.Background(), "risk of ethereum")
		data := resp.Data.(*cryptoadvisor.RiskData)
		assert.Equal(t, "low", data.RiskLevel)
		assert.Empty(t, data.RiskFactors)
		assert.Contains(t, data.Assessment, "stable market conditions")
	})

	t.Run("thin volume", func(t *testing.T) {
		adv := newTestAdvisor(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{
				"id":"smallcoin",
				"market_data":{
					"price_change_percentage_24h":0.01,
					"market_cap":{"usd":50000000},
					"total_volume":{"usd":500000}
				}
			}`))
		})

		resp := adv.ProcessRequest(context.Background(), "risk of smallcoin")
		data := resp.Data.(*cryptoadvisor.RiskData)
		assert.Equal(t, "medium", data.RiskLevel)
		assert.Equal(t, []string{"low trading volume"}, data.RiskFactors)
	})
}

func Test_ProcessRequest_Portfolio(t *testing.T) {
	adv := cryptoadvisor.New(coingecko.NewClient(), cryptoadvisor.DefaultConfig())

	resp := adv.ProcessRequest(context.Background(), "Recommend a conservative crypto portfolio")
	require.Equal(t, "success", resp.Status)

	data := resp.Data.(*cryptoadvisor.PortfolioData)
	assert.Equal(t, cryptoadvisor.ProfileConservative, data.RiskProfile)
	require.Len(t, data.Allocation, 3)
	assert.Equal(t,
		"For a conservative risk profile, we recommend the following allocation: 60% BTC, 30% ETH, 10% STABLES",
		data.Recommendation)

	resp = adv.ProcessRequest(context.Background(), "Recommend an aggressive portfolio")
	data = resp.Data.(*cryptoadvisor.PortfolioData)
	assert.Equal(t,
		"For a aggressive risk profile, we recommend the following allocation: 30% BTC, 30% ETH, 30% DEFI, 10% OTHER",
		data.Recommendation)
}

func Test_ProcessRequest_Errors(t *testing.T) {
	adv := newTestAdvisor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	resp := adv.ProcessRequest(context.Background(), "price of notacoin?")
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Unable to fetch price for NOTACOIN", resp.Message)

	resp = adv.ProcessRequest(context.Background(), "Tell me a joke")
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "Unable to classify request")
}

func Test_Capabilities(t *testing.T) {
	adv := cryptoadvisor.New(coingecko.NewClient(), cryptoadvisor.DefaultConfig())
	assert.Len(t, adv.Capabilities(), 5)
}
