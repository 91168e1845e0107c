package cryptoadvisor_test

import (
	"testing"

	"github.com/openhands-ai/agents-go/defi/cryptoadvisor"
	"github.com/stretchr/testify/assert"
)

func Test_ClassifyRequest(t *testing.T) {
	tcases := []struct {
		request string
		exp     cryptoadvisor.RequestKind
	}{
		{"What's the current price of ETH?", cryptoadvisor.KindPrice},
		{"Analyze the market trend for BTC", cryptoadvisor.KindTrend},
		{"Assess the risk of investing in DeFi tokens", cryptoadvisor.KindRisk},
		{"Recommend a balanced crypto portfolio", cryptoadvisor.KindPortfolio},
		{"I want an aggressive portfolio", cryptoadvisor.KindPortfolio},
		{"Tell me a joke", cryptoadvisor.KindUnknown},
		// price wins over trend when both keywords appear
		{"price trend for bitcoin", cryptoadvisor.KindPrice},
	}
	for _, tc := range tcases {
		assert.Equal(t, tc.exp, cryptoadvisor.ClassifyRequest(tc.request), tc.request)
	}
}

func Test_ExtractAssets(t *testing.T) {
	assert.Equal(t, "ETHEREUM", cryptoadvisor.ExtractPriceAsset("What's the current price of ethereum?"))
	assert.Equal(t, "BITCOIN", cryptoadvisor.ExtractPriceAsset("price of Bitcoin"))
	// without the marker the whole request is treated as the asset
	assert.Equal(t, "ETHEREUM PRICE", cryptoadvisor.ExtractPriceAsset("ethereum price"))

	assert.Equal(t, "BITCOIN", cryptoadvisor.ExtractTrendAsset("Analyze the market trend for bitcoin today"))
	assert.Equal(t, "ETHEREUM", cryptoadvisor.ExtractTrendAsset("trend for ethereum"))
	assert.Equal(t, "", cryptoadvisor.ExtractTrendAsset("trend for "))

	assert.Equal(t, "ETHEREUM", cryptoadvisor.ExtractRiskAsset("Assess the risk of ethereum investments"))
	assert.Equal(t, "DOGECOIN", cryptoadvisor.ExtractRiskAsset("risk of dogecoin"))
}

func Test_ExtractRiskProfile(t *testing.T) {
	assert.Equal(t, cryptoadvisor.ProfileConservative,
		cryptoadvisor.ExtractRiskProfile("I want a conservative portfolio"))
	assert.Equal(t, cryptoadvisor.ProfileAggressive,
		cryptoadvisor.ExtractRiskProfile("Give me an AGGRESSIVE allocation"))
	assert.Equal(t, cryptoadvisor.ProfileModerate,
		cryptoadvisor.ExtractRiskProfile("Recommend a balanced crypto portfolio"))
}
