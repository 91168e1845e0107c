package advisor_test

import (
	"testing"

	"github.com/openhands-ai/agents-go/defi/advisor"
	"github.com/openhands-ai/agents-go/defi/strategies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Recommendations_LowRisk(t *testing.T) {
	adv := advisor.New()
	recs, err := adv.GetStrategyRecommendations(&advisor.Request{
		Amount:            10,
		TimeHorizonMonths: 6,
		RiskPreference:    strategies.RiskPreferenceLow,
	})
	require.NoError(t, err)
	// Uniswap's 4.2 overall risk falls outside the low range
	require.Len(t, recs, 4)

	// moderate strategies sorted by ROI, the weak one last
	assert.Equal(t, strategies.Lido, recs[0].Protocol)
	assert.Equal(t, strategies.RocketPool, recs[1].Protocol)
	assert.Equal(t, strategies.AaveV3, recs[2].Protocol)
	assert.Equal(t, strategies.CurveSteth, recs[3].Protocol)

	lido := recs[0]
	assert.InDelta(t, 1.7, lido.ExpectedROI, 1e-9)
	assert.Equal(t, "Low", lido.RiskLevel)
	assert.Equal(t, strategies.StrengthModerate, lido.Strength)
	assert.Equal(t, strategies.StrengthWeak, recs[3].Strength)

	assert.Equal(t, "~$30-40", lido.GasCosts["deposit"])
	assert.Equal(t, "~$15-20", lido.GasCosts["withdrawal"])

	assert.Contains(t, lido.Cons, "Low potential returns (1.7% ROI)")
	assert.Contains(t, lido.Pros, "Low smart contract risk")
	assert.Contains(t, lido.Pros, "Low gas costs relative to investment")
	assert.Contains(t, lido.Pros, "Insurance available")
	assert.Contains(t, lido.Pros, "Large TVL ($19.2B)")

	assert.Contains(t, lido.AdditionalNotes,
		"Liquid staking tokens can be used in other DeFi protocols for additional yield.")

	require.NotNil(t, lido.Verification)
	assert.InDelta(t, 0.875, lido.Verification.APY.Confidence, 1e-9)
	assert.Len(t, lido.Verification.APY.Sources, 2)
	assert.Equal(t, "success", lido.Verification.Overall.Status)
	assert.Equal(t, "https://docs.lido.fi/", lido.References.OfficialDocs)
}

func Test_Recommendations_MediumRisk(t *testing.T) {
	adv := advisor.New()
	recs, err := adv.GetStrategyRecommendations(&advisor.Request{
		Amount:         10,
		RiskPreference: strategies.RiskPreferenceMedium,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// same strength, higher ROI first
	assert.Equal(t, strategies.UniswapV3, recs[0].Protocol)
	assert.InDelta(t, 4.3, recs[0].ExpectedROI, 1e-9)
	assert.Equal(t, strategies.CurveSteth, recs[1].Protocol)

	assert.Contains(t, recs[0].Cons, "No insurance coverage")
	assert.Contains(t, recs[0].Cons, "Small TVL ($0.5B)")
	assert.Contains(t, recs[0].AdditionalNotes,
		"Monitor impermanent loss and consider active position management.")
}

func Test_Recommendations_Filters(t *testing.T) {
	adv := advisor.New()

	recs, err := adv.GetStrategyRecommendations(&advisor.Request{
		Amount:         10,
		RiskPreference: strategies.RiskPreferenceLow,
		MinAPY:         4.0,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, strategies.CurveSteth, recs[0].Protocol)

	recs, err = adv.GetStrategyRecommendations(&advisor.Request{
		Amount:         10,
		RiskPreference: strategies.RiskPreferenceLow,
		MaxGasCostETH:  0.03,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, strategies.Lido, recs[0].Protocol)
	assert.Equal(t, strategies.RocketPool, recs[1].Protocol)

	recs, err = adv.GetStrategyRecommendations(&advisor.Request{
		Amount:         10,
		RiskPreference: strategies.RiskPreferenceLow,
		Protocols:      []string{strategies.Lido},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, strategies.Lido, recs[0].Protocol)
}

func Test_Recommendations_ShortAndLongHorizons(t *testing.T) {
	adv := advisor.New()

	recs, err := adv.GetStrategyRecommendations(&advisor.Request{
		Amount:            10,
		TimeHorizonMonths: 2,
		RiskPreference:    strategies.RiskPreferenceLow,
		Protocols:         []string{strategies.Lido},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].AdditionalNotes,
		"Short time horizon: Consider gas costs impact on overall returns.")

	recs, err = adv.GetStrategyRecommendations(&advisor.Request{
		Amount:            10,
		TimeHorizonMonths: 24,
		RiskPreference:    strategies.RiskPreferenceLow,
		Protocols:         []string{strategies.Lido},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].AdditionalNotes,
		"Long time horizon: Consider protocol's track record and governance structure.")
}

func Test_Recommendations_InvalidRequest(t *testing.T) {
	adv := advisor.New()

	_, err := adv.GetStrategyRecommendations(&advisor.Request{Amount: 0})
	assert.EqualError(t, err, "advisor: amount must be positive, got 0")

	_, err = adv.GetStrategyRecommendations(&advisor.Request{
		Amount:         10,
		RiskPreference: "extreme",
	})
	assert.EqualError(t, err, `strategies: unknown risk preference "extreme"`)
}

func Test_PortfolioAllocation(t *testing.T) {
	adv := advisor.New()

	// top three low-risk strategies are all moderate, equal split
	allocs, err := adv.AnalyzePortfolioAllocation(10, strategies.RiskPreferenceLow, 6)
	require.NoError(t, err)
	require.Len(t, allocs, 3)
	assert.InDelta(t, 33.33, allocs[strategies.Lido], 1e-9)
	assert.InDelta(t, 33.33, allocs[strategies.RocketPool], 1e-9)
	assert.InDelta(t, 33.33, allocs[strategies.AaveV3], 1e-9)

	// two weak strategies split evenly
	allocs, err = adv.AnalyzePortfolioAllocation(10, strategies.RiskPreferenceMedium, 6)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.InDelta(t, 50, allocs[strategies.UniswapV3], 1e-9)
	assert.InDelta(t, 50, allocs[strategies.CurveSteth], 1e-9)

	_, err = adv.AnalyzePortfolioAllocation(0, strategies.RiskPreferenceLow, 6)
	assert.Error(t, err)
}
