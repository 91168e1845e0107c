// Package strategies holds the curated ETH yield protocol tables and the
// deterministic scoring used by the DeFi advisor: ROI estimates, composite
// risk scores and recommendation strength.
package strategies

import (
	"github.com/cockroachdb/errors"
)

// Protocol names used as keys across all tables.
const (
	Lido       = "Lido"
	RocketPool = "Rocket Pool"
	AaveV3     = "Aave V3"
	CurveSteth = "Curve ETH/stETH"
	UniswapV3  = "Uniswap V3 ETH/USDC"
)

// Names lists the supported protocols in presentation order.
var Names = []string{Lido, RocketPool, AaveV3, CurveSteth, UniswapV3}

// Strategy describes a yield strategy as presented to the agent.
type Strategy struct {
	Protocol            string `json:"protocol"`
	APY                 string `json:"apy"`
	TVL                 string `json:"tvl"`
	RiskLevel           string `json:"risk_level"`
	Description         string `json:"description"`
	MinAmount           string `json:"min_amount"`
	GasCost             string `json:"gas_cost"`
	ImpermanentLossRisk string `json:"impermanent_loss_risk"`
}

// GasEstimate describes the expected transaction costs for a strategy.
type GasEstimate struct {
	Deposit    string `json:"deposit"`
	Withdrawal string `json:"withdrawal"`
	Frequency  string `json:"frequency"`
}

// ROIParams are the per-protocol inputs to the ROI estimate.
type ROIParams struct {
	BaseAPY      float64 `json:"base_apy"`
	ExtraRewards float64 `json:"extra_rewards"`
	GasCostETH   float64 `json:"gas_cost_eth"`
}

// RiskDetails carries qualitative risk context for a protocol.
type RiskDetails struct {
	Audits             []string `json:"audits"`
	InsuranceAvailable bool     `json:"insurance_available"`
	Governance         string   `json:"governance"`
	YearsActive        int      `json:"years_active"`
}

// RiskScore breaks protocol risk into five 1-10 sub-scores, lower is better.
type RiskScore struct {
	SmartContract  int         `json:"smart_contract_risk"`
	Centralization int         `json:"centralization_risk"`
	Regulatory     int         `json:"regulatory_risk"`
	Market         int         `json:"market_risk"`
	Technical      int         `json:"technical_risk"`
	Details        RiskDetails `json:"details"`
}

// Overall returns the mean of the five sub-scores.
func (s RiskScore) Overall() float64 {
	return float64(s.SmartContract+s.Centralization+s.Regulatory+s.Market+s.Technical) / 5.0
}

// Profile holds comparable protocol metrics.
type Profile struct {
	Type           string   `json:"type"`
	APY            float64  `json:"apy"`
	TVLBillions    float64  `json:"tvl_billions"`
	Insurance      string   `json:"insurance"`
	MinDeposit     float64  `json:"min_deposit"`
	WithdrawalTime string   `json:"withdrawal_time"`
	UniqueFeatures []string `json:"unique_features"`
}

// Protocol type categories.
const (
	TypeLiquidStaking = "Liquid Staking"
	TypeLending       = "Lending"
	TypeLiquidityPool = "Liquidity Pool"
)

var yieldStrategies = map[string]Strategy{
	Lido: {
		Protocol:            TypeLiquidStaking,
		APY:                 "3.8%",
		TVL:                 "$19.2B",
		RiskLevel:           "Low",
		Description:         "Liquid staking solution for ETH 2.0. Receive stETH while staking.",
		MinAmount:           "0.01 ETH",
		GasCost:             "Medium",
		ImpermanentLossRisk: "None",
	},
	RocketPool: {
		Protocol:            TypeLiquidStaking,
		APY:                 "3.75%",
		TVL:                 "$4.1B",
		RiskLevel:           "Low",
		Description:         "Decentralized ETH staking protocol. Receive rETH while staking.",
		MinAmount:           "0.01 ETH",
		GasCost:             "Medium",
		ImpermanentLossRisk: "None",
	},
	AaveV3: {
		Protocol:            TypeLending,
		APY:                 "1.2% supply + 2.1% rewards",
		TVL:                 "$5.8B",
		RiskLevel:           "Low-Medium",
		Description:         "Supply ETH to earn interest and additional rewards in AAVE tokens.",
		MinAmount:           "0.001 ETH",
		GasCost:             "High",
		ImpermanentLossRisk: "None",
	},
	CurveSteth: {
		Protocol:            TypeLiquidityPool,
		APY:                 "3.5% + 0.8% fees",
		TVL:                 "$1.2B",
		RiskLevel:           "Medium",
		Description:         "Provide liquidity to ETH/stETH pool. Earn trading fees and CRV rewards.",
		MinAmount:           "0.01 ETH",
		GasCost:             "High",
		ImpermanentLossRisk: "Low",
	},
	UniswapV3: {
		Protocol:            TypeLiquidityPool,
		APY:                 "5-20% (variable)",
		TVL:                 "$500M",
		RiskLevel:           "High",
		Description:         "Concentrated liquidity provision. Higher returns but requires active management.",
		MinAmount:           "0.1 ETH",
		GasCost:             "Very High",
		ImpermanentLossRisk: "High",
	},
}

var gasEstimates = map[string]GasEstimate{
	Lido: {
		Deposit:    "~$30-40",
		Withdrawal: "~$15-20",
		Frequency:  "One-time deposit, withdrawal when needed",
	},
	RocketPool: {
		Deposit:    "~$35-45",
		Withdrawal: "~$20-25",
		Frequency:  "One-time deposit, withdrawal when needed",
	},
	AaveV3: {
		Deposit:    "~$50-70",
		Withdrawal: "~$40-60",
		Frequency:  "One-time deposit, withdrawal when needed",
	},
	CurveSteth: {
		Deposit:    "~$80-100",
		Withdrawal: "~$60-80",
		Frequency:  "One-time deposit, withdrawal when needed, harvesting rewards ~weekly",
	},
	UniswapV3: {
		Deposit:    "~$100-150",
		Withdrawal: "~$80-100",
		Frequency:  "One-time deposit, position management costs vary",
	},
}

var roiParams = map[string]ROIParams{
	Lido:       {BaseAPY: 0.038, ExtraRewards: 0, GasCostETH: 0.02},
	RocketPool: {BaseAPY: 0.0375, ExtraRewards: 0, GasCostETH: 0.022},
	AaveV3:     {BaseAPY: 0.012, ExtraRewards: 0.021, GasCostETH: 0.035},
	CurveSteth: {BaseAPY: 0.035, ExtraRewards: 0.008, GasCostETH: 0.05},
	UniswapV3:  {BaseAPY: 0.10, ExtraRewards: 0, GasCostETH: 0.07},
}

var riskScores = map[string]RiskScore{
	Lido: {
		SmartContract:  2,
		Centralization: 4,
		Regulatory:     3,
		Market:         2,
		Technical:      2,
		Details: RiskDetails{
			Audits:             []string{"Quantstamp", "Sigma Prime", "Trail of Bits"},
			InsuranceAvailable: true,
			Governance:         "DAO",
			YearsActive:        3,
		},
	},
	RocketPool: {
		SmartContract:  3,
		Centralization: 2,
		Regulatory:     3,
		Market:         2,
		Technical:      3,
		Details: RiskDetails{
			Audits:             []string{"ConsenSys Diligence", "Trail of Bits"},
			InsuranceAvailable: true,
			Governance:         "Decentralized DAO",
			YearsActive:        2,
		},
	},
	AaveV3: {
		SmartContract:  2,
		Centralization: 3,
		Regulatory:     4,
		Market:         3,
		Technical:      2,
		Details: RiskDetails{
			Audits:             []string{"OpenZeppelin", "SigmaPrime", "ABDK"},
			InsuranceAvailable: true,
			Governance:         "DAO",
			YearsActive:        4,
		},
	},
	CurveSteth: {
		SmartContract:  3,
		Centralization: 3,
		Regulatory:     3,
		Market:         4,
		Technical:      3,
		Details: RiskDetails{
			Audits:             []string{"Trail of Bits", "MixBytes"},
			InsuranceAvailable: true,
			Governance:         "DAO",
			YearsActive:        3,
		},
	},
	UniswapV3: {
		SmartContract:  3,
		Centralization: 2,
		Regulatory:     4,
		Market:         7,
		Technical:      5,
		Details: RiskDetails{
			Audits:             []string{"Trail of Bits", "ABDK"},
			InsuranceAvailable: true,
			Governance:         "DAO",
			YearsActive:        2,
		},
	},
}

var profiles = map[string]Profile{
	Lido: {
		Type:           TypeLiquidStaking,
		APY:            3.8,
		TVLBillions:    19.2,
		Insurance:      "Yes",
		MinDeposit:     0.01,
		WithdrawalTime: "Instant for stETH, variable for ETH",
		UniqueFeatures: []string{"No minimum stake", "Liquid staking derivative", "Wide integration"},
	},
	RocketPool: {
		Type:           TypeLiquidStaking,
		APY:            3.75,
		TVLBillions:    4.1,
		Insurance:      "Yes",
		MinDeposit:     0.01,
		WithdrawalTime: "Instant for rETH, variable for ETH",
		UniqueFeatures: []string{"Decentralized node operators", "Lower minimum stake", "Node operator opportunities"},
	},
	AaveV3: {
		Type:           TypeLending,
		APY:            3.3,
		TVLBillions:    5.8,
		Insurance:      "Yes",
		MinDeposit:     0.001,
		WithdrawalTime: "Instant",
		UniqueFeatures: []string{"Multiple asset types", "Flash loans", "Isolation mode"},
	},
	CurveSteth: {
		Type:           TypeLiquidityPool,
		APY:            4.3,
		TVLBillions:    1.2,
		Insurance:      "Yes",
		MinDeposit:     0.01,
		WithdrawalTime: "Instant",
		UniqueFeatures: []string{"Low slippage", "CRV rewards", "Stable pair focus"},
	},
	UniswapV3: {
		// Midpoint of the 5-20% variable range.
		Type:           TypeLiquidityPool,
		APY:            12.5,
		TVLBillions:    0.5,
		Insurance:      "No",
		MinDeposit:     0.1,
		WithdrawalTime: "Instant",
		UniqueFeatures: []string{"Concentrated liquidity", "Custom fee tiers", "Active management"},
	},
}

// YieldStrategies returns the available ETH yield strategies keyed by protocol.
func YieldStrategies() map[string]Strategy {
	out := make(map[string]Strategy, len(yieldStrategies))
	for k, v := range yieldStrategies {
		out[k] = v
	}
	return out
}

// GasCosts returns the gas cost estimate for the protocol.
func GasCosts(protocol string) (GasEstimate, bool) {
	g, ok := gasEstimates[protocol]
	return g, ok
}

// RiskScoreFor returns the risk breakdown for the protocol.
func RiskScoreFor(protocol string) (RiskScore, bool) {
	r, ok := riskScores[protocol]
	return r, ok
}

// ProfileFor returns the comparison profile for the protocol.
func ProfileFor(protocol string) (Profile, bool) {
	p, ok := profiles[protocol]
	return p, ok
}

// ROIResult is an ROI estimate for a given amount over a time period.
type ROIResult struct {
	BaseReturn   float64 `json:"base_return"`
	ExtraReturn  float64 `json:"extra_return"`
	GasCost      float64 `json:"gas_cost"`
	NetReturn    float64 `json:"total_return"`
	ROIPercent   float64 `json:"roi_percentage"`
	Amount       float64 `json:"amount"`
	PeriodMonths int     `json:"period_months"`
}

// CalculateROI estimates the return for investing amount ETH in the protocol
// over the given number of months. Returns are simple interest prorated by
// months/12; the protocol's flat gas cost is subtracted once.
func CalculateROI(amount float64, protocol string, months int) (*ROIResult, error) {
	if amount <= 0 {
		return nil, errors.Newf("strategies: amount must be positive, got %v", amount)
	}
	if months <= 0 {
		return nil, errors.Newf("strategies: period must be positive, got %d months", months)
	}
	params, ok := roiParams[protocol]
	if !ok {
		return nil, errors.Newf("strategies: ROI data not available for %q", protocol)
	}

	years := float64(months) / 12
	base := amount * params.BaseAPY * years
	extra := amount * params.ExtraRewards * years
	net := base + extra - params.GasCostETH

	return &ROIResult{
		BaseReturn:   base,
		ExtraReturn:  extra,
		GasCost:      params.GasCostETH,
		NetReturn:    net,
		ROIPercent:   net / amount * 100,
		Amount:       amount,
		PeriodMonths: months,
	}, nil
}

// RiskLevel maps an overall risk score to a coarse level.
func RiskLevel(score float64) string {
	switch {
	case score < 3:
		return "Low"
	case score < 5:
		return "Medium"
	default:
		return "High"
	}
}

// Risk preferences accepted by MatchesRiskPreference.
const (
	RiskPreferenceLow    = "low"
	RiskPreferenceMedium = "medium"
	RiskPreferenceHigh   = "high"
)

// Preference ranges overlap so borderline protocols qualify for both
// neighbouring preferences.
var riskRanges = map[string][2]float64{
	RiskPreferenceLow:    {0, 4},
	RiskPreferenceMedium: {3, 6},
	RiskPreferenceHigh:   {5, 10},
}

// MatchesRiskPreference reports whether an overall risk score falls within the
// range acceptable to the given preference (low, medium or high).
func MatchesRiskPreference(score float64, preference string) (bool, error) {
	r, ok := riskRanges[preference]
	if !ok {
		return false, errors.Newf("strategies: unknown risk preference %q", preference)
	}
	return r[0] <= score && score <= r[1], nil
}

// Recommendation strengths.
const (
	StrengthStrong   = "Strong"
	StrengthModerate = "Moderate"
	StrengthWeak     = "Weak"
)

// RecommendationStrength scores a strategy on ROI, risk and TVL buckets.
// A strategy outside the user's risk range is always Weak.
func RecommendationStrength(riskMatch bool, roiPercent, riskScore, tvlBillions float64) string {
	if !riskMatch {
		return StrengthWeak
	}

	points := 0
	switch {
	case roiPercent > 10:
		points += 3
	case roiPercent > 5:
		points += 2
	case roiPercent > 2:
		points++
	}
	switch {
	case riskScore < 3:
		points += 3
	case riskScore < 5:
		points += 2
	case riskScore < 7:
		points++
	}
	switch {
	case tvlBillions > 10:
		points += 3
	case tvlBillions > 5:
		points += 2
	case tvlBillions > 1:
		points++
	}

	switch {
	case points >= 7:
		return StrengthStrong
	case points >= 4:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// StrengthScore converts a recommendation strength into a sortable rank.
func StrengthScore(strength string) int {
	switch strength {
	case StrengthStrong:
		return 3
	case StrengthModerate:
		return 2
	default:
		return 1
	}
}
