// Package advisor ranks ETH yield strategies for a given investment amount,
// time horizon and risk preference. Every recommendation carries ROI and gas
// estimates, pros and cons, and verification data with reference links.
package advisor

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/openhands-ai/agents-go/defi/strategies"
	"github.com/openhands-ai/agents-go/defi/verify"
	"github.com/openhands-ai/agents-go/pkg/metricskey"
)

var logger = xlog.NewPackageLogger("github.com/openhands-ai/agents-go", "advisor")

// DefaultTimeHorizonMonths applies when a request does not set a horizon.
const DefaultTimeHorizonMonths = 6

// Request describes what the user wants to invest and how.
type Request struct {
	// Amount of ETH to invest. Required.
	Amount float64 `json:"amount"`
	// TimeHorizonMonths is the investment horizon, default 6.
	TimeHorizonMonths int `json:"time_horizon_months,omitempty"`
	// RiskPreference is one of low, medium or high, default medium.
	RiskPreference string `json:"risk_preference,omitempty"`
	// Protocols restricts the analysis to specific protocols.
	Protocols []string `json:"protocols,omitempty"`
	// MinAPY drops strategies below the given APY, zero disables the filter.
	MinAPY float64 `json:"min_apy,omitempty"`
	// MaxGasCostETH drops strategies whose flat gas cost exceeds the limit,
	// zero disables the filter.
	MaxGasCostETH float64 `json:"max_gas_cost_eth,omitempty"`
}

// VerifiedClaim is a claim value with its verification confidence and sources.
type VerifiedClaim struct {
	Value      any      `json:"value"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// VerificationData groups the verified claims for a recommendation.
type VerificationData struct {
	APY     VerifiedClaim   `json:"apy"`
	Risk    VerifiedClaim   `json:"risk"`
	TVL     VerifiedClaim   `json:"tvl"`
	Overall *verify.Summary `json:"overall"`
}

// Recommendation is a ranked strategy suggestion.
type Recommendation struct {
	Protocol        string            `json:"protocol"`
	ExpectedROI     float64           `json:"expected_roi"`
	RiskLevel       string            `json:"risk_level"`
	GasCosts        map[string]string `json:"gas_costs"`
	Pros            []string          `json:"pros"`
	Cons            []string          `json:"cons"`
	Strength        string            `json:"recommendation_strength"`
	AdditionalNotes string            `json:"additional_notes"`
	Verification    *VerificationData `json:"verification_data"`
	References      verify.References `json:"references"`
}

// Advisor produces strategy recommendations and portfolio allocations over
// the curated protocol tables.
type Advisor struct{}

// New returns an Advisor.
func New() *Advisor {
	return &Advisor{}
}

func (r *Request) withDefaults() (*Request, error) {
	if r.Amount <= 0 {
		return nil, errors.Newf("advisor: amount must be positive, got %v", r.Amount)
	}
	out := *r
	if out.TimeHorizonMonths == 0 {
		out.TimeHorizonMonths = DefaultTimeHorizonMonths
	}
	if out.TimeHorizonMonths < 0 {
		return nil, errors.Newf("advisor: invalid time horizon: %d months", out.TimeHorizonMonths)
	}
	if out.RiskPreference == "" {
		out.RiskPreference = strategies.RiskPreferenceMedium
	}
	return &out, nil
}

// GetStrategyRecommendations analyzes every candidate protocol against the
// request and returns recommendations sorted by strength, then expected ROI.
func (a *Advisor) GetStrategyRecommendations(req *Request) ([]*Recommendation, error) {
	req, err := req.withDefaults()
	if err != nil {
		return nil, err
	}

	include := func(string) bool { return true }
	if len(req.Protocols) > 0 {
		wanted := make(map[string]bool, len(req.Protocols))
		for _, p := range req.Protocols {
			wanted[p] = true
		}
		include = func(name string) bool { return wanted[name] }
	}

	var recs []*Recommendation
	for _, name := range strategies.Names {
		if !include(name) {
			continue
		}

		profile, ok := strategies.ProfileFor(name)
		if !ok {
			continue
		}
		risk, ok := strategies.RiskScoreFor(name)
		if !ok {
			continue
		}
		gas, ok := strategies.GasCosts(name)
		if !ok {
			continue
		}
		roi, err := strategies.CalculateROI(req.Amount, name, req.TimeHorizonMonths)
		if err != nil {
			return nil, err
		}

		if req.MinAPY > 0 && profile.APY < req.MinAPY {
			continue
		}
		if req.MaxGasCostETH > 0 && roi.GasCost > req.MaxGasCostETH {
			continue
		}

		overallRisk := risk.Overall()
		riskMatch, err := strategies.MatchesRiskPreference(overallRisk, req.RiskPreference)
		if err != nil {
			return nil, err
		}
		if !riskMatch {
			continue
		}

		riskLevel := strategies.RiskLevel(overallRisk)
		pros, cons := analyzeProsCons(profile, risk, roi, req.Amount)
		strength := strategies.RecommendationStrength(riskMatch, roi.ROIPercent, overallRisk, profile.TVLBillions)

		apyVerification := verify.VerifyAPY(name, profile.APY)
		riskVerification := verify.VerifyRisk(name, riskLevel)
		tvlVerification := verify.VerifyTVL(name, profile.TVLBillions)
		references, _ := verify.ProtocolReferences(name)

		recs = append(recs, &Recommendation{
			Protocol:    name,
			ExpectedROI: roi.ROIPercent,
			RiskLevel:   riskLevel,
			GasCosts: map[string]string{
				"deposit":    gas.Deposit,
				"withdrawal": gas.Withdrawal,
			},
			Pros:            pros,
			Cons:            cons,
			Strength:        strength,
			AdditionalNotes: additionalNotes(profile, risk, req.TimeHorizonMonths),
			Verification: &VerificationData{
				APY:     claim(profile.APY, apyVerification),
				Risk:    claim(riskLevel, riskVerification),
				TVL:     claim(profile.TVLBillions, tvlVerification),
				Overall: verify.GetSummary(name),
			},
			References: references,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		si, sj := strategies.StrengthScore(recs[i].Strength), strategies.StrengthScore(recs[j].Strength)
		if si != sj {
			return si > sj
		}
		return recs[i].ExpectedROI > recs[j].ExpectedROI
	})

	logger.KV(xlog.DEBUG,
		"amount", req.Amount,
		"risk_preference", req.RiskPreference,
		"horizon_months", req.TimeHorizonMonths,
		"recommendations", len(recs),
	)
	metricskey.StatsAdvisorRecommendations.IncrCounter(float64(len(recs)), req.RiskPreference)

	return recs, nil
}

// AnalyzePortfolioAllocation splits the amount across the top three
// recommendations, weighted by recommendation strength and normalized to 100%.
func (a *Advisor) AnalyzePortfolioAllocation(amount float64, riskPreference string, timeHorizonMonths int) (map[string]float64, error) {
	recs, err := a.GetStrategyRecommendations(&Request{
		Amount:            amount,
		TimeHorizonMonths: timeHorizonMonths,
		RiskPreference:    riskPreference,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) > 3 {
		recs = recs[:3]
	}

	weights := map[string]float64{
		strategies.StrengthStrong:   0.4,
		strategies.StrengthModerate: 0.3,
		strategies.StrengthWeak:     0.2,
	}

	var totalWeight float64
	for _, rec := range recs {
		totalWeight += weights[rec.Strength]
	}

	allocations := make(map[string]float64, len(recs))
	for _, rec := range recs {
		pct := weights[rec.Strength] / totalWeight * 100
		allocations[rec.Protocol] = math.Round(pct*100) / 100
	}
	return allocations, nil
}

func claim(value any, vd *verify.VerifiedData) VerifiedClaim {
	urls := make([]string, 0, len(vd.Sources))
	for _, s := range vd.Sources {
		urls = append(urls, s.URL)
	}
	return VerifiedClaim{
		Value:      value,
		Confidence: vd.ConfidenceScore,
		Sources:    urls,
	}
}

func formatBillions(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64) + "B"
}

func analyzeProsCons(profile strategies.Profile, risk strategies.RiskScore, roi *strategies.ROIResult, amount float64) (pros, cons []string) {
	if roi.ROIPercent > 5 {
		pros = append(pros, fmt.Sprintf("High potential returns (%.1f%% ROI)", roi.ROIPercent))
	} else if roi.ROIPercent < 2 {
		cons = append(cons, fmt.Sprintf("Low potential returns (%.1f%% ROI)", roi.ROIPercent))
	}

	if risk.SmartContract < 3 {
		pros = append(pros, "Low smart contract risk")
	} else if risk.SmartContract > 5 {
		cons = append(cons, "High smart contract risk")
	}

	gasCostPercent := roi.GasCost * 100 / amount
	if gasCostPercent < 1 {
		pros = append(pros, "Low gas costs relative to investment")
	} else if gasCostPercent > 3 {
		cons = append(cons, "High gas costs relative to investment")
	}

	if profile.Insurance == "Yes" {
		pros = append(pros, "Insurance available")
	} else {
		cons = append(cons, "No insurance coverage")
	}

	if profile.TVLBillions > 5 {
		pros = append(pros, "Large TVL ("+formatBillions(profile.TVLBillions)+")")
	} else if profile.TVLBillions < 1 {
		cons = append(cons, "Small TVL ("+formatBillions(profile.TVLBillions)+")")
	}

	return pros, cons
}

func additionalNotes(profile strategies.Profile, risk strategies.RiskScore, timeHorizonMonths int) string {
	var notes []string

	if timeHorizonMonths < 3 {
		notes = append(notes, "Short time horizon: Consider gas costs impact on overall returns.")
	} else if timeHorizonMonths > 12 {
		notes = append(notes, "Long time horizon: Consider protocol's track record and governance structure.")
	}

	switch profile.Type {
	case strategies.TypeLiquidStaking:
		notes = append(notes, "Liquid staking tokens can be used in other DeFi protocols for additional yield.")
	case strategies.TypeLiquidityPool:
		notes = append(notes, "Monitor impermanent loss and consider active position management.")
	}

	if risk.Technical > 5 {
		notes = append(notes, "Higher technical complexity: Ensure understanding of protocol mechanics.")
	}
	if risk.Regulatory > 5 {
		notes = append(notes, "Consider potential regulatory impacts on protocol operations.")
	}

	return strings.Join(notes, " ")
}
