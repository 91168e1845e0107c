// Package verify cross-references advisor claims (APY, risk level, TVL)
// against a curated table of trusted DeFi data sources and per-protocol
// reference links, producing confidence-scored verification records.
package verify

import (
	"strings"
	"time"
)

// Source data types.
const (
	DataTypeAPY          = "apy"
	DataTypeTVL          = "tvl"
	DataTypeAudit        = "audit"
	DataTypeRiskAnalysis = "risk_analysis"
)

// TrustedSource describes a known data provider and how much we trust it.
type TrustedSource struct {
	BaseURL    string   `json:"base_url"`
	Confidence float64  `json:"confidence"`
	DataTypes  []string `json:"data_types"`
}

// TrustedSources is the table of providers used to weigh verification sources.
var TrustedSources = map[string]TrustedSource{
	"defillama": {
		BaseURL:    "https://defillama.com",
		Confidence: 0.9,
		DataTypes:  []string{"tvl", "apy"},
	},
	"dune": {
		BaseURL:    "https://dune.com",
		Confidence: 0.85,
		DataTypes:  []string{"volume", "users"},
	},
	"etherscan": {
		BaseURL:    "https://etherscan.io",
		Confidence: 0.95,
		DataTypes:  []string{"contract", "transactions"},
	},
	"defiexplorer": {
		BaseURL:    "https://defiexplorer.com",
		Confidence: 0.8,
		DataTypes:  []string{"apy", "risks"},
	},
}

// defaultSourceConfidence applies to analytics URLs not in TrustedSources.
const defaultSourceConfidence = 0.7

// References groups the reference links for a protocol by category.
type References struct {
	OfficialDocs string   `json:"official_docs"`
	GitHub       string   `json:"github"`
	Audits       []string `json:"audits"`
	Analytics    []string `json:"analytics"`
	RiskAnalysis []string `json:"risk_analysis"`
}

var protocolReferences = map[string]References{
	"Lido": {
		OfficialDocs: "https://docs.lido.fi/",
		GitHub:       "https://github.com/lidofinance",
		Audits: []string{
			"https://consensys.io/diligence/audits/2021/06/lido-steth-token/",
			"https://www.sigmaprime.io/audits/lido",
			"https://www.trailofbits.com/reports/lido.pdf",
		},
		Analytics: []string{
			"https://defillama.com/protocol/lido",
			"https://dune.com/LidoAnalytical",
		},
		RiskAnalysis: []string{
			"https://docs.lido.fi/security/",
			"https://research.lido.fi/t/lido-steth-risks",
		},
	},
	"Rocket Pool": {
		OfficialDocs: "https://docs.rocketpool.net/",
		GitHub:       "https://github.com/rocket-pool",
		Audits: []string{
			"https://consensys.io/diligence/audits/2021/04/rocket-pool/",
			"https://www.trailofbits.com/reports/rocketpool.pdf",
		},
		Analytics: []string{
			"https://defillama.com/protocol/rocket-pool",
			"https://dune.com/rocketpool",
		},
		RiskAnalysis: []string{
			"https://docs.rocketpool.net/overview/faq#what-are-the-risks",
			"https://medium.com/rocket-pool/rocket-pool-security-audit-results",
		},
	},
	"Aave V3": {
		OfficialDocs: "https://docs.aave.com/",
		GitHub:       "https://github.com/aave/aave-v3-core",
		Audits: []string{
			"https://github.com/aave/aave-v3-core/tree/master/audits",
			"https://aave.com/security/",
		},
		Analytics: []string{
			"https://defillama.com/protocol/aave-v3",
			"https://dune.com/aaveaave",
		},
		RiskAnalysis: []string{
			"https://docs.aave.com/risk/",
			"https://app.aave.com/risk-parameters",
		},
	},
	"Curve ETH/stETH": {
		OfficialDocs: "https://docs.curve.fi/",
		GitHub:       "https://github.com/curvefi",
		Audits: []string{
			"https://www.trailofbits.com/reports/curve.pdf",
			"https://curve.fi/security",
		},
		Analytics: []string{
			"https://defillama.com/protocol/curve",
			"https://dune.com/curve",
		},
		RiskAnalysis: []string{
			"https://docs.curve.fi/references/security/",
			"https://curve.fi/risk",
		},
	},
	"Uniswap V3 ETH/USDC": {
		OfficialDocs: "https://docs.uniswap.org/",
		GitHub:       "https://github.com/Uniswap/v3-core",
		Audits: []string{
			"https://github.com/Uniswap/v3-core/tree/main/audits",
			"https://uniswap.org/security",
		},
		Analytics: []string{
			"https://defillama.com/protocol/uniswap-v3",
			"https://dune.com/uniswap",
		},
		RiskAnalysis: []string{
			"https://docs.uniswap.org/concepts/protocol/risks",
			"https://uniswap.org/whitepaper-v3.pdf",
		},
	},
}

// Source is a single reference backing a verified claim.
type Source struct {
	URL        string  `json:"url"`
	Timestamp  string  `json:"timestamp"`
	DataType   string  `json:"data_type"`
	SourceName string  `json:"source_name"`
	Confidence float64 `json:"confidence"`
}

// VerifiedData is a claim with its supporting sources. ConfidenceScore is the
// mean source confidence, or zero when the protocol is unknown.
type VerifiedData struct {
	Value           any      `json:"value"`
	Sources         []Source `json:"sources"`
	LastUpdated     string   `json:"last_updated"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// ProtocolReferences returns the reference links for a protocol.
func ProtocolReferences(protocol string) (References, bool) {
	r, ok := protocolReferences[protocol]
	return r, ok
}

// hostOf extracts the host part of an URL without parsing errors to care
// about: the reference tables only hold well-formed https links.
func hostOf(rawURL string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	return rest
}

// sourceConfidence resolves the trust level of a host against TrustedSources.
// The host must equal a trusted source's host exactly: lookalikes such as
// evil-defillama.com or defillama.com.attacker.io are not trusted.
func sourceConfidence(host string) float64 {
	host = strings.TrimPrefix(host, "www.")
	for _, src := range TrustedSources {
		if host == hostOf(src.BaseURL) {
			return src.Confidence
		}
	}
	return defaultSourceConfidence
}

func meanConfidence(sources []Source) float64 {
	if len(sources) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sources {
		sum += s.Confidence
	}
	return sum / float64(len(sources))
}

// VerifyAPY backs a claimed APY with the protocol's analytics sources.
func VerifyAPY(protocol string, claimedAPY float64) *VerifiedData {
	now := time.Now().Format(time.RFC3339)

	var sources []Source
	if refs, ok := protocolReferences[protocol]; ok {
		for _, u := range refs.Analytics {
			host := hostOf(u)
			sources = append(sources, Source{
				URL:        u,
				Timestamp:  now,
				DataType:   DataTypeAPY,
				SourceName: host,
				Confidence: sourceConfidence(host),
			})
		}
	}

	return &VerifiedData{
		Value:           claimedAPY,
		Sources:         sources,
		LastUpdated:     now,
		ConfidenceScore: meanConfidence(sources),
	}
}

// VerifyRisk backs a risk level with the protocol's audit reports and
// official risk documentation.
func VerifyRisk(protocol string, riskLevel string) *VerifiedData {
	now := time.Now().Format(time.RFC3339)

	var sources []Source
	if refs, ok := protocolReferences[protocol]; ok {
		for _, u := range refs.Audits {
			// formal audits carry the highest confidence
			sources = append(sources, Source{
				URL:        u,
				Timestamp:  now,
				DataType:   DataTypeAudit,
				SourceName: hostOf(u),
				Confidence: 0.95,
			})
		}
		for _, u := range refs.RiskAnalysis {
			sources = append(sources, Source{
				URL:        u,
				Timestamp:  now,
				DataType:   DataTypeRiskAnalysis,
				SourceName: hostOf(u),
				Confidence: 0.85,
			})
		}
	}

	return &VerifiedData{
		Value:           riskLevel,
		Sources:         sources,
		LastUpdated:     now,
		ConfidenceScore: meanConfidence(sources),
	}
}

// VerifyTVL backs a claimed TVL with analytics sources. DeFiLlama is the most
// trusted TVL source.
func VerifyTVL(protocol string, claimedTVLBillions float64) *VerifiedData {
	now := time.Now().Format(time.RFC3339)

	var sources []Source
	if refs, ok := protocolReferences[protocol]; ok {
		for _, u := range refs.Analytics {
			confidence := 0.85
			if hostOf(u) == "defillama.com" {
				confidence = 0.95
			}
			sources = append(sources, Source{
				URL:        u,
				Timestamp:  now,
				DataType:   DataTypeTVL,
				SourceName: hostOf(u),
				Confidence: confidence,
			})
		}
	}

	return &VerifiedData{
		Value:           claimedTVLBillions,
		Sources:         sources,
		LastUpdated:     now,
		ConfidenceScore: meanConfidence(sources),
	}
}

// SummaryCategory is one source category in a verification summary.
type SummaryCategory struct {
	Links      []string `json:"links"`
	Confidence float64  `json:"confidence"`
}

// Summary aggregates all verification sources for a protocol.
type Summary struct {
	Status            string                     `json:"status"`
	Protocol          string                     `json:"protocol,omitempty"`
	Message           string                     `json:"message,omitempty"`
	Sources           map[string]SummaryCategory `json:"verification_sources,omitempty"`
	OverallConfidence float64                    `json:"overall_confidence,omitempty"`
	LastUpdated       string                     `json:"last_updated,omitempty"`
}

// GetSummary returns the verification summary for a protocol, or an error
// status when the protocol is unknown.
func GetSummary(protocol string) *Summary {
	refs, ok := protocolReferences[protocol]
	if !ok {
		return &Summary{
			Status:  "error",
			Message: "No verification data available for " + protocol,
		}
	}

	return &Summary{
		Status:   "success",
		Protocol: protocol,
		Sources: map[string]SummaryCategory{
			"documentation": {Links: []string{refs.OfficialDocs}, Confidence: 0.9},
			"code":          {Links: []string{refs.GitHub}, Confidence: 0.95},
			"security":      {Links: refs.Audits, Confidence: 0.95},
			"analytics":     {Links: refs.Analytics, Confidence: 0.85},
			"risk":          {Links: refs.RiskAnalysis, Confidence: 0.85},
		},
		OverallConfidence: 0.9,
		LastUpdated:       time.Now().Format(time.RFC3339),
	}
}
