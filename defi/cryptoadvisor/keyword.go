package cryptoadvisor

import "strings"

// Request classification keywords. Free-text parsing is deliberately thin:
// the agent layer is expected to phrase requests like "price of ethereum?" or
// "trend for bitcoin". All extraction lives here so it can be tested and
// replaced in one place.

// RequestKind classifies what the user asked for.
type RequestKind string

const (
	KindPrice     RequestKind = "price"
	KindTrend     RequestKind = "trend"
	KindRisk      RequestKind = "risk"
	KindPortfolio RequestKind = "portfolio"
	KindUnknown   RequestKind = "unknown"
)

// ClassifyRequest maps a free-text request to an action kind. Order matters:
// "price" wins over "trend", which wins over "risk".
func ClassifyRequest(request string) RequestKind {
	lower := strings.ToLower(request)
	switch {
	case strings.Contains(lower, "price"):
		return KindPrice
	case strings.Contains(lower, "trend"), strings.Contains(lower, "analyze"):
		return KindTrend
	case strings.Contains(lower, "risk"):
		return KindRisk
	case strings.Contains(lower, "portfolio"), strings.Contains(lower, "recommend"):
		return KindPortfolio
	default:
		return KindUnknown
	}
}

// afterMarker returns the text following the last occurrence of marker,
// or the whole string when the marker is absent.
func afterMarker(request, marker string) string {
	lower := strings.ToLower(request)
	if idx := strings.LastIndex(lower, marker); idx >= 0 {
		return lower[idx+len(marker):]
	}
	return lower
}

// ExtractPriceAsset extracts the asset from requests like
// "What's the current price of ethereum?".
func ExtractPriceAsset(request string) string {
	rest := afterMarker(request, "price of ")
	rest, _, _ = strings.Cut(rest, "?")
	return strings.ToUpper(strings.TrimSpace(rest))
}

// ExtractTrendAsset extracts the asset from requests like
// "Analyze the market trend for bitcoin".
func ExtractTrendAsset(request string) string {
	return firstToken(afterMarker(request, "trend for "))
}

// ExtractRiskAsset extracts the asset from requests like
// "Assess the risk of ethereum today".
func ExtractRiskAsset(request string) string {
	return firstToken(afterMarker(request, "risk of "))
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// ExtractRiskProfile picks the portfolio risk profile named in the request,
// defaulting to moderate.
func ExtractRiskProfile(request string) string {
	lower := strings.ToLower(request)
	switch {
	case strings.Contains(lower, "conservative"):
		return ProfileConservative
	case strings.Contains(lower, "aggressive"):
		return ProfileAggressive
	default:
		return ProfileModerate
	}
}
