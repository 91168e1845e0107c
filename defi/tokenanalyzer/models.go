package tokenanalyzer

import "time"

// TokenInfo is basic token metadata from the chain.
type TokenInfo struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Decimals    int     `json:"decimals"`
	TotalSupply float64 `json:"total_supply"`
}

// Holder is one entry of the holder distribution.
type Holder struct {
	Address    string  `json:"address"`
	Balance    float64 `json:"balance"`
	Percentage float64 `json:"percentage"`
}

// HolderDistribution summarizes who holds the token.
type HolderDistribution struct {
	TotalHolders int      `json:"total_holders"`
	TopHolders   []Holder `json:"top_holders"`
}

// PriceQuote is the current market price of a token.
type PriceQuote struct {
	PriceUSD       float64 `json:"price_usd"`
	PriceChange24h float64 `json:"price_change_24h"`
	Volume24hUSD   float64 `json:"volume_24h_usd"`
	// Source names the provider the quote came from.
	Source string `json:"source,omitempty"`
}

// SecurityIssue is a single finding of the contract security analysis.
type SecurityIssue struct {
	Severity    string `json:"severity"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// SecurityReport is the contract security analysis result. RiskScore is
// 0-100, higher is safer.
type SecurityReport struct {
	RiskScore       float64         `json:"risk_score"`
	Issues          []SecurityIssue `json:"issues"`
	Recommendations []string        `json:"recommendations"`
}

// DistributionMetrics describes how the token supply is spread out.
// Percentages are 0-100, ratios 0-1.
type DistributionMetrics struct {
	TotalSupply             float64 `json:"total_supply"`
	CirculatingSupply       float64 `json:"circulating_supply"`
	HolderCount             int     `json:"holder_count"`
	Top10HoldersPercentage  float64 `json:"top_10_holders_percentage"`
	Top50HoldersPercentage  float64 `json:"top_50_holders_percentage"`
	Top100HoldersPercentage float64 `json:"top_100_holders_percentage"`
	LiquidityPoolPercentage float64 `json:"liquidity_pool_percentage"`
	TeamWalletPercentage    float64 `json:"team_wallet_percentage"`
	StakingLockedPercentage float64 `json:"staking_locked_percentage"`
	GiniCoefficient         float64 `json:"gini_coefficient"`
	HolderConcentration     float64 `json:"holder_concentration"`
	LiquidityRatio          float64 `json:"liquidity_ratio"`
}

// MarketMetrics are market-side token metrics.
type MarketMetrics struct {
	PriceUSD           float64 `json:"price_usd"`
	MarketCapUSD       float64 `json:"market_cap_usd"`
	Volume24hUSD       float64 `json:"volume_24h_usd"`
	PriceChange24h     float64 `json:"price_change_24h"`
	VolumeChange24h    float64 `json:"volume_change_24h"`
	Volatility30d      float64 `json:"volatility_30d"`
	CorrelationWithETH float64 `json:"correlation_with_eth"`
	CorrelationWithBTC float64 `json:"correlation_with_btc"`
}

// RiskAssessment grades the token across risk dimensions.
type RiskAssessment struct {
	ConcentrationRisk string   `json:"concentration_risk"`
	LiquidityRisk     string   `json:"liquidity_risk"`
	ContractRisk      string   `json:"contract_risk"`
	ManipulationRisk  string   `json:"manipulation_risk"`
	RegulatoryRisk    string   `json:"regulatory_risk"`
	OverallRiskScore  float64  `json:"overall_risk_score"`
	RiskFactors       []string `json:"risk_factors"`
	Recommendations   []string `json:"recommendations"`
	WarningFlags      []string `json:"warning_flags"`
}

// TokenAnalysis is the complete analysis result for one token.
type TokenAnalysis struct {
	TokenName       string    `json:"token_name"`
	TokenSymbol     string    `json:"token_symbol"`
	ContractAddress string    `json:"contract_address"`
	Blockchain      string    `json:"blockchain"`
	TokenType       string    `json:"token_type"`
	AnalysisDate    time.Time `json:"analysis_date"`

	Distribution DistributionMetrics `json:"distribution"`
	TopWallets   []Holder            `json:"top_wallets"`
	Risk         RiskAssessment      `json:"risk"`
	Market       MarketMetrics       `json:"market"`
	Security     SecurityReport      `json:"security"`

	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	RedFlags        []string `json:"red_flags"`
}
