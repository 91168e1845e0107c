// Package tokenanalyzer inspects an ERC20-style token: on-chain holder
// distribution, market metrics and contract security are combined into a
// risk assessment with red flags and recommendations.
package tokenanalyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/effective-security/xlog"
	"github.com/openhands-ai/agents-go/pkg/metricskey"
	"golang.org/x/sync/errgroup"
)

// Red flag thresholds.
const (
	// ConcentrationRedFlag is the holder concentration above which the top
	// wallets control too much of the supply.
	ConcentrationRedFlag = 0.7
	// VolatilityRedFlag is the 30d volatility above which the token counts
	// as highly volatile.
	VolatilityRedFlag = 0.4
	// SecurityScoreRedFlag is the security score below which the contract
	// raises concerns.
	SecurityScoreRedFlag = 70
)

// Analyzer runs token analyses over pluggable data providers.
type Analyzer struct {
	blockchain BlockchainClient
	market     MarketDataClient
	security   SecurityAnalyzer
}

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithBlockchainClient overrides the chain data provider.
func WithBlockchainClient(c BlockchainClient) Option {
	return func(a *Analyzer) { a.blockchain = c }
}

// WithMarketClient overrides the market data provider.
func WithMarketClient(c MarketDataClient) Option {
	return func(a *Analyzer) { a.market = c }
}

// WithSecurityAnalyzer overrides the contract security analyzer.
func WithSecurityAnalyzer(s SecurityAnalyzer) Option {
	return func(a *Analyzer) { a.security = s }
}

// New returns an Analyzer. Providers default to the deterministic static
// implementations.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		blockchain: &StaticBlockchainClient{},
		market:     &StaticMarketClient{},
		security:   &StaticSecurityAnalyzer{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeToken analyzes the token at the given contract address. The four
// provider calls run concurrently; the first failure cancels the rest.
func (a *Analyzer) AnalyzeToken(ctx context.Context, contractAddress, blockchain string) (*TokenAnalysis, error) {
	if blockchain == "" {
		blockchain = ChainEthereum
	}
	if err := ValidateTarget(contractAddress, blockchain); err != nil {
		return nil, err
	}

	started := time.Now()
	defer metricskey.PerfTokenAnalysis.MeasureSince(started, blockchain)

	var (
		info     *TokenInfo
		holders  *HolderDistribution
		quote    *PriceQuote
		security *SecurityReport
	)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		info, err = a.blockchain.GetTokenInfo(gctx, contractAddress, blockchain)
		return err
	})
	group.Go(func() error {
		var err error
		holders, err = a.blockchain.GetHolderDistribution(gctx, contractAddress, blockchain)
		return err
	})
	group.Go(func() error {
		var err error
		quote, err = a.market.GetTokenPrice(gctx, contractAddress, blockchain)
		return err
	})
	group.Go(func() error {
		var err error
		security, err = a.security.AnalyzeContract(gctx, contractAddress, blockchain)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	distribution := buildDistribution(info, holders)
	market := buildMarketMetrics(info, quote)
	risk := assessRisk(distribution, security)

	logger.ContextKV(ctx, xlog.DEBUG,
		"address", contractAddress,
		"chain", blockchain,
		"holders", distribution.HolderCount,
		"risk_score", risk.OverallRiskScore,
	)

	return &TokenAnalysis{
		TokenName:       info.Name,
		TokenSymbol:     info.Symbol,
		ContractAddress: contractAddress,
		Blockchain:      blockchain,
		TokenType:       "ERC20",
		AnalysisDate:    time.Now().UTC(),
		Distribution:    distribution,
		TopWallets:      holders.TopHolders,
		Risk:            risk,
		Market:          market,
		Security:        *security,
		Summary: fmt.Sprintf("Token shows %v risk score with %d holders",
			risk.OverallRiskScore, distribution.HolderCount),
		Recommendations: risk.Recommendations,
		RedFlags:        identifyRedFlags(distribution, market, security),
	}, nil
}

// buildDistribution fills supply-wide metrics around the holder data. The
// aggregate percentages come from a fixed model until a real indexer is
// wired in.
func buildDistribution(info *TokenInfo, holders *HolderDistribution) DistributionMetrics {
	return DistributionMetrics{
		TotalSupply:             info.TotalSupply,
		CirculatingSupply:       info.TotalSupply * 0.8,
		HolderCount:             holders.TotalHolders,
		Top10HoldersPercentage:  60,
		Top50HoldersPercentage:  80,
		Top100HoldersPercentage: 90,
		LiquidityPoolPercentage: 20,
		TeamWalletPercentage:    15,
		StakingLockedPercentage: 30,
		GiniCoefficient:         0.85,
		HolderConcentration:     0.75,
		LiquidityRatio:          0.15,
	}
}

func buildMarketMetrics(info *TokenInfo, quote *PriceQuote) MarketMetrics {
	return MarketMetrics{
		PriceUSD:           quote.PriceUSD,
		MarketCapUSD:       quote.PriceUSD * info.TotalSupply,
		Volume24hUSD:       quote.Volume24hUSD,
		PriceChange24h:     quote.PriceChange24h,
		VolumeChange24h:    10,
		Volatility30d:      0.5,
		CorrelationWithETH: 0.7,
		CorrelationWithBTC: 0.6,
	}
}

func assessRisk(distribution DistributionMetrics, security *SecurityReport) RiskAssessment {
	concentrationRisk := "medium"
	if distribution.HolderConcentration > ConcentrationRedFlag {
		concentrationRisk = "high"
	}
	contractRisk := "high"
	if security.RiskScore > SecurityScoreRedFlag {
		contractRisk = "low"
	}

	return RiskAssessment{
		ConcentrationRisk: concentrationRisk,
		LiquidityRisk:     "medium",
		ContractRisk:      contractRisk,
		ManipulationRisk:  "medium",
		RegulatoryRisk:    "medium",
		OverallRiskScore:  65,
		RiskFactors:       []string{"High holder concentration", "Above average volatility"},
		Recommendations:   []string{"Monitor whale movements", "Set strict stop losses"},
		WarningFlags:      []string{"High concentration in top wallets"},
	}
}

func identifyRedFlags(distribution DistributionMetrics, market MarketMetrics, security *SecurityReport) []string {
	var flags []string
	if distribution.HolderConcentration > ConcentrationRedFlag {
		flags = append(flags, "High holder concentration")
	}
	if market.Volatility30d > VolatilityRedFlag {
		flags = append(flags, "High volatility")
	}
	if security.RiskScore < SecurityScoreRedFlag {
		flags = append(flags, "Security concerns")
	}
	return flags
}
