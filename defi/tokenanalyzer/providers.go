package tokenanalyzer

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// Supported blockchains.
const (
	ChainEthereum = "ethereum"
	ChainBSC      = "bsc"
)

// ErrUnsupportedChain is returned for blockchains outside the supported set.
var ErrUnsupportedChain = errors.New("tokenanalyzer: unsupported blockchain")

// ErrInvalidAddress is returned when the contract address is malformed.
var ErrInvalidAddress = errors.New("tokenanalyzer: invalid contract address format")

// ValidateTarget checks the contract address and blockchain of a request.
func ValidateTarget(contractAddress, blockchain string) error {
	if !strings.HasPrefix(contractAddress, "0x") {
		return errors.WithStack(ErrInvalidAddress)
	}
	switch blockchain {
	case ChainEthereum, ChainBSC:
		return nil
	default:
		return errors.WithMessage(ErrUnsupportedChain, blockchain)
	}
}

// BlockchainClient provides on-chain token data.
type BlockchainClient interface {
	GetTokenInfo(ctx context.Context, contractAddress, blockchain string) (*TokenInfo, error)
	GetHolderDistribution(ctx context.Context, contractAddress, blockchain string) (*HolderDistribution, error)
}

// MarketDataClient provides market-side token data.
type MarketDataClient interface {
	GetTokenPrice(ctx context.Context, contractAddress, blockchain string) (*PriceQuote, error)
}

// SecurityAnalyzer inspects contract security.
type SecurityAnalyzer interface {
	AnalyzeContract(ctx context.Context, contractAddress, blockchain string) (*SecurityReport, error)
}

// StaticBlockchainClient is a deterministic BlockchainClient used in tests
// and demos where no chain access is available.
type StaticBlockchainClient struct{}

var _ BlockchainClient = (*StaticBlockchainClient)(nil)

// GetTokenInfo implements BlockchainClient.
func (*StaticBlockchainClient) GetTokenInfo(_ context.Context, contractAddress, blockchain string) (*TokenInfo, error) {
	if err := ValidateTarget(contractAddress, blockchain); err != nil {
		return nil, err
	}
	return &TokenInfo{
		Name:        "Test Token",
		Symbol:      "TEST",
		Decimals:    18,
		TotalSupply: 1000000000,
	}, nil
}

// GetHolderDistribution implements BlockchainClient.
func (*StaticBlockchainClient) GetHolderDistribution(_ context.Context, contractAddress, blockchain string) (*HolderDistribution, error) {
	if err := ValidateTarget(contractAddress, blockchain); err != nil {
		return nil, err
	}
	return &HolderDistribution{
		TotalHolders: 1000,
		TopHolders: []Holder{
			{Address: "0x1", Balance: 100000, Percentage: 10},
			{Address: "0x2", Balance: 50000, Percentage: 5},
		},
	}, nil
}

// StaticMarketClient is a deterministic MarketDataClient.
type StaticMarketClient struct{}

var _ MarketDataClient = (*StaticMarketClient)(nil)

// GetTokenPrice implements MarketDataClient.
func (*StaticMarketClient) GetTokenPrice(_ context.Context, contractAddress, blockchain string) (*PriceQuote, error) {
	if err := ValidateTarget(contractAddress, blockchain); err != nil {
		return nil, err
	}
	return &PriceQuote{
		PriceUSD:       1.23,
		PriceChange24h: 5.5,
		Volume24hUSD:   1000000,
		Source:         "static",
	}, nil
}

// StaticSecurityAnalyzer is a deterministic SecurityAnalyzer.
type StaticSecurityAnalyzer struct{}

var _ SecurityAnalyzer = (*StaticSecurityAnalyzer)(nil)

// AnalyzeContract implements SecurityAnalyzer.
func (*StaticSecurityAnalyzer) AnalyzeContract(_ context.Context, contractAddress, blockchain string) (*SecurityReport, error) {
	if err := ValidateTarget(contractAddress, blockchain); err != nil {
		return nil, err
	}
	return &SecurityReport{
		RiskScore: 75,
		Issues: []SecurityIssue{
			{
				Severity:    "medium",
				Type:        "centralization",
				Description: "Owner has significant privileges",
			},
		},
		Recommendations: []string{
			"Monitor owner actions",
			"Consider implementing timelock",
		},
	}, nil
}
