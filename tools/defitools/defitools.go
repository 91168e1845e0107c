// Package defitools exposes the DeFi strategy tables as agent tools:
// yield strategies, gas costs, ROI estimates, risk scores and protocol
// comparison.
package defitools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/defi/strategies"
	"github.com/openhands-ai/agents-go/pkg/llmutils"
	"github.com/openhands-ai/agents-go/pkg/schema"
	"github.com/openhands-ai/agents-go/tools"
)

// Tool names.
const (
	YieldStrategiesToolName  = "GetETHYieldStrategies"
	GasCostsToolName         = "AnalyzeGasCosts"
	ROIToolName              = "CalculateROI"
	RiskScoreToolName        = "AnalyzeRiskScore"
	CompareProtocolsToolName = "CompareProtocols"
)

// Tools returns all DeFi tools for an advisor agent.
func Tools() []tools.ITool {
	return []tools.ITool{
		NewYieldStrategiesTool(),
		NewGasCostsTool(),
		NewROITool(),
		NewRiskScoreTool(),
		NewCompareProtocolsTool(),
	}
}

func decodeInput[I any](input string) (*I, error) {
	var req I
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return nil, errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	return &req, nil
}

func callTyped[I any, O any](ctx context.Context, t tools.Tool[I, O], input string) (string, error) {
	req, err := decodeInput[I](input)
	if err != nil {
		return "", err
	}
	out, err := t.Run(ctx, req)
	if err != nil {
		return "", err
	}
	return chatmodel.Stringify(out), nil
}

// YieldStrategiesRequest has no parameters.
type YieldStrategiesRequest struct{}

// NamedStrategy pairs a strategy with its protocol name.
type NamedStrategy struct {
	Name     string              `json:"name"`
	Strategy strategies.Strategy `json:"strategy"`
}

// YieldStrategiesResult lists the available strategies.
type YieldStrategiesResult struct {
	Strategies []NamedStrategy `json:"strategies"`
}

func (r *YieldStrategiesResult) String() string {
	var sb strings.Builder
	for i, s := range r.Strategies {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s:\n", s.Name)
		fmt.Fprintf(&sb, "  protocol: %s\n", s.Strategy.Protocol)
		fmt.Fprintf(&sb, "  apy: %s\n", s.Strategy.APY)
		fmt.Fprintf(&sb, "  tvl: %s\n", s.Strategy.TVL)
		fmt.Fprintf(&sb, "  risk_level: %s\n", s.Strategy.RiskLevel)
		fmt.Fprintf(&sb, "  description: %s\n", s.Strategy.Description)
		fmt.Fprintf(&sb, "  min_amount: %s\n", s.Strategy.MinAmount)
		fmt.Fprintf(&sb, "  gas_cost: %s\n", s.Strategy.GasCost)
		fmt.Fprintf(&sb, "  impermanent_loss_risk: %s", s.Strategy.ImpermanentLossRisk)
	}
	return sb.String()
}

// GetContent implements chatmodel.ContentProvider.
func (r *YieldStrategiesResult) GetContent() string {
	return llmutils.ToJSON(r)
}

// YieldStrategiesTool lists ETH yield strategies across major protocols.
type YieldStrategiesTool struct {
	funcParams any
}

var _ tools.Tool[YieldStrategiesRequest, YieldStrategiesResult] = (*YieldStrategiesTool)(nil)

// NewYieldStrategiesTool returns the yield strategies tool.
func NewYieldStrategiesTool() *YieldStrategiesTool {
	return &YieldStrategiesTool{
		funcParams: schema.MustFromAny(YieldStrategiesRequest{}).Parameters,
	}
}

func (t *YieldStrategiesTool) Name() string { return YieldStrategiesToolName }

func (t *YieldStrategiesTool) Description() string {
	return "Get current yield strategies available for ETH across major DeFi protocols, with APY and TVL."
}

func (t *YieldStrategiesTool) Parameters() any { return t.funcParams }

func (t *YieldStrategiesTool) Run(_ context.Context, _ *YieldStrategiesRequest) (*YieldStrategiesResult, error) {
	table := strategies.YieldStrategies()
	res := &YieldStrategiesResult{}
	for _, name := range strategies.Names {
		res.Strategies = append(res.Strategies, NamedStrategy{Name: name, Strategy: table[name]})
	}
	return res, nil
}

func (t *YieldStrategiesTool) Call(ctx context.Context, input string) (string, error) {
	return callTyped[YieldStrategiesRequest, YieldStrategiesResult](ctx, t, input)
}

// GasCostsRequest selects the strategy to analyze.
type GasCostsRequest struct {
	Strategy string `json:"Strategy" yaml:"Strategy" jsonschema:"title=Strategy,description=Name of the DeFi strategy or protocol to analyze."`
}

// GasCostsResult is the gas cost estimate of a strategy.
type GasCostsResult struct {
	Strategy string                 `json:"strategy"`
	Costs    strategies.GasEstimate `json:"costs"`
}

func (r *GasCostsResult) String() string {
	return fmt.Sprintf("Gas costs for %s:\n- deposit: %s\n- withdrawal: %s\n- frequency: %s",
		r.Strategy, r.Costs.Deposit, r.Costs.Withdrawal, r.Costs.Frequency)
}

// GetContent implements chatmodel.ContentProvider.
func (r *GasCostsResult) GetContent() string {
	return llmutils.ToJSON(r)
}

// GasCostsTool estimates gas costs for a strategy.
type GasCostsTool struct {
	funcParams any
}

var _ tools.Tool[GasCostsRequest, GasCostsResult] = (*GasCostsTool)(nil)

// NewGasCostsTool returns the gas cost tool.
func NewGasCostsTool() *GasCostsTool {
	return &GasCostsTool{
		funcParams: schema.MustFromAny(GasCostsRequest{}).Parameters,
	}
}

func (t *GasCostsTool) Name() string { return GasCostsToolName }

func (t *GasCostsTool) Description() string {
	return "Analyze the current gas costs for implementing a specific DeFi strategy."
}

func (t *GasCostsTool) Parameters() any { return t.funcParams }

func (t *GasCostsTool) Run(_ context.Context, req *GasCostsRequest) (*GasCostsResult, error) {
	costs, ok := strategies.GasCosts(req.Strategy)
	if !ok {
		return nil, errors.Newf("gas cost information not available for %q", req.Strategy)
	}
	return &GasCostsResult{Strategy: req.Strategy, Costs: costs}, nil
}

func (t *GasCostsTool) Call(ctx context.Context, input string) (string, error) {
	return callTyped[GasCostsRequest, GasCostsResult](ctx, t, input)
}

// ROIRequest describes an investment to estimate.
type ROIRequest struct {
	Amount           float64 `json:"Amount" yaml:"Amount" jsonschema:"title=Amount,description=Amount of ETH to invest."`
	Strategy         string  `json:"Strategy" yaml:"Strategy" jsonschema:"title=Strategy,description=Name of the DeFi strategy or protocol."`
	TimePeriodMonths int     `json:"TimePeriodMonths" yaml:"TimePeriodMonths" jsonschema:"title=Time Period,description=Investment period in months."`
}

// ROIResult is the ROI estimate for a strategy.
type ROIResult struct {
	Strategy string               `json:"strategy"`
	ROI      strategies.ROIResult `json:"roi"`
}

func (r *ROIResult) String() string {
	return fmt.Sprintf(
		"ROI Analysis for %s with %v ETH over %d months:\n"+
			"- Estimated base returns: %.4f ETH\n"+
			"- Estimated extra rewards: %.4f ETH\n"+
			"- Estimated gas costs: %v ETH\n"+
			"- Net return: %.4f ETH\n"+
			"- ROI: %.2f%%",
		r.Strategy, r.ROI.Amount, r.ROI.PeriodMonths,
		r.ROI.BaseReturn, r.ROI.ExtraReturn, r.ROI.GasCost, r.ROI.NetReturn, r.ROI.ROIPercent)
}

// GetContent implements chatmodel.ContentProvider.
func (r *ROIResult) GetContent() string {
	return llmutils.ToJSON(r)
}

// ROITool estimates ROI for an amount in a strategy.
type ROITool struct {
	funcParams any
}

var _ tools.Tool[ROIRequest, ROIResult] = (*ROITool)(nil)

// NewROITool returns the ROI tool.
func NewROITool() *ROITool {
	return &ROITool{
		funcParams: schema.MustFromAny(ROIRequest{}).Parameters,
	}
}

func (t *ROITool) Name() string { return ROIToolName }

func (t *ROITool) Description() string {
	return "Calculate estimated ROI for a given amount of ETH in a specific strategy over a time period."
}

func (t *ROITool) Parameters() any { return t.funcParams }

func (t *ROITool) Run(_ context.Context, req *ROIRequest) (*ROIResult, error) {
	roi, err := strategies.CalculateROI(req.Amount, req.Strategy, req.TimePeriodMonths)
	if err != nil {
		return nil, err
	}
	return &ROIResult{Strategy: req.Strategy, ROI: *roi}, nil
}

func (t *ROITool) Call(ctx context.Context, input string) (string, error) {
	return callTyped[ROIRequest, ROIResult](ctx, t, input)
}

// RiskScoreRequest selects the strategy to analyze.
type RiskScoreRequest struct {
	Strategy string `json:"Strategy" yaml:"Strategy" jsonschema:"title=Strategy,description=Name of the DeFi strategy or protocol to analyze."`
}

// RiskScoreResult is the risk breakdown of a strategy.
type RiskScoreResult struct {
	Strategy  string               `json:"strategy"`
	Score     strategies.RiskScore `json:"score"`
	Overall   float64              `json:"overall"`
	RiskLevel string               `json:"risk_level"`
}

func (r *RiskScoreResult) String() string {
	d := r.Score.Details
	insurance := "No"
	if d.InsuranceAvailable {
		insurance = "Yes"
	}
	return fmt.Sprintf(
		"Risk Analysis for %s:\n"+
			"Overall Risk Score: %.1f/10 (lower is better)\n\n"+
			"Breakdown:\n"+
			"- Smart Contract Risk: %d/10\n"+
			"- Centralization Risk: %d/10\n"+
			"- Regulatory Risk: %d/10\n"+
			"- Market Risk: %d/10\n"+
			"- Technical Risk: %d/10\n\n"+
			"Additional Details:\n"+
			"- Audits: %s\n"+
			"- Insurance Available: %s\n"+
			"- Governance: %s\n"+
			"- Years Active: %d",
		r.Strategy, r.Overall,
		r.Score.SmartContract, r.Score.Centralization, r.Score.Regulatory,
		r.Score.Market, r.Score.Technical,
		strings.Join(d.Audits, ", "), insurance, d.Governance, d.YearsActive)
}

// GetContent implements chatmodel.ContentProvider.
func (r *RiskScoreResult) GetContent() string {
	return llmutils.ToJSON(r)
}

// RiskScoreTool breaks down the risk of a strategy.
type RiskScoreTool struct {
	funcParams any
}

var _ tools.Tool[RiskScoreRequest, RiskScoreResult] = (*RiskScoreTool)(nil)

// NewRiskScoreTool returns the risk score tool.
func NewRiskScoreTool() *RiskScoreTool {
	return &RiskScoreTool{
		funcParams: schema.MustFromAny(RiskScoreRequest{}).Parameters,
	}
}

func (t *RiskScoreTool) Name() string { return RiskScoreToolName }

func (t *RiskScoreTool) Description() string {
	return "Analyze the risk level of a specific DeFi strategy and provide a detailed risk breakdown."
}

func (t *RiskScoreTool) Parameters() any { return t.funcParams }

func (t *RiskScoreTool) Run(_ context.Context, req *RiskScoreRequest) (*RiskScoreResult, error) {
	score, ok := strategies.RiskScoreFor(req.Strategy)
	if !ok {
		return nil, errors.Newf("risk analysis not available for %q", req.Strategy)
	}
	overall := score.Overall()
	return &RiskScoreResult{
		Strategy:  req.Strategy,
		Score:     score,
		Overall:   overall,
		RiskLevel: strategies.RiskLevel(overall),
	}, nil
}

func (t *RiskScoreTool) Call(ctx context.Context, input string) (string, error) {
	return callTyped[RiskScoreRequest, RiskScoreResult](ctx, t, input)
}

// CompareProtocolsRequest names the two protocols to compare.
type CompareProtocolsRequest struct {
	Protocol1 string `json:"Protocol1" yaml:"Protocol1" jsonschema:"title=First Protocol,description=Name of the first protocol to compare."`
	Protocol2 string `json:"Protocol2" yaml:"Protocol2" jsonschema:"title=Second Protocol,description=Name of the second protocol to compare."`
}

// CompareProtocolsResult holds both protocol profiles.
type CompareProtocolsResult struct {
	Protocol1 string             `json:"protocol1"`
	Protocol2 string             `json:"protocol2"`
	Profile1  strategies.Profile `json:"profile1"`
	Profile2  strategies.Profile `json:"profile2"`
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *CompareProtocolsResult) String() string {
	return fmt.Sprintf(
		"Comparison: %[1]s vs %[2]s\n\n"+
			"Protocol Type:\n- %[1]s: %[3]s\n- %[2]s: %[4]s\n\n"+
			"Current APY:\n- %[1]s: %[5]s%%\n- %[2]s: %[6]s%%\n\n"+
			"TVL (Billions):\n- %[1]s: $%[7]sB\n- %[2]s: $%[8]sB\n\n"+
			"Insurance Available:\n- %[1]s: %[9]s\n- %[2]s: %[10]s\n\n"+
			"Minimum Deposit:\n- %[1]s: %[11]s ETH\n- %[2]s: %[12]s ETH\n\n"+
			"Withdrawal Time:\n- %[1]s: %[13]s\n- %[2]s: %[14]s\n\n"+
			"Unique Features:\n- %[1]s: %[15]s\n- %[2]s: %[16]s",
		r.Protocol1, r.Protocol2,
		r.Profile1.Type, r.Profile2.Type,
		fmtFloat(r.Profile1.APY), fmtFloat(r.Profile2.APY),
		fmtFloat(r.Profile1.TVLBillions), fmtFloat(r.Profile2.TVLBillions),
		r.Profile1.Insurance, r.Profile2.Insurance,
		fmtFloat(r.Profile1.MinDeposit), fmtFloat(r.Profile2.MinDeposit),
		r.Profile1.WithdrawalTime, r.Profile2.WithdrawalTime,
		strings.Join(r.Profile1.UniqueFeatures, ", "), strings.Join(r.Profile2.UniqueFeatures, ", "))
}

// GetContent implements chatmodel.ContentProvider.
func (r *CompareProtocolsResult) GetContent() string {
	return llmutils.ToJSON(r)
}

// CompareProtocolsTool compares two protocols across key metrics.
type CompareProtocolsTool struct {
	funcParams any
}

var _ tools.Tool[CompareProtocolsRequest, CompareProtocolsResult] = (*CompareProtocolsTool)(nil)

// NewCompareProtocolsTool returns the comparison tool.
func NewCompareProtocolsTool() *CompareProtocolsTool {
	return &CompareProtocolsTool{
		funcParams: schema.MustFromAny(CompareProtocolsRequest{}).Parameters,
	}
}

func (t *CompareProtocolsTool) Name() string { return CompareProtocolsToolName }

func (t *CompareProtocolsTool) Description() string {
	return "Compare two DeFi protocols across various metrics."
}

func (t *CompareProtocolsTool) Parameters() any { return t.funcParams }

func (t *CompareProtocolsTool) Run(_ context.Context, req *CompareProtocolsRequest) (*CompareProtocolsResult, error) {
	p1, ok1 := strategies.ProfileFor(req.Protocol1)
	p2, ok2 := strategies.ProfileFor(req.Protocol2)
	if !ok1 || !ok2 {
		return nil, errors.Newf("comparison not available for %q and/or %q", req.Protocol1, req.Protocol2)
	}
	return &CompareProtocolsResult{
		Protocol1: req.Protocol1,
		Protocol2: req.Protocol2,
		Profile1:  p1,
		Profile2:  p2,
	}, nil
}

func (t *CompareProtocolsTool) Call(ctx context.Context, input string) (string, error) {
	return callTyped[CompareProtocolsRequest, CompareProtocolsResult](ctx, t, input)
}
