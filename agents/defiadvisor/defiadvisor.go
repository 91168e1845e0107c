// Package defiadvisor wraps a chat agent with the DeFi yield tools and
// exposes typed entry points for common advisory questions.
package defiadvisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/openhands-ai/agents-go/agents"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/encoding"
	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/prompts"
	"github.com/openhands-ai/agents-go/tools/defitools"
	"github.com/openhands-ai/agents-go/tools/websearch"
)

const systemPrompt = `You are a DeFi yield strategy advisor. You analyze
ETH yield options across major protocols and provide recommendations
based on yield rates, gas costs, risk assessment, protocol comparison
and ROI calculations. Use the available tools to gather data before
answering, and always mention the risks alongside the rewards.`

// DefaultTimeHorizonMonths is used when the caller does not set one.
const DefaultTimeHorizonMonths = 6

// Advisor answers DeFi yield questions with the strategy tool set.
type Advisor struct {
	agent *agents.Agent[chatmodel.String]
}

// New returns an advisor backed by the given model.
func New(llmModel llms.Model, options ...agents.Option) *Advisor {
	opts := append([]agents.Option{agents.WithMode(encoding.ModePlainText)}, options...)

	toolset := defitools.Tools()
	// Web search lets the advisor verify table data against live sources.
	// It requires TAVILY_API_KEY; without it the advisor works offline.
	if search, err := websearch.New(); err == nil {
		toolset = append(toolset, search)
	}

	ag := agents.NewAgent[chatmodel.String](
		llmModel,
		prompts.NewPromptTemplate(systemPrompt, nil),
		opts...,
	).
		WithName("DeFiAdvisor").
		WithDescription("Provides DeFi yield strategy recommendations for ETH.").
		WithTools(toolset...)
	return &Advisor{agent: ag}
}

// Agent exposes the underlying agent for further configuration.
func (a *Advisor) Agent() *agents.Agent[chatmodel.String] {
	return a.agent
}

func (a *Advisor) run(ctx context.Context, query string) (string, error) {
	var out chatmodel.String
	if _, err := a.agent.Run(ctx, &agents.CallInput{Input: query}, &out); err != nil {
		return "", err
	}
	return out.GetContent(), nil
}

// GetStrategyRecommendation asks for a strategy recommendation based on
// the user preferences. Zero timeHorizonMonths and empty riskPreference
// fall back to 6 months and medium risk.
func (a *Advisor) GetStrategyRecommendation(
	ctx context.Context,
	amount float64,
	timeHorizonMonths int,
	riskPreference string,
	specificProtocols []string,
) (string, error) {
	if timeHorizonMonths <= 0 {
		timeHorizonMonths = DefaultTimeHorizonMonths
	}
	if riskPreference == "" {
		riskPreference = "medium"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb,
		"I have %v ETH that I want to put to work for yield. My time horizon is %d months and I prefer %s-risk options. ",
		amount, timeHorizonMonths, riskPreference)
	if len(specificProtocols) > 0 {
		fmt.Fprintf(&sb,
			"I'm particularly interested in comparing %s, but I'm also open to other options. ",
			strings.Join(specificProtocols, ", "))
	}
	sb.WriteString("Please provide a detailed analysis of the best options, including risks, rewards, and gas costs.")

	return a.run(ctx, sb.String())
}

// CompareProtocols asks for a detailed comparison of two protocols.
func (a *Advisor) CompareProtocols(ctx context.Context, protocol1, protocol2 string) (string, error) {
	query := fmt.Sprintf(
		"Please provide a detailed comparison between %s and %s, including their yields, risks, gas costs, and other important factors. Which one would you recommend and why?",
		protocol1, protocol2)
	return a.run(ctx, query)
}

// AnalyzeProtocolRisks asks for a risk analysis of one protocol.
func (a *Advisor) AnalyzeProtocolRisks(ctx context.Context, protocol string) (string, error) {
	query := fmt.Sprintf(
		"Please provide a comprehensive risk analysis for %s, including smart contract risk, centralization risk, and market risk. What are the main risk factors to consider?",
		protocol)
	return a.run(ctx, query)
}

// CalculateStrategyROI asks for an ROI analysis of one strategy.
func (a *Advisor) CalculateStrategyROI(ctx context.Context, amount float64, protocol string, timeHorizonMonths int) (string, error) {
	query := fmt.Sprintf(
		"Please calculate and analyze the potential ROI for investing %v ETH in %s over %d months. Include gas costs, rewards, and any other relevant factors in the analysis.",
		amount, protocol, timeHorizonMonths)
	return a.run(ctx, query)
}
