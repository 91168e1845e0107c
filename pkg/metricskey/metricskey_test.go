package metricskey

import (
	"sort"
	"testing"

	"github.com/effective-security/metrics"
	"github.com/stretchr/testify/assert"
)

func TestMetricsDefinitions(t *testing.T) {
	for _, m := range Metrics {
		assert.NotEmpty(t, m.Name, "Metric name should not be empty")
		assert.NotEmpty(t, m.Help, "Metric help text should not be empty")
		assert.NotEmpty(t, m.RequiredTags, "Metric should have required tags")
	}

	isSorted := sort.SliceIsSorted(Metrics, func(i, j int) bool {
		return Metrics[i].Name < Metrics[j].Name
	})
	assert.True(t, isSorted, "Metrics slice should be sorted by name")

	assert.Len(t, Metrics, 20)

	seen := make(map[string]bool)
	for _, m := range Metrics {
		assert.False(t, seen[m.Name], "Metric name should be unique: %s", m.Name)
		seen[m.Name] = true
	}

	t.Run("LLM metrics have agent tag", func(t *testing.T) {
		llmMetrics := []*metrics.Describe{
			&StatsLLMMessagesSent,
			&StatsLLMBytesSent,
			&StatsLLMBytesReceived,
			&StatsLLMInputTokens,
			&StatsLLMOutputTokens,
			&StatsAgentCallsSucceeded,
			&StatsAgentCallsFailed,
			&StatsAgentCallsRetried,
			&StatsAgentLLMParseErrors,
		}
		for _, m := range llmMetrics {
			assert.Contains(t, m.RequiredTags, "agent", "LLM metric should have agent tag: %s", m.Name)
		}
	})

	t.Run("Tool metrics have tool tag", func(t *testing.T) {
		toolMetrics := []*metrics.Describe{
			&StatsToolCallsSucceeded,
			&StatsToolCallsFailed,
			&StatsToolCallsNotFound,
			&PerfToolCall,
		}
		for _, m := range toolMetrics {
			assert.Contains(t, m.RequiredTags, "tool", "Tool metric should have tool tag: %s", m.Name)
		}
	})

	t.Run("Market metrics have provider and endpoint tags", func(t *testing.T) {
		marketMetrics := []*metrics.Describe{
			&StatsMarketRequests,
			&StatsMarketRequestsFailed,
			&PerfMarketRequest,
		}
		for _, m := range marketMetrics {
			assert.Contains(t, m.RequiredTags, "provider", "Market metric should have provider tag: %s", m.Name)
			assert.Contains(t, m.RequiredTags, "endpoint", "Market metric should have endpoint tag: %s", m.Name)
		}
	})

	t.Run("Domain metrics tags", func(t *testing.T) {
		assert.Contains(t, StatsAdvisorRecommendations.RequiredTags, "risk_preference")
		assert.Contains(t, PerfTokenAnalysis.RequiredTags, "chain")
	})
}
