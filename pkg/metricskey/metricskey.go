// Package metricskey declares the metrics emitted by this repo.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsLLMMessagesSent is base for counter metric for total messages sent to LLM
	StatsLLMMessagesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_messages_sent",
		Help:         "stats_llm_messages_sent provides total messages sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMBytesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_sent",
		Help:         "stats_llm_bytes_sent provides total bytes sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMBytesReceived = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_received",
		Help:         "stats_llm_bytes_received provides total bytes received from LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMInputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_input_tokens",
		Help:         "stats_llm_input_tokens provides total input tokens sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMOutputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_output_tokens",
		Help:         "stats_llm_output_tokens provides total output tokens received from LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsAgentCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_calls_succeeded",
		Help:         "stats_agent_calls_succeeded provides total agent calls succeeded",
		RequiredTags: []string{"agent"},
	}

	StatsAgentCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_calls_failed",
		Help:         "stats_agent_calls_failed provides total agent calls failed",
		RequiredTags: []string{"agent"},
	}

	StatsAgentCallsRetried = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_calls_retried",
		Help:         "stats_agent_calls_retried provides total agent calls retried",
		RequiredTags: []string{"agent"},
	}

	StatsAgentLLMParseErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_llm_parse_errors",
		Help:         "stats_agent_llm_parse_errors provides total agent LLM parse errors",
		RequiredTags: []string{"agent"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}

	StatsMarketRequests = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_market_requests",
		Help:         "stats_market_requests provides total market data requests",
		RequiredTags: []string{"provider", "endpoint"},
	}

	StatsMarketRequestsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_market_requests_failed",
		Help:         "stats_market_requests_failed provides total failed market data requests",
		RequiredTags: []string{"provider", "endpoint"},
	}

	StatsAdvisorRecommendations = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_advisor_recommendations",
		Help:         "stats_advisor_recommendations provides total advisor recommendations produced",
		RequiredTags: []string{"risk_preference"},
	}
)

// Perf
var (
	PerfChatRun = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_chat_run",
		Help:         "perf_chat_run provides duration of chat run",
		RequiredTags: []string{"tenant"},
	}

	PerfAgentCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_agent_call",
		Help:         "perf_agent_call provides duration of agent call",
		RequiredTags: []string{"agent"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}

	PerfMarketRequest = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_market_request",
		Help:         "perf_market_request provides duration of market data request",
		RequiredTags: []string{"provider", "endpoint"},
	}

	PerfTokenAnalysis = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_token_analysis",
		Help:         "perf_token_analysis provides duration of token analysis pipeline",
		RequiredTags: []string{"chain"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAgentCall,
	&PerfChatRun,
	&PerfMarketRequest,
	&PerfTokenAnalysis,
	&PerfToolCall,
	&StatsAdvisorRecommendations,
	&StatsAgentCallsFailed,
	&StatsAgentCallsRetried,
	&StatsAgentCallsSucceeded,
	&StatsAgentLLMParseErrors,
	&StatsLLMBytesReceived,
	&StatsLLMBytesSent,
	&StatsLLMInputTokens,
	&StatsLLMMessagesSent,
	&StatsLLMOutputTokens,
	&StatsMarketRequests,
	&StatsMarketRequestsFailed,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
}
