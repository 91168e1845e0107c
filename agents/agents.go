// Package agents provides the chat agent runtime: a typed agent that
// drives an LLM conversation, executes tool calls, and parses the
// final response into a Go struct.
package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/effective-security/xlog"

	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/tools"
)

var logger = xlog.NewPackageLogger("github.com/openhands-ai/agents-go", "agents")

//go:generate mockgen -destination=../mocks/mockllms/llm_mock.gen.go -package mockllms github.com/openhands-ai/agents-go/pkg/llms Model
//go:generate mockgen -source=../tools/tools.go -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools

// IAgent is a chat agent.
type IAgent interface {
	// Name returns the name of the agent.
	Name() string
	// Description returns the description of the agent, to be used in
	// the prompt of other agents or LLMs.
	Description() string
	// FormatPrompt formats the system prompt with the given values.
	FormatPrompt(values map[string]any) (llms.PromptValue, error)
	// GetPromptInputVariables returns the system prompt variables.
	GetPromptInputVariables() []string

	Call(ctx context.Context, input *CallInput) (*llms.ContentResponse, error)
}

// CallInput is the input of an agent call.
type CallInput struct {
	// Input is the user input.
	Input string
	// PromptInputs are extra values for the system prompt template.
	PromptInputs map[string]any
	// Messages are additional messages appended after the user input.
	Messages []llms.Message
	// Options override the agent configuration for this call.
	Options []Option
}

// TypeableAgent is an agent with a typed output.
type TypeableAgent[O chatmodel.ContentProvider] interface {
	IAgent
	// Run executes the agent and parses the final response into
	// optionalOutputType when it is not nil.
	Run(ctx context.Context, input *CallInput, optionalOutputType *O) (*llms.ContentResponse, error)
}

// Callback observes the agent run, its LLM calls and tool calls.
type Callback interface {
	OnAgentStart(ctx context.Context, agent IAgent, input string)
	OnAgentEnd(ctx context.Context, agent IAgent, input string, resp *llms.ContentResponse, messages []llms.Message)
	OnAgentError(ctx context.Context, agent IAgent, input string, err error, messages []llms.Message)
	OnAgentLLMCallStart(ctx context.Context, agent IAgent, llm llms.Model, payload []llms.Message)
	OnAgentLLMCallEnd(ctx context.Context, agent IAgent, llm llms.Model, resp *llms.ContentResponse)
	OnAgentLLMParseError(ctx context.Context, agent IAgent, input string, response string, err error)
	OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string)
	OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input, output string)
	OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error)
	OnToolNotFound(ctx context.Context, agent IAgent, tool string)
}

// IAgentTool is a tool backed by another agent. The runtime passes the
// per-call options through to the nested agent.
type IAgentTool interface {
	CallAgent(ctx context.Context, input string, opts ...Option) (string, error)
}

// GetDescriptions lists agents for use in a supervisor prompt.
func GetDescriptions(list ...IAgent) string {
	var ts strings.Builder
	for _, item := range list {
		ts.WriteString(fmt.Sprintf("- `%s`: %s\n", item.Name(), item.Description()))
	}
	return ts.String()
}

// MapAgents indexes agents by name.
func MapAgents(list ...IAgent) map[string]IAgent {
	if len(list) == 0 {
		return nil
	}
	m := make(map[string]IAgent, len(list))
	for _, a := range list {
		m[a.Name()] = a
	}
	return m
}
