// Package tools defines the tool interfaces exposed to LLM agents.
package tools

import (
	"context"
	"strings"
)

// ITool is a tool the agent can call with JSON-encoded input.
type ITool interface {
	// Name returns the name of the tool.
	Name() string
	// Description returns the description of the tool, used in the
	// prompt. Should not exceed the model limit.
	Description() string
	// Parameters returns the JSON schema of the tool input.
	Parameters() any

	Call(context.Context, string) (string, error)
}

// Tool is a typed tool with a strongly typed request and response.
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// Callback observes tool execution.
type Callback interface {
	OnToolStart(ctx context.Context, tool ITool, agentName, input string)
	OnToolEnd(ctx context.Context, tool ITool, agentName, input, output string)
	OnToolError(ctx context.Context, tool ITool, agentName, input string, err error)
}

// GetDescriptions lists the registered tools for the prompt.
func GetDescriptions(list []ITool) string {
	var sb strings.Builder
	for _, t := range list {
		sb.WriteString("- ")
		sb.WriteString(t.Name())
		sb.WriteString(": ")
		sb.WriteString(t.Description())
		sb.WriteString("\n")
	}
	return sb.String()
}

// FindTool returns the tool with the given name, or nil.
func FindTool(list []ITool, name string) ITool {
	for _, t := range list {
		if strings.EqualFold(t.Name(), name) {
			return t
		}
	}
	return nil
}

// GetNames returns the names of the tools.
func GetNames(list []ITool) []string {
	names := make([]string, 0, len(list))
	for _, t := range list {
		names = append(names, t.Name())
	}
	return names
}
