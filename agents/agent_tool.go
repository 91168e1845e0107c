package agents

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/pkg/llmutils"
	"github.com/openhands-ai/agents-go/pkg/schema"
	"github.com/openhands-ai/agents-go/tools"
)

// TypeableAgentTool is a tool backed by an agent with typed input and
// output.
type TypeableAgentTool[I any, O any] interface {
	tools.ITool
	IAgentTool
}

// AgentTool exposes an agent as a tool, so another agent can delegate
// to it via a function call.
type AgentTool[I chatmodel.ContentProvider, O chatmodel.ContentProvider] struct {
	agent       TypeableAgent[O]
	name        string
	description string
	funcParams  any
}

// NewAgentTool wraps the agent into a tool whose input schema is
// generated from I.
func NewAgentTool[I chatmodel.ContentProvider, O chatmodel.ContentProvider](agent TypeableAgent[O]) (*AgentTool[I, O], error) {
	var def I
	sc, err := schema.New(reflect.TypeOf(def))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	t := &AgentTool[I, O]{
		agent:       agent,
		name:        agent.Name(),
		description: agent.Description(),
		funcParams:  sc.Parameters,
	}
	return t, nil
}

var _ TypeableAgentTool[chatmodel.String, chatmodel.String] = (*AgentTool[chatmodel.String, chatmodel.String])(nil)

// WithName overrides the tool name, used in prompts of other agents.
func (t *AgentTool[I, O]) WithName(name string) *AgentTool[I, O] {
	t.name = name
	return t
}

// WithDescription overrides the tool description.
func (t *AgentTool[I, O]) WithDescription(description string) *AgentTool[I, O] {
	t.description = description
	return t
}

func (t *AgentTool[I, O]) Name() string {
	return t.name
}

func (t *AgentTool[I, O]) Description() string {
	return t.description
}

func (t *AgentTool[I, O]) Parameters() any {
	return t.funcParams
}

func (t *AgentTool[I, O]) Call(ctx context.Context, input string) (string, error) {
	return t.CallAgent(ctx, input)
}

// CallAgent decodes the tool input, runs the nested agent, and returns
// its typed output rendered as a string.
func (t *AgentTool[I, O]) CallAgent(ctx context.Context, input string, options ...Option) (string, error) {
	var tin I
	if parser, ok := (any)(&tin).(chatmodel.InputParser); ok {
		if err := parser.ParseInput(input); err != nil {
			return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
		}
	} else {
		if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &tin); err != nil {
			return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
		}
	}

	var res O
	_, err := t.agent.Run(ctx, &CallInput{
		Input:   tin.GetContent(),
		Options: options,
	}, &res)
	if err != nil {
		return "", err
	}

	return chatmodel.Stringify(res), nil
}
