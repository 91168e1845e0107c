package openai

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/llms/openai/internal/openaiclient"
)

// ChatMessage is the wire message sent to the chat completions API.
type ChatMessage = openaiclient.ChatMessage

const (
	RoleSystem    = "system"
	RoleAssistant = "assistant"
	RoleUser      = "user"
	RoleTool      = "tool"
)

// ErrEmptyResponse is returned when the API returns no choices.
var ErrEmptyResponse = openaiclient.ErrEmptyResponse

// LLM is an OpenAI chat model.
type LLM struct {
	client *openaiclient.Client
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI LLM.
func New(opts ...Option) (*LLM, error) {
	_, c, err := newClient(opts...)
	if err != nil {
		return nil, err
	}
	return &LLM{
		client: c,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.client.Model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	switch o.client.Provider {
	case openaiclient.ProviderAzure, openaiclient.ProviderAzureAD:
		return llms.ProviderAzureAI
	case openaiclient.ProviderPerplexity:
		return llms.ProviderPerplexity
	default:
		return llms.ProviderOpenAI
	}
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	chatMsgs := make([]*ChatMessage, 0, len(messages))
	for _, mc := range messages {
		msg := &ChatMessage{}
		switch mc.Role {
		case llms.RoleSystem:
			msg.Role = RoleSystem
		case llms.RoleAI:
			msg.Role = RoleAssistant
		case llms.RoleHuman:
			msg.Role = RoleUser
		case llms.RoleTool:
			msg.Role = RoleTool
			if len(mc.Parts) != 1 {
				return nil, errors.Errorf("expected exactly one part for role %v, got %v", mc.Role, len(mc.Parts))
			}
			p, ok := mc.Parts[0].(llms.ToolCallResponse)
			if !ok {
				return nil, errors.Errorf("expected part of type ToolCallResponse for role %v, got %T", mc.Role, mc.Parts[0])
			}
			msg.ToolCallID = p.ToolCallID
			msg.Content = p.Content
		default:
			return nil, errors.Errorf("role %v not supported", mc.Role)
		}
		if mc.Role != llms.RoleTool {
			msg.Content = mc.GetContent()
			msg.ToolCalls = toolCallsFromToolCalls(mc.ToolCalls())
		}
		chatMsgs = append(chatMsgs, msg)
	}

	req := &openaiclient.ChatRequest{
		Model:               opts.Model,
		Messages:            chatMsgs,
		Temperature:         opts.Temperature,
		TopP:                opts.TopP,
		MaxCompletionTokens: opts.MaxTokens,
		N:                   opts.CandidateCount,
		StopWords:           opts.StopWords,
		Seed:                opts.Seed,
		ToolChoice:          opts.ToolChoice,
		ResponseFormat:      opts.ResponseFormat,
	}

	for _, tool := range opts.Tools {
		t, err := toolFromTool(tool)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to convert tool")
		}
		req.Tools = append(req.Tools, t)
	}

	if o.client.ResponseFormat != nil {
		req.ResponseFormat = o.client.ResponseFormat
	}

	result, err := o.client.CreateChat(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choices[i] = &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: c.FinishReason,
			GenerationInfo: map[string]any{
				"InputTokens":  int64(result.Usage.PromptTokens),
				"OutputTokens": int64(result.Usage.CompletionTokens),
				"TotalTokens":  int64(result.Usage.TotalTokens),
			},
		}
		for _, tool := range c.Message.ToolCalls {
			choices[i].ToolCalls = append(choices[i].ToolCalls, llms.ToolCall{
				ID:   tool.ID,
				Type: string(tool.Type),
				FunctionCall: &llms.FunctionCall{
					Name:      tool.Function.Name,
					Arguments: tool.Function.Arguments,
				},
			})
		}
	}
	return &llms.ContentResponse{Choices: choices}, nil
}

// toolFromTool converts an llms.Tool to the wire Tool.
func toolFromTool(t llms.Tool) (openaiclient.Tool, error) {
	if t.Type != string(openaiclient.ToolTypeFunction) || t.Function == nil {
		return openaiclient.Tool{}, errors.Errorf("tool type %q not supported", t.Type)
	}
	return openaiclient.Tool{
		Type: openaiclient.ToolTypeFunction,
		Function: openaiclient.FunctionDefinition{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			Parameters:  t.Function.Parameters,
			Strict:      t.Function.Strict,
		},
	}, nil
}

func toolCallsFromToolCalls(tcs []llms.ToolCall) []openaiclient.ToolCall {
	if len(tcs) == 0 {
		return nil
	}
	toolCalls := make([]openaiclient.ToolCall, len(tcs))
	for i, tc := range tcs {
		toolCalls[i] = openaiclient.ToolCall{
			ID:   tc.ID,
			Type: openaiclient.ToolType(tc.Type),
			Function: openaiclient.ToolFunction{
				Name:      tc.FunctionCall.Name,
				Arguments: tc.FunctionCall.Arguments,
			},
		}
	}
	return toolCalls
}
