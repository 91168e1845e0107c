// Package bedrock implements the llms.Model interface over AWS Bedrock,
// invoking Anthropic Claude models through the Bedrock runtime API.
package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"

	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/llms/bedrock/internal/bedrockclient"
)

// Model IDs for Anthropic Claude models served through Bedrock.
// Inference-profile IDs with a region prefix (e.g. "us.anthropic...") are
// accepted too.
const (
	ModelAnthropicClaudeSonnet = "anthropic.claude-sonnet-4-20250514-v1:0"
	ModelAnthropicClaudeHaiku  = "anthropic.claude-3-5-haiku-20241022-v1:0"
	ModelAnthropicClaudeOpus   = "anthropic.claude-opus-4-20250514-v1:0"
)

const defaultModel = ModelAnthropicClaudeSonnet

// LLM is a Bedrock-backed chat model.
type LLM struct {
	modelID string
	client  *bedrockclient.Client
}

var _ llms.Model = (*LLM)(nil)

// New creates a Bedrock LLM. Credentials are resolved from the default AWS
// configuration chain unless a runtime client is supplied with WithClient.
func New(opts ...Option) (*LLM, error) {
	o := &options{
		modelID: defaultModel,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		cfg, err := config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, errors.WithMessage(err, "bedrock: failed to load AWS config")
		}
		o.client = bedrockruntime.NewFromConfig(cfg)
	}

	return &LLM{
		modelID: o.modelID,
		client:  bedrockclient.NewClient(o.client),
	}, nil
}

// GetName implements the Model interface.
func (l *LLM) GetName() string {
	return l.modelID
}

// GetProviderType implements the Model interface.
func (l *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderBedrock
}

// GenerateContent implements llms.Model.
func (l *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: l.modelID,
	}
	for _, opt := range options {
		opt(&opts)
	}

	m, err := processMessages(messages)
	if err != nil {
		return nil, err
	}

	return l.client.CreateCompletion(ctx, opts.Model, m, opts)
}

func processMessages(messages []llms.Message) ([]bedrockclient.Message, error) {
	out := make([]bedrockclient.Message, 0, len(messages))
	for _, m := range messages {
		for _, part := range m.Parts {
			switch part := part.(type) {
			case llms.TextContent:
				out = append(out, bedrockclient.Message{
					Role:    m.Role,
					Content: part.Text,
					Type:    bedrockclient.MessageTypeText,
				})
			case llms.ToolCall:
				if part.FunctionCall == nil {
					return nil, errors.New("bedrock: tool call without function")
				}
				out = append(out, bedrockclient.Message{
					Role:       m.Role,
					Type:       bedrockclient.MessageTypeToolUse,
					ToolCallID: part.ID,
					ToolName:   part.FunctionCall.Name,
					ToolInput:  part.FunctionCall.Arguments,
				})
			case llms.ToolCallResponse:
				out = append(out, bedrockclient.Message{
					Role:       m.Role,
					Content:    part.Content,
					Type:       bedrockclient.MessageTypeToolResult,
					ToolCallID: part.ToolCallID,
				})
			default:
				return nil, errors.Newf("bedrock: unsupported message part %T", part)
			}
		}
	}
	return out, nil
}
