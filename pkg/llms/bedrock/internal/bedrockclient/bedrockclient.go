// Package bedrockclient converts provider-neutral chat messages into the
// per-provider payloads expected by the Bedrock InvokeModel API.
package bedrockclient

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"

	"github.com/openhands-ai/agents-go/pkg/llms"
)

// Message type attribute.
const (
	MessageTypeText       = "text"
	MessageTypeToolUse    = "tool_use"
	MessageTypeToolResult = "tool_result"
)

// Message is a single content block destined for the model, already
// flattened out of the chat message structure.
type Message struct {
	Role    llms.Role
	Content string
	// Type is one of the MessageType constants.
	Type string
	// Tool-specific fields
	ToolCallID string // for tool use and tool results
	ToolName   string // for tool use
	ToolInput  string // for tool use (JSON)
}

// Client invokes Bedrock-hosted models.
type Client struct {
	client *bedrockruntime.Client
}

// NewClient creates a new Bedrock client.
func NewClient(client *bedrockruntime.Client) *Client {
	return &Client{
		client: client,
	}
}

// getProvider extracts the provider from a model ID, handling both direct
// IDs ("anthropic.claude-...") and inference profiles with a region prefix
// ("us.anthropic.claude-...").
func getProvider(modelID string) string {
	parts := strings.Split(modelID, ".")
	if len(parts) >= 2 && len(parts[0]) == 2 && strings.ToLower(parts[0]) == parts[0] {
		return parts[1]
	}
	return parts[0]
}

// CreateCompletion sends the messages to the provider serving the model and
// returns its completion.
func (c *Client) CreateCompletion(ctx context.Context,
	modelID string,
	messages []Message,
	options llms.CallOptions,
) (*llms.ContentResponse, error) {
	provider := getProvider(modelID)
	switch provider {
	case "anthropic":
		return createAnthropicCompletion(ctx, c.client, modelID, messages, options)
	default:
		return nil, errors.Newf("bedrock: unsupported provider %q", provider)
	}
}

func getMaxTokens(maxTokens, defaultValue int) int {
	if maxTokens <= 0 {
		return defaultValue
	}
	return maxTokens
}
