package bedrockclient

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/openhands-ai/agents-go/pkg/llms"
)

// Ref: https://docs.aws.amazon.com/bedrock/latest/userguide/model-parameters-anthropic-claude-messages.html

const anthropicVersion = "bedrock-2023-05-31"

// Anthropic role attribute.
const (
	anthropicSystem        = "system"
	anthropicRoleUser      = "user"
	anthropicRoleAssistant = "assistant"
)

// Anthropic stop reasons.
const (
	anthropicStopEndTurn      = "end_turn"
	anthropicStopMaxTokens    = "max_tokens"
	anthropicStopStopSequence = "stop_sequence"
	anthropicStopToolUse      = "tool_use"
)

// anthropicContent is a single content block of a message, covering text,
// tool_use, and tool_result blocks.
type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	// tool_use fields
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Input any    `json:"input,omitempty"`
	// tool_result fields
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

type anthropicMessage struct {
	// Role is "user" or "assistant"; the system prompt travels in the
	// top-level system field.
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicTool struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	InputSchema anthropicInputSchema `json:"input_schema"`
}

type anthropicInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

type anthropicRequest struct {
	AnthropicVersion string              `json:"anthropic_version"`
	MaxTokens        int                 `json:"max_tokens"`
	System           string              `json:"system,omitempty"`
	Messages         []*anthropicMessage `json:"messages"`
	Temperature      float64             `json:"temperature,omitempty"`
	TopP             float64             `json:"top_p,omitempty"`
	TopK             int                 `json:"top_k,omitempty"`
	StopSequences    []string            `json:"stop_sequences,omitempty"`
	Tools            []anthropicTool     `json:"tools,omitempty"`
}

type anthropicResponse struct {
	Type string `json:"type"`
	Role string `json:"role"`
	// Content blocks are "text" or "tool_use".
	Content      []anthropicContent `json:"content"`
	StopReason   string             `json:"stop_reason"`
	StopSequence string             `json:"stop_sequence"`
	Usage        struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func createAnthropicCompletion(ctx context.Context,
	client *bedrockruntime.Client,
	modelID string,
	messages []Message,
	options llms.CallOptions,
) (*llms.ContentResponse, error) {
	inputMessages, systemPrompt, err := processInputMessagesAnthropic(messages)
	if err != nil {
		return nil, err
	}

	input := anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        getMaxTokens(options.MaxTokens, 2048),
		System:           systemPrompt,
		Messages:         inputMessages,
		Temperature:      options.Temperature,
		TopP:             options.TopP,
		TopK:             options.TopK,
		StopSequences:    options.StopWords,
		Tools:            toAnthropicTools(options.Tools),
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Accept:      aws.String("*/*"),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "bedrock: failed to invoke model")
	}

	var output anthropicResponse
	if err := json.Unmarshal(resp.Body, &output); err != nil {
		return nil, errors.WithStack(err)
	}

	if len(output.Content) == 0 {
		return nil, errors.New("bedrock: empty response")
	}
	switch output.StopReason {
	case anthropicStopEndTurn, anthropicStopStopSequence, anthropicStopToolUse:
	default:
		return nil, errors.Newf("bedrock: completion stopped: %s", output.StopReason)
	}

	generationInfo := map[string]any{
		"InputTokens":  output.Usage.InputTokens,
		"OutputTokens": output.Usage.OutputTokens,
		"TotalTokens":  output.Usage.InputTokens + output.Usage.OutputTokens,
	}

	var textContent string
	var toolCalls []llms.ToolCall
	for _, c := range output.Content {
		switch c.Type {
		case MessageTypeText:
			textContent += c.Text
		case MessageTypeToolUse:
			argumentsJSON, err := json.Marshal(c.Input)
			if err != nil {
				return nil, errors.WithMessage(err, "bedrock: failed to marshal tool arguments")
			}
			toolCalls = append(toolCalls, llms.ToolCall{
				ID:   c.ID,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      c.Name,
					Arguments: string(argumentsJSON),
				},
			})
		}
	}

	var choices []*llms.ContentChoice
	if textContent != "" {
		choices = append(choices, &llms.ContentChoice{
			Content:        textContent,
			StopReason:     output.StopReason,
			GenerationInfo: generationInfo,
		})
	}
	if len(toolCalls) > 0 {
		choices = append(choices, &llms.ContentChoice{
			ToolCalls:      toolCalls,
			StopReason:     output.StopReason,
			GenerationInfo: generationInfo,
		})
	}
	if len(choices) == 0 {
		choices = append(choices, &llms.ContentChoice{
			Content:        output.Content[0].Text,
			StopReason:     output.StopReason,
			GenerationInfo: generationInfo,
		})
	}

	return &llms.ContentResponse{
		Choices: choices,
	}, nil
}

// toAnthropicTools converts tool definitions to the Anthropic tool format.
// Parameters produced by the schema package are *jsonschema.Schema with
// ordered properties; the API wants a plain map.
func toAnthropicTools(tools []llms.Tool) []anthropicTool {
	if len(tools) == 0 {
		return nil
	}

	out := make([]anthropicTool, len(tools))
	for i, tool := range tools {
		inputSchema := anthropicInputSchema{
			Type: "object",
		}
		if sc, ok := tool.Function.Parameters.(*jsonschema.Schema); ok && sc != nil {
			if sc.Properties != nil {
				properties := make(map[string]any)
				for pair := sc.Properties.Oldest(); pair != nil; pair = pair.Next() {
					properties[pair.Key] = pair.Value
				}
				inputSchema.Properties = properties
			}
			if len(sc.Required) > 0 {
				inputSchema.Required = sc.Required
			}
		}
		out[i] = anthropicTool{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			InputSchema: inputSchema,
		}
	}
	return out
}

// processInputMessagesAnthropic groups consecutive blocks of the same role
// into single messages and extracts the system prompt.
func processInputMessagesAnthropic(messages []Message) ([]*anthropicMessage, string, error) {
	var chunks [][]Message
	var current []Message
	var lastRole llms.Role
	for _, m := range messages {
		if m.Role != lastRole && len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
		}
		current = append(current, m)
		lastRole = m.Role
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	out := make([]*anthropicMessage, 0, len(chunks))
	var systemPrompt string
	for _, chunk := range chunks {
		role, err := getAnthropicRole(chunk[0].Role)
		if err != nil {
			return nil, "", err
		}
		if role == anthropicSystem {
			if systemPrompt != "" {
				return nil, "", errors.New("bedrock: multiple system prompts")
			}
			for _, m := range chunk {
				if m.Type != MessageTypeText {
					return nil, "", errors.New("bedrock: system prompt must be text")
				}
				systemPrompt += m.Content
			}
			continue
		}
		content := make([]anthropicContent, 0, len(chunk))
		for _, m := range chunk {
			c, err := getAnthropicInputContent(m)
			if err != nil {
				return nil, "", err
			}
			content = append(content, c)
		}
		out = append(out, &anthropicMessage{
			Role:    role,
			Content: content,
		})
	}
	return out, systemPrompt, nil
}

func getAnthropicRole(role llms.Role) (string, error) {
	switch role {
	case llms.RoleSystem:
		return anthropicSystem, nil
	case llms.RoleAI:
		return anthropicRoleAssistant, nil
	case llms.RoleHuman, llms.RoleTool:
		return anthropicRoleUser, nil
	default:
		return "", errors.Newf("bedrock: unsupported role %q", role)
	}
}

func getAnthropicInputContent(message Message) (anthropicContent, error) {
	switch message.Type {
	case MessageTypeText:
		return anthropicContent{
			Type: MessageTypeText,
			Text: message.Content,
		}, nil
	case MessageTypeToolUse:
		var input any
		if message.ToolInput != "" {
			if err := json.Unmarshal([]byte(message.ToolInput), &input); err != nil {
				return anthropicContent{}, errors.WithMessage(err, "bedrock: invalid tool input")
			}
		}
		return anthropicContent{
			Type:  MessageTypeToolUse,
			ID:    message.ToolCallID,
			Name:  message.ToolName,
			Input: input,
		}, nil
	case MessageTypeToolResult:
		return anthropicContent{
			Type:      MessageTypeToolResult,
			ToolUseID: message.ToolCallID,
			Content:   message.Content,
		}, nil
	default:
		return anthropicContent{}, errors.Newf("bedrock: unsupported content type %q", message.Type)
	}
}
