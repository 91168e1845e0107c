package anthropic_test

import (
	"net/http"
	"reflect"
	"testing"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/llms/anthropic"
	"github.com/openhands-ai/agents-go/pkg/schema"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		opts        []anthropic.Option
		errContains string
	}{
		{
			name:        "missing token",
			opts:        []anthropic.Option{anthropic.WithModel("claude-sonnet-4-20250514")},
			errContains: "missing API key",
		},
		{
			name:        "missing model",
			opts:        []anthropic.Option{anthropic.WithToken("fake-token")},
			errContains: "model is required",
		},
		{
			name: "valid configuration",
			opts: []anthropic.Option{
				anthropic.WithToken("fake-token"),
				anthropic.WithModel("claude-sonnet-4-20250514"),
			},
		},
		{
			name: "with custom base URL and HTTP client",
			opts: []anthropic.Option{
				anthropic.WithToken("fake-token"),
				anthropic.WithModel("claude-sonnet-4-20250514"),
				anthropic.WithBaseURL("https://custom.anthropic.com"),
				anthropic.WithHTTPClient(&http.Client{}),
				anthropic.WithAnthropicBetaHeader("beta-feature-1"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ANTHROPIC_API_KEY", "")

			allm, err := anthropic.New(tt.opts...)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, allm)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, allm)
			assert.NotNil(t, allm.Client)
			assert.Equal(t, "claude-sonnet-4-20250514", allm.GetName())
			assert.Equal(t, llms.ProviderAnthropic, allm.GetProviderType())
		})
	}
}

func TestProcessMessages(t *testing.T) {
	messages := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "You are a DeFi advisor."),
		llms.MessageFromTextParts(llms.RoleSystem, "Answer briefly."),
		llms.MessageFromTextParts(llms.RoleHuman, "What does Lido yield?"),
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{
			ID:   "toolu_1",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "get_yields",
				Arguments: `{"protocol":"lido"}`,
			},
		}),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: "toolu_1",
			Name:       "get_yields",
			Content:    `{"apy":0.038}`,
		}),
	}

	sdkMessages, systemPrompt, err := anthropic.ProcessMessages(messages)
	require.NoError(t, err)
	assert.Equal(t, "You are a DeFi advisor.\nAnswer briefly.", systemPrompt)
	require.Len(t, sdkMessages, 3)
	assert.Equal(t, anthropicsdk.MessageParamRoleUser, sdkMessages[0].Role)
	assert.Equal(t, anthropicsdk.MessageParamRoleAssistant, sdkMessages[1].Role)
	// tool results go back as a user message
	assert.Equal(t, anthropicsdk.MessageParamRoleUser, sdkMessages[2].Role)
}

func TestProcessMessages_InvalidToolArguments(t *testing.T) {
	messages := []llms.Message{
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{
			ID:   "toolu_1",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "get_yields",
				Arguments: `not json`,
			},
		}),
	}
	_, _, err := anthropic.ProcessMessages(messages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal tool call arguments")
}

func TestToTools(t *testing.T) {
	type yieldsRequest struct {
		Protocol string `json:"protocol" jsonschema:"description=Protocol identifier."`
		Months   int    `json:"months,omitempty"`
	}
	sc, err := schema.New(reflect.TypeOf(yieldsRequest{}))
	require.NoError(t, err)

	tools := anthropic.ToTools([]llms.Tool{
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        "get_yields",
				Description: "Returns the current yield for a protocol.",
				Parameters:  sc.Parameters,
			},
		},
	})
	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "get_yields", tools[0].OfTool.Name)
	assert.Contains(t, tools[0].OfTool.InputSchema.Properties, "protocol")
	assert.Contains(t, tools[0].OfTool.InputSchema.Required, "protocol")

	assert.Nil(t, anthropic.ToTools(nil))
}
