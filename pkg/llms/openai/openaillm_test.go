package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/llms/openai/internal/openaiclient"
)

func Test_New_RequiresToken(t *testing.T) {
	t.Setenv(tokenEnvVarName, "")
	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing the OpenAI API key")
}

func Test_GetProviderType(t *testing.T) {
	tcases := []struct {
		provider ProviderType
		exp      llms.ProviderType
	}{
		{ProviderOpenAI, llms.ProviderOpenAI},
		{ProviderAzure, llms.ProviderAzureAI},
		{ProviderAzureAD, llms.ProviderAzureAI},
		{ProviderPerplexity, llms.ProviderPerplexity},
	}
	for _, tc := range tcases {
		llm, err := New(
			WithToken("fakekey"),
			WithModel("gpt-5-mini"),
			WithProvider(tc.provider),
		)
		require.NoError(t, err)
		assert.Equal(t, tc.exp, llm.GetProviderType(), "provider %s", tc.provider)
		assert.Equal(t, "gpt-5-mini", llm.GetName())
	}
}

func Test_GenerateContent(t *testing.T) {
	var gotReq openaiclient.ChatRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := openaiclient.ChatCompletionResponse{
			Model: gotReq.Model,
			Choices: []*openaiclient.ChatCompletionChoice{
				{
					Message: openaiclient.ChatMessage{
						Role:    RoleAssistant,
						Content: "Lido offers about 3.8% APY on staked ETH.",
					},
					FinishReason: "stop",
				},
			},
			Usage: openaiclient.Usage{
				PromptTokens:     21,
				CompletionTokens: 13,
				TotalTokens:      34,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	llm, err := New(
		WithToken("fakekey"),
		WithModel("gpt-5-mini"),
		WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	messages := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "You are a DeFi advisor."),
		llms.MessageFromTextParts(llms.RoleHuman, "What does Lido yield?"),
	}
	resp, err := llm.GenerateContent(context.Background(), messages,
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(256),
	)
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)

	c := resp.Choices[0]
	assert.Equal(t, "Lido offers about 3.8% APY on staked ETH.", c.Content)
	assert.Equal(t, "stop", c.StopReason)
	assert.Equal(t, int64(21), c.GenerationInfo["InputTokens"])
	assert.Equal(t, int64(13), c.GenerationInfo["OutputTokens"])

	assert.Equal(t, "Bearer fakekey", gotAuth)
	assert.Equal(t, "gpt-5-mini", gotReq.Model)
	assert.Equal(t, 256, gotReq.MaxCompletionTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, RoleSystem, gotReq.Messages[0].Role)
	assert.Equal(t, RoleUser, gotReq.Messages[1].Role)
}

func Test_GenerateContent_ToolCalls(t *testing.T) {
	var gotReq openaiclient.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := openaiclient.ChatCompletionResponse{
			Choices: []*openaiclient.ChatCompletionChoice{
				{
					Message: openaiclient.ChatMessage{
						Role: RoleAssistant,
						ToolCalls: []openaiclient.ToolCall{
							{
								ID:   "call_1",
								Type: openaiclient.ToolTypeFunction,
								Function: openaiclient.ToolFunction{
									Name:      "get_yields",
									Arguments: `{"protocol":"lido"}`,
								},
							},
						},
					},
					FinishReason: "tool_calls",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	llm, err := New(
		WithToken("fakekey"),
		WithModel("gpt-5-mini"),
		WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	messages := []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "Fetch the Lido yield."),
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{
			ID:   "call_0",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "get_protocols",
				Arguments: `{}`,
			},
		}),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: "call_0",
			Name:       "get_protocols",
			Content:    `["lido","aave_v3"]`,
		}),
	}
	resp, err := llm.GenerateContent(context.Background(), messages,
		llms.WithTools([]llms.Tool{
			{
				Type: "function",
				Function: &llms.FunctionDefinition{
					Name:        "get_yields",
					Description: "Returns the current yield for a protocol.",
				},
			},
		}),
	)
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	require.Len(t, resp.Choices[0].ToolCalls, 1)

	tc := resp.Choices[0].ToolCalls[0]
	assert.Equal(t, "call_1", tc.ID)
	assert.Equal(t, "get_yields", tc.FunctionCall.Name)
	assert.Equal(t, `{"protocol":"lido"}`, tc.FunctionCall.Arguments)

	require.Len(t, gotReq.Messages, 3)
	assert.Equal(t, RoleAssistant, gotReq.Messages[1].Role)
	require.Len(t, gotReq.Messages[1].ToolCalls, 1)
	assert.Equal(t, "get_protocols", gotReq.Messages[1].ToolCalls[0].Function.Name)
	assert.Equal(t, RoleTool, gotReq.Messages[2].Role)
	assert.Equal(t, "call_0", gotReq.Messages[2].ToolCallID)
	require.Len(t, gotReq.Tools, 1)
	assert.Equal(t, "get_yields", gotReq.Tools[0].Function.Name)
}

func Test_AzureURLAndHeaders(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		resp := openaiclient.ChatCompletionResponse{
			Choices: []*openaiclient.ChatCompletionChoice{
				{Message: openaiclient.ChatMessage{Role: RoleAssistant, Content: "ok"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	llm, err := New(
		WithToken("azurekey"),
		WithModel("my-deployment"),
		WithBaseURL(srv.URL),
		WithProvider(ProviderAzure),
	)
	require.NoError(t, err)

	_, err = llm.GenerateContent(context.Background(),
		[]llms.Message{llms.MessageFromTextParts(llms.RoleHuman, "ping")})
	require.NoError(t, err)

	assert.Equal(t, "/openai/deployments/my-deployment/chat/completions", gotPath)
	assert.Equal(t, "api-version="+DefaultAPIVersion, gotQuery)
	assert.Equal(t, "azurekey", gotKey)
}
