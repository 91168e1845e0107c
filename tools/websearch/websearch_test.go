package websearch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/pkg/llmutils"
	"github.com/openhands-ai/agents-go/tools/websearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Tool(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "testkey")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req tavilyModels.SearchRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)

		assert.Equal(t, "What is the current Lido APY", req.Query)

		resp := websearch.SearchResult{
			Results: []tavilyModels.SearchResult{
				{Title: "Lido", URL: "https://defillama.com/protocol/lido", Content: "Lido staking APR", Score: 0.9},
			},
		}
		if req.IncludeAnswer {
			resp.Answer = "About 3.8%"
		}

		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	ctx := context.Background()

	tool, err := websearch.New()
	require.NoError(t, err)
	tool.WithBaseURL(server.URL).WithHTTPClient(server.Client())

	assert.Equal(t, websearch.ToolName, tool.Name())
	assert.Contains(t, tool.Description(), "web search")

	params := llmutils.ToJSONIndent(tool.Parameters())
	assert.Contains(t, params, `"Query"`)
	assert.Contains(t, params, "The query to search web.")

	_, err = tool.Call(ctx, "plain string")
	assert.True(t, errors.Is(err, chatmodel.ErrFailedUnmarshalInput))
	assert.EqualError(t, err, "failed to unmarshal input: check the schema and try again")

	_, err = tool.Run(ctx, &websearch.SearchRequest{})
	assert.EqualError(t, err, "invalid request: empty query")

	input := &websearch.SearchRequest{
		Query: "What is the current Lido APY",
	}

	resp, err := tool.Run(ctx, input)
	require.NoError(t, err)
	exp := `ANSWER: About 3.8%
- URL: https://defillama.com/protocol/lido
  TITLE: Lido
  SCORE: 0.900000
  CONTENT: Lido staking APR
`
	assert.Equal(t, exp, resp.String())

	resp2, err := tool.Call(ctx, llmutils.ToJSON(input))
	require.NoError(t, err)
	assert.Equal(t, exp, resp2)
}

func Test_New_NoKey(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	_, err := websearch.New()
	assert.EqualError(t, err, "TAVILY_API_KEY is not set")
}
