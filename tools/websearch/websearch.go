// Package websearch provides a Tavily-backed web search tool that
// agents can use to verify protocol claims against live sources.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/cockroachdb/errors"
	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/pkg/llmutils"
	"github.com/openhands-ai/agents-go/pkg/schema"
	"github.com/openhands-ai/agents-go/tools"
)

// ToolName is the registered tool name.
const ToolName = "WebSearch"

// SearchRequest is the tool input.
type SearchRequest struct {
	Query string `json:"Query" yaml:"Query" jsonschema:"title=Query,description=The query to search web."`
}

// SearchResult is the response from a web search.
type SearchResult struct {
	Results []tavilyModels.SearchResult `json:"results" yaml:"Results" jsonschema:"title=results,description=The results from a web search."`
	Answer  string                      `json:"answer,omitempty" yaml:"Answer" jsonschema:"title=answer,description=The aggregated answer from a web search."`
}

// GetContent implements chatmodel.ContentProvider.
func (r *SearchResult) GetContent() string {
	return llmutils.ToJSON(r)
}

func (r *SearchResult) String() string {
	var buf bytes.Buffer
	if r.Answer != "" {
		fmt.Fprintf(&buf, "ANSWER: %s\n", r.Answer)
	}
	for _, result := range r.Results {
		fmt.Fprintf(&buf, "- URL: %s\n", result.URL)
		fmt.Fprintf(&buf, "  TITLE: %s\n", result.Title)
		fmt.Fprintf(&buf, "  SCORE: %f\n", result.Score)
		fmt.Fprintf(&buf, "  CONTENT: %s\n", result.Content)
	}
	return buf.String()
}

// Tool performs web searches through the Tavily API.
type Tool struct {
	funcParams any

	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ tools.Tool[SearchRequest, SearchResult] = (*Tool)(nil)

// New returns the web search tool. The API key is read from the
// TAVILY_API_KEY environment variable.
func New() (*Tool, error) {
	apikey := os.Getenv("TAVILY_API_KEY")
	if apikey == "" {
		return nil, errors.New("TAVILY_API_KEY is not set")
	}
	return &Tool{
		apiKey:     apikey,
		httpClient: http.DefaultClient,
		funcParams: schema.MustFromAny(SearchRequest{}).Parameters,
	}, nil
}

// WithBaseURL overrides the Tavily endpoint, used in tests.
func (t *Tool) WithBaseURL(baseURL string) *Tool {
	t.baseURL = baseURL
	return t
}

// WithHTTPClient overrides the HTTP client.
func (t *Tool) WithHTTPClient(client *http.Client) *Tool {
	t.httpClient = client
	return t
}

func (t *Tool) Name() string {
	return ToolName
}

func (t *Tool) Description() string {
	return "A tool that provides a web search functionality."
}

func (t *Tool) Parameters() any {
	return t.funcParams
}

func (t *Tool) Run(_ context.Context, req *SearchRequest) (*SearchResult, error) {
	if req.Query == "" {
		return nil, errors.New("invalid request: empty query")
	}

	client := tavilygo.NewClient(t.apiKey)
	if t.baseURL != "" {
		client.BaseURL = t.baseURL
	}
	if t.httpClient != nil {
		client.HTTPClient = t.httpClient
	}

	searchReq := tavilyModels.SearchRequest{
		Query:         req.Query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	}
	searchResp, err := tavilygo.Search(client, searchReq)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to perform search")
	}

	return &SearchResult{
		Results: searchResp.Results,
		Answer:  searchResp.Answer,
	}, nil
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req SearchRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return chatmodel.Stringify(out), nil
}
