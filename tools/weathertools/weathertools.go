// Package weathertools holds the demo tools used by the quickstart
// agent examples: a canned weather lookup and a file writer.
package weathertools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/pkg/llmutils"
	"github.com/openhands-ai/agents-go/pkg/schema"
	"github.com/openhands-ai/agents-go/tools"
)

// Tool names.
const (
	FetchWeatherToolName = "FetchWeather"
	SaveToFileToolName   = "SaveToFile"
)

// Tools returns the quickstart tool set.
func Tools() []tools.ITool {
	return []tools.ITool{
		NewFetchWeatherTool(),
		NewSaveToFileTool(),
	}
}

// FetchWeatherRequest names the city to look up.
type FetchWeatherRequest struct {
	City string `json:"City" yaml:"City" jsonschema:"title=City,description=Name of the city to get weather for."`
}

// FetchWeatherResult is the weather report for a city.
type FetchWeatherResult struct {
	City   string `json:"city"`
	Report string `json:"report"`
}

func (r *FetchWeatherResult) String() string {
	return r.Report
}

// GetContent implements chatmodel.ContentProvider.
func (r *FetchWeatherResult) GetContent() string {
	return llmutils.ToJSON(r)
}

// FetchWeatherTool returns a canned weather report for any city.
type FetchWeatherTool struct {
	funcParams any
}

var _ tools.Tool[FetchWeatherRequest, FetchWeatherResult] = (*FetchWeatherTool)(nil)

// NewFetchWeatherTool returns the weather tool.
func NewFetchWeatherTool() *FetchWeatherTool {
	return &FetchWeatherTool{
		funcParams: schema.MustFromAny(FetchWeatherRequest{}).Parameters,
	}
}

func (t *FetchWeatherTool) Name() string { return FetchWeatherToolName }

func (t *FetchWeatherTool) Description() string {
	return "Fetch weather information for a given city."
}

func (t *FetchWeatherTool) Parameters() any { return t.funcParams }

func (t *FetchWeatherTool) Run(_ context.Context, req *FetchWeatherRequest) (*FetchWeatherResult, error) {
	return &FetchWeatherResult{
		City:   req.City,
		Report: fmt.Sprintf("Weather information for %s: Sunny, 22°C", req.City),
	}, nil
}

func (t *FetchWeatherTool) Call(ctx context.Context, input string) (string, error) {
	var req FetchWeatherRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return chatmodel.Stringify(res), nil
}

// SaveToFileRequest carries the content and target filename.
type SaveToFileRequest struct {
	Content  string `json:"Content" yaml:"Content" jsonschema:"title=Content,description=The content to save."`
	Filename string `json:"Filename" yaml:"Filename" jsonschema:"title=Filename,description=Name of the file to save to."`
}

// SaveToFileResult confirms the write.
type SaveToFileResult struct {
	Filename string `json:"filename"`
}

func (r *SaveToFileResult) String() string {
	return "Content saved to " + r.Filename
}

// GetContent implements chatmodel.ContentProvider.
func (r *SaveToFileResult) GetContent() string {
	return llmutils.ToJSON(r)
}

// SaveToFileTool writes content to a local file.
type SaveToFileTool struct {
	funcParams any
}

var _ tools.Tool[SaveToFileRequest, SaveToFileResult] = (*SaveToFileTool)(nil)

// NewSaveToFileTool returns the file writer tool.
func NewSaveToFileTool() *SaveToFileTool {
	return &SaveToFileTool{
		funcParams: schema.MustFromAny(SaveToFileRequest{}).Parameters,
	}
}

func (t *SaveToFileTool) Name() string { return SaveToFileToolName }

func (t *SaveToFileTool) Description() string {
	return "Save content to a file."
}

func (t *SaveToFileTool) Parameters() any { return t.funcParams }

func (t *SaveToFileTool) Run(_ context.Context, req *SaveToFileRequest) (*SaveToFileResult, error) {
	if req.Filename == "" {
		return nil, errors.New("weathertools: filename is required")
	}
	if err := os.WriteFile(req.Filename, []byte(req.Content), 0644); err != nil {
		return nil, errors.WithMessagef(err, "failed to save %q", req.Filename)
	}
	return &SaveToFileResult{Filename: req.Filename}, nil
}

func (t *SaveToFileTool) Call(ctx context.Context, input string) (string, error) {
	var req SaveToFileRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return chatmodel.Stringify(res), nil
}
