// Package googleai adapts the Google genai SDK to the llms.Model
// interface. See https://ai.google.dev/ for more details.
package googleai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"google.golang.org/genai"

	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/llms/googleai/internal/genaiutils"
)

var (
	ErrNoContentInResponse   = errors.New("no content in generation response")
	ErrUnknownPartInResponse = errors.New("unknown part type in generation response")
)

const (
	CITATIONS            = "citations"
	SAFETY               = "safety"
	RoleSystem           = "system"
	RoleModel            = "model"
	RoleUser             = "user"
	RoleTool             = "tool"
	ResponseMIMETypeJSON = "application/json"
)

// GoogleAI is a Google AI API client.
type GoogleAI struct {
	client *genai.Client
	opts   Options
}

var _ llms.Model = (*GoogleAI)(nil)

// New creates a new GoogleAI client.
func New(ctx context.Context, opts ...Option) (*GoogleAI, error) {
	clientOptions := DefaultOptions()
	for _, opt := range opts {
		opt(&clientOptions)
	}
	clientOptions.EnsureAuthPresent()

	gi := &GoogleAI{
		opts: clientOptions,
	}

	cfg := &genai.ClientConfig{
		Project:     clientOptions.CloudProject,
		Location:    clientOptions.CloudLocation,
		APIKey:      clientOptions.APIKey,
		Credentials: clientOptions.Credentials,
		HTTPClient:  clientOptions.HTTPClient,
		Backend:     genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return gi, err
	}
	gi.client = client
	return gi, nil
}

// GetName implements the Model interface.
func (g *GoogleAI) GetName() string {
	return g.opts.DefaultModel
}

// GetProviderType implements the Model interface.
func (g *GoogleAI) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// GenerateContent implements the Model interface.
func (g *GoogleAI) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model:          g.opts.DefaultModel,
		CandidateCount: g.opts.DefaultCandidateCount,
		MaxTokens:      g.opts.DefaultMaxTokens,
		Temperature:    g.opts.DefaultTemperature,
		TopP:           g.opts.DefaultTopP,
		TopK:           g.opts.DefaultTopK,
	}
	for _, opt := range options {
		opt(&opts)
	}

	callCfg := &genai.GenerateContentConfig{
		StopSequences:   opts.StopWords,
		CandidateCount:  int32(opts.CandidateCount),
		MaxOutputTokens: int32(opts.MaxTokens),
		Temperature:     genaiutils.Float32Ptr(float32(opts.Temperature)),
		TopP:            genaiutils.Float32Ptr(float32(opts.TopP)),
		TopK:            genaiutils.Float32Ptr(float32(opts.TopK)),
		Seed:            genaiutils.Int32Ptr(int32(opts.Seed)),
	}

	callCfg.SafetySettings = []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: g.opts.HarmThreshold,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: g.opts.HarmThreshold,
		},
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: g.opts.HarmThreshold,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: g.opts.HarmThreshold,
		},
	}

	var err error
	if callCfg.Tools, err = genaiutils.ConvertTools(opts.Tools); err != nil {
		return nil, err
	}

	// Gemini does not allow structured output together with function tools.
	if len(callCfg.Tools) == 0 && opts.ResponseFormat != nil && opts.ResponseFormat.Type != "" && opts.ResponseFormat.Type != "text" {
		callCfg.ResponseMIMEType = ResponseMIMETypeJSON
		if opts.ResponseFormat.JSONSchema != nil {
			callCfg.ResponseSchema, err = genaiutils.ConvertResponseFormatJSONSchema(opts.ResponseFormat.JSONSchema)
			if err != nil {
				return nil, err
			}
		}
	}

	return g.generateFromMessages(ctx, opts.Model, messages, callCfg)
}

func (g *GoogleAI) generateFromMessages(ctx context.Context, model string, messages []llms.Message, config *genai.GenerateContentConfig) (*llms.ContentResponse, error) {
	history := make([]*genai.Content, 0, len(messages))
	for _, mc := range messages {
		content, err := convertContent(mc)
		if err != nil {
			return nil, err
		}
		if mc.Role == llms.RoleSystem {
			config.SystemInstruction = content
			continue
		}
		history = append(history, content)
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, history, config)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoContentInResponse
	}
	return convertCandidates(resp.Candidates, resp.UsageMetadata)
}

// convertCandidates converts a sequence of genai.Candidate to a response.
func convertCandidates(candidates []*genai.Candidate, usage *genai.GenerateContentResponseUsageMetadata) (*llms.ContentResponse, error) {
	var contentResponse llms.ContentResponse

	for _, candidate := range candidates {
		buf := strings.Builder{}
		var toolCalls []llms.ToolCall

		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				switch {
				case part.Text != "":
					buf.WriteString(part.Text)
				case part.FunctionCall != nil:
					b, err := json.Marshal(part.FunctionCall.Args)
					if err != nil {
						return nil, err
					}
					toolCalls = append(toolCalls, llms.ToolCall{
						ID:   part.FunctionCall.ID,
						Type: "function",
						FunctionCall: &llms.FunctionCall{
							Name:      part.FunctionCall.Name,
							Arguments: string(b),
						},
					})
				default:
					return nil, errors.WithMessage(ErrUnknownPartInResponse, "not text or tool")
				}
			}
		}

		metadata := make(map[string]any)
		metadata[CITATIONS] = candidate.CitationMetadata
		metadata[SAFETY] = candidate.SafetyRatings
		if usage != nil {
			metadata["InputTokens"] = int64(usage.PromptTokenCount)
			metadata["CacheReadTokens"] = int64(usage.CachedContentTokenCount)
			metadata["OutputTokens"] = int64(usage.CandidatesTokenCount + usage.ToolUsePromptTokenCount + usage.ThoughtsTokenCount)
			metadata["TotalTokens"] = int64(usage.TotalTokenCount)
		}

		contentResponse.Choices = append(contentResponse.Choices,
			&llms.ContentChoice{
				Content:        buf.String(),
				StopReason:     string(candidate.FinishReason),
				GenerationInfo: metadata,
				ToolCalls:      toolCalls,
			})
	}
	return &contentResponse, nil
}

// convertParts converts message parts to genai parts.
func convertParts(parts []llms.ContentPart) ([]*genai.Part, error) {
	convertedParts := make([]*genai.Part, 0, len(parts))
	for _, part := range parts {
		out := new(genai.Part)

		switch p := part.(type) {
		case llms.TextContent:
			out.Text = p.Text
		case llms.ToolCall:
			fc := p.FunctionCall
			var argsMap map[string]any
			if err := json.Unmarshal([]byte(fc.Arguments), &argsMap); err != nil {
				return nil, errors.Wrapf(err, "tool call %q arguments", fc.Name)
			}
			out.FunctionCall = &genai.FunctionCall{
				ID:   p.ID,
				Name: fc.Name,
				Args: argsMap,
			}
		case llms.ToolCallResponse:
			out.FunctionResponse = &genai.FunctionResponse{
				ID:   p.ToolCallID,
				Name: p.Name,
				Response: map[string]any{
					"response": p.Content,
				},
			}
		default:
			return nil, errors.Errorf("unsupported content part type: %T", part)
		}

		convertedParts = append(convertedParts, out)
	}
	return convertedParts, nil
}

// convertContent converts a chat message to genai content.
func convertContent(content llms.Message) (*genai.Content, error) {
	parts, err := convertParts(content.Parts)
	if err != nil {
		return nil, err
	}

	c := &genai.Content{
		Parts: parts,
	}

	switch content.Role {
	case llms.RoleSystem:
		c.Role = RoleSystem
	case llms.RoleAI:
		c.Role = RoleModel
	case llms.RoleHuman:
		c.Role = RoleUser
	case llms.RoleTool:
		c.Role = RoleTool
	default:
		return nil, errors.Errorf("role %v not supported", content.Role)
	}

	return c, nil
}
