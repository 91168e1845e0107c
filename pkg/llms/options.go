package llms

import (
	"github.com/openhands-ai/agents-go/pkg/schema"
)

// CallOptions are the resolved options for a GenerateContent call.
type CallOptions struct {
	// Model is the model name override.
	Model string `json:"model"`
	// CandidateCount is the number of response candidates to generate.
	CandidateCount int `json:"candidate_count"`
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int `json:"max_tokens"`
	// Temperature is the sampling temperature.
	Temperature float64 `json:"temperature"`
	// StopWords stop generation when produced.
	StopWords []string `json:"stop_words"`
	// TopK for top-k sampling.
	TopK int `json:"top_k"`
	// TopP for nucleus sampling.
	TopP float64 `json:"top_p"`
	// Seed for deterministic sampling, where supported.
	Seed int `json:"seed"`
	// Tools is the list of tools the model may call.
	Tools []Tool `json:"tools,omitempty"`
	// ToolChoice forces a specific tool, "auto", or "none".
	ToolChoice any `json:"tool_choice"`
	// ResponseFormat requests structured output, where supported.
	ResponseFormat *schema.ResponseFormat `json:"response_format,omitempty"`
}

// Tool is a tool the model may call.
type Tool struct {
	// Type is always "function" for now.
	Type string `json:"type"`
	// Function describes the callable function.
	Function *FunctionDefinition `json:"function,omitempty"`
}

// FunctionDefinition describes a callable function for the model.
type FunctionDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Parameters is the JSON schema of the function input, usually a
	// *jsonschema.Schema produced by the schema package.
	Parameters any `json:"parameters,omitempty"`
	// Strict requests schema-exact arguments, where supported.
	Strict bool `json:"strict,omitempty"`
}

// CallOption configures a GenerateContent call.
type CallOption func(*CallOptions)

// WithModel overrides the model name for this call.
func WithModel(model string) CallOption {
	return func(o *CallOptions) {
		o.Model = model
	}
}

// WithMaxTokens caps the number of generated tokens.
func WithMaxTokens(maxTokens int) CallOption {
	return func(o *CallOptions) {
		o.MaxTokens = maxTokens
	}
}

// WithCandidateCount sets the number of candidates.
func WithCandidateCount(c int) CallOption {
	return func(o *CallOptions) {
		o.CandidateCount = c
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = temperature
	}
}

// WithStopWords sets the stop sequences.
func WithStopWords(stopWords []string) CallOption {
	return func(o *CallOptions) {
		o.StopWords = stopWords
	}
}

// WithTopK sets top-k sampling.
func WithTopK(topK int) CallOption {
	return func(o *CallOptions) {
		o.TopK = topK
	}
}

// WithTopP sets nucleus sampling.
func WithTopP(topP float64) CallOption {
	return func(o *CallOptions) {
		o.TopP = topP
	}
}

// WithSeed sets the sampling seed.
func WithSeed(seed int) CallOption {
	return func(o *CallOptions) {
		o.Seed = seed
	}
}

// WithTools sets the tools available to the model.
func WithTools(tools []Tool) CallOption {
	return func(o *CallOptions) {
		o.Tools = tools
	}
}

// WithToolChoice forces the tool selection behavior.
func WithToolChoice(choice any) CallOption {
	return func(o *CallOptions) {
		o.ToolChoice = choice
	}
}

// WithResponseFormat requests structured output.
func WithResponseFormat(format *schema.ResponseFormat) CallOption {
	return func(o *CallOptions) {
		o.ResponseFormat = format
	}
}
