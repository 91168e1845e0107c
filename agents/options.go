package agents

import (
	"github.com/openhands-ai/agents-go/chatmodel"
	"github.com/openhands-ai/agents-go/encoding"
	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/schema"
	"github.com/openhands-ai/agents-go/store"
)

// Defaults for agent run limits.
const (
	DefaultMaxRetries     = 3
	DefaultMaxMessages    = 100
	DefaultMaxToolCalls   = 30
	DefaultMaxContentSize = 1 << 20
)

// Option mutates the agent Config.
type Option func(*Config)

// Config is the agent configuration. A copy is made per call, so call
// options never mutate the agent.
type Config struct {
	// Model is the model name override for LLM calls.
	Model string
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int
	// Temperature is the sampling temperature, between 0 and 1.
	Temperature float64
	// StopWords is a list of words to stop on.
	StopWords []string
	// TopK is the number of tokens to consider for top-k sampling.
	TopK int
	// TopP is the cumulative probability for top-p sampling.
	TopP float64
	// Seed is a seed for deterministic sampling.
	Seed int

	// MaxLength caps the total content size of the conversation, in bytes.
	MaxLength int
	// MaxMessages caps the number of messages in the conversation.
	MaxMessages int
	// MaxToolCalls caps the number of tool calls in a single run.
	MaxToolCalls int

	// Tools are extra tool definitions passed to the LLM.
	Tools []llms.Tool
	// ToolChoice is "none", "auto" (the default), or a specific tool.
	ToolChoice any
	// ResponseFormat requests structured output, where supported.
	ResponseFormat *schema.ResponseFormat

	// CallbackHandler observes the run.
	CallbackHandler Callback
	// Store persists the conversation history.
	Store store.MessageStore
	// PromptInput are the default system prompt template values.
	PromptInput map[string]any
	// Examples are few-shot examples prepended to the conversation.
	Examples chatmodel.FewShotExamples
	// Mode is the output encoding mode.
	Mode encoding.Mode
	// SkipMessageHistory skips persisting the run messages.
	SkipMessageHistory bool
	// SkipToolHistory skips persisting tool calls and their results.
	SkipToolHistory bool
}

// NewConfig creates a Config with defaults applied.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Mode:        encoding.ModeDefault,
		MaxMessages: DefaultMaxMessages,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Apply returns a copy of the config with the options applied.
func (c *Config) Apply(opts ...Option) *Config {
	cfg := *c
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// GetCallOptions converts the config into LLM call options.
func (c *Config) GetCallOptions(extra ...Option) []llms.CallOption {
	cfg := c.Apply(extra...)

	var callOpts []llms.CallOption
	if cfg.Model != "" {
		callOpts = append(callOpts, llms.WithModel(cfg.Model))
	}
	if cfg.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(cfg.MaxTokens))
	}
	if cfg.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(cfg.Temperature))
	}
	if len(cfg.StopWords) > 0 {
		callOpts = append(callOpts, llms.WithStopWords(cfg.StopWords))
	}
	if cfg.TopK > 0 {
		callOpts = append(callOpts, llms.WithTopK(cfg.TopK))
	}
	if cfg.TopP > 0 {
		callOpts = append(callOpts, llms.WithTopP(cfg.TopP))
	}
	if cfg.Seed > 0 {
		callOpts = append(callOpts, llms.WithSeed(cfg.Seed))
	}
	if len(cfg.Tools) > 0 {
		callOpts = append(callOpts, llms.WithTools(cfg.Tools))
	}
	if cfg.ToolChoice != nil {
		callOpts = append(callOpts, llms.WithToolChoice(cfg.ToolChoice))
	}
	if cfg.ResponseFormat != nil {
		callOpts = append(callOpts, llms.WithResponseFormat(cfg.ResponseFormat))
	}
	return callOpts
}

// WithMode specifies the output encoding mode.
func WithMode(mode encoding.Mode) Option {
	return func(o *Config) {
		o.Mode = mode
	}
}

// WithExamples specifies few-shot examples for the conversation.
func WithExamples(examples chatmodel.FewShotExamples) Option {
	return func(o *Config) {
		o.Examples = examples
	}
}

// WithStore specifies the message store for the conversation history.
func WithStore(s store.MessageStore) Option {
	return func(o *Config) {
		o.Store = s
	}
}

// WithSkipMessageHistory skips adding agent messages to history.
func WithSkipMessageHistory(skip bool) Option {
	return func(o *Config) {
		o.SkipMessageHistory = skip
	}
}

// WithSkipToolHistory skips adding tool calls to history.
func WithSkipToolHistory(skip bool) Option {
	return func(o *Config) {
		o.SkipToolHistory = skip
	}
}

// WithPromptInput specifies the default system prompt inputs.
func WithPromptInput(input map[string]any) Option {
	return func(o *Config) {
		o.PromptInput = input
	}
}

// WithCallback sets the callback handler.
func WithCallback(cb Callback) Option {
	return func(o *Config) {
		o.CallbackHandler = cb
	}
}

// WithModel overrides the LLM model.
func WithModel(model string) Option {
	return func(o *Config) {
		o.Model = model
	}
}

// WithMaxTokens caps the number of generated tokens.
func WithMaxTokens(maxTokens int) Option {
	return func(o *Config) {
		o.MaxTokens = maxTokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(o *Config) {
		o.Temperature = temperature
	}
}

// WithStopWords sets the stop sequences.
func WithStopWords(stopWords []string) Option {
	return func(o *Config) {
		o.StopWords = stopWords
	}
}

// WithTopK enables top-k sampling.
func WithTopK(topK int) Option {
	return func(o *Config) {
		o.TopK = topK
	}
}

// WithTopP enables top-p sampling.
func WithTopP(topP float64) Option {
	return func(o *Config) {
		o.TopP = topP
	}
}

// WithSeed enables deterministic sampling.
func WithSeed(seed int) Option {
	return func(o *Config) {
		o.Seed = seed
	}
}

// WithMaxLength caps the conversation content size, in bytes.
func WithMaxLength(maxLength int) Option {
	return func(o *Config) {
		o.MaxLength = maxLength
	}
}

// WithMaxMessages caps the number of conversation messages.
func WithMaxMessages(maxMessages int) Option {
	return func(o *Config) {
		o.MaxMessages = maxMessages
	}
}

// WithMaxToolCalls caps the number of tool calls per run.
func WithMaxToolCalls(maxToolCalls int) Option {
	return func(o *Config) {
		o.MaxToolCalls = maxToolCalls
	}
}

// WithTools passes extra tool definitions to the LLM.
func WithTools(list []llms.Tool) Option {
	return func(o *Config) {
		o.Tools = list
	}
}

// WithToolChoice forces the tool selection behavior.
func WithToolChoice(choice any) Option {
	return func(o *Config) {
		o.ToolChoice = choice
	}
}

// WithResponseFormat requests structured output.
func WithResponseFormat(format *schema.ResponseFormat) Option {
	return func(o *Config) {
		o.ResponseFormat = format
	}
}
