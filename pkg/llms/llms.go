// Package llms defines the provider-neutral types used to talk to chat
// models: messages, tool definitions, call options, and the Model
// interface implemented by each provider adapter.
package llms

import (
	"context"
)

// ProviderType identifies the backing LLM provider of a Model.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderAzureAI    ProviderType = "azure"
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderGoogleAI   ProviderType = "googleai"
	ProviderBedrock    ProviderType = "bedrock"
	ProviderPerplexity ProviderType = "perplexity"
	ProviderMock       ProviderType = "mock"
)

// Model is a chat model.
type Model interface {
	// GetName returns the model name, e.g. "gpt-5-mini".
	GetName() string
	// GetProviderType returns the provider serving this model.
	GetProviderType() ProviderType
	// GenerateContent asks the model to generate content from messages.
	GenerateContent(ctx context.Context, messages []Message, options ...CallOption) (*ContentResponse, error)
}

// Capability is a feature that a provider may or may not support.
type Capability uint32

const (
	CapabilityFunctionCalling Capability = 1 << iota
	CapabilityJSONMode
	CapabilityJSONSchema
)

var providerCapabilities = map[ProviderType]Capability{
	ProviderOpenAI:     CapabilityFunctionCalling | CapabilityJSONMode | CapabilityJSONSchema,
	ProviderAzureAI:    CapabilityFunctionCalling | CapabilityJSONMode | CapabilityJSONSchema,
	ProviderAnthropic:  CapabilityFunctionCalling,
	ProviderGoogleAI:   CapabilityFunctionCalling | CapabilityJSONMode,
	ProviderBedrock:    CapabilityFunctionCalling,
	ProviderPerplexity: CapabilityJSONMode,
	ProviderMock:       CapabilityFunctionCalling | CapabilityJSONMode | CapabilityJSONSchema,
}

// Supports reports whether the provider implements the given capability.
func (p ProviderType) Supports(c Capability) bool {
	return providerCapabilities[p]&c != 0
}

// PromptValue is implemented by formatted prompts that can be rendered
// either as a single string or as a list of chat messages.
type PromptValue interface {
	String() string
	Messages() []Message
}
