// Package llmfactory loads provider configuration from YAML and constructs
// LLM model clients for the configured providers (OpenAI, Anthropic, etc.).
package llmfactory
