package llmfactory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"

	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/llms/anthropic"
	"github.com/openhands-ai/agents-go/pkg/llms/bedrock"
	"github.com/openhands-ai/agents-go/pkg/llms/googleai"
	"github.com/openhands-ai/agents-go/pkg/llms/openai"
)

var logger = xlog.NewPackageLogger("github.com/openhands-ai/agents-go", "llmfactory")

// NewLLM is a wrapper for CreateLLM to allow for overriding the default implementation.
var NewLLM = CreateLLM

// Factory is the interface for creating and managing LLM models.
type Factory interface {
	// DefaultModel returns the default LLM model.
	DefaultModel() (llms.Model, error)
	// ModelByType returns an LLM model by its type, e.g.
	// OPENAI, AZURE, AZURE_AD, ANTHROPIC, GOOGLEAI, BEDROCK, PERPLEXITY
	ModelByType(providerType string) (llms.Model, error)
	// ModelByName returns an LLM model by its name,
	// if the model is not found, it will return the default model.
	ModelByName(preferredModels ...string) (llms.Model, error)
	// ToolModel returns a model for the named tool.
	ToolModel(toolName string, preferredModels ...string) (llms.Model, error)
	// AgentModel returns a model for the named agent.
	AgentModel(agentName string, preferredModels ...string) (llms.Model, error)
}

// Load returns a factory from a config file location.
func Load(location string) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

type factory struct {
	cfg *Config

	defaultProvider *ProviderConfig
	toolModels      map[string][]string
	agentModels     map[string][]string
	byType          map[string]llms.Model
	byName          map[string]llms.Model
	lock            sync.Mutex
}

// New creates a new LLM factory
func New(cfg *Config) Factory {
	f := &factory{
		cfg:         cfg,
		byType:      make(map[string]llms.Model),
		byName:      make(map[string]llms.Model),
		toolModels:  make(map[string][]string),
		agentModels: make(map[string][]string),
	}

	for k, v := range cfg.ToolModels {
		f.toolModels[k] = slices.Clone(v)
	}
	for k, v := range cfg.AgentModels {
		f.agentModels[k] = slices.Clone(v)
	}

	if cfg.DefaultProvider != "" {
		for _, provider := range cfg.Providers {
			if provider.Name == cfg.DefaultProvider {
				f.defaultProvider = provider
				break
			}
		}
	}

	if f.defaultProvider == nil && len(f.cfg.Providers) > 0 {
		f.defaultProvider = f.cfg.Providers[0]
	}

	return f
}

// CreateLLM creates an LLM model from a provider config.
func CreateLLM(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	provType := strings.ToUpper(cfg.OpenAI.APIType)
	switch provType {
	case "OPENAI", "OPEN_AI":
		return newOpenAI(cfg, openai.ProviderOpenAI, preferredModels...)
	case "PERPLEXITY":
		return newOpenAI(cfg, openai.ProviderPerplexity, preferredModels...)
	case "AZURE":
		return newAzure(cfg, openai.ProviderAzure, preferredModels...)
	case "AZURE_AD":
		return newAzure(cfg, openai.ProviderAzureAD, preferredModels...)
	case "ANTHROPIC":
		return newAnthropic(cfg, preferredModels...)
	case "GOOGLEAI":
		return newGoogleAI(cfg, preferredModels...)
	case "BEDROCK":
		return newBedrock(cfg, preferredModels...)
	}
	return nil, errors.Errorf("unsupported provider type: %s", provType)
}

func newOpenAI(cfg *ProviderConfig, provider openai.ProviderType, preferredModels ...string) (llms.Model, error) {
	model := cfg.FindModel(preferredModels...)
	opts := []openai.Option{
		openai.WithProvider(provider),
		openai.WithModel(model),
	}
	if cfg.Token != "" {
		opts = append(opts, openai.WithToken(cfg.Token))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	if cfg.OpenAI.OrgID != "" {
		opts = append(opts, openai.WithOrganization(cfg.OpenAI.OrgID))
	}
	return openai.New(opts...)
}

func newAzure(cfg *ProviderConfig, provider openai.ProviderType, preferredModels ...string) (llms.Model, error) {
	model := cfg.FindModel(preferredModels...)
	opts := []openai.Option{
		openai.WithProvider(provider),
		openai.WithModel(model),
	}
	if cfg.OpenAI.APIVersion != "" {
		opts = append(opts, openai.WithAPIVersion(cfg.OpenAI.APIVersion))
	}
	if cfg.Token != "" {
		opts = append(opts, openai.WithToken(cfg.Token))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return openai.New(opts...)
}

func newAnthropic(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	model := cfg.FindModel(preferredModels...)
	opts := []anthropic.Option{
		anthropic.WithModel(model),
	}
	if cfg.Token != "" {
		opts = append(opts, anthropic.WithToken(cfg.Token))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return anthropic.New(opts...)
}

func newGoogleAI(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	model := cfg.FindModel(preferredModels...)
	opts := []googleai.Option{
		googleai.WithDefaultModel(model),
	}
	if cfg.Token != "" {
		opts = append(opts, googleai.WithAPIKey(cfg.Token))
	}
	return googleai.New(context.Background(), opts...)
}

func newBedrock(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	var opts []bedrock.Option
	if model := cfg.FindModel(preferredModels...); model != "" {
		opts = append(opts, bedrock.WithModel(model))
	}
	return bedrock.New(opts...)
}

// DefaultModel returns the model of the default provider.
func (f *factory) DefaultModel() (llms.Model, error) {
	if len(f.cfg.Providers) == 0 || f.defaultProvider == nil {
		return nil, errors.New("no providers configured")
	}

	return NewLLM(f.defaultProvider, f.defaultProvider.DefaultModel)
}

func (f *factory) ModelByType(providerType string) (llms.Model, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if client, ok := f.byType[providerType]; ok {
		return client, nil
	}

	for _, cfg := range f.cfg.Providers {
		if cfg.OpenAI.APIType == providerType {
			model, err := NewLLM(cfg)
			if err != nil {
				return nil, err
			}

			logger.KV(xlog.DEBUG,
				"status", "created_llm",
				"type", cfg.OpenAI.APIType,
				"version", cfg.OpenAI.APIVersion,
				"name", cfg.Name)

			f.byType[providerType] = model
			return model, nil
		}
	}
	return nil, errors.Errorf("provider not found for type: %s", providerType)
}

func (f *factory) ModelByName(modelNames ...string) (llms.Model, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, modelName := range modelNames {
		if client, ok := f.byName[modelName]; ok {
			return client, nil
		}

		for _, cfg := range f.cfg.Providers {
			if slices.Contains(cfg.AvailableModels, modelName) {
				model, err := NewLLM(cfg, modelNames...)
				if err != nil {
					logger.KV(xlog.ERROR,
						"reason", "NewLLM",
						"type", cfg.OpenAI.APIType,
						"version", cfg.OpenAI.APIVersion,
						"models", modelNames,
						"err", err.Error(),
					)
					continue
				}

				logger.KV(xlog.DEBUG,
					"status", "created_llm",
					"type", cfg.OpenAI.APIType,
					"version", cfg.OpenAI.APIVersion,
					"name", cfg.Name)

				f.byName[modelName] = model
				return model, nil
			}
		}
	}
	return f.DefaultModel()
}

// ToolModel returns a model for the named tool.
func (f *factory) ToolModel(toolName string, preferredModels ...string) (llms.Model, error) {
	if modelNames, ok := f.toolModels[toolName]; ok {
		return f.ModelByName(modelNames...)
	}
	if modelNames, ok := f.toolModels["default"]; ok {
		return f.ModelByName(modelNames...)
	}
	return f.ModelByName(preferredModels...)
}

// AgentModel returns a model for the named agent.
func (f *factory) AgentModel(agentName string, preferredModels ...string) (llms.Model, error) {
	if modelNames, ok := f.agentModels[agentName]; ok {
		return f.ModelByName(modelNames...)
	}
	if modelNames, ok := f.agentModels["default"]; ok {
		return f.ModelByName(modelNames...)
	}
	return f.ModelByName(preferredModels...)
}
