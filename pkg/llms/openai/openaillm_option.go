package openai

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"

	"github.com/openhands-ai/agents-go/pkg/llms/openai/internal/openaiclient"
	"github.com/openhands-ai/agents-go/pkg/schema"
)

const (
	tokenEnvVarName        = "OPENAI_API_KEY" //nolint:gosec
	modelEnvVarName        = "OPENAI_MODEL"
	baseURLEnvVarName      = "OPENAI_BASE_URL"
	organizationEnvVarName = "OPENAI_ORGANIZATION"
)

// ProviderType is the flavor of the OpenAI-compatible API.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "OPENAI"
	ProviderAzure      ProviderType = "AZURE"
	ProviderAzureAD    ProviderType = "AZURE_AD"
	ProviderPerplexity ProviderType = "PERPLEXITY"
)

// DefaultAPIVersion is used for Azure when none is configured.
const DefaultAPIVersion = "2023-05-15"

type options struct {
	token        string
	model        string
	baseURL      string
	organization string
	provider     ProviderType
	httpClient   openaiclient.Doer

	responseFormat *schema.ResponseFormat

	// required when the provider is Azure or AzureAD
	apiVersion string
}

// Option is a functional option for the OpenAI client.
type Option func(*options)

// WithToken passes the OpenAI API token to the client. If not set, the
// token is read from the OPENAI_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *options) {
		opts.token = token
	}
}

// WithModel passes the OpenAI model to the client. If not set, the model
// is read from the OPENAI_MODEL environment variable.
// Required when the provider is Azure.
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithBaseURL passes the OpenAI base url to the client. If not set, the
// base url is read from the OPENAI_BASE_URL environment variable, with
// https://api.openai.com/v1 as the final default.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithOrganization passes the OpenAI organization to the client. If not
// set, the organization is read from OPENAI_ORGANIZATION.
func WithOrganization(organization string) Option {
	return func(opts *options) {
		opts.organization = organization
	}
}

// WithProvider passes the API flavor to the client. The default is
// ProviderOpenAI.
func WithProvider(provider ProviderType) Option {
	return func(opts *options) {
		opts.provider = provider
	}
}

// WithAPIVersion passes the Azure api version to the client. If not
// set, the default value is DefaultAPIVersion.
func WithAPIVersion(apiVersion string) Option {
	return func(opts *options) {
		opts.apiVersion = apiVersion
	}
}

// WithHTTPClient allows setting a custom HTTP client.
func WithHTTPClient(client openaiclient.Doer) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

// WithResponseFormat allows setting a default response format.
func WithResponseFormat(responseFormat *schema.ResponseFormat) Option {
	return func(opts *options) {
		opts.responseFormat = responseFormat
	}
}

func newClient(opts ...Option) (*options, *openaiclient.Client, error) {
	o := &options{
		token:        os.Getenv(tokenEnvVarName),
		model:        os.Getenv(modelEnvVarName),
		baseURL:      os.Getenv(baseURLEnvVarName),
		organization: os.Getenv(organizationEnvVarName),
		provider:     ProviderOpenAI,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.token == "" {
		return o, nil, errors.Newf("missing the OpenAI API key, set it in the %s environment variable", tokenEnvVarName)
	}

	apiVersion := o.apiVersion
	if openaiclient.IsAzure(openaiclient.ProviderType(o.provider)) {
		apiVersion = values.StringsCoalesce(apiVersion, DefaultAPIVersion)
	}

	cli, err := openaiclient.New(openaiclient.ProviderType(o.provider), o.model, o.token, o.baseURL,
		o.organization, apiVersion, o.httpClient, o.responseFormat)
	return o, cli, err
}
