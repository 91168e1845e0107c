package bedrock

import (
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type options struct {
	modelID string
	client  *bedrockruntime.Client
}

// Option is a functional option for the Bedrock client.
type Option func(*options)

// WithModel sets the Bedrock model ID to invoke.
func WithModel(modelID string) Option {
	return func(o *options) {
		o.modelID = modelID
	}
}

// WithClient supplies a preconfigured Bedrock runtime client, bypassing the
// default AWS configuration chain.
func WithClient(client *bedrockruntime.Client) Option {
	return func(o *options) {
		o.client = client
	}
}
