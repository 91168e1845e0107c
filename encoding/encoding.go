// Package encoding provides schema-aware encoders that teach models
// the expected response format and decode their replies.
package encoding

import (
	"github.com/cockroachdb/errors"

	dummyenc "github.com/openhands-ai/agents-go/encoding/dummy"
	jsonenc "github.com/openhands-ai/agents-go/encoding/json"
	tomlenc "github.com/openhands-ai/agents-go/encoding/toml"
	yamlenc "github.com/openhands-ai/agents-go/encoding/yaml"
)

// SchemaEncoder marshals values and produces format instructions for
// the prompt.
type SchemaEncoder interface {
	Marshal(req any) ([]byte, error)
	Unmarshal([]byte, any) error
	// GetFormatInstructions returns the schema hint for the prompt.
	GetFormatInstructions() string
}

// Validator validates a decoded value against its struct tags.
type Validator interface {
	Validate(any) error
}

// Mode selects the response encoding.
type Mode = string

const (
	ModeJSON             Mode = "json"
	ModeJSONSchema       Mode = "json_schema"
	ModeJSONSchemaStrict Mode = "json_schema_strict" // not all providers support this; all props must be required
	ModeYAML             Mode = "yaml"
	ModeTOML             Mode = "toml"
	ModePlainText        Mode = "plain_text"
	ModeCustom           Mode = "custom"
)

// ModeDefault is the default mode for the encoder.
// Apps may override.
var ModeDefault = ModeJSONSchema

// PredefinedSchemaEncoder returns the encoder for the mode.
func PredefinedSchemaEncoder(mode Mode, req any) (SchemaEncoder, error) {
	var (
		enc SchemaEncoder
		err error
	)
	switch mode {
	case ModeJSON, ModeJSONSchema, ModeJSONSchemaStrict:
		enc, err = jsonenc.NewEncoder(req)
	case ModeYAML:
		enc = yamlenc.NewEncoder(req)
	case ModeTOML:
		enc = tomlenc.NewEncoder(req)
	case ModePlainText:
		enc = dummyenc.NewEncoder()
	default:
		return nil, errors.New("no predefined encoder")
	}
	return enc, err
}

var (
	_ SchemaEncoder = (*dummyenc.Encoder)(nil)
	_ SchemaEncoder = (*jsonenc.Encoder)(nil)
	_ SchemaEncoder = (*tomlenc.Encoder)(nil)
	_ SchemaEncoder = (*yamlenc.Encoder)(nil)
)
