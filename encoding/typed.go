package encoding

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/openhands-ai/agents-go/chatmodel"
)

// TypedOutputParser parses model output into a Go struct of type T,
// using the schema encoder matching the configured mode.
type TypedOutputParser[T any] struct {
	enc      SchemaEncoder
	name     string
	validate bool
}

var _ chatmodel.OutputParser[any] = (*TypedOutputParser[any])(nil)

// NewTypedOutputParser creates an output parser for the source type.
// Field names follow "json" tags; "jsonschema" tags add descriptions
// that help the model populate fields correctly.
func NewTypedOutputParser[T any](sourceType T, mode Mode) (*TypedOutputParser[T], error) {
	enc, err := PredefinedSchemaEncoder(mode, sourceType)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create encoder")
	}

	return &TypedOutputParser[T]{
		enc:  enc,
		name: fmt.Sprintf("%T parser", sourceType),
	}, nil
}

// WithValidation enables struct tag validation of parsed values.
func (p *TypedOutputParser[T]) WithValidation(validate bool) {
	p.validate = validate
}

// Parse parses the output of an LLM call.
func (p *TypedOutputParser[T]) Parse(text string) (*T, error) {
	var target T
	if err := p.enc.Unmarshal([]byte(text), &target); err != nil {
		return nil, errors.Wrap(err, "failed to decode")
	}
	if validator, ok := p.enc.(Validator); ok && p.validate {
		if err := validator.Validate(target); err != nil {
			return nil, errors.Wrap(err, "failed to validate")
		}
	}
	return &target, nil
}

// GetFormatInstructions returns a string describing the output format.
func (p *TypedOutputParser[T]) GetFormatInstructions() string {
	return p.enc.GetFormatInstructions()
}

// Type returns the key identifying this class of parser.
func (p *TypedOutputParser[T]) Type() string {
	return p.name
}
