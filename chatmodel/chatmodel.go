// Package chatmodel carries per-conversation identity and the typed
// output contracts shared by agents, tools and chat stores.
package chatmodel

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// ErrFailedUnmarshalInput is returned when model output cannot be
// decoded into the expected schema. Agents feed it back to the model
// for a retry.
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

// ContentProvider exposes the chat history content of a value.
type ContentProvider interface {
	GetContent() string
}

// InputParser lets a tool input type take over decoding of the raw
// model-provided arguments.
type InputParser interface {
	ParseInput(input string) error
}

// OutputParser decodes the text of an LLM response into T.
type OutputParser[T any] interface {
	// Parse parses the output of an LLM call. Implementations return
	// ErrFailedUnmarshalInput when the text does not match the schema.
	Parse(text string) (*T, error)
	// GetFormatInstructions describes the expected output format.
	GetFormatInstructions() string
	// Type uniquely identifies this class of parser.
	Type() string
}

// Stringify renders a value for chat history or logs.
func Stringify(s any) string {
	if v, ok := s.(interface{ String() string }); ok {
		return v.String()
	}
	if v, ok := s.(ContentProvider); ok {
		return v.GetContent()
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ToBytes renders a value as bytes for encoding or hashing.
func ToBytes(s any) []byte {
	if v, ok := s.(interface{ String() string }); ok {
		return []byte(v.String())
	}
	if v, ok := s.(ContentProvider); ok {
		return []byte(v.GetContent())
	}
	bs, _ := json.Marshal(s)
	return bs
}

// FewShotExample is a prompt/completion pair appended to the system
// prompt to steer the model.
type FewShotExample struct {
	Prompt     string
	Completion string
}

// FewShotExamples is a list of few-shot examples.
type FewShotExamples []FewShotExample
