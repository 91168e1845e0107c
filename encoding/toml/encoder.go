// Package toml encodes structured agent output as TOML, using a faked
// example instance as the format hint.
package toml

import (
	"bytes"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-playground/validator/v10"

	"github.com/openhands-ai/agents-go/pkg/llmutils"
	"github.com/openhands-ai/agents-go/pkg/schema"
)

type Encoder struct {
	reqType reflect.Type
}

func NewEncoder(req any) *Encoder {
	return &Encoder{
		reqType: reflect.TypeOf(req),
	}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.BytesTrimBackticks(bs)
	return toml.Unmarshal(data, ret)
}

func (e *Encoder) Validate(req any) error {
	validate := validator.New()
	return validate.Struct(req)
}

func (e *Encoder) GetFormatInstructions() string {
	tValue := reflect.New(e.reqType)
	instance := tValue.Interface()
	if f, ok := tValue.Elem().Interface().(schema.Faker); ok {
		instance = f.Fake()
	} else {
		_ = gofakeit.Struct(instance)
	}
	bs, err := e.Marshal(instance)
	if err != nil {
		return ""
	}
	var b bytes.Buffer
	b.WriteString("\nRespond with TOML in the following TOML schema without comments:\n")
	b.WriteString("```toml\n")
	b.Write(bs)
	b.WriteString("```")
	b.WriteString("\nMake sure to return an instance of the TOML, not the schema itself.\n")
	return b.String()
}
