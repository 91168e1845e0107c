// Package dummy is a pass-through encoder for plain text output.
package dummy

import (
	"encoding/json"
)

type Stringer interface {
	String() string
}

type Unmarshaler interface {
	Unmarshal(bs []byte) error
}

type Encoder struct{}

func NewEncoder() *Encoder {
	return new(Encoder)
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	if s, ok := v.(Stringer); ok {
		return []byte(s.String()), nil
	}
	if s, ok := v.(string); ok {
		return []byte(s), nil
	}
	return json.Marshal(v)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	if u, ok := ret.(Unmarshaler); ok {
		return u.Unmarshal(bs)
	}
	if s, ok := ret.(*string); ok {
		*s = string(bs)
		return nil
	}
	return json.Unmarshal(bs, ret)
}

func (e *Encoder) GetFormatInstructions() string {
	return ""
}
