package chatmodel

import "strings"

// String is a plain-text agent output that satisfies ContentProvider.
type String struct {
	value string
}

func NewString(str string) *String {
	return &String{value: str}
}

// GetContent returns the content for the chat history.
func (s String) GetContent() string { return s.value }

func (s String) String() string { return s.value }

func (s String) Bytes() []byte { return []byte(s.value) }

// Unmarshal accepts raw model output, trimming optional quotes.
func (s *String) Unmarshal(bs []byte) error {
	*s = String{value: strings.Trim(string(bs), "\"")}
	return nil
}
