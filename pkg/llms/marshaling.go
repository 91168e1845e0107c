package llms

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Messages are persisted by chat stores, so the ContentPart union needs a
// stable wire form with an explicit "type" discriminator.

type wireMessage struct {
	Role  Role       `json:"role"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Type string `json:"type"`

	Text         string        `json:"text,omitempty"`
	ID           string        `json:"id,omitempty"`
	FunctionCall *FunctionCall `json:"function,omitempty"`
	ToolCallID   string        `json:"tool_call_id,omitempty"`
	Name         string        `json:"name,omitempty"`
	Content      string        `json:"content,omitempty"`
}

const (
	wireTypeText         = "text"
	wireTypeToolCall     = "tool_call"
	wireTypeToolResponse = "tool_response"
)

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	wm := wireMessage{Role: m.Role}
	for _, part := range m.Parts {
		switch p := part.(type) {
		case TextContent:
			wm.Parts = append(wm.Parts, wirePart{
				Type: wireTypeText,
				Text: p.Text,
			})
		case ToolCall:
			wm.Parts = append(wm.Parts, wirePart{
				Type:         wireTypeToolCall,
				ID:           p.ID,
				FunctionCall: p.FunctionCall,
			})
		case ToolCallResponse:
			wm.Parts = append(wm.Parts, wirePart{
				Type:       wireTypeToolResponse,
				ToolCallID: p.ToolCallID,
				Name:       p.Name,
				Content:    p.Content,
			})
		default:
			return nil, errors.Newf("unsupported content part: %T", part)
		}
	}
	return json.Marshal(wm)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wm wireMessage
	if err := json.Unmarshal(data, &wm); err != nil {
		return errors.WithStack(err)
	}

	m.Role = wm.Role
	m.Parts = nil
	for _, part := range wm.Parts {
		switch part.Type {
		case wireTypeText:
			m.Parts = append(m.Parts, TextContent{Text: part.Text})
		case wireTypeToolCall:
			m.Parts = append(m.Parts, ToolCall{
				ID:           part.ID,
				Type:         "function",
				FunctionCall: part.FunctionCall,
			})
		case wireTypeToolResponse:
			m.Parts = append(m.Parts, ToolCallResponse{
				ToolCallID: part.ToolCallID,
				Name:       part.Name,
				Content:    part.Content,
			})
		default:
			return errors.Newf("unsupported content part: %q", part.Type)
		}
	}
	return nil
}
