package llms

import (
	"strings"
)

// Role is the originator of a chat message.
type Role string

const (
	// RoleSystem is a message set by the application, typically the system prompt.
	RoleSystem Role = "system"
	// RoleHuman is a message sent by a user.
	RoleHuman Role = "human"
	// RoleAI is a message produced by the model.
	RoleAI Role = "ai"
	// RoleTool is a message carrying tool call results back to the model.
	RoleTool Role = "tool"
)

// ContentPart is a piece of a message's content.
type ContentPart interface {
	isPart()
}

// TextContent is plain text.
type TextContent struct {
	Text string `json:"text"`
}

func (TextContent) isPart() {}

func (tc TextContent) String() string { return tc.Text }

// FunctionCall is a request by the model to invoke a named function with
// JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is a model-issued call to a registered tool.
type ToolCall struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	FunctionCall *FunctionCall `json:"function,omitempty"`
}

func (ToolCall) isPart() {}

func (tc ToolCall) String() string {
	if tc.FunctionCall == nil {
		return tc.ID
	}
	return tc.FunctionCall.Name + "(" + tc.FunctionCall.Arguments + ") [" + tc.ID + "]"
}

// ToolCallResponse carries the tool's output back to the model.
type ToolCallResponse struct {
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
}

func (ToolCallResponse) isPart() {}

func (tr ToolCallResponse) String() string {
	return tr.Name + " => " + tr.Content + " [" + tr.ToolCallID + "]"
}

// Message is a single chat message with one or more content parts.
type Message struct {
	Role  Role          `json:"role"`
	Parts []ContentPart `json:"parts"`
}

// MessageFromTextParts returns a Message whose parts are the given texts.
func MessageFromTextParts(role Role, parts ...string) Message {
	msg := Message{Role: role}
	for _, p := range parts {
		msg.Parts = append(msg.Parts, TextContent{Text: p})
	}
	return msg
}

// MessageFromToolCalls returns an AI Message carrying tool calls.
func MessageFromToolCalls(role Role, toolCalls ...ToolCall) Message {
	msg := Message{Role: role}
	for _, tc := range toolCalls {
		msg.Parts = append(msg.Parts, tc)
	}
	return msg
}

// MessageFromToolResponse returns a tool Message with a single call response.
func MessageFromToolResponse(role Role, response ToolCallResponse) Message {
	return Message{
		Role:  role,
		Parts: []ContentPart{response},
	}
}

// GetContent concatenates all text parts of the message.
func (m *Message) GetContent() string {
	var sb strings.Builder
	for _, part := range m.Parts {
		if tc, ok := part.(TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

// ToolCalls returns the tool call parts of the message, if any.
func (m *Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, part := range m.Parts {
		if tc, ok := part.(ToolCall); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// ContentChoice is one of the response choices returned by the model.
type ContentChoice struct {
	// Content is the text content of the choice.
	Content string
	// StopReason is why the model stopped generating.
	StopReason string
	// GenerationInfo carries provider-specific metadata, such as token usage.
	GenerationInfo map[string]any
	// ToolCalls are the tool invocations requested by the model.
	ToolCalls []ToolCall
	// ReasoningContent is the model's reasoning trace, when exposed.
	ReasoningContent string
}

// ContentResponse is the response returned by GenerateContent.
type ContentResponse struct {
	Choices []*ContentChoice
}
