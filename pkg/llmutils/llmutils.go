// Package llmutils has helpers for cleaning up and presenting LLM
// payloads: stripping markdown fences from model output, redacting
// secrets before logging, and pretty-printing chat transcripts.
package llmutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/effective-security/x/values"
	"github.com/tidwall/sjson"
	sigyaml "sigs.k8s.io/yaml"

	"github.com/openhands-ai/agents-go/pkg/llms"
)

// CleanJSON trims everything before the first '{' or '[' and after the
// last '}' or ']'. Models routinely wrap JSON in prose or code fences.
func CleanJSON(bs []byte) []byte {
	start := bytes.IndexAny(bs, "{[")
	if start < 0 {
		return bs
	}
	end := bytes.LastIndexAny(bs, "}]")
	if end < start {
		return bs
	}
	return bs[start : end+1]
}

// TrimBackticks removes a leading ```lang fence and trailing ``` fence.
func TrimBackticks(s string) string {
	return string(BytesTrimBackticks([]byte(s)))
}

// BytesTrimBackticks is TrimBackticks for byte slices.
func BytesTrimBackticks(bs []byte) []byte {
	bs = bytes.TrimSpace(bs)
	if !bytes.HasPrefix(bs, []byte("```")) {
		return bs
	}
	if idx := bytes.IndexByte(bs, '\n'); idx >= 0 {
		bs = bs[idx+1:]
	}
	bs = bytes.TrimSuffix(bytes.TrimSpace(bs), []byte("```"))
	return bytes.TrimSpace(bs)
}

// ToJSON returns the compact JSON encoding of v, or an error string.
func ToJSON(v any) string {
	bs, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("marshal error: %v", err)
	}
	return string(bs)
}

// ToJSONIndent returns the indented JSON encoding of v.
func ToJSONIndent(v any) string {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("marshal error: %v", err)
	}
	return string(bs)
}

// ToYAML re-encodes a value as YAML, honoring JSON struct tags.
func ToYAML(v any) string {
	bs, err := sigyaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("marshal error: %v", err)
	}
	return string(bs)
}

// Redact blanks the named fields in a JSON document before logging.
func Redact(doc []byte, fields ...string) []byte {
	for _, field := range fields {
		if updated, err := sjson.SetBytes(doc, field, "***"); err == nil {
			doc = updated
		}
	}
	return doc
}

// PrintMessages writes a readable transcript of the messages.
func PrintMessages(w io.Writer, messages []llms.Message) {
	for _, msg := range messages {
		fmt.Fprintf(w, "%s:\n", strings.ToUpper(string(msg.Role)))
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case llms.TextContent:
				fmt.Fprintf(w, "%s\n", p.Text)
			case llms.ToolCall:
				if p.FunctionCall != nil {
					fmt.Fprintf(w, "Tool Call: %s => %s [%s]\n", p.FunctionCall.Name, p.FunctionCall.Arguments, p.ID)
				}
			case llms.ToolCallResponse:
				fmt.Fprintf(w, "Tool Response: %s => %s [%s]\n", p.Name, p.Content, p.ToolCallID)
			}
		}
	}
}

// FindLastUserQuestion returns the text of the most recent human message.
func FindLastUserQuestion(messages []llms.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llms.RoleHuman {
			return messages[i].GetContent()
		}
	}
	return ""
}

// MergeInputs combines default prompt inputs with per-call values.
// The per-call values win.
func MergeInputs(defaults map[string]any, overrides map[string]any) map[string]any {
	res := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		res[k] = v
	}
	for k, v := range overrides {
		res[k] = v
	}
	return res
}

// CountMessagesContentSize sums the content sizes of the messages.
func CountMessagesContentSize(messages []llms.Message) int {
	var total int
	for i := range messages {
		for _, part := range messages[i].Parts {
			switch p := part.(type) {
			case llms.TextContent:
				total += len(p.Text)
			case llms.ToolCall:
				if p.FunctionCall != nil {
					total += len(p.FunctionCall.Arguments)
				}
			case llms.ToolCallResponse:
				total += len(p.Content)
			}
		}
	}
	return total
}

// CountResponseContentSize sums the content sizes of the response choices.
func CountResponseContentSize(resp *llms.ContentResponse) int {
	var total int
	for _, choice := range resp.Choices {
		total += len(choice.Content)
		total += len(choice.ReasoningContent)
		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall != nil {
				total += len(tc.FunctionCall.Name)
				total += len(tc.FunctionCall.Arguments)
			}
		}
	}
	return total
}

// CountTokens sums the token usage reported in the response metadata.
func CountTokens(resp *llms.ContentResponse) (in, out int64) {
	for _, choice := range resp.Choices {
		ma := values.MapAny(choice.GenerationInfo)
		in += ma.Int64("InputTokens")
		out += ma.Int64("OutputTokens")
	}
	return
}
