// Package prompts renders prompt templates into strings or chat
// messages. Templates use Jinja-style syntax by default, with Go
// text/template as an alternative format.
package prompts

import (
	"strings"

	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/llmutils"
)

// FormatPrompter formats input values into a prompt value.
type FormatPrompter interface {
	FormatPrompt(values map[string]any) (llms.PromptValue, error)
	GetInputVariables() []string
}

// StringPromptValue is a prompt value that is a plain string.
type StringPromptValue string

var _ llms.PromptValue = StringPromptValue("")

func (v StringPromptValue) String() string { return string(v) }

// Messages returns the prompt as a single human message.
func (v StringPromptValue) Messages() []llms.Message {
	return []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, string(v)),
	}
}

// ChatPromptValue is a prompt value that is a list of chat messages.
type ChatPromptValue []llms.Message

var _ llms.PromptValue = ChatPromptValue{}

// String returns the chat message slice as a transcript string.
func (v ChatPromptValue) String() string {
	var buf strings.Builder
	llmutils.PrintMessages(&buf, v)
	return buf.String()
}

// Messages returns the chat message slice.
func (v ChatPromptValue) Messages() []llms.Message {
	return v
}
