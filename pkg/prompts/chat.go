package prompts

import (
	"github.com/openhands-ai/agents-go/pkg/llms"
)

// MessageFormatter formats input values into one or more chat messages.
type MessageFormatter interface {
	FormatMessages(values map[string]any) ([]llms.Message, error)
	GetInputVariables() []string
}

// MessagePromptTemplate renders a template into a single chat message
// with a fixed role.
type MessagePromptTemplate struct {
	Role   llms.Role
	Prompt PromptTemplate
}

var _ MessageFormatter = MessagePromptTemplate{}

// NewSystemMessagePromptTemplate returns a system message template.
func NewSystemMessagePromptTemplate(tmpl string, inputVars []string) MessagePromptTemplate {
	return MessagePromptTemplate{
		Role:   llms.RoleSystem,
		Prompt: NewPromptTemplate(tmpl, inputVars),
	}
}

// NewHumanMessagePromptTemplate returns a human message template.
func NewHumanMessagePromptTemplate(tmpl string, inputVars []string) MessagePromptTemplate {
	return MessagePromptTemplate{
		Role:   llms.RoleHuman,
		Prompt: NewPromptTemplate(tmpl, inputVars),
	}
}

// NewAIMessagePromptTemplate returns an AI message template.
func NewAIMessagePromptTemplate(tmpl string, inputVars []string) MessagePromptTemplate {
	return MessagePromptTemplate{
		Role:   llms.RoleAI,
		Prompt: NewPromptTemplate(tmpl, inputVars),
	}
}

// FormatMessages implements MessageFormatter.
func (p MessagePromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	formatted, err := p.Prompt.Format(values)
	if err != nil {
		return nil, err
	}
	return []llms.Message{
		llms.MessageFromTextParts(p.Role, formatted),
	}, nil
}

// GetInputVariables implements MessageFormatter.
func (p MessagePromptTemplate) GetInputVariables() []string {
	return p.Prompt.InputVariables
}

// ChatPromptTemplate renders a sequence of message templates.
type ChatPromptTemplate struct {
	Messages []MessageFormatter
}

var (
	_ FormatPrompter   = ChatPromptTemplate{}
	_ MessageFormatter = ChatPromptTemplate{}
)

// NewChatPromptTemplate creates a chat prompt template from message
// formatters.
func NewChatPromptTemplate(messages []MessageFormatter) ChatPromptTemplate {
	return ChatPromptTemplate{Messages: messages}
}

// FormatMessages implements MessageFormatter.
func (p ChatPromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	var out []llms.Message
	for _, m := range p.Messages {
		msgs, err := m.FormatMessages(values)
		if err != nil {
			return nil, err
		}
		out = append(out, msgs...)
	}
	return out, nil
}

// FormatPrompt implements FormatPrompter.
func (p ChatPromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	msgs, err := p.FormatMessages(values)
	if err != nil {
		return nil, err
	}
	return ChatPromptValue(msgs), nil
}

// GetInputVariables implements FormatPrompter.
func (p ChatPromptTemplate) GetInputVariables() []string {
	var vars []string
	seen := map[string]bool{}
	for _, m := range p.Messages {
		for _, v := range m.GetInputVariables() {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	return vars
}
