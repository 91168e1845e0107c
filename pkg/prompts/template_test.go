package prompts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/prompts"
)

func TestPromptTemplateJinja2(t *testing.T) {
	t.Parallel()

	tmpl := prompts.NewPromptTemplate(
		"Analyze {{ protocol }} with {{ amount }} ETH over {{ months }} months.",
		[]string{"protocol", "amount", "months"},
	)

	out, err := tmpl.Format(map[string]any{
		"protocol": "Lido",
		"amount":   10,
		"months":   12,
	})
	require.NoError(t, err)
	assert.Equal(t, "Analyze Lido with 10 ETH over 12 months.", out)

	_, err = tmpl.Format(map[string]any{"protocol": "Lido"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing input variable")
}

func TestPromptTemplateGoTemplate(t *testing.T) {
	t.Parallel()

	tmpl := prompts.PromptTemplate{
		Template:       "Hello {{ .name | upper }}!",
		InputVariables: []string{"name"},
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	}

	out, err := tmpl.Format(map[string]any{"name": "lido"})
	require.NoError(t, err)
	assert.Equal(t, "Hello LIDO!", out)
}

func TestPromptTemplatePartials(t *testing.T) {
	t.Parallel()

	tmpl := prompts.PromptTemplate{
		Template:         "{{ greeting }}, {{ name }}.",
		InputVariables:   []string{"name"},
		TemplateFormat:   prompts.TemplateFormatJinja2,
		PartialVariables: map[string]any{"greeting": "Welcome"},
	}

	pv, err := tmpl.FormatPrompt(map[string]any{"name": "trader"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome, trader.", pv.String())
	require.Len(t, pv.Messages(), 1)
	assert.Equal(t, llms.RoleHuman, pv.Messages()[0].Role)
}

func TestChatPromptTemplate(t *testing.T) {
	t.Parallel()

	template := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(
			"You are a DeFi investment advisor.",
			nil,
		),
		prompts.NewHumanMessagePromptTemplate(
			"I want to invest {{ amount }} ETH with {{ risk }} risk tolerance.",
			[]string{"amount", "risk"},
		),
	})

	value, err := template.FormatPrompt(map[string]any{
		"amount": 10,
		"risk":   "medium",
	})
	require.NoError(t, err)

	expected := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "You are a DeFi investment advisor."),
		llms.MessageFromTextParts(llms.RoleHuman, "I want to invest 10 ETH with medium risk tolerance."),
	}
	assert.Equal(t, expected, value.Messages())

	assert.ElementsMatch(t, []string{"amount", "risk"}, template.GetInputVariables())

	_, err = template.FormatPrompt(map[string]any{"amount": 10})
	require.Error(t, err)
}
