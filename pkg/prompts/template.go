package prompts

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/nikolalohinski/gonja"

	"github.com/openhands-ai/agents-go/pkg/llms"
)

// TemplateFormat selects the template syntax.
type TemplateFormat string

const (
	// TemplateFormatJinja2 uses Jinja-style templates, e.g. {{ name }}.
	TemplateFormatJinja2 TemplateFormat = "jinja2"
	// TemplateFormatGoTemplate uses Go text/template with sprig
	// functions, e.g. {{.name}}.
	TemplateFormatGoTemplate TemplateFormat = "go-template"
)

// PromptTemplate renders a single-string template into a prompt.
type PromptTemplate struct {
	// Template is the template text.
	Template string
	// InputVariables must all be present in the values at format time.
	InputVariables []string
	// TemplateFormat is the syntax of Template; Jinja2 when empty.
	TemplateFormat TemplateFormat
	// PartialVariables are values bound at construction time.
	PartialVariables map[string]any
}

var (
	_ FormatPrompter = PromptTemplate{}
)

// NewPromptTemplate returns a Jinja2 prompt template.
func NewPromptTemplate(tmpl string, inputVars []string) PromptTemplate {
	return PromptTemplate{
		Template:       tmpl,
		InputVariables: inputVars,
		TemplateFormat: TemplateFormatJinja2,
	}
}

// Format renders the template with the given values.
func (p PromptTemplate) Format(values map[string]any) (string, error) {
	merged := make(map[string]any, len(p.PartialVariables)+len(values))
	for k, v := range p.PartialVariables {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	for _, name := range p.InputVariables {
		if _, ok := merged[name]; !ok {
			return "", errors.Newf("prompts: missing input variable: %q", name)
		}
	}
	return renderTemplate(p.TemplateFormat, p.Template, merged)
}

// FormatPrompt implements FormatPrompter.
func (p PromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	formatted, err := p.Format(values)
	if err != nil {
		return nil, err
	}
	return StringPromptValue(formatted), nil
}

// GetInputVariables implements FormatPrompter.
func (p PromptTemplate) GetInputVariables() []string {
	return p.InputVariables
}

func renderTemplate(format TemplateFormat, tmpl string, values map[string]any) (string, error) {
	switch format {
	case TemplateFormatGoTemplate:
		parsed, err := template.New("prompt").
			Funcs(sprig.TxtFuncMap()).
			Option("missingkey=error").
			Parse(tmpl)
		if err != nil {
			return "", errors.WithStack(err)
		}
		var sb strings.Builder
		if err := parsed.Execute(&sb, values); err != nil {
			return "", errors.WithStack(err)
		}
		return sb.String(), nil
	case TemplateFormatJinja2, "":
		parsed, err := gonja.FromString(tmpl)
		if err != nil {
			return "", errors.WithStack(err)
		}
		out, err := parsed.Execute(gonja.Context(values))
		if err != nil {
			return "", errors.WithStack(err)
		}
		return out, nil
	default:
		return "", errors.Newf("prompts: unsupported template format: %q", format)
	}
}
