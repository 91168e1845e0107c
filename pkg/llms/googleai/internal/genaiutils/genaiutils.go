// Package genaiutils converts tool and schema definitions to the genai
// SDK types.
package genaiutils

import (
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	"google.golang.org/genai"

	"github.com/openhands-ai/agents-go/pkg/llms"
	"github.com/openhands-ai/agents-go/pkg/schema"
)

// ConvertTools converts tool definitions to genai tools.
func ConvertTools(tools []llms.Tool) ([]*genai.Tool, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	genaiTools := make([]*genai.Tool, 0, len(tools))
	for i, tool := range tools {
		if tool.Type != "function" {
			return nil, errors.Errorf("tool [%d]: unsupported type %q, want 'function'", i, tool.Type)
		}

		genaiFuncDecl := &genai.FunctionDeclaration{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
		}

		if tool.Function.Parameters != nil {
			sc, ok := tool.Function.Parameters.(*jsonschema.Schema)
			if !ok {
				return nil, errors.Errorf("tool [%d]: unsupported parameters type %T", i, tool.Function.Parameters)
			}
			converted, err := ConvertJSONSchemaDefinition(sc)
			if err != nil {
				return nil, errors.Wrapf(err, "tool [%d]", i)
			}
			genaiFuncDecl.Parameters = converted
		}

		genaiTools = append(genaiTools, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{genaiFuncDecl},
		})
	}

	return genaiTools, nil
}

// ConvertResponseFormatJSONSchema converts a json_schema response format
// to a genai.Schema.
func ConvertResponseFormatJSONSchema(jschema *schema.ResponseFormatJSONSchema) (*genai.Schema, error) {
	if jschema == nil || jschema.Schema == nil {
		return nil, nil
	}

	var convert func(p *schema.ResponseFormatJSONSchemaProperty) *genai.Schema
	convert = func(p *schema.ResponseFormatJSONSchemaProperty) *genai.Schema {
		if p == nil {
			return nil
		}

		out := &genai.Schema{
			Type:        ConvertJSONSchemaType(p.Type),
			Description: p.Description,
			Required:    p.Required,
		}
		if len(p.Properties) > 0 {
			out.Properties = make(map[string]*genai.Schema, len(p.Properties))
			for k, v := range p.Properties {
				out.Properties[k] = convert(v)
			}
		}
		if p.Items != nil {
			out.Items = convert(p.Items)
		}
		return out
	}

	return convert(jschema.Schema), nil
}

// ConvertJSONSchemaDefinition converts a jsonschema.Schema to a genai.Schema.
func ConvertJSONSchemaDefinition(jschema *jsonschema.Schema) (*genai.Schema, error) {
	if jschema == nil {
		return nil, nil
	}

	out := &genai.Schema{
		Type:        ConvertJSONSchemaType(jschema.Type),
		Description: jschema.Description,
		Required:    jschema.Required,
	}

	if jschema.Properties != nil {
		out.Properties = make(map[string]*genai.Schema)
		for pair := jschema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			propSchema, err := ConvertJSONSchemaDefinition(pair.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "property [%s]", pair.Key)
			}
			out.Properties[pair.Key] = propSchema
		}
	}

	if jschema.Items != nil {
		itemsSchema, err := ConvertJSONSchemaDefinition(jschema.Items)
		if err != nil {
			return nil, errors.Wrap(err, "items")
		}
		out.Items = itemsSchema
	}

	return out, nil
}

// ConvertJSONSchemaType converts a JSON schema type name to a genai enum.
func ConvertJSONSchemaType(dt string) genai.Type {
	switch dt {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

func Float32Ptr(f float32) *float32 {
	if f == 0 {
		return nil
	}
	return &f
}

func Int32Ptr(i int32) *int32 {
	if i == 0 {
		return nil
	}
	return &i
}
