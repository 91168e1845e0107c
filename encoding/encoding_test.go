package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhands-ai/agents-go/encoding"
)

type yieldReport struct {
	Protocol string  `json:"protocol" yaml:"protocol" toml:"protocol" validate:"required"`
	APY      float64 `json:"apy" yaml:"apy" toml:"apy"`
	Risk     string  `json:"risk,omitempty" yaml:"risk,omitempty" toml:"risk,omitempty"`
}

func TestTypedOutputParserJSON(t *testing.T) {
	t.Parallel()

	parser, err := encoding.NewTypedOutputParser(yieldReport{}, encoding.ModeJSON)
	require.NoError(t, err)

	instr := parser.GetFormatInstructions()
	assert.Contains(t, instr, "Respond with JSON")
	assert.Contains(t, instr, `"protocol"`)

	// models often wrap JSON in fences and prose
	got, err := parser.Parse("Here you go:\n```json\n{\"protocol\":\"Lido\",\"apy\":0.038}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Lido", got.Protocol)
	assert.InDelta(t, 0.038, got.APY, 1e-9)
}

func TestTypedOutputParserValidation(t *testing.T) {
	t.Parallel()

	parser, err := encoding.NewTypedOutputParser(yieldReport{}, encoding.ModeJSONSchema)
	require.NoError(t, err)
	parser.WithValidation(true)

	_, err = parser.Parse(`{"apy":0.038}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to validate")
}

func TestTypedOutputParserYAMLAndTOML(t *testing.T) {
	t.Parallel()

	yp, err := encoding.NewTypedOutputParser(yieldReport{}, encoding.ModeYAML)
	require.NoError(t, err)
	assert.Contains(t, yp.GetFormatInstructions(), "Respond with YAML")

	got, err := yp.Parse("```yaml\nprotocol: Aave V3\napy: 0.025\n```")
	require.NoError(t, err)
	assert.Equal(t, "Aave V3", got.Protocol)

	tp, err := encoding.NewTypedOutputParser(yieldReport{}, encoding.ModeTOML)
	require.NoError(t, err)
	assert.Contains(t, tp.GetFormatInstructions(), "Respond with TOML")

	got, err = tp.Parse("protocol = \"Curve\"\napy = 0.021\n")
	require.NoError(t, err)
	assert.Equal(t, "Curve", got.Protocol)
}

func TestSimpleOutputParser(t *testing.T) {
	t.Parallel()

	parser := encoding.NewSimpleOutputParser()
	got, err := parser.Parse("  plain answer \n")
	require.NoError(t, err)
	assert.Equal(t, "plain answer", got.String())
	assert.Empty(t, parser.GetFormatInstructions())
}

func TestPredefinedSchemaEncoderUnknown(t *testing.T) {
	t.Parallel()

	_, err := encoding.PredefinedSchemaEncoder(encoding.ModeCustom, yieldReport{})
	require.Error(t, err)
}
