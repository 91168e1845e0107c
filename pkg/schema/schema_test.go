package schema_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhands-ai/agents-go/pkg/schema"
)

type protocolQuery struct {
	Protocol string  `json:"protocol" jsonschema:"description=Protocol name to look up."`
	Amount   float64 `json:"amount,omitempty" jsonschema:"description=Investment amount in ETH."`
}

func TestNew(t *testing.T) {
	t.Parallel()

	sc, err := schema.New(reflect.TypeOf(protocolQuery{}))
	require.NoError(t, err)
	require.NotNil(t, sc.Parameters)

	assert.Equal(t, "object", sc.Parameters.Type)
	assert.Equal(t, []string{"protocol"}, sc.Parameters.Required)

	pairs := schema.Properties(sc.Parameters)
	require.Len(t, pairs, 2)
	assert.Equal(t, "protocol", pairs[0].Key)
	assert.Equal(t, "amount", pairs[1].Key)
	assert.Equal(t, "Protocol name to look up.", pairs[0].Value.Description)

	// cached per type
	sc2, err := schema.New(reflect.TypeOf(&protocolQuery{}))
	require.NoError(t, err)
	assert.Same(t, sc, sc2)
}

func TestNewNotStruct(t *testing.T) {
	t.Parallel()

	_, err := schema.New(reflect.TypeOf("plain string"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected struct type")
}

func TestMustFromAny(t *testing.T) {
	t.Parallel()

	sc := schema.MustFromAny(protocolQuery{})
	assert.Contains(t, sc.String(), `"protocol"`)

	assert.Panics(t, func() {
		schema.MustFromAny(42)
	})
}

func TestNewResponseFormat(t *testing.T) {
	t.Parallel()

	rf, err := schema.NewResponseFormat(reflect.TypeOf(protocolQuery{}), true)
	require.NoError(t, err)

	assert.Equal(t, "json_schema", rf.Type)
	require.NotNil(t, rf.JSONSchema)
	assert.Equal(t, "protocolQuery", rf.JSONSchema.Name)
	assert.True(t, rf.JSONSchema.Strict)

	root := rf.JSONSchema.Schema
	require.NotNil(t, root)
	assert.Equal(t, "object", root.Type)
	require.NotNil(t, root.AdditionalProperties)
	assert.False(t, *root.AdditionalProperties)
	assert.Contains(t, root.Properties, "protocol")
	assert.Contains(t, root.Properties, "amount")
}
