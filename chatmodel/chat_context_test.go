package chatmodel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhands-ai/agents-go/chatmodel"
)

func TestChatContext(t *testing.T) {
	t.Parallel()

	chatCtx := chatmodel.NewChatContext("t1", "", map[string]string{"plan": "pro"})
	assert.Equal(t, "t1", chatCtx.GetTenantID())
	assert.NotEmpty(t, chatCtx.GetChatID())

	chatCtx.SetMetadata("region", "eu")
	v, ok := chatCtx.GetMetadata("region")
	require.True(t, ok)
	assert.Equal(t, "eu", v)

	_, ok = chatCtx.GetMetadata("missing")
	assert.False(t, ok)

	ctx := chatmodel.WithChatContext(context.Background(), chatCtx)
	assert.Equal(t, chatCtx.GetChatID(), chatmodel.GetChatID(ctx))

	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", tenantID)
	assert.Equal(t, chatCtx.GetChatID(), chatID)

	_, _, err = chatmodel.GetTenantAndChatID(context.Background())
	assert.EqualError(t, err, "invalid chat context")

	assert.Nil(t, chatmodel.GetChatContext(context.Background()))
	assert.Empty(t, chatmodel.GetChatID(context.Background()))
}

func TestNewChatIDUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for range 100 {
		id := chatmodel.NewChatID()
		require.False(t, seen[id], "duplicate chat ID %s", id)
		seen[id] = true
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", chatmodel.Stringify(chatmodel.NewString("hello")))
	assert.Equal(t, `{"a":1}`, chatmodel.Stringify(map[string]int{"a": 1}))
	assert.Equal(t, []byte("hello"), chatmodel.ToBytes(chatmodel.NewString("hello")))

	var s chatmodel.String
	require.NoError(t, s.Unmarshal([]byte(`"quoted"`)))
	assert.Equal(t, "quoted", s.String())
}
