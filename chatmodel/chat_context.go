package chatmodel

import (
	"context"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

// ChatContext identifies a conversation and carries request-scoped
// metadata across agents, tools and stores.
type ChatContext interface {
	GetTenantID() string
	GetChatID() string
	// AppData returns immutable application data bound at creation.
	AppData() any
	// GetMetadata retrieves metadata by key.
	GetMetadata(key string) (value any, ok bool)
	// SetMetadata sets metadata by key.
	SetMetadata(key string, value any)
}

type chatContext struct {
	tenantID string
	chatID   string
	metadata sync.Map
	appData  any
}

func (c *chatContext) GetTenantID() string { return c.tenantID }
func (c *chatContext) GetChatID() string   { return c.chatID }
func (c *chatContext) AppData() any        { return c.appData }

func (c *chatContext) GetMetadata(key string) (value any, ok bool) {
	return c.metadata.Load(key)
}

func (c *chatContext) SetMetadata(key string, value any) {
	c.metadata.Store(key, value)
}

// NewChatContext creates a ChatContext, generating a chat ID when one
// is not provided.
func NewChatContext(tenantID, chatID string, appData any) ChatContext {
	return &chatContext{
		tenantID: tenantID,
		chatID:   values.StringsCoalesce(chatID, NewChatID()),
		appData:  appData,
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithChatContext returns a new context with the ChatContext attached.
func WithChatContext(ctx context.Context, chatCtx ChatContext) context.Context {
	return context.WithValue(ctx, keyContext, chatCtx)
}

// GetChatContext retrieves the ChatContext from the context, or nil.
func GetChatContext(ctx context.Context) ChatContext {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v
	}
	return nil
}

// GetChatID returns the chat ID from the context, or empty.
func GetChatID(ctx context.Context) string {
	if v := GetChatContext(ctx); v != nil {
		return v.GetChatID()
	}
	return ""
}

// GetTenantAndChatID returns both IDs, or an error when the context
// does not carry a chat.
func GetTenantAndChatID(ctx context.Context) (tenantID string, chatID string, err error) {
	v := GetChatContext(ctx)
	if v == nil || v.GetChatID() == "" {
		return "", "", errors.New("invalid chat context")
	}
	return v.GetTenantID(), v.GetChatID(), nil
}

// NewChatID generates a new chat ID using the flake ID generator.
func NewChatID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
