// Package store persists chat message history. The tenant and chat IDs
// are taken from the chat context attached to ctx.
package store

import (
	"context"
	"time"

	"github.com/effective-security/xlog"

	"github.com/openhands-ai/agents-go/pkg/llms"
)

var logger = xlog.NewPackageLogger("github.com/openhands-ai/agents-go", "store")

// MessageStore stores the conversation history of a chat.
type MessageStore interface {
	// Messages returns the stored messages of the chat in ctx.
	Messages(ctx context.Context) []llms.Message
	// Add appends messages to the chat in ctx.
	Add(ctx context.Context, msgs ...llms.Message) error
	// Reset removes the chat history.
	Reset(ctx context.Context) error
}

// ChatInfo is the metadata of a stored chat.
type ChatInfo struct {
	TenantID  string         `json:"tenant_id"`
	ChatID    string         `json:"chat_id"`
	Title     string         `json:"title"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Messages  []llms.Message `json:"messages,omitempty"`
}

// MessageStoreManager manages chats across tenants.
type MessageStoreManager interface {
	MessageStore

	UpdateChat(ctx context.Context, title string, metadata map[string]any) error
	GetChatInfo(ctx context.Context, id string) (*ChatInfo, error)
	GetChatTitle(ctx context.Context, id string) (string, error)
	ListChats(ctx context.Context) ([]string, error)
	ListTenants(ctx context.Context) ([]string, error)
	Cleanup(ctx context.Context, tenantID string, olderThan time.Duration) (uint32, error)
}
