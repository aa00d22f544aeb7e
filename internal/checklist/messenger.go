package checklist

import (
	"context"

	"github.com/sandeepkv93/checkd/internal/views"
)

// Messenger delivers outbound messages to the chat provider.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendControls(ctx context.Context, chatID int64, payload views.Payload) error
	EditMessage(ctx context.Context, chatID, messageID int64, payload views.Payload) error
}

// MessageRef identifies a message that was already delivered.
type MessageRef struct {
	ChatID    int64
	MessageID int64
}
