package repository

import (
	"context"

	"inboxpilot/internal/model"
)

// MessageRepository defines the interface for message data operations.
// Messages are keyed by their Gmail message identifier; Processed moves
// from false to true exactly once and never back.
type MessageRepository interface {
	// Insert stores a new message. Returns false when a message with the
	// same MessageID already exists.
	Insert(ctx context.Context, msg *model.Message) (bool, error)
	// Exists reports whether a message with the given MessageID is stored.
	Exists(ctx context.Context, messageID string) (bool, error)
	// ListUnprocessed returns unprocessed messages ordered by received time.
	ListUnprocessed(ctx context.Context) ([]*model.Message, error)
	// MarkProcessed flips the processed flag. Returns false when no message
	// with the given MessageID exists.
	MarkProcessed(ctx context.Context, messageID string) (bool, error)
}
