package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inboxpilot/internal/model"
)

func newTestMessage(messageID string, receivedAt time.Time) *model.Message {
	return model.NewMessage(messageID, "thread_1", "sender@example.com", "me@example.com",
		"Subject "+messageID, "body", "", receivedAt)
}

func TestInsertIsIdempotentOnMessageID(t *testing.T) {
	repo := NewInMemoryMessageRepository()
	ctx := context.Background()

	ok, err := repo.Insert(ctx, newTestMessage("msg_1", time.Now()))
	require.NoError(t, err)
	assert.True(t, ok)

	exists, err := repo.Exists(ctx, "msg_1")
	require.NoError(t, err)
	assert.True(t, exists)

	// Second insert with the same message identifier is rejected.
	ok, err = repo.Insert(ctx, newTestMessage("msg_1", time.Now()))
	require.NoError(t, err)
	assert.False(t, ok)

	messages, err := repo.ListUnprocessed(ctx)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestMarkProcessedLifecycle(t *testing.T) {
	repo := NewInMemoryMessageRepository()
	ctx := context.Background()

	// Unknown identifier changes nothing.
	ok, err := repo.MarkProcessed(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Insert(ctx, newTestMessage("msg_1", time.Now()))
	require.NoError(t, err)

	ok, err = repo.MarkProcessed(ctx, "msg_1")
	require.NoError(t, err)
	assert.True(t, ok)

	messages, err := repo.ListUnprocessed(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestListUnprocessedOrderedByReceivedTime(t *testing.T) {
	repo := NewInMemoryMessageRepository()
	ctx := context.Background()

	now := time.Now()
	_, err := repo.Insert(ctx, newTestMessage("newer", now))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newTestMessage("older", now.Add(-time.Hour)))
	require.NoError(t, err)

	messages, err := repo.ListUnprocessed(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "older", messages[0].MessageID)
	assert.Equal(t, "newer", messages[1].MessageID)
}
