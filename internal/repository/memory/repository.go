package memory

import (
	"context"
	"sort"
	"sync"

	"inboxpilot/internal/model"
)

// InMemoryMessageRepository keeps messages in a map keyed by MessageID.
// Used by tests and for runs without a database configured.
type InMemoryMessageRepository struct {
	messages map[string]*model.Message
	mutex    sync.RWMutex
}

func NewInMemoryMessageRepository() *InMemoryMessageRepository {
	return &InMemoryMessageRepository{
		messages: make(map[string]*model.Message),
	}
}

func (r *InMemoryMessageRepository) Insert(ctx context.Context, msg *model.Message) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.messages[msg.MessageID]; exists {
		return false, nil
	}
	stored := *msg
	r.messages[msg.MessageID] = &stored
	return true, nil
}

func (r *InMemoryMessageRepository) Exists(ctx context.Context, messageID string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.messages[messageID]
	return exists, nil
}

func (r *InMemoryMessageRepository) ListUnprocessed(ctx context.Context) ([]*model.Message, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.Message
	for _, msg := range r.messages {
		if !msg.Processed {
			copied := *msg
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ReceivedAt.Before(result[j].ReceivedAt)
	})
	return result, nil
}

func (r *InMemoryMessageRepository) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	msg, exists := r.messages[messageID]
	if !exists {
		return false, nil
	}
	msg.Processed = true
	return true, nil
}
