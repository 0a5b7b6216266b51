package gmail

import (
	"context"

	"inboxpilot/internal/model"
)

// MockMailClient is a mock implementation of MailClient for testing
type MockMailClient struct {
	ListUnreadMessagesFunc func(ctx context.Context) ([]*model.Message, error)
}

func NewMockMailClient() *MockMailClient {
	return &MockMailClient{}
}

func (m *MockMailClient) ListUnreadMessages(ctx context.Context) ([]*model.Message, error) {
	if m.ListUnreadMessagesFunc != nil {
		return m.ListUnreadMessagesFunc(ctx)
	}
	return nil, nil
}
