package ai

import (
	"context"

	"inboxpilot/internal/model"
)

// MockAIClient is a mock implementation of AIClient for testing
type MockAIClient struct {
	ClassifyIntentFunc        func(ctx context.Context, subject, body string) (string, error)
	ExtractMeetingDetailsFunc func(ctx context.Context, subject, body string) (*model.MeetingDetails, error)
	DraftReplyFunc            func(ctx context.Context, subject, sender, narrative string) (string, error)
}

func NewMockAIClient() *MockAIClient {
	return &MockAIClient{}
}

func (m *MockAIClient) ClassifyIntent(ctx context.Context, subject, body string) (string, error) {
	if m.ClassifyIntentFunc != nil {
		return m.ClassifyIntentFunc(ctx, subject, body)
	}
	return string(model.IntentOther), nil
}

func (m *MockAIClient) ExtractMeetingDetails(ctx context.Context, subject, body string) (*model.MeetingDetails, error) {
	if m.ExtractMeetingDetailsFunc != nil {
		return m.ExtractMeetingDetailsFunc(ctx, subject, body)
	}
	return nil, nil
}

func (m *MockAIClient) DraftReply(ctx context.Context, subject, sender, narrative string) (string, error) {
	if m.DraftReplyFunc != nil {
		return m.DraftReplyFunc(ctx, subject, sender, narrative)
	}
	return "Thanks for your email. " + narrative, nil
}
