package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"inboxpilot/internal/logger"
)

// SlackNotifier posts formatted text to one preconfigured channel.
type SlackNotifier struct {
	client    *slack.Client
	channelID string
	logger    *logger.Logger
}

func NewSlackNotifier(botToken, channelID string, logger *logger.Logger) *SlackNotifier {
	return &SlackNotifier{
		client:    slack.New(botToken),
		channelID: channelID,
		logger:    logger,
	}
}

func (n *SlackNotifier) Send(ctx context.Context, text string) error {
	_, _, err := n.client.PostMessageContext(ctx, n.channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post Slack message: %w", err)
	}
	n.logger.Info("Sent Slack notification to channel", n.channelID)
	return nil
}

// MockNotifier is a mock implementation of Notifier for testing
type MockNotifier struct {
	SendFunc func(ctx context.Context, text string) error
	Sent     []string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(ctx context.Context, text string) error {
	m.Sent = append(m.Sent, text)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, text)
	}
	return nil
}
