package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"inboxpilot/internal/assistant"
	"inboxpilot/internal/logger"
)

type calendarClient struct {
	client *calendar.Service
	logger *logger.Logger
}

func NewCalendarClient(ctx context.Context, accessToken string, logger *logger.Logger) (assistant.CalendarClient, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	calendarService, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &calendarClient{
		client: calendarService,
		logger: logger,
	}, nil
}

// CreateEvent inserts an event on the primary calendar and returns its link.
func (c *calendarClient) CreateEvent(ctx context.Context, summary, description string, start, end time.Time) (string, error) {
	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := c.client.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}

	c.logger.Info("Created calendar event:", created.HtmlLink)
	return created.HtmlLink, nil
}

// MockCalendarClient is a mock implementation of CalendarClient for testing
type MockCalendarClient struct {
	CreateEventFunc func(ctx context.Context, summary, description string, start, end time.Time) (string, error)
}

func NewMockCalendarClient() *MockCalendarClient {
	return &MockCalendarClient{}
}

func (m *MockCalendarClient) CreateEvent(ctx context.Context, summary, description string, start, end time.Time) (string, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, summary, description, start, end)
	}
	return "https://calendar.google.com/event?eid=mock", nil
}
