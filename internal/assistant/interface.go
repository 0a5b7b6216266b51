package assistant

import (
	"context"
	"time"

	"inboxpilot/internal/model"
)

// AIClient interface for the black-box language model transport.
type AIClient interface {
	// ClassifyIntent returns the raw intent label for a message. An error
	// means analysis failed terminally for this message; it is not retried.
	ClassifyIntent(ctx context.Context, subject, body string) (string, error)
	// ExtractMeetingDetails asks for structured scheduling fields. Returns
	// (nil, nil) when the model output cannot be parsed; that is an expected
	// state, not a failure.
	ExtractMeetingDetails(ctx context.Context, subject, body string) (*model.MeetingDetails, error)
	// DraftReply synthesizes a reply body from the outcome narrative.
	DraftReply(ctx context.Context, subject, sender, narrative string) (string, error)
}

// MailClient interface for fetching inbound messages.
type MailClient interface {
	ListUnreadMessages(ctx context.Context) ([]*model.Message, error)
}

// CalendarClient interface for the calendar transport. CreateEvent returns
// a link to the created event.
type CalendarClient interface {
	CreateEvent(ctx context.Context, summary, description string, start, end time.Time) (string, error)
}

// Searcher interface for the web-search transport. Search never returns an
// error; internal failures are folded into the returned text.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) string
}

// Notifier interface for the chat notification transport.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Confirmer gates irreversible or externally visible actions behind a
// binary decision. Implementations may block waiting for an operator.
type Confirmer interface {
	Confirm(prompt string) bool
}
