package assistant_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inboxpilot/internal/ai"
	"inboxpilot/internal/assistant"
	"inboxpilot/internal/calendar"
	"inboxpilot/internal/logger"
	"inboxpilot/internal/model"
	"inboxpilot/internal/notify"
	"inboxpilot/internal/search"
	"inboxpilot/internal/timeparse"
)

// Wednesday midday, so "Friday" resolves unambiguously.
var testClock = func() time.Time {
	return time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)
}

// recordingConfirmer captures every prompt and answers with a fixed
// decision.
type recordingConfirmer struct {
	allow   bool
	prompts []string
}

func (c *recordingConfirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.allow
}

type dispatchFixture struct {
	aiClient   *ai.MockAIClient
	calClient  *calendar.MockCalendarClient
	searcher   *search.MockSearcher
	notifier   *notify.MockNotifier
	confirmer  *recordingConfirmer
	dispatcher *assistant.Dispatcher

	calendarCalls int
	searchCalls   int
}

func newDispatchFixture(allow bool) *dispatchFixture {
	f := &dispatchFixture{
		aiClient:  ai.NewMockAIClient(),
		calClient: calendar.NewMockCalendarClient(),
		searcher:  search.NewMockSearcher(),
		notifier:  notify.NewMockNotifier(),
		confirmer: &recordingConfirmer{allow: allow},
	}

	f.calClient.CreateEventFunc = func(ctx context.Context, summary, description string, start, end time.Time) (string, error) {
		f.calendarCalls++
		return "https://calendar.google.com/event?eid=abc123", nil
	}
	f.searcher.SearchFunc = func(ctx context.Context, query string, maxResults int) string {
		f.searchCalls++
		return "1. Result (https://example.com)\n   Snippet"
	}

	f.dispatcher = assistant.NewDispatcher(
		f.aiClient,
		f.calClient,
		f.searcher,
		f.notifier,
		f.confirmer,
		timeparse.NewResolver(testClock),
		logger.NewWithWriter(io.Discard),
	)
	return f
}

func testMessage(subject, body string) *model.Message {
	return model.NewMessage("msg_1", "thread_1", "alice@example.com", "me@example.com",
		subject, body, "", testClock())
}

func meetingDetails(date, timeFrag, duration string) *model.MeetingDetails {
	return &model.MeetingDetails{
		EventSummary: "Proposal discussion",
		Date:         date,
		Time:         timeFrag,
		Duration:     json.RawMessage(duration),
	}
}

func classified(intent model.Intent, details *model.MeetingDetails) model.ClassificationResult {
	return model.ClassificationResult{Intent: intent, Details: details}
}

func TestDispatchPassiveIntentsProduceDefaultNarrative(t *testing.T) {
	for _, intent := range []model.Intent{
		model.IntentInformationSharing,
		model.IntentSpamUnimportant,
		model.IntentOther,
		model.IntentUnknown,
	} {
		t.Run(string(intent), func(t *testing.T) {
			f := newDispatchFixture(true)

			outcome := f.dispatcher.Dispatch(context.Background(), classified(intent, nil), testMessage("Hello", "body"))

			assert.Equal(t, assistant.DefaultNarrative, outcome.Narrative)
			assert.Empty(t, outcome.ReplyDraft)
			assert.Zero(t, f.calendarCalls)
			assert.Zero(t, f.searchCalls)
			assert.Empty(t, f.confirmer.prompts)
		})
	}
}

func TestDispatchMeetingRequestSchedulesEvent(t *testing.T) {
	f := newDispatchFixture(true)

	var gotStart, gotEnd time.Time
	f.calClient.CreateEventFunc = func(ctx context.Context, summary, description string, start, end time.Time) (string, error) {
		f.calendarCalls++
		gotStart, gotEnd = start, end
		return "https://calendar.google.com/event?eid=abc123", nil
	}

	msg := testMessage("Can we meet Friday at 2pm to discuss the proposal?", "")
	outcome := f.dispatcher.Dispatch(context.Background(),
		classified(model.IntentMeetingRequest, meetingDetails("Friday", "2pm", "30")), msg)

	require.Equal(t, 1, f.calendarCalls)
	assert.Equal(t, 30*time.Minute, gotEnd.Sub(gotStart))
	assert.Equal(t, 14, gotStart.Hour())

	assert.Contains(t, outcome.Narrative, "scheduled successfully")
	assert.Contains(t, outcome.Narrative, "Proposal discussion")
	assert.Contains(t, outcome.Narrative, "https://calendar.google.com/event?eid=abc123")
	assert.Equal(t, "https://calendar.google.com/event?eid=abc123", outcome.EventLink)
	assert.NotEmpty(t, outcome.ReplyDraft)
}

func TestDispatchMeetingRequestInvalidDuration(t *testing.T) {
	f := newDispatchFixture(true)

	outcome := f.dispatcher.Dispatch(context.Background(),
		classified(model.IntentMeetingRequest, meetingDetails("Friday", "2pm", `"not a number"`)), testMessage("Meet?", ""))

	assert.Contains(t, outcome.Narrative, "Invalid duration")
	assert.Zero(t, f.calendarCalls)
	assert.Empty(t, f.confirmer.prompts)
	assert.NotEmpty(t, outcome.ReplyDraft)
}

func TestDispatchMeetingRequestUnparseableDateTime(t *testing.T) {
	f := newDispatchFixture(true)

	outcome := f.dispatcher.Dispatch(context.Background(),
		classified(model.IntentMeetingRequest, meetingDetails("", "10am", "30")), testMessage("Meet?", ""))

	assert.Contains(t, outcome.Narrative, "could not parse date/time")
	assert.Zero(t, f.calendarCalls)
	assert.Empty(t, f.confirmer.prompts)
}

func TestDispatchMeetingRequestCancelledByUser(t *testing.T) {
	f := newDispatchFixture(false)

	outcome := f.dispatcher.Dispatch(context.Background(),
		classified(model.IntentMeetingRequest, meetingDetails("Friday", "2pm", "30")), testMessage("Meet?", ""))

	assert.Equal(t, 1, len(f.confirmer.prompts))
	assert.Contains(t, outcome.Narrative, "cancelled by user")
	assert.Zero(t, f.calendarCalls)
	// The outcome still seeds a reply so the sender hears back.
	assert.NotEmpty(t, outcome.ReplyDraft)
}

func TestDispatchMeetingRequestCalendarFailure(t *testing.T) {
	f := newDispatchFixture(true)
	f.calClient.CreateEventFunc = func(ctx context.Context, summary, description string, start, end time.Time) (string, error) {
		f.calendarCalls++
		return "", errors.New("conflict")
	}

	outcome := f.dispatcher.Dispatch(context.Background(),
		classified(model.IntentMeetingRequest, meetingDetails("Friday", "2pm", "30")), testMessage("Meet?", ""))

	assert.Equal(t, 1, f.calendarCalls)
	assert.Contains(t, outcome.Narrative, "failed to create the calendar event")
	assert.Empty(t, outcome.EventLink)
}

func TestDispatchMeetingRequestWithoutDetails(t *testing.T) {
	f := newDispatchFixture(true)

	outcome := f.dispatcher.Dispatch(context.Background(),
		classified(model.IntentMeetingRequest, nil), testMessage("Meet?", ""))

	assert.Equal(t, assistant.DefaultNarrative, outcome.Narrative)
	assert.Zero(t, f.calendarCalls)
}

func TestDispatchQuestionEmbedsSearchResults(t *testing.T) {
	f := newDispatchFixture(true)

	var gotQuery string
	f.searcher.SearchFunc = func(ctx context.Context, query string, maxResults int) string {
		f.searchCalls++
		gotQuery = query
		return "1. Go (https://go.dev)\n   The Go programming language"
	}

	msg := testMessage("What is Go?", "")
	outcome := f.dispatcher.Dispatch(context.Background(), classified(model.IntentQuestion, nil), msg)

	assert.Equal(t, 1, f.searchCalls)
	assert.Equal(t, "What is Go?", gotQuery)
	assert.Contains(t, outcome.Narrative, "here are some search results")
	assert.Contains(t, outcome.Narrative, "https://go.dev")
	assert.NotEmpty(t, outcome.ReplyDraft)
	// Search is read-only and never gated.
	assert.Empty(t, f.confirmer.prompts)
}

func TestDispatchQuestionFallbackQuery(t *testing.T) {
	f := newDispatchFixture(true)

	var gotQuery string
	f.searcher.SearchFunc = func(ctx context.Context, query string, maxResults int) string {
		gotQuery = query
		return "No results found for 'Inquiry from email'."
	}

	f.dispatcher.Dispatch(context.Background(), classified(model.IntentQuestion, nil), testMessage("", "a question"))

	assert.Equal(t, "Inquiry from email", gotQuery)
}

func TestDispatchActionRequiredNotifies(t *testing.T) {
	f := newDispatchFixture(true)

	msg := testMessage("Server down", "please fix")
	outcome := f.dispatcher.Dispatch(context.Background(), classified(model.IntentActionRequired, nil), msg)

	require.Len(t, f.notifier.Sent, 1)
	assert.Contains(t, f.notifier.Sent[0], "alice@example.com")
	assert.Contains(t, f.notifier.Sent[0], "Server down")
	assert.Contains(t, f.notifier.Sent[0], "msg_1")
	assert.Contains(t, outcome.Narrative, "notified relevant parties via Slack")
}

func TestDispatchActionRequiredDeclineOverwritesNarrative(t *testing.T) {
	// The secondary path runs after the primary one and its narrative
	// replaces the candidate wholesale.
	f := newDispatchFixture(false)

	outcome := f.dispatcher.Dispatch(context.Background(), classified(model.IntentActionRequired, nil),
		testMessage("Server down", "please fix"))

	assert.Empty(t, f.notifier.Sent)
	assert.Contains(t, outcome.Narrative, "skipped by user")
	assert.NotEqual(t, assistant.DefaultNarrative, outcome.Narrative)
}

func TestDispatchActionRequiredNotifierFailure(t *testing.T) {
	f := newDispatchFixture(true)
	f.notifier.SendFunc = func(ctx context.Context, text string) error {
		return errors.New("channel_not_found")
	}

	outcome := f.dispatcher.Dispatch(context.Background(), classified(model.IntentActionRequired, nil),
		testMessage("Server down", ""))

	assert.Contains(t, outcome.Narrative, "failed to send Slack notification")
}

func TestDispatchDraftFailureLeavesNarrativeIntact(t *testing.T) {
	f := newDispatchFixture(true)
	f.aiClient.DraftReplyFunc = func(ctx context.Context, subject, sender, narrative string) (string, error) {
		return "", errors.New("model unavailable")
	}

	outcome := f.dispatcher.Dispatch(context.Background(),
		classified(model.IntentMeetingRequest, meetingDetails("Friday", "2pm", "30")), testMessage("Meet?", ""))

	assert.Contains(t, outcome.Narrative, "scheduled successfully")
	assert.Empty(t, outcome.ReplyDraft)
}
