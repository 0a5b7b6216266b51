package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inboxpilot/internal/logger"
	"inboxpilot/internal/model"
	"inboxpilot/internal/timeparse"
)

// DefaultNarrative is the outcome for messages that trigger no action.
const DefaultNarrative = "Email processed."

const eventTimeLayout = "2006-01-02 03:04 PM MST"

// Dispatcher routes a classified message to at most one primary action
// (calendar event or web search) and one independent secondary action
// (Slack notification), gating the side-effecting ones behind the
// confirmer. It owns the outcome narrative and the reply draft.
type Dispatcher struct {
	aiClient       AIClient
	calendarClient CalendarClient
	searcher       Searcher
	notifier       Notifier
	confirmer      Confirmer
	resolver       *timeparse.Resolver
	maxSearch      int
	logger         *logger.Logger
}

func NewDispatcher(
	aiClient AIClient,
	calendarClient CalendarClient,
	searcher Searcher,
	notifier Notifier,
	confirmer Confirmer,
	resolver *timeparse.Resolver,
	logger *logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		aiClient:       aiClient,
		calendarClient: calendarClient,
		searcher:       searcher,
		notifier:       notifier,
		confirmer:      confirmer,
		resolver:       resolver,
		maxSearch:      3,
		logger:         logger,
	}
}

// Dispatch runs once per message, after the heuristic override. The primary
// path settles first and produces a candidate narrative and draft; the
// secondary notification path runs second and, when it fires, overwrites
// the narrative. Last writer wins: the notification outcome replaces the
// primary description, it is not merged with it.
func (d *Dispatcher) Dispatch(ctx context.Context, result model.ClassificationResult, msg *model.Message) model.ActionOutcome {
	outcome := model.ActionOutcome{Narrative: DefaultNarrative}

	switch result.Intent {
	case model.IntentMeetingRequest:
		if result.Details != nil {
			d.handleMeetingRequest(ctx, result.Details, msg, &outcome)
		}
	case model.IntentQuestion:
		d.handleQuestion(ctx, msg, &outcome)
	}

	if strings.EqualFold(string(result.Intent), string(model.IntentActionRequired)) {
		d.handleNotification(ctx, result.Intent, msg, &outcome)
	}

	return outcome
}

func (d *Dispatcher) handleMeetingRequest(ctx context.Context, details *model.MeetingDetails, msg *model.Message, outcome *model.ActionOutcome) {
	defer d.draftReply(ctx, msg, outcome)

	summary := details.Summary(msg.Subject)

	start, ok := d.resolver.Resolve(details.Date, details.Time)
	if !ok {
		outcome.Narrative = fmt.Sprintf(
			"Meeting requested, but could not parse date/time ('%s' '%s') from email details.",
			details.Date, details.Time)
		return
	}

	minutes, err := details.DurationMinutes()
	if err != nil {
		outcome.Narrative = fmt.Sprintf(
			"Could not schedule meeting: Invalid duration '%s'.",
			strings.Trim(strings.TrimSpace(string(details.Duration)), `"`))
		return
	}
	end := start.Add(time.Duration(minutes) * time.Minute)

	prompt := fmt.Sprintf(
		"About to create calendar event: '%s'\n    Start: %s\n    End:   %s",
		summary, start.Format(eventTimeLayout), end.Format(eventTimeLayout))
	if !d.confirmer.Confirm(prompt) {
		outcome.Narrative = "Meeting scheduling cancelled by user."
		return
	}

	description := fmt.Sprintf("Created from email %q sent by %s.", msg.Subject, msg.Sender)
	link, err := d.calendarClient.CreateEvent(ctx, summary, description, start, end)
	if err != nil {
		d.logger.Error("Failed to create calendar event:", err)
		outcome.Narrative = fmt.Sprintf(
			"Attempted to schedule meeting '%s', but failed to create the calendar event.", summary)
		return
	}

	outcome.EventLink = link
	outcome.Narrative = fmt.Sprintf(
		"Meeting scheduled successfully: '%s' on %s. Event link: %s",
		summary, start.Format(eventTimeLayout), link)
}

func (d *Dispatcher) handleQuestion(ctx context.Context, msg *model.Message, outcome *model.ActionOutcome) {
	query := msg.Subject
	if query == "" {
		query = "Inquiry from email"
	}

	// The searcher folds its own failures into the returned text, so the
	// narrative always embeds whatever came back.
	results := d.searcher.Search(ctx, query, d.maxSearch)
	outcome.Narrative = fmt.Sprintf(
		"Regarding your question about '%s', here are some search results:\n\n%s",
		msg.Subject, results)

	d.draftReply(ctx, msg, outcome)
}

// handleNotification is the secondary path. It never touches the reply
// draft, only the narrative.
func (d *Dispatcher) handleNotification(ctx context.Context, intent model.Intent, msg *model.Message, outcome *model.ActionOutcome) {
	prompt := fmt.Sprintf("About to send Slack notification for '%s' (Intent: %s)", msg.Subject, intent)
	if !d.confirmer.Confirm(prompt) {
		outcome.Narrative = fmt.Sprintf("Detected as '%s', Slack notification skipped by user.", intent)
		return
	}

	if d.notifier == nil {
		d.logger.Warn("Slack notifier not configured, cannot send notification")
		outcome.Narrative = fmt.Sprintf("Detected as '%s', but failed to send Slack notification.", intent)
		return
	}

	text := fmt.Sprintf(
		":rotating_light: *Important Email Notification* :rotating_light:\n\n*From:* %s\n*Subject:* %s\n*Intent:* `%s`\n(Message ID: %s)",
		msg.Sender, msg.Subject, intent, msg.MessageID)
	if err := d.notifier.Send(ctx, text); err != nil {
		d.logger.Error("Failed to send Slack notification:", err)
		outcome.Narrative = fmt.Sprintf("Detected as '%s', but failed to send Slack notification.", intent)
		return
	}

	outcome.Narrative = fmt.Sprintf("Detected as '%s', notified relevant parties via Slack.", intent)
}

func (d *Dispatcher) draftReply(ctx context.Context, msg *model.Message, outcome *model.ActionOutcome) {
	draft, err := d.aiClient.DraftReply(ctx, msg.Subject, msg.Sender, outcome.Narrative)
	if err != nil {
		d.logger.Warn("Failed to draft reply:", err)
		return
	}
	outcome.ReplyDraft = draft
}
