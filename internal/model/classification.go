package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const defaultDurationMinutes = 60

// ClassificationResult is the output of the analysis step. Details is only
// populated when Intent is IntentMeetingRequest; downstream code ignores it
// otherwise.
type ClassificationResult struct {
	Intent  Intent
	Details *MeetingDetails
}

// MeetingDetails holds the structured fields extracted from a meeting
// request. Every field is untrusted generative-model output: Date and Time
// may be empty, Duration may be a number, a quoted string, or garbage, and
// Attendees is advisory only.
type MeetingDetails struct {
	EventSummary string          `json:"event_summary"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
	Duration     json.RawMessage `json:"duration_minutes"`
	Attendees    []string        `json:"attendees"`
}

// Summary returns the extracted event summary, falling back to the message
// subject when the model left it empty.
func (d *MeetingDetails) Summary(subject string) string {
	if s := strings.TrimSpace(d.EventSummary); s != "" {
		return s
	}
	return subject
}

// DurationMinutes coerces the raw duration payload to minutes. An absent or
// null value defaults to 60. A JSON number or a numeric string both parse;
// anything else is an error the dispatcher turns into an "invalid duration"
// narrative.
func (d *MeetingDetails) DurationMinutes() (int, error) {
	raw := strings.TrimSpace(string(d.Duration))
	if raw == "" || raw == "null" {
		return defaultDurationMinutes, nil
	}

	var n int
	if err := json.Unmarshal(d.Duration, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(d.Duration, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, nil
		}
	}

	return 0, fmt.Errorf("duration is not a number: %s", raw)
}

// ActionOutcome is the result of dispatching one message. Narrative is always
// non-empty and doubles as the seed context for the reply draft. EventLink is
// set only when a calendar event was created. ReplyDraft is empty when no
// primary action ran or when drafting failed.
type ActionOutcome struct {
	Narrative  string
	EventLink  string
	ReplyDraft string
}
