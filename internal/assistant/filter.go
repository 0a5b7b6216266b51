package assistant

import (
	"strings"

	"inboxpilot/internal/model"
)

// The classifier is a small general-purpose model prone to labeling
// promotional "book now" mail as a meeting request. Before anything touches
// the calendar, a cheap lexical veto checks the raw text: promotional cues
// kill the classification, and so does the absence of any meeting cue.
var promoKeywords = []string{
	"unsubscribe",
	"discount",
	"sale",
	"offer",
	"limited time",
	"coupon",
	"save now",
	"shop now",
	"view deal",
	"last call",
	"percent off",
	"% off",
	"expires",
	"promotion",
	"clearance",
}

var meetingKeywords = []string{
	"meet",
	"schedule",
	"call ",
	"zoom",
	"available",
	"appointment",
	"calendar",
	"discuss",
	"talk",
	"catch up",
	"sync up",
	"proposal",
	"next steps",
}

// OverrideIntent rewrites a MeetingRequest classification to
// InformationSharing when the text looks promotional or carries no meeting
// cue at all. Returns the (possibly rewritten) intent and whether the
// override fired; callers must discard any meeting details when it did.
// Matching is substring containment, case-insensitive, and side-effect-free.
func OverrideIntent(intent model.Intent, subject, body string) (model.Intent, bool) {
	if intent != model.IntentMeetingRequest {
		return intent, false
	}

	text := strings.ToLower(subject) + " " + strings.ToLower(body)

	if containsAny(text, promoKeywords) || !containsAny(text, meetingKeywords) {
		return model.IntentInformationSharing, true
	}
	return intent, false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
