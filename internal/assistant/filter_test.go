package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inboxpilot/internal/model"
)

func TestOverrideIntentPromotionalCueWins(t *testing.T) {
	// A promotional cue vetoes the classification even when a meeting cue
	// is also present.
	intent, fired := OverrideIntent(model.IntentMeetingRequest,
		"50% off everything - schedule your order now", "")

	assert.True(t, fired)
	assert.Equal(t, model.IntentInformationSharing, intent)
}

func TestOverrideIntentKeepsRealMeetingRequest(t *testing.T) {
	intent, fired := OverrideIntent(model.IntentMeetingRequest,
		"Catching up", "Let's sync up tomorrow at 3pm")

	assert.False(t, fired)
	assert.Equal(t, model.IntentMeetingRequest, intent)
}

func TestOverrideIntentNoMeetingCues(t *testing.T) {
	// No promo language either, but nothing meeting-like: still overridden.
	intent, fired := OverrideIntent(model.IntentMeetingRequest,
		"Your weekly digest", "Here is what happened this week.")

	assert.True(t, fired)
	assert.Equal(t, model.IntentInformationSharing, intent)
}

func TestOverrideIntentOnlyAppliesToMeetingRequests(t *testing.T) {
	intent, fired := OverrideIntent(model.IntentQuestion,
		"50% off everything - limited time!", "unsubscribe here")

	assert.False(t, fired)
	assert.Equal(t, model.IntentQuestion, intent)
}

func TestOverrideIntentCaseInsensitive(t *testing.T) {
	intent, fired := OverrideIntent(model.IntentMeetingRequest,
		"UNSUBSCRIBE from our list", "Let's MEET")

	assert.True(t, fired)
	assert.Equal(t, model.IntentInformationSharing, intent)
}
