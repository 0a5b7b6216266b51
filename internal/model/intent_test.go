package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Intent
	}{
		{"exact match", "Meeting Request", IntentMeetingRequest},
		{"case insensitive", "meeting request", IntentMeetingRequest},
		{"surrounding whitespace", "  Question \n", IntentQuestion},
		{"bracketed echo", "[Action Required]", IntentActionRequired},
		{"spam label with slash", "Spam/Unimportant", IntentSpamUnimportant},
		{"unrecognized label", "Newsletter", IntentUnknown},
		{"empty", "", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.raw))
		})
	}
}

func TestIntentNamesExcludesUnknown(t *testing.T) {
	for _, name := range IntentNames() {
		assert.NotEqual(t, string(IntentUnknown), name)
	}
	assert.Contains(t, IntentNames(), "Meeting Request")
}
