package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeetingDetailsDurationMinutes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"absent defaults to an hour", "", 60, false},
		{"null defaults to an hour", "null", 60, false},
		{"number", "30", 30, false},
		{"numeric string", `"45"`, 45, false},
		{"padded numeric string", `" 90 "`, 90, false},
		{"not a number", `"not a number"`, 0, true},
		{"object", `{"minutes": 30}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &MeetingDetails{Duration: json.RawMessage(tt.raw)}
			got, err := d.DurationMinutes()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMeetingDetailsSummaryFallsBackToSubject(t *testing.T) {
	d := &MeetingDetails{EventSummary: ""}
	assert.Equal(t, "Quick chat", d.Summary("Quick chat"))

	d.EventSummary = "Proposal discussion"
	assert.Equal(t, "Proposal discussion", d.Summary("Quick chat"))

	d.EventSummary = "   "
	assert.Equal(t, "Quick chat", d.Summary("Quick chat"))
}
