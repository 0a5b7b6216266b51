package model

import "strings"

// Intent is the coarse category assigned to a message by the classifier.
type Intent string

const (
	IntentMeetingRequest     Intent = "Meeting Request"
	IntentQuestion           Intent = "Question"
	IntentInformationSharing Intent = "Information Sharing"
	IntentSpamUnimportant    Intent = "Spam/Unimportant"
	IntentActionRequired     Intent = "Action Required"
	IntentOther              Intent = "Other"
	IntentUnknown            Intent = "Unknown"
)

var intents = []Intent{
	IntentMeetingRequest,
	IntentQuestion,
	IntentInformationSharing,
	IntentSpamUnimportant,
	IntentActionRequired,
	IntentOther,
}

// IntentNames lists the labels the classifier is allowed to choose from.
func IntentNames() []string {
	names := make([]string, len(intents))
	for i, in := range intents {
		names[i] = string(in)
	}
	return names
}

// ParseIntent normalizes a raw classifier label into the closed enum.
// Models occasionally echo the bracketed list syntax back, so surrounding
// whitespace and brackets are stripped before matching. Labels that match
// nothing map to IntentUnknown.
func ParseIntent(raw string) Intent {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "[]")
	cleaned = strings.TrimSpace(cleaned)
	for _, in := range intents {
		if strings.EqualFold(cleaned, string(in)) {
			return in
		}
	}
	return IntentUnknown
}
