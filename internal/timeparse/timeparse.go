package timeparse

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Resolver turns loosely-formatted date/time fragments, typically extracted
// by a language model, into a concrete point in time. The clock is
// injectable so relative phrases like "next Monday" are testable.
type Resolver struct {
	parser *when.Parser
	now    func() time.Time
}

func NewResolver(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return &Resolver{parser: parser, now: now}
}

// Resolve combines the date and time fragments and parses them relative to
// the current clock. A time fragment without a date is unresolvable, since
// the result would otherwise silently anchor to today. Any fragment the
// parser cannot place yields absent, never a guessed value.
func (r *Resolver) Resolve(dateFragment, timeFragment string) (time.Time, bool) {
	dateFragment = strings.TrimSpace(dateFragment)
	timeFragment = strings.TrimSpace(timeFragment)

	if dateFragment == "" {
		return time.Time{}, false
	}

	base := r.now()

	// The date fragment must parse on its own; otherwise a recognizable
	// time fragment would pin an unparseable date to the current day.
	res, err := r.parser.Parse(dateFragment, base)
	if err != nil || res == nil {
		return time.Time{}, false
	}

	text := dateFragment
	if timeFragment != "" {
		text = dateFragment + " " + timeFragment
	}

	res, err = r.parser.Parse(text, base)
	if err != nil || res == nil {
		return time.Time{}, false
	}
	return res.Time, true
}
