package assistant

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalConfirmerAcceptsYes(t *testing.T) {
	var out bytes.Buffer
	c := NewTerminalConfirmer(strings.NewReader("y\n"), &out)

	assert.True(t, c.Confirm("About to create calendar event"))
	assert.Contains(t, out.String(), "Proceed? (y/n):")
}

func TestTerminalConfirmerDeclines(t *testing.T) {
	var out bytes.Buffer
	c := NewTerminalConfirmer(strings.NewReader("N\n"), &out)

	assert.False(t, c.Confirm("About to send Slack notification"))
	assert.Contains(t, out.String(), "Action cancelled by user.")
}

func TestTerminalConfirmerRepromptsOnInvalidInput(t *testing.T) {
	var out bytes.Buffer
	c := NewTerminalConfirmer(strings.NewReader("maybe\nyes\ny\n"), &out)

	assert.True(t, c.Confirm("prompt"))
	// Two invalid answers, so two nudges and three prompts.
	assert.Equal(t, 2, strings.Count(out.String(), "Please enter 'y' or 'n'."))
	assert.Equal(t, 3, strings.Count(out.String(), "Proceed? (y/n):"))
}

func TestTerminalConfirmerClosedInputDeclines(t *testing.T) {
	var out bytes.Buffer
	c := NewTerminalConfirmer(strings.NewReader(""), &out)

	assert.False(t, c.Confirm("prompt"))
}

func TestTerminalConfirmerTrimsWhitespace(t *testing.T) {
	var out bytes.Buffer
	c := NewTerminalConfirmer(strings.NewReader("  Y  \n"), &out)

	assert.True(t, c.Confirm("prompt"))
}
