package assistant

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TerminalConfirmer blocks on an interactive y/n prompt. It repeats the
// prompt until a valid answer is given and does not time out; this is the
// manual safety valve in front of calendar writes and outbound
// notifications.
type TerminalConfirmer struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (c *TerminalConfirmer) Confirm(prompt string) bool {
	for {
		fmt.Fprintf(c.out, "%s\nProceed? (y/n): ", prompt)
		if !c.in.Scan() {
			// Input closed; treat as a decline rather than hanging.
			return false
		}
		switch strings.ToLower(strings.TrimSpace(c.in.Text())) {
		case "y":
			return true
		case "n":
			fmt.Fprintln(c.out, "Action cancelled by user.")
			return false
		default:
			fmt.Fprintln(c.out, "Please enter 'y' or 'n'.")
		}
	}
}

// AllowAllConfirmer grants every request. Useful for unattended runs where
// an operator has decided the actions are safe, and for tests.
type AllowAllConfirmer struct{}

func (AllowAllConfirmer) Confirm(string) bool { return true }

// DenyAllConfirmer declines every request.
type DenyAllConfirmer struct{}

func (DenyAllConfirmer) Confirm(string) bool { return false }
