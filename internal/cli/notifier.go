package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// terminalNotifier shows a spinner while submitting and colored outcome lines.
type terminalNotifier struct {
	w io.Writer
	s *spinner.Spinner
}

func newTerminalNotifier(w io.Writer) *terminalNotifier {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))
	return &terminalNotifier{w: w, s: s}
}

func (n *terminalNotifier) Info(msg string) {
	n.s.Suffix = " " + msg
	n.s.Start()
}

func (n *terminalNotifier) Success(msg string) {
	n.s.Stop()
	color.New(color.FgGreen).Fprintf(n.w, "✓ %s\n", msg)
}

func (n *terminalNotifier) Error(msg string) {
	n.s.Stop()
	color.New(color.FgRed).Fprintf(n.w, "✗ %s\n", msg)
}
