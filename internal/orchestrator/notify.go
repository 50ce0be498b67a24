package orchestrator

import (
	"io"
	"os"

	"copyhelper-cli/internal/interfaces"

	"github.com/fatih/color"
)

// ConsoleNotifier prints status messages to stderr
type ConsoleNotifier struct {
	out  io.Writer
	info *color.Color
	warn *color.Color
}

// NewConsoleNotifier creates a notifier writing to stderr
func NewConsoleNotifier() interfaces.Notifier {
	return newConsoleNotifier(os.Stderr)
}

func newConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:  out,
		info: color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
	}
}

// Info shows a success message
func (n *ConsoleNotifier) Info(message string) {
	n.info.Fprintln(n.out, "✓ "+message)
}

// Warn shows a warning message
func (n *ConsoleNotifier) Warn(message string) {
	n.warn.Fprintln(n.out, "! "+message)
}

type silentNotifier struct{}

func (silentNotifier) Info(string) {}
func (silentNotifier) Warn(string) {}
