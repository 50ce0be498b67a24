package interactive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"copyhelper-cli/internal/resolver"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user declines to copy
var ErrCancelled = errors.New("copy cancelled")

// Prompter asks the user to confirm what is about to be copied
type Prompter struct {
	out        io.Writer
	isTerminal func() bool
	ask        func(prompt survey.Prompt, response interface{}) error
}

// NewPrompter creates a prompter bound to the process terminal
func NewPrompter() *Prompter {
	return &Prompter{
		out: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
		},
		ask: func(prompt survey.Prompt, response interface{}) error {
			return survey.AskOne(prompt, response, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr))
		},
	}
}

// ConfirmResolution shows what was detected and asks whether to copy it.
// Without a terminal there is nobody to ask, so the copy proceeds.
func (p *Prompter) ConfirmResolution(res resolver.Resolution) error {
	if !p.isTerminal() {
		return nil
	}

	var (
		message string
		help    string
	)
	if res.Source.Resolved() {
		fmt.Fprintf(p.out, "\nDetected %s", res.Source.Label())
		if res.Origin != "" {
			fmt.Fprintf(p.out, " in %s", res.Origin)
		}
		fmt.Fprintf(p.out, ":\n  %s\n\n", truncateString(firstLine(res.ErrorSection), 100))
		message = "Copy this context?"
		help = "The prompt includes the error above and the surrounding code"
	} else {
		message = "No error detected. Copy a generic review prompt anyway?"
		help = "Select the error text or run the failing cell first for a focused prompt"
	}

	ok, err := p.selectYesNo(message, help, true)
	if err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrCancelled
		}
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// selectYesNo asks a yes/no question through survey
func (p *Prompter) selectYesNo(message, help string, defaultValue bool) (bool, error) {
	prompt := &survey.Confirm{
		Message: message,
		Help:    help,
		Default: defaultValue,
	}

	var result bool
	if err := p.ask(prompt, &result); err != nil {
		return false, err
	}

	return result, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
