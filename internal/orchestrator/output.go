package orchestrator

import (
	"fmt"
	"io"
	"os"

	"copyhelper-cli/internal/interfaces"

	"github.com/atotto/clipboard"
)

// OutputHandler implements the OutputHandler interface
type OutputHandler struct {
	stdout io.Writer
}

// NewOutputHandler creates a new output handler
func NewOutputHandler() interfaces.OutputHandler {
	return &OutputHandler{stdout: os.Stdout}
}

// WriteToClipboard copies content to the system clipboard
func (h *OutputHandler) WriteToClipboard(content string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available on this system")
	}
	return clipboard.WriteAll(content)
}

// WriteToStdout writes content to standard output
func (h *OutputHandler) WriteToStdout(content string) error {
	_, err := fmt.Fprintln(h.stdout, content)
	return err
}

// WriteToFile writes content to the specified file path
func (h *OutputHandler) WriteToFile(content string, path string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
