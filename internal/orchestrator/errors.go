package orchestrator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"copyhelper-cli/internal/editor"
)

// Error types for different categories of failures
var (
	ErrConfigurationInvalid = errors.New("configuration error")
	ErrContextLoad          = errors.New("editor context error")
	ErrTemplateInvalid      = errors.New("template error")
	ErrOutputFailed         = errors.New("output error")
	ErrValidationFailed     = errors.New("validation error")
)

// CopyError represents a structured error with actionable guidance
type CopyError struct {
	Type     error
	Message  string
	Guidance string
	Cause    error
}

func (e *CopyError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s: %s\n\nSuggestion: %s", e.Type, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *CopyError) Unwrap() error {
	return e.Cause
}

// Is matches the error category so callers can use errors.Is(err, ErrOutputFailed)
func (e *CopyError) Is(target error) bool {
	return e.Type == target
}

// Error constructors with actionable guidance

func NewConfigurationError(message string, cause error) *CopyError {
	guidance := "Check your configuration file syntax. " +
		"Use 'copyhelper --config /path/to/config.toml' to specify a different config file."

	causeText := ""
	if cause != nil {
		causeText = cause.Error()
	}

	if strings.Contains(causeText, "permission") {
		guidance = "Check file permissions for your configuration directory. " +
			"Ensure you have read access to ~/.config/copyhelper/"
	} else if strings.Contains(causeText, "template_file") {
		guidance = "The configured template_file does not exist. Fix the path or remove the setting " +
			"to use the built-in prompt layout."
	} else if strings.Contains(causeText, "log_level") {
		guidance = "log_level must be one of debug, info, warn or error."
	}

	return &CopyError{
		Type:     ErrConfigurationInvalid,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewContextLoadError(source string, cause error) *CopyError {
	message := fmt.Sprintf("failed to load editor context from '%s'", source)
	guidance := "Ensure the editor integration wrote a complete snapshot before invoking copyhelper."

	switch {
	case errors.Is(cause, os.ErrNotExist):
		guidance = fmt.Sprintf("'%s' does not exist. Check the path passed by your editor integration.", source)
	case errors.Is(cause, os.ErrPermission):
		guidance = fmt.Sprintf("Permission denied reading '%s'.", source)
	case errors.Is(cause, editor.ErrUnknownKind):
		guidance = "Snapshot kind must be 'text', 'notebook' or 'none'."
	case errors.Is(cause, editor.ErrMissingDocument), errors.Is(cause, editor.ErrMissingNotebook):
		guidance = "The snapshot kind does not match its payload: a 'text' snapshot needs a 'document' " +
			"object and a 'notebook' snapshot needs a 'notebook' object."
	case errors.Is(cause, editor.ErrMissingSeverity):
		guidance = "Every diagnostic needs a severity: 'error', 'warning', 'information', 'hint' or 0-3."
	case strings.EqualFold(filepath.Ext(source), ".ipynb"):
		guidance = fmt.Sprintf("'%s' is not a valid Jupyter notebook (nbformat 4).", source)
	}

	return &CopyError{
		Type:     ErrContextLoad,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewTemplateError(templateName string, cause error) *CopyError {
	message := fmt.Sprintf("failed to render prompt template '%s'", templateName)
	guidance := "Check template syntax for valid Go template format with {{ }} delimiters. " +
		"Available fields: .Intro .Label .ErrorSection .Errors .Code .Language .Origin .Source .Now"

	if cause != nil && (errors.Is(cause, os.ErrNotExist) || strings.Contains(cause.Error(), "no such file")) {
		guidance = fmt.Sprintf("Template '%s' not found. Fix --template/template_file or remove it "+
			"to use the built-in layout.", templateName)
	}

	return &CopyError{
		Type:     ErrTemplateInvalid,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewOutputError(target string, cause error) *CopyError {
	message := fmt.Sprintf("failed to output to target '%s'", target)
	guidance := "Check that the output target is valid and accessible."

	if target == "clipboard" {
		guidance = "Clipboard access failed. Ensure you're running in a graphical session " +
			"(xclip, xsel or wl-clipboard on Linux) or try using --target stdout instead."
	} else if strings.HasPrefix(target, "file:") {
		filePath := strings.TrimPrefix(target, "file:")
		guidance = fmt.Sprintf("Failed to write to file '%s'. Check that the directory exists "+
			"and you have write permissions.", filePath)
	}

	return &CopyError{
		Type:     ErrOutputFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    cause,
	}
}

func NewValidationError(field string, value interface{}, reason string) *CopyError {
	message := fmt.Sprintf("validation failed for %s: %v (%s)", field, value, reason)
	guidance := "Check the input value and ensure it meets the required format."

	switch field {
	case "inputs":
		guidance = "Pass only one of --snapshot, --notebook or --file."
	case "selection", "diagnostics":
		guidance = "--selection and --diagnostics describe a file and require --file."
	case "snapshot":
		guidance = "Pipe the snapshot into copyhelper (editor-hook | copyhelper --snapshot -) " +
			"or pass a file path."
	case "target":
		guidance = "Target must be 'clipboard', 'stdout', or 'file:/path/to/file'. " +
			"Example: --target file:/tmp/prompt.md"
	case "config_path":
		guidance = "Configuration file path must be valid and accessible. " +
			"Ensure the file exists and you have read permissions."
	}

	return &CopyError{
		Type:     ErrValidationFailed,
		Message:  message,
		Guidance: guidance,
		Cause:    nil,
	}
}

// Recovery strategies

// RecoverFromError attempts to recover from common errors with fallback strategies
func RecoverFromError(err error) error {
	if err == nil {
		return nil
	}

	var copyErr *CopyError
	if !errors.As(err, &copyErr) {
		return &CopyError{
			Type:     errors.New("unknown error"),
			Message:  err.Error(),
			Guidance: "An unexpected error occurred. Please check your inputs and try again.",
			Cause:    err,
		}
	}

	switch copyErr.Type {
	case ErrOutputFailed:
		return recoverFromOutputError(copyErr)
	default:
		return copyErr
	}
}

func recoverFromOutputError(err *CopyError) error {
	if strings.Contains(err.Message, "clipboard") {
		err.Guidance += "\n\nTry using --target stdout as a fallback."
	}
	return err
}

// IsRecoverableError checks if an error can be recovered from
func IsRecoverableError(err error) bool {
	var copyErr *CopyError
	if !errors.As(err, &copyErr) {
		return false
	}

	switch copyErr.Type {
	case ErrOutputFailed:
		return strings.Contains(copyErr.Message, "clipboard") // Can fallback to stdout
	default:
		return false
	}
}
