package orchestrator

import (
	"fmt"
	"os"
	"strings"

	"copyhelper-cli/internal/config"
	"copyhelper-cli/internal/interfaces"
	"copyhelper-cli/internal/resolver"
	"copyhelper-cli/internal/template"
	"copyhelper-cli/pkg/models"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Result is a generated prompt together with the resolution that produced it
type Result struct {
	Prompt     string
	Resolution resolver.Resolution
}

// Orchestrator coordinates all components to generate prompts
type Orchestrator struct {
	configManager     interfaces.ConfigManager
	contextLoader     interfaces.ContextLoader
	templateProcessor interfaces.TemplateProcessor
	outputHandler     interfaces.OutputHandler
	notifier          interfaces.Notifier
	resolver          *resolver.Resolver
	logger            *zap.Logger
	stdinIsTerminal   func() bool
}

// New creates a new orchestrator with all required components
func New() *Orchestrator {
	return &Orchestrator{
		configManager:     config.NewManager(),
		contextLoader:     NewContextLoader(),
		templateProcessor: template.NewProcessor(),
		outputHandler:     NewOutputHandler(),
		notifier:          NewConsoleNotifier(),
		resolver:          resolver.New(nil),
		logger:            zap.NewNop(),
		stdinIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// SetLogger replaces the logger used by the orchestrator and its resolver
func (o *Orchestrator) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o.logger = logger
	o.resolver = resolver.New(logger)
}

// LoadConfiguration loads and resolves configuration with precedence (exported for app layer)
func (o *Orchestrator) LoadConfiguration(request *models.CopyRequest) (*interfaces.Config, error) {
	if manager, ok := o.configManager.(*config.Manager); ok {
		manager.SetFlag("target", request.Target)
		manager.SetFlag("template_file", request.TemplateFile)
		manager.SetFlag("log_file", request.LogFile)
		manager.SetFlag("log_level", request.LogLevel)
		if request.Quiet {
			manager.SetFlag("notify", false)
		}
		if request.DebounceMs > 0 {
			manager.SetFlag("watch_debounce_ms", request.DebounceMs)
		}
	}

	cfg, err := o.loadConfiguration(request.ConfigPath)
	if err != nil {
		return nil, RecoverFromError(NewConfigurationError("failed to load configuration", err))
	}

	// Apply configuration defaults to request
	o.applyConfigDefaults(request, cfg)

	return cfg, nil
}

// loadConfiguration loads and resolves configuration with precedence
func (o *Orchestrator) loadConfiguration(configPath string) (*interfaces.Config, error) {
	if _, err := o.configManager.Load(configPath); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg, err := o.configManager.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	if err := o.configManager.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyConfigDefaults applies configuration defaults to the request
func (o *Orchestrator) applyConfigDefaults(request *models.CopyRequest, cfg *interfaces.Config) {
	if request.Target == "" && cfg.Target != "" {
		request.Target = cfg.Target
	}
	if request.TemplateFile == "" && cfg.TemplateFile != "" {
		request.TemplateFile = cfg.TemplateFile
	}
	if !cfg.Notify {
		o.notifier = silentNotifier{}
	}
}

// GeneratePrompt loads the editor context, resolves the error source and
// renders the prompt
func (o *Orchestrator) GeneratePrompt(request *models.CopyRequest) (*Result, error) {
	if err := o.validateRequest(request); err != nil {
		return nil, RecoverFromError(err)
	}

	ctx, err := o.contextLoader.Load(request)
	if err != nil {
		return nil, RecoverFromError(err)
	}

	res := o.resolver.Resolve(ctx)
	o.logger.Info("context resolved",
		zap.String("source", res.Source.String()),
		zap.String("origin", res.Origin),
		zap.Int("code_chars", len(res.CodeText)),
		zap.Int("error_chars", len(res.ErrorSection)))

	formatter := template.NewFormatter(o.templateProcessor, request.TemplateFile)
	prompt, err := formatter.Format(res)
	if err != nil {
		name := request.TemplateFile
		if name == "" {
			name = "default"
		}
		return nil, RecoverFromError(NewTemplateError(name, err))
	}

	return &Result{Prompt: prompt, Resolution: res}, nil
}

// OutputPrompt handles the final output of the generated prompt and raises
// the matching notification
func (o *Orchestrator) OutputPrompt(result *Result, request *models.CopyRequest, cfg *interfaces.Config) error {
	target := request.Target
	if target == "" {
		target = cfg.Target
	}
	if target == "" {
		target = "clipboard"
	}

	destination := target
	switch {
	case target == "clipboard":
		if err := o.outputHandler.WriteToClipboard(result.Prompt); err != nil {
			outputErr := NewOutputError(target, err)
			if IsRecoverableError(outputErr) {
				o.logger.Warn("clipboard unavailable, falling back to stdout", zap.Error(err))
				fmt.Fprintf(os.Stderr, "Warning: %s\nFalling back to stdout:\n\n", outputErr.Error())
				if err := o.outputHandler.WriteToStdout(result.Prompt); err != nil {
					return RecoverFromError(NewOutputError("stdout", err))
				}
				destination = "stdout"
				break
			}
			return RecoverFromError(outputErr)
		}

	case target == "stdout":
		if err := o.outputHandler.WriteToStdout(result.Prompt); err != nil {
			return RecoverFromError(NewOutputError(target, err))
		}

	case strings.HasPrefix(target, "file:"):
		filePath := strings.TrimPrefix(target, "file:")
		if err := o.outputHandler.WriteToFile(result.Prompt, filePath); err != nil {
			return RecoverFromError(NewOutputError(target, err))
		}

	default:
		return RecoverFromError(NewValidationError("target", target, "unsupported output target"))
	}

	o.logger.Info("prompt delivered",
		zap.String("target", destination),
		zap.String("source", result.Resolution.Source.String()),
		zap.Int("prompt_chars", len(result.Prompt)))

	o.notify(result.Resolution.Source, destination, len(result.Prompt))
	return nil
}

// notify raises a success notification when a source was resolved and a
// warning otherwise
func (o *Orchestrator) notify(source resolver.Source, destination string, size int) {
	where := "Context copied to clipboard"
	switch {
	case destination == "stdout":
		where = "Context written to stdout"
	case strings.HasPrefix(destination, "file:"):
		where = fmt.Sprintf("Context written to %s", strings.TrimPrefix(destination, "file:"))
	}

	if source.Resolved() {
		o.notifier.Info(fmt.Sprintf("%s (%s, %s). Paste it into your assistant.",
			where, source.Label(), humanize.Bytes(uint64(size))))
		return
	}
	o.notifier.Warn(fmt.Sprintf("%s, but no error was detected. Select the error text first for a focused prompt.", where))
}

// validateRequest validates the copy request
func (o *Orchestrator) validateRequest(request *models.CopyRequest) error {
	if request == nil {
		return NewValidationError("request", nil, "request cannot be nil")
	}

	inputs := 0
	for _, path := range []string{request.SnapshotPath, request.NotebookPath, request.FilePath} {
		if path != "" {
			inputs++
		}
	}
	if inputs > 1 {
		return NewValidationError("inputs", inputs, "only one editor input may be given")
	}

	if request.FilePath == "" {
		if request.Selection != "" {
			return NewValidationError("selection", request.Selection, "requires --file")
		}
		if request.DiagnosticsPath != "" {
			return NewValidationError("diagnostics", request.DiagnosticsPath, "requires --file")
		}
	}

	if request.SnapshotPath == StdinPath && o.stdinIsTerminal() {
		return NewValidationError("snapshot", StdinPath, "stdin is a terminal, nothing was piped in")
	}

	if request.Target != "" && !config.ValidTarget(request.Target) {
		return NewValidationError("target", request.Target, "must be 'clipboard', 'stdout', or 'file:/path'")
	}

	if request.ConfigPath != "" {
		if _, err := os.Stat(request.ConfigPath); os.IsNotExist(err) {
			return NewValidationError("config_path", request.ConfigPath, "file does not exist")
		}
	}

	return nil
}
