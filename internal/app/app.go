package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"copyhelper-cli/internal/interactive"
	"copyhelper-cli/internal/interfaces"
	"copyhelper-cli/internal/logging"
	"copyhelper-cli/internal/orchestrator"
	"copyhelper-cli/internal/watch"
	"copyhelper-cli/pkg/models"

	"go.uber.org/zap"
)

// stderr receives user-facing messages that must not mix with a prompt on stdout
var stderr io.Writer = os.Stderr

// Run executes a single copy-context invocation
func Run(request *models.CopyRequest) error {
	orch, cfg, logger, err := setup(request)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Resolve interactive mode based on flags and config
	resolveInteractiveMode(request, cfg)

	return copyOnce(orch, interactive.NewPrompter(), request, cfg)
}

// Watch re-runs the copy every time the snapshot file is rewritten, until ctx
// is cancelled
func Watch(ctx context.Context, request *models.CopyRequest) error {
	if request.SnapshotPath == "" {
		return orchestrator.NewValidationError("snapshot", "", "watch needs --snapshot <path>")
	}
	if request.SnapshotPath == orchestrator.StdinPath {
		return orchestrator.NewValidationError("snapshot", request.SnapshotPath, "stdin cannot be watched")
	}

	orch, cfg, logger, err := setup(request)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Nobody is at the keyboard between saves
	request.Interactive = false

	debounce := time.Duration(cfg.WatchDebounceMs) * time.Millisecond
	w, err := watch.New(request.SnapshotPath, debounce, func(context.Context) error {
		if err := copyOnce(orch, nil, request, cfg); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return err
		}
		return nil
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to start watch: %w", err)
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watch: %w", err)
	}
	defer w.Stop()

	fmt.Fprintf(stderr, "Watching %s (Ctrl-C to stop)\n", request.SnapshotPath)

	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	return nil
}

// setup loads configuration and wires the file logger into a new orchestrator
func setup(request *models.CopyRequest) (*orchestrator.Orchestrator, *interfaces.Config, *zap.Logger, error) {
	orch := orchestrator.New()

	cfg, err := orch.LoadConfiguration(request)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: file logging disabled: %v\n", err)
		logger = zap.NewNop()
	}
	orch.SetLogger(logger)

	return orch, cfg, logger, nil
}

// copyOnce generates, optionally confirms, and delivers one prompt. A nil
// prompter skips confirmation.
func copyOnce(orch *orchestrator.Orchestrator, prompter *interactive.Prompter, request *models.CopyRequest, cfg *interfaces.Config) error {
	result, err := orch.GeneratePrompt(request)
	if err != nil {
		return fmt.Errorf("prompt generation failed: %w", err)
	}

	if request.Interactive && prompter != nil {
		if err := prompter.ConfirmResolution(result.Resolution); err != nil {
			if errors.Is(err, interactive.ErrCancelled) {
				fmt.Fprintln(stderr, "Nothing copied.")
				return nil
			}
			return err
		}
	}

	if err := orch.OutputPrompt(result, request, cfg); err != nil {
		return fmt.Errorf("output failed: %w", err)
	}

	return nil
}

// resolveInteractiveMode determines the final interactive mode based on flags and config
func resolveInteractiveMode(request *models.CopyRequest, cfg *interfaces.Config) {
	// Priority: explicit flags > config default
	if request.ForceInteractive {
		request.Interactive = true
	} else if request.ForceNonInteractive {
		request.Interactive = false
	} else {
		request.Interactive = cfg.InteractiveDefault
	}
}
