package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"copyhelper-cli/internal/app"
	"copyhelper-cli/pkg/models"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = runtime.Version()
)

var rootCmd = &cobra.Command{
	Use:   "copyhelper",
	Short: "Copy the current error and code as a ready-to-paste AI prompt",
	Long: `copyhelper packages what you are looking at in your editor into a prompt for an
AI assistant and puts it on the clipboard.

The error signal is picked in priority order: error outputs of notebook cells, then
the text you selected in the editor, then Error-severity diagnostics of the file.
When none is found a generic review prompt is copied and a warning is shown.

Editor state is read from a JSON snapshot (--snapshot, "-" for stdin), a Jupyter
notebook (--notebook) or a file on disk (--file with optional --selection and
--diagnostics).

Interactive mode can be controlled via config (interactive_default), overridden with
-i (force interactive) or -y (force non-interactive).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check if version flag is set
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			versionCmd.Run(cmd, args)
			return nil
		}

		request, err := buildRequestFromFlags(cmd)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		return app.Run(request)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information including build version, commit, date, and platform details.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("copyhelper version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		fmt.Printf("  go version: %s\n", goVersion)
		fmt.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Copy again every time the editor rewrites its snapshot",
	Long: `Watch a snapshot file and run a full copy each time it is written. Bursts of
writes are debounced by watch_debounce_ms (or --debounce). Runs never overlap and never prompt.
Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := buildRequestFromFlags(cmd)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return app.Watch(ctx, request)
	},
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default ~/.config/copyhelper/config.toml)")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "noninteractive mode - copy without asking")
	rootCmd.PersistentFlags().BoolP("interactive", "i", false, "force interactive mode (overrides config default)")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "print version information")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (overrides log_level)")
	rootCmd.PersistentFlags().String("log-file", "", "log file path (overrides log_file)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "do not print the completion notification")

	watchCmd.Flags().Int("debounce", 0, "milliseconds to wait for writes to settle (overrides watch_debounce_ms)")

	addContextFlags(rootCmd)
	addContextFlags(watchCmd)
}

// addContextFlags registers the editor input and output flags on cmd
func addContextFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("snapshot", "s", "", "editor snapshot JSON file (\"-\" reads stdin)")
	cmd.Flags().String("notebook", "", "Jupyter notebook (.ipynb) to scan for error outputs")
	cmd.Flags().StringP("file", "f", "", "source file to use as the active document")
	cmd.Flags().String("selection", "", "selected text in --file")
	cmd.Flags().String("diagnostics", "", "JSON file with diagnostics for --file")
	cmd.Flags().StringP("target", "t", "", "output target (clipboard, stdout, file:/path)")
	cmd.Flags().String("template", "", "custom prompt template file (overrides template_file)")
}

// buildRequestFromFlags constructs a CopyRequest from command flags
func buildRequestFromFlags(cmd *cobra.Command) (*models.CopyRequest, error) {
	request := models.NewCopyRequest()

	var err error

	if request.ConfigPath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}

	// Handle interactive mode flags
	if request.ForceNonInteractive, err = cmd.Flags().GetBool("yes"); err != nil {
		return nil, fmt.Errorf("invalid yes flag: %w", err)
	}

	if request.ForceInteractive, err = cmd.Flags().GetBool("interactive"); err != nil {
		return nil, fmt.Errorf("invalid interactive flag: %w", err)
	}

	// Validate that both flags are not set
	if request.ForceInteractive && request.ForceNonInteractive {
		return nil, fmt.Errorf("cannot use both --interactive and --yes flags")
	}

	if request.SnapshotPath, err = cmd.Flags().GetString("snapshot"); err != nil {
		return nil, fmt.Errorf("invalid snapshot flag: %w", err)
	}

	if request.NotebookPath, err = cmd.Flags().GetString("notebook"); err != nil {
		return nil, fmt.Errorf("invalid notebook flag: %w", err)
	}

	if request.FilePath, err = cmd.Flags().GetString("file"); err != nil {
		return nil, fmt.Errorf("invalid file flag: %w", err)
	}

	if request.Selection, err = cmd.Flags().GetString("selection"); err != nil {
		return nil, fmt.Errorf("invalid selection flag: %w", err)
	}

	if request.DiagnosticsPath, err = cmd.Flags().GetString("diagnostics"); err != nil {
		return nil, fmt.Errorf("invalid diagnostics flag: %w", err)
	}

	if request.Target, err = cmd.Flags().GetString("target"); err != nil {
		return nil, fmt.Errorf("invalid target flag: %w", err)
	}
	request.Target = strings.TrimSpace(request.Target)

	if request.TemplateFile, err = cmd.Flags().GetString("template"); err != nil {
		return nil, fmt.Errorf("invalid template flag: %w", err)
	}

	if request.LogLevel, err = cmd.Flags().GetString("log-level"); err != nil {
		return nil, fmt.Errorf("invalid log-level flag: %w", err)
	}
	request.LogLevel = strings.ToLower(strings.TrimSpace(request.LogLevel))

	if request.LogFile, err = cmd.Flags().GetString("log-file"); err != nil {
		return nil, fmt.Errorf("invalid log-file flag: %w", err)
	}

	if request.Quiet, err = cmd.Flags().GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("invalid quiet flag: %w", err)
	}

	// --debounce only exists on watch
	if cmd.Flags().Lookup("debounce") != nil {
		if request.DebounceMs, err = cmd.Flags().GetInt("debounce"); err != nil {
			return nil, fmt.Errorf("invalid debounce flag: %w", err)
		}
		if request.DebounceMs < 0 {
			return nil, fmt.Errorf("--debounce must not be negative")
		}
	}

	return request, nil
}

func main() {
	// Disable usage on error to show only our custom error messages
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
