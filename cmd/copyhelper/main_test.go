package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"copyhelper-cli/pkg/models"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "")
	cmd.Flags().Bool("yes", false, "")
	cmd.Flags().Bool("interactive", false, "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("log-file", "", "")
	cmd.Flags().Bool("quiet", false, "")
	addContextFlags(cmd)
	return cmd
}

func TestBuildRequestFromFlags(t *testing.T) {
	tests := []struct {
		name      string
		flags     map[string]string
		boolFlags map[string]bool
		expected  *models.CopyRequest
		wantErr   bool
	}{
		{
			name:     "no flags",
			expected: &models.CopyRequest{},
		},
		{
			name: "snapshot from stdin",
			flags: map[string]string{
				"snapshot": "-",
				"target":   " stdout ",
			},
			expected: &models.CopyRequest{
				SnapshotPath: "-",
				Target:       "stdout",
			},
		},
		{
			name: "file with selection and diagnostics",
			flags: map[string]string{
				"file":        "main.go",
				"selection":   "undefined: foo",
				"diagnostics": "diags.json",
				"template":    "prompt.tmpl",
			},
			expected: &models.CopyRequest{
				FilePath:        "main.go",
				Selection:       "undefined: foo",
				DiagnosticsPath: "diags.json",
				TemplateFile:    "prompt.tmpl",
			},
		},
		{
			name: "noninteractive notebook",
			flags: map[string]string{
				"notebook": "analysis.ipynb",
				"config":   "/tmp/config.toml",
			},
			boolFlags: map[string]bool{
				"yes": true,
			},
			expected: &models.CopyRequest{
				NotebookPath:        "analysis.ipynb",
				ConfigPath:          "/tmp/config.toml",
				ForceNonInteractive: true,
			},
		},
		{
			name: "logging and quiet overrides",
			flags: map[string]string{
				"log-level": " DEBUG ",
				"log-file":  "/tmp/copyhelper.log",
			},
			boolFlags: map[string]bool{
				"quiet": true,
			},
			expected: &models.CopyRequest{
				LogLevel: "debug",
				LogFile:  "/tmp/copyhelper.log",
				Quiet:    true,
			},
		},
		{
			name: "conflicting interactive flags",
			boolFlags: map[string]bool{
				"yes":         true,
				"interactive": true,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCommand()

			// Set flag values
			for flag, value := range tt.flags {
				if err := cmd.Flags().Set(flag, value); err != nil {
					t.Fatalf("Set(%s) failed: %v", flag, err)
				}
			}
			for flag, value := range tt.boolFlags {
				if value {
					if err := cmd.Flags().Set(flag, "true"); err != nil {
						t.Fatalf("Set(%s) failed: %v", flag, err)
					}
				}
			}

			result, err := buildRequestFromFlags(cmd)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("buildRequestFromFlags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildRequestFromFlags_Debounce(t *testing.T) {
	cmd := newTestCommand()
	cmd.Flags().Int("debounce", 0, "")

	if err := cmd.Flags().Set("debounce", "750"); err != nil {
		t.Fatalf("Set(debounce) failed: %v", err)
	}
	result, err := buildRequestFromFlags(cmd)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.DebounceMs != 750 {
		t.Errorf("Expected DebounceMs 750, got %d", result.DebounceMs)
	}

	if err := cmd.Flags().Set("debounce", "-1"); err != nil {
		t.Fatalf("Set(debounce) failed: %v", err)
	}
	if _, err := buildRequestFromFlags(cmd); err == nil {
		t.Errorf("Expected error for negative debounce")
	}
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"version", "watch"} {
		if !names[want] {
			t.Errorf("Expected subcommand %q to be registered", want)
		}
	}

	for _, flag := range []string{"config", "yes", "interactive", "log-level", "log-file", "quiet"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Expected persistent flag --%s", flag)
		}
	}
	if watchCmd.Flags().Lookup("debounce") == nil {
		t.Errorf("Expected watch flag --debounce")
	}
	if rootCmd.Flags().Lookup("debounce") != nil {
		t.Errorf("--debounce should only be registered on watch")
	}

	for _, flag := range []string{"snapshot", "notebook", "file", "selection", "diagnostics", "target", "template"} {
		if rootCmd.Flags().Lookup(flag) == nil {
			t.Errorf("Expected root flag --%s", flag)
		}
		if watchCmd.Flags().Lookup(flag) == nil {
			t.Errorf("Expected watch flag --%s", flag)
		}
	}
}
