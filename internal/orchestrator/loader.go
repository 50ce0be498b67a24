package orchestrator

import (
	"io"
	"os"

	"copyhelper-cli/internal/editor"
	"copyhelper-cli/pkg/models"
)

// StdinPath selects standard input as the snapshot source
const StdinPath = "-"

// ContextLoader implements interfaces.ContextLoader on top of the editor package
type ContextLoader struct {
	stdin io.Reader
}

// NewContextLoader creates a loader that reads "-" snapshots from os.Stdin
func NewContextLoader() *ContextLoader {
	return &ContextLoader{stdin: os.Stdin}
}

// Load returns the editor context described by the request
func (l *ContextLoader) Load(request *models.CopyRequest) (editor.Context, error) {
	if !request.HasContextInput() {
		return editor.NoContext{}, nil
	}

	switch {
	case request.SnapshotPath == StdinPath:
		ctx, err := editor.LoadSnapshot(l.stdin)
		if err != nil {
			return nil, NewContextLoadError("stdin", err)
		}
		return ctx, nil

	case request.SnapshotPath != "":
		ctx, err := editor.LoadSnapshotFile(request.SnapshotPath)
		if err != nil {
			return nil, NewContextLoadError(request.SnapshotPath, err)
		}
		return ctx, nil

	case request.NotebookPath != "":
		nb, err := editor.LoadNotebookFile(request.NotebookPath)
		if err != nil {
			return nil, NewContextLoadError(request.NotebookPath, err)
		}
		return nb, nil

	case request.FilePath != "":
		tc, err := editor.LoadTextFile(request.FilePath, request.Selection, request.DiagnosticsPath)
		if err != nil {
			source := request.FilePath
			if request.DiagnosticsPath != "" {
				if info, statErr := os.Stat(request.FilePath); statErr == nil && info.Mode().IsRegular() {
					source = request.DiagnosticsPath
				}
			}
			return nil, NewContextLoadError(source, err)
		}
		return tc, nil
	}

	return editor.NoContext{}, nil
}
