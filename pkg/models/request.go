package models

// CopyRequest represents the inputs of a single copy-context invocation
type CopyRequest struct {
	ConfigPath      string
	SnapshotPath    string
	NotebookPath    string
	FilePath        string
	Selection       string
	DiagnosticsPath string
	Target          string
	TemplateFile    string
	LogFile         string
	LogLevel        string

	// Quiet suppresses the completion notification
	Quiet bool
	// DebounceMs overrides watch_debounce_ms when positive
	DebounceMs int

	Interactive         bool
	ForceInteractive    bool
	ForceNonInteractive bool
}

// NewCopyRequest creates a request with default values
func NewCopyRequest() *CopyRequest {
	return &CopyRequest{}
}

// HasContextInput reports whether the request names any editor input
func (r *CopyRequest) HasContextInput() bool {
	return r.SnapshotPath != "" || r.NotebookPath != "" || r.FilePath != ""
}
