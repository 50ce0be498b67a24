package resolver

// Source identifies which signal supplied the error/context section of a prompt
type Source int

const (
	SourceNone Source = iota
	SourceNotebookAutoDetect
	SourceTerminalSelection
	SourceEditorSelection
	SourceStaticAnalysis
)

// Sources lists every Source value
var Sources = []Source{
	SourceNone,
	SourceNotebookAutoDetect,
	SourceTerminalSelection,
	SourceEditorSelection,
	SourceStaticAnalysis,
}

func (s Source) String() string {
	switch s {
	case SourceNotebookAutoDetect:
		return "notebook"
	case SourceTerminalSelection:
		return "terminal"
	case SourceEditorSelection:
		return "selection"
	case SourceStaticAnalysis:
		return "diagnostics"
	default:
		return "none"
	}
}

// Label is the human-readable name shown in notifications
func (s Source) Label() string {
	switch s {
	case SourceNotebookAutoDetect:
		return "Notebook Auto-Detect"
	case SourceTerminalSelection:
		return "Terminal Selection"
	case SourceEditorSelection:
		return "User Selection"
	case SourceStaticAnalysis:
		return "Static Analysis"
	default:
		return "None"
	}
}

// Resolved reports whether a signal was found
func (s Source) Resolved() bool {
	return s != SourceNone
}
