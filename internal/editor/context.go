package editor

// Context is a read-only snapshot of the host surface that was active when the
// command fired. It is one of TextContext, NotebookContext or NoContext.
type Context interface {
	isEditorContext()
}

// TextContext describes an active plain text editor
type TextContext struct {
	URI         string
	LanguageID  string
	Text        string
	Selection   string
	Diagnostics []Diagnostic
}

// NotebookContext describes an active notebook editor
type NotebookContext struct {
	URI   string
	Cells []Cell
}

// NoContext means neither a text editor nor a notebook was active
type NoContext struct{}

func (TextContext) isEditorContext()     {}
func (NotebookContext) isEditorContext() {}
func (NoContext) isEditorContext()       {}

// Position is a zero-based line/character location in a document
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a span between two positions
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is a host-reported issue anchored to a range in a document
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Range    Range    `json:"range"`
	Source   string   `json:"source,omitempty"`
}

// CellKind distinguishes code cells from markup cells
type CellKind string

const (
	CellKindCode   CellKind = "code"
	CellKindMarkup CellKind = "markup"
)

// ErrorMIME is the output item type notebook hosts use for runtime errors
const ErrorMIME = "application/vnd.code.notebook.error"

// Cell is a single notebook cell
type Cell struct {
	Kind       CellKind
	LanguageID string
	Text       string
	Outputs    []Output
}

// IsCode reports whether the cell holds executable code
func (c Cell) IsCode() bool {
	return c.Kind == CellKindCode
}

// Output is one execution output of a cell; it may carry several representations
type Output struct {
	Items []OutputItem
}

// OutputItem is a single MIME-typed payload. Data is kept as delivered by the
// host; decoding is up to the consumer.
type OutputItem struct {
	MIME     string
	Data     []byte
	Encoding Encoding
}

// Encoding describes how an output item's Data is encoded
type Encoding string

const (
	EncodingUTF8   Encoding = "utf8"
	EncodingBase64 Encoding = "base64"
)

// IsError reports whether the item is a runtime error payload
func (i OutputItem) IsError() bool {
	return i.MIME == ErrorMIME
}
