package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Snapshot kinds written by editor integrations
const (
	KindText     = "text"
	KindNotebook = "notebook"
	KindNone     = "none"
)

var (
	ErrUnknownKind     = errors.New("unknown snapshot kind")
	ErrMissingDocument = errors.New("text snapshot has no document")
	ErrMissingNotebook = errors.New("notebook snapshot has no notebook")
)

// Snapshot is the JSON document an editor integration hands to the CLI
type Snapshot struct {
	Kind     string            `json:"kind"`
	Document *DocumentSnapshot `json:"document,omitempty"`
	Notebook *NotebookSnapshot `json:"notebook,omitempty"`
}

// DocumentSnapshot is the wire form of a TextContext
type DocumentSnapshot struct {
	URI         string       `json:"uri"`
	LanguageID  string       `json:"languageId"`
	Text        string       `json:"text"`
	Selection   string       `json:"selection"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NotebookSnapshot is the wire form of a NotebookContext
type NotebookSnapshot struct {
	URI   string         `json:"uri"`
	Cells []CellSnapshot `json:"cells"`
}

// CellSnapshot is the wire form of a Cell
type CellSnapshot struct {
	Kind       CellKind         `json:"kind"`
	LanguageID string           `json:"languageId"`
	Text       string           `json:"text"`
	Outputs    []OutputSnapshot `json:"outputs"`
}

// OutputSnapshot is the wire form of an Output
type OutputSnapshot struct {
	Items []OutputItemSnapshot `json:"items"`
}

// OutputItemSnapshot is the wire form of an OutputItem
type OutputItemSnapshot struct {
	MIME     string   `json:"mime"`
	Data     string   `json:"data"`
	Encoding Encoding `json:"encoding,omitempty"`
}

// LoadSnapshot reads a JSON snapshot and converts it to an editor Context
func LoadSnapshot(r io.Reader) (Context, error) {
	var snap Snapshot
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap.Context()
}

// LoadSnapshotFile reads a JSON snapshot from path
func LoadSnapshotFile(path string) (Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadSnapshot(f)
}

// Context converts the wire snapshot to the matching editor Context. A
// snapshot without a kind takes it from the single payload it carries.
func (s Snapshot) Context() (Context, error) {
	kind := strings.ToLower(strings.TrimSpace(s.Kind))
	if kind == "" {
		switch {
		case s.Document != nil && s.Notebook != nil:
			return nil, fmt.Errorf("%w: missing kind with both document and notebook", ErrUnknownKind)
		case s.Document != nil:
			kind = KindText
		case s.Notebook != nil:
			kind = KindNotebook
		default:
			kind = KindNone
		}
	}

	switch kind {
	case KindText:
		if s.Document == nil {
			return nil, ErrMissingDocument
		}
		return s.Document.context(), nil
	case KindNotebook:
		if s.Notebook == nil {
			return nil, ErrMissingNotebook
		}
		return s.Notebook.context()
	case KindNone:
		return NoContext{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}

func (d *DocumentSnapshot) context() TextContext {
	return TextContext{
		URI:         d.URI,
		LanguageID:  d.LanguageID,
		Text:        d.Text,
		Selection:   d.Selection,
		Diagnostics: d.Diagnostics,
	}
}

func (n *NotebookSnapshot) context() (NotebookContext, error) {
	nb := NotebookContext{URI: n.URI, Cells: make([]Cell, 0, len(n.Cells))}

	for i, cs := range n.Cells {
		kind := CellKind(strings.ToLower(string(cs.Kind)))
		switch kind {
		case CellKindCode, CellKindMarkup:
		case "markdown":
			kind = CellKindMarkup
		default:
			return NotebookContext{}, fmt.Errorf("cell %d: unknown cell kind %q", i, cs.Kind)
		}

		cell := Cell{Kind: kind, LanguageID: cs.LanguageID, Text: cs.Text}
		for _, o := range cs.Outputs {
			out := Output{Items: make([]OutputItem, 0, len(o.Items))}
			for _, item := range o.Items {
				enc := item.Encoding
				if enc == "" {
					enc = EncodingUTF8
				}
				out.Items = append(out.Items, OutputItem{
					MIME:     item.MIME,
					Data:     []byte(item.Data),
					Encoding: enc,
				})
			}
			cell.Outputs = append(cell.Outputs, out)
		}
		nb.Cells = append(nb.Cells, cell)
	}

	return nb, nil
}
