package editor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Stream output MIME types used for Jupyter stdout/stderr outputs
const (
	StdoutMIME = "application/vnd.code.notebook.stdout"
	StderrMIME = "application/vnd.code.notebook.stderr"
)

// ipynbDocument is the subset of nbformat v4 needed to build a NotebookContext
type ipynbDocument struct {
	NBFormat int         `json:"nbformat"`
	Metadata ipynbMeta   `json:"metadata"`
	Cells    []ipynbCell `json:"cells"`
}

type ipynbMeta struct {
	LanguageInfo struct {
		Name string `json:"name"`
	} `json:"language_info"`
	KernelSpec struct {
		Language string `json:"language"`
	} `json:"kernelspec"`
}

type ipynbCell struct {
	CellType string        `json:"cell_type"`
	Source   multilineText `json:"source"`
	Outputs  []ipynbOutput `json:"outputs"`
}

type ipynbOutput struct {
	OutputType string                     `json:"output_type"`
	Name       string                     `json:"name"`
	Text       multilineText              `json:"text"`
	Data       map[string]json.RawMessage `json:"data"`
	EName      string                     `json:"ename"`
	EValue     string                     `json:"evalue"`
	Traceback  []string                   `json:"traceback"`
}

// multilineText accepts nbformat's "string or list of strings" fields
type multilineText string

func (m *multilineText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = multilineText(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*m = multilineText(strings.Join(lines, ""))
	return nil
}

// notebookError is the payload shape hosts use for error output items
type notebookError struct {
	Name    string   `json:"name"`
	Message string   `json:"message"`
	Stack   []string `json:"stack"`
}

// LoadNotebook parses a Jupyter notebook (nbformat 4)
func LoadNotebook(r io.Reader, uri string) (NotebookContext, error) {
	var doc ipynbDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return NotebookContext{}, fmt.Errorf("failed to decode notebook: %w", err)
	}
	if doc.NBFormat != 0 && doc.NBFormat < 4 {
		return NotebookContext{}, fmt.Errorf("unsupported nbformat %d (need 4 or later)", doc.NBFormat)
	}

	language := doc.Metadata.LanguageInfo.Name
	if language == "" {
		language = doc.Metadata.KernelSpec.Language
	}

	nb := NotebookContext{URI: uri, Cells: make([]Cell, 0, len(doc.Cells))}
	for _, c := range doc.Cells {
		cell := Cell{Text: string(c.Source)}
		switch c.CellType {
		case "code":
			cell.Kind = CellKindCode
			cell.LanguageID = language
		case "markdown":
			cell.Kind = CellKindMarkup
			cell.LanguageID = "markdown"
		default:
			cell.Kind = CellKindMarkup
		}

		for _, o := range c.Outputs {
			if out, ok := convertOutput(o); ok {
				cell.Outputs = append(cell.Outputs, out)
			}
		}
		nb.Cells = append(nb.Cells, cell)
	}

	return nb, nil
}

// LoadNotebookFile parses the notebook at path
func LoadNotebookFile(path string) (NotebookContext, error) {
	f, err := os.Open(path)
	if err != nil {
		return NotebookContext{}, err
	}
	defer f.Close()

	uri := path
	if abs, err := filepath.Abs(path); err == nil {
		uri = "file://" + filepath.ToSlash(abs)
	}
	return LoadNotebook(f, uri)
}

func convertOutput(o ipynbOutput) (Output, bool) {
	switch o.OutputType {
	case "error":
		stack := make([]string, 0, len(o.Traceback))
		for _, line := range o.Traceback {
			stack = append(stack, ansi.Strip(line))
		}
		payload, err := json.Marshal(notebookError{Name: o.EName, Message: o.EValue, Stack: stack})
		if err != nil {
			return Output{}, false
		}
		return Output{Items: []OutputItem{{MIME: ErrorMIME, Data: payload, Encoding: EncodingUTF8}}}, true

	case "stream":
		mime := StdoutMIME
		if o.Name == "stderr" {
			mime = StderrMIME
		}
		return Output{Items: []OutputItem{{MIME: mime, Data: []byte(o.Text), Encoding: EncodingUTF8}}}, true

	case "execute_result", "display_data":
		out := Output{}
		mimes := make([]string, 0, len(o.Data))
		for mime := range o.Data {
			mimes = append(mimes, mime)
		}
		slices.Sort(mimes)
		for _, mime := range mimes {
			raw := o.Data[mime]
			var text multilineText
			if err := json.Unmarshal(raw, &text); err != nil {
				// Non-text payloads (e.g. JSON widgets) are kept verbatim.
				text = multilineText(raw)
			}
			out.Items = append(out.Items, OutputItem{MIME: mime, Data: []byte(text), Encoding: EncodingUTF8})
		}
		return out, len(out.Items) > 0
	}

	return Output{}, false
}
