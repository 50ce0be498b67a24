package resolver

import (
	"encoding/base64"
	"testing"

	"copyhelper-cli/internal/editor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func diag(sev editor.Severity, line int, msg string) editor.Diagnostic {
	return editor.Diagnostic{
		Severity: sev,
		Message:  msg,
		Range:    editor.Range{Start: editor.Position{Line: line}},
	}
}

func errorItem(data string) editor.OutputItem {
	return editor.OutputItem{MIME: editor.ErrorMIME, Data: []byte(data), Encoding: editor.EncodingUTF8}
}

func codeCell(text string, items ...editor.OutputItem) editor.Cell {
	cell := editor.Cell{Kind: editor.CellKindCode, LanguageID: "python", Text: text}
	if len(items) > 0 {
		cell.Outputs = []editor.Output{{Items: items}}
	}
	return cell
}

func TestResolve_StaticAnalysis(t *testing.T) {
	r := New(nil)

	res := r.Resolve(editor.TextContext{
		Text:        "a=1",
		Diagnostics: []editor.Diagnostic{diag(editor.SeverityError, 4, "unexpected token")},
	})

	assert.Equal(t, SourceStaticAnalysis, res.Source)
	assert.Equal(t, "[Line 5] unexpected token", res.ErrorSection)
	assert.Equal(t, "a=1", res.CodeText)
}

func TestResolve_SelectionDominatesDiagnostics(t *testing.T) {
	r := New(nil)

	res := r.Resolve(editor.TextContext{
		Text:        "x.foo()",
		Selection:   "TypeError: x undefined",
		Diagnostics: []editor.Diagnostic{diag(editor.SeverityError, 0, "x is not defined")},
	})

	assert.Equal(t, SourceEditorSelection, res.Source)
	assert.Equal(t, "User Selection", res.Source.Label())
	assert.Equal(t, "TypeError: x undefined", res.ErrorSection)
}

func TestResolve_SelectionKeptVerbatim(t *testing.T) {
	r := New(nil)

	res := r.Resolve(editor.TextContext{Text: "code", Selection: "  trace line\n"})

	assert.Equal(t, SourceEditorSelection, res.Source)
	assert.Equal(t, "  trace line\n", res.ErrorSection)
}

func TestResolve_BlankSelectionFallsThrough(t *testing.T) {
	r := New(nil)

	res := r.Resolve(editor.TextContext{
		Text:        "code",
		Selection:   " \n\t ",
		Diagnostics: []editor.Diagnostic{diag(editor.SeverityError, 1, "bad")},
	})

	assert.Equal(t, SourceStaticAnalysis, res.Source)
	assert.Equal(t, "[Line 2] bad", res.ErrorSection)
}

func TestResolve_OnlyErrorSeverityInDocumentOrder(t *testing.T) {
	r := New(nil)

	res := r.Resolve(editor.TextContext{
		Text: "code",
		Diagnostics: []editor.Diagnostic{
			diag(editor.SeverityError, 9, "second"),
			diag(editor.SeverityWarning, 0, "warning"),
			diag(editor.SeverityInformation, 1, "info"),
			diag(editor.SeverityHint, 2, "hint"),
			diag(editor.SeverityError, 3, "first"),
		},
	})

	assert.Equal(t, SourceStaticAnalysis, res.Source)
	assert.Equal(t, "[Line 4] first\n[Line 10] second", res.ErrorSection)
}

func TestResolve_TextWithoutSignal(t *testing.T) {
	r := New(nil)

	res := r.Resolve(editor.TextContext{
		Text:        "ok",
		LanguageID:  "go",
		URI:         "file:///ok.go",
		Diagnostics: []editor.Diagnostic{diag(editor.SeverityWarning, 0, "unused")},
	})

	assert.Equal(t, SourceNone, res.Source)
	assert.Empty(t, res.ErrorSection)
	assert.Equal(t, "ok", res.CodeText)
	assert.Equal(t, "go", res.Language)
	assert.Equal(t, "file:///ok.go", res.Origin)
}

func TestResolve_NoContext(t *testing.T) {
	r := New(nil)

	for _, ctx := range []editor.Context{editor.NoContext{}, nil} {
		res := r.Resolve(ctx)
		assert.Equal(t, SourceNone, res.Source)
		assert.Empty(t, res.CodeText)
		assert.Empty(t, res.ErrorSection)
	}
}

func TestResolve_NotebookWithoutErrors(t *testing.T) {
	r := New(nil)

	res := r.Resolve(editor.NotebookContext{Cells: []editor.Cell{
		codeCell("x=1"),
		{Kind: editor.CellKindMarkup, Text: "# notes"},
		codeCell("print(x)"),
	}})

	assert.Equal(t, SourceNone, res.Source)
	assert.Equal(t, "x=1\n\n# -- Next Cell --\n\nprint(x)", res.CodeText)
	assert.Empty(t, res.ErrorSection)
	assert.Equal(t, "python", res.Language)
}

func TestResolve_NotebookAutoDetect(t *testing.T) {
	r := New(nil)

	res := r.Resolve(editor.NotebookContext{Cells: []editor.Cell{
		codeCell("x=1"),
		codeCell("print(y)", errorItem(`{"name":"NameError","stack":["Traceback","NameError: y"]}`)),
		codeCell("z()", errorItem(`{"stack":"ZeroDivisionError"}`)),
	}})

	assert.Equal(t, SourceNotebookAutoDetect, res.Source)
	assert.Equal(t, "Traceback\nNameError: y\n\nZeroDivisionError", res.ErrorSection)
}

func TestResolve_NotebookErrorOnMarkupCellCounts(t *testing.T) {
	r := New(nil)

	markup := editor.Cell{
		Kind:    editor.CellKindMarkup,
		Text:    "# notes",
		Outputs: []editor.Output{{Items: []editor.OutputItem{errorItem(`{"stack":["boom"]}`)}}},
	}
	res := r.Resolve(editor.NotebookContext{Cells: []editor.Cell{codeCell("a"), markup}})

	assert.Equal(t, SourceNotebookAutoDetect, res.Source)
	assert.Equal(t, "boom", res.ErrorSection)
	assert.Equal(t, "a", res.CodeText)
}

func TestResolve_NotebookDecodeFailuresAreSwallowed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := New(zap.New(core))

	bad64 := editor.OutputItem{MIME: editor.ErrorMIME, Data: []byte("%%%not-base64"), Encoding: editor.EncodingBase64}
	res := r.Resolve(editor.NotebookContext{Cells: []editor.Cell{
		codeCell("a", bad64),
		codeCell("b", errorItem("plain traceback text")),
		codeCell("c", editor.OutputItem{MIME: "text/plain", Data: []byte("ignored")}),
	}})

	assert.Equal(t, SourceNotebookAutoDetect, res.Source)
	assert.Equal(t, "plain traceback text", res.ErrorSection)
	assert.Equal(t, 2, logs.FilterMessage("notebook error output not decoded").Len())
}

func TestResolve_NotebookErrorWithBlankStack(t *testing.T) {
	res := New(nil).Resolve(editor.NotebookContext{Cells: []editor.Cell{
		codeCell("raise E('m')", errorItem(`{"name":"E","message":"m","stack":[""]}`)),
	}})

	assert.Equal(t, SourceNotebookAutoDetect, res.Source)
	assert.Equal(t, "E: m", res.ErrorSection)
}

func TestResolve_NotebookOnlyUndecodableErrors(t *testing.T) {
	bad64 := editor.OutputItem{MIME: editor.ErrorMIME, Data: []byte("%%%not-base64"), Encoding: editor.EncodingBase64}
	res := New(nil).Resolve(editor.NotebookContext{Cells: []editor.Cell{
		codeCell("x = 1", bad64),
	}})

	assert.Equal(t, SourceNotebookAutoDetect, res.Source)
	assert.Equal(t, UndecodedErrorText, res.ErrorSection)
	assert.Equal(t, "x = 1", res.CodeText)
}

func TestDecodeErrorItem(t *testing.T) {
	payload := `{"stack":["line1","line2"]}`

	tests := []struct {
		name    string
		item    editor.OutputItem
		want    string
		wantErr bool
	}{
		{name: "stack array", item: errorItem(payload), want: "line1\nline2"},
		{name: "stack string", item: errorItem(`{"stack":"one"}`), want: "one"},
		{name: "missing stack", item: errorItem(`{"message":"m"}`), want: "m"},
		{name: "missing stack with name", item: errorItem(`{"name":"ValueError","message":"bad"}`), want: "ValueError: bad"},
		{name: "empty stack", item: errorItem(`{"stack":[]}`), want: `{"stack":[]}`},
		{name: "blank stack lines", item: errorItem(`{"name":"E","message":"m","stack":[""]}`), want: "E: m"},
		{name: "blank stack string", item: errorItem(`{"name":"E","stack":"  "}`), want: "E"},
		{name: "stack of wrong type", item: errorItem(`{"stack":42}`), want: `{"stack":42}`},
		{name: "not json", item: errorItem("Traceback"), want: "Traceback", wantErr: true},
		{
			name: "base64 payload",
			item: editor.OutputItem{
				MIME:     editor.ErrorMIME,
				Data:     []byte(base64.StdEncoding.EncodeToString([]byte(payload))),
				Encoding: editor.EncodingBase64,
			},
			want: "line1\nline2",
		},
		{
			name:    "bad base64",
			item:    editor.OutputItem{MIME: editor.ErrorMIME, Data: []byte("!!"), Encoding: editor.EncodingBase64},
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeErrorItem(tt.item)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource_Labels(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Sources {
		assert.NotEmpty(t, s.Label())
		assert.False(t, seen[s.String()], "duplicate name %s", s)
		seen[s.String()] = true
	}
	assert.False(t, SourceNone.Resolved())
	assert.True(t, SourceStaticAnalysis.Resolved())
}
