package resolver

import (
	"fmt"
	"strings"
	"testing"

	"copyhelper-cli/internal/editor"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestResolverProperties(t *testing.T) {
	r := New(nil)
	properties := gopter.NewProperties(nil)

	properties.Property("non-blank selection always wins over diagnostics", prop.ForAll(
		func(selection string, severities []int) bool {
			diags := make([]editor.Diagnostic, 0, len(severities))
			for i, s := range severities {
				diags = append(diags, diag(editor.Severity(s), i, fmt.Sprintf("m%d", i)))
			}
			res := r.Resolve(editor.TextContext{Text: "code", Selection: selection, Diagnostics: diags})
			return res.Source == SourceEditorSelection && res.ErrorSection == selection
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("diagnostics source iff an Error-severity diagnostic exists", prop.ForAll(
		func(severities []int) bool {
			diags := make([]editor.Diagnostic, 0, len(severities))
			errCount := 0
			for i, s := range severities {
				if editor.Severity(s) == editor.SeverityError {
					errCount++
				}
				diags = append(diags, diag(editor.Severity(s), i, "msg"))
			}
			res := r.Resolve(editor.TextContext{Text: "code", Diagnostics: diags})
			if errCount == 0 {
				return res.Source == SourceNone && res.ErrorSection == ""
			}
			return res.Source == SourceStaticAnalysis &&
				strings.Count(res.ErrorSection, "\n") == errCount-1
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("code cells are joined in order, markup cells excluded", prop.ForAll(
		func(texts []string, markupMask []bool) bool {
			var cells []editor.Cell
			var want []string
			for i, text := range texts {
				if i < len(markupMask) && markupMask[i] {
					cells = append(cells, editor.Cell{Kind: editor.CellKindMarkup, Text: text})
					continue
				}
				cells = append(cells, codeCell(text))
				want = append(want, text)
			}
			res := r.Resolve(editor.NotebookContext{Cells: cells})
			return res.CodeText == strings.Join(want, CellSeparator) && res.Source == SourceNone
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
