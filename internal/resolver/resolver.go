// Package resolver decides which editor signal supplies the error section of a
// prompt. Precedence: notebook error outputs when a notebook is active; for a
// text editor a non-blank selection, then Error-severity diagnostics; otherwise
// nothing.
package resolver

import (
	"fmt"
	"slices"
	"strings"

	"copyhelper-cli/internal/editor"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CellSeparator is inserted between consecutive code cells of a notebook
const CellSeparator = "\n\n# -- Next Cell --\n\n"

// UndecodedErrorText stands in for the error section when a notebook reported
// errors but none of their payloads could be read
const UndecodedErrorText = "(A cell raised an error, but its output could not be decoded. Please re-run the cell and check its output.)"

// Resolution is the outcome of a single resolve pass
type Resolution struct {
	Source       Source
	ErrorSection string
	CodeText     string
	Language     string
	Origin       string
}

// Resolver applies the context resolution policy to an editor snapshot
type Resolver struct {
	logger *zap.Logger
}

// New creates a resolver. A nil logger discards decode diagnostics.
func New(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve inspects ctx and returns the winning source with its text.
// It never fails: the absence of any signal yields SourceNone.
func (r *Resolver) Resolve(ctx editor.Context) Resolution {
	switch c := ctx.(type) {
	case editor.NotebookContext:
		return r.resolveNotebook(c)
	case editor.TextContext:
		return r.resolveText(c)
	case editor.NoContext, nil:
		return Resolution{Source: SourceNone}
	default:
		panic(fmt.Sprintf("resolver: unhandled editor context %T", ctx))
	}
}

func (r *Resolver) resolveText(tc editor.TextContext) Resolution {
	res := Resolution{
		Source:   SourceNone,
		CodeText: tc.Text,
		Language: tc.LanguageID,
		Origin:   tc.URI,
	}

	if strings.TrimSpace(tc.Selection) != "" {
		res.Source = SourceEditorSelection
		res.ErrorSection = tc.Selection
		return res
	}

	if errs := FormatErrorDiagnostics(tc.Diagnostics); errs != "" {
		res.Source = SourceStaticAnalysis
		res.ErrorSection = errs
	}

	return res
}

// FormatErrorDiagnostics renders Error-severity diagnostics as
// "[Line N] message" lines in document order. Other severities are dropped.
func FormatErrorDiagnostics(diags []editor.Diagnostic) string {
	errs := lo.Filter(diags, func(d editor.Diagnostic, _ int) bool {
		return d.Severity == editor.SeverityError
	})
	if len(errs) == 0 {
		return ""
	}

	slices.SortStableFunc(errs, func(a, b editor.Diagnostic) int {
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line - b.Range.Start.Line
		}
		return a.Range.Start.Character - b.Range.Start.Character
	})

	lines := lo.Map(errs, func(d editor.Diagnostic, _ int) string {
		return fmt.Sprintf("[Line %d] %s", d.Range.Start.Line+1, d.Message)
	})
	return strings.Join(lines, "\n")
}

func (r *Resolver) resolveNotebook(nb editor.NotebookContext) Resolution {
	res := Resolution{Source: SourceNone, Origin: nb.URI}

	var code []string
	for _, cell := range nb.Cells {
		if !cell.IsCode() {
			continue
		}
		if res.Language == "" {
			res.Language = cell.LanguageID
		}
		code = append(code, cell.Text)
	}
	res.CodeText = strings.Join(code, CellSeparator)

	var (
		errs  []string
		found bool
	)
	for i, cell := range nb.Cells {
		for _, out := range cell.Outputs {
			for _, item := range out.Items {
				if !item.IsError() {
					continue
				}
				found = true
				text, err := DecodeErrorItem(item)
				if err != nil {
					r.logger.Debug("notebook error output not decoded",
						zap.Int("cell", i),
						zap.String("mime", item.MIME),
						zap.Error(err))
				}
				if text != "" {
					errs = append(errs, text)
				}
			}
		}
	}

	if found {
		res.Source = SourceNotebookAutoDetect
		res.ErrorSection = strings.Join(errs, "\n\n")
		if res.ErrorSection == "" {
			res.ErrorSection = UndecodedErrorText
		}
	}

	return res
}
