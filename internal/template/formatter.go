package template

import (
	"fmt"
	"time"
	"unicode/utf8"

	"copyhelper-cli/internal/interfaces"
	"copyhelper-cli/internal/resolver"
)

// MaxCodeChars is the hard cap on code characters placed in a prompt
const MaxCodeChars = 10000

// NoErrorMessage stands in for the error section when no signal was found
const NoErrorMessage = "(No explicit error detected in the current file. Please check the logic or suggest optimizations.)"

var intros = map[resolver.Source]string{
	resolver.SourceNotebookAutoDetect: "I'm working in a Jupyter notebook and a cell raised an error. Please analyze the traceback below and fix the code.",
	resolver.SourceTerminalSelection:  "I ran the code below and the terminal printed an error. Please analyze the output and fix the code.",
	resolver.SourceEditorSelection:    "I selected the text below in my editor. Please analyze it together with the file and help me fix the problem.",
	resolver.SourceStaticAnalysis:     "My editor reports the errors below for this file. Please analyze them and fix the code.",
}

const defaultIntro = "I'm running into a problem with the code below. Please review it, point out bugs, and suggest improvements."

var sectionLabels = map[resolver.Source]string{
	resolver.SourceNotebookAutoDetect: "[Notebook Error Output]:",
	resolver.SourceTerminalSelection:  "[Terminal Output]:",
	resolver.SourceEditorSelection:    "[User Selection]:",
	resolver.SourceStaticAnalysis:     "[Error Messages (please fix these first)]:",
}

// Intro returns the opening sentence for a source
func Intro(source resolver.Source) string {
	if intro, ok := intros[source]; ok {
		return intro
	}
	return defaultIntro
}

// SectionLabel returns the heading of the error section for a source, or ""
// for SourceNone
func SectionLabel(source resolver.Source) string {
	return sectionLabels[source]
}

// TruncateCode keeps the first MaxCodeChars characters of code
func TruncateCode(code string) string {
	if len(code) <= MaxCodeChars {
		return code
	}
	if utf8.RuneCountInString(code) <= MaxCodeChars {
		return code
	}

	n := 0
	for i := range code {
		if n == MaxCodeChars {
			return code[:i]
		}
		n++
	}
	return code
}

// BuildPromptData maps a resolution onto template variables
func BuildPromptData(res resolver.Resolution, now time.Time) interfaces.PromptData {
	data := interfaces.PromptData{
		Intro:    Intro(res.Source),
		Label:    SectionLabel(res.Source),
		Errors:   res.ErrorSection,
		Code:     TruncateCode(res.CodeText),
		Language: res.Language,
		Origin:   res.Origin,
		Source:   res.Source.String(),
		Now:      now,
	}

	if res.Source.Resolved() {
		data.ErrorSection = fmt.Sprintf("%s\n%s", data.Label, res.ErrorSection)
	} else {
		data.ErrorSection = NoErrorMessage
	}

	return data
}

// Formatter turns a resolution into the final prompt string
type Formatter struct {
	processor    interfaces.TemplateProcessor
	templateFile string
	now          func() time.Time
}

// NewFormatter creates a formatter. An empty templateFile selects the
// built-in layout.
func NewFormatter(processor interfaces.TemplateProcessor, templateFile string) *Formatter {
	return &Formatter{
		processor:    processor,
		templateFile: templateFile,
		now:          time.Now,
	}
}

// Format renders the prompt for res
func (f *Formatter) Format(res resolver.Resolution) (string, error) {
	tmpl, err := f.processor.Default()
	if f.templateFile != "" {
		tmpl, err = f.processor.LoadTemplate(f.templateFile)
	}
	if err != nil {
		return "", err
	}

	return f.processor.Execute(tmpl, BuildPromptData(res, f.now()))
}
