package template

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"copyhelper-cli/internal/interfaces"

	"github.com/Masterminds/sprig/v3"
)

// DefaultTemplate is the built-in three-part prompt layout: intro, error
// section, then the fenced code.
const DefaultTemplate = `{{ .Intro }}

{{ .ErrorSection }}

[Relevant Code]:
{{ mdFence .Language .Code }}

Please give me the corrected code directly and explain the cause.`

// Processor implements the TemplateProcessor interface
type Processor struct{}

// NewProcessor creates a new template processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadTemplate loads a prompt template from a file
func (p *Processor) LoadTemplate(path string) (*template.Template, error) {
	content, err := os.ReadFile(expandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", path, err)
	}

	tmpl, err := p.parse(path, string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	return tmpl, nil
}

// Default returns the built-in prompt template
func (p *Processor) Default() (*template.Template, error) {
	return p.parse("default", DefaultTemplate)
}

func (p *Processor) parse(name, content string) (*template.Template, error) {
	tmpl := template.New(name)
	p.registerHelpersToTemplate(tmpl)
	return tmpl.Parse(content)
}

// Execute executes a template with the provided data
func (p *Processor) Execute(tmpl *template.Template, data interfaces.PromptData) (string, error) {
	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// registerHelpersToTemplate registers both sprig and custom helper functions to a template
func (p *Processor) registerHelpersToTemplate(tmpl *template.Template) {
	funcMap := sprig.TxtFuncMap()

	funcMap["mdFence"] = mdFenceFunc
	funcMap["indent"] = indentFunc

	tmpl.Funcs(funcMap)
}

// mdFenceFunc wraps content in a markdown fenced code block with optional
// language. The fence is made longer than any backtick run inside content.
func mdFenceFunc(language, content string) string {
	fence := strings.Repeat("`", max(3, longestBacktickRun(content)+1))
	return fmt.Sprintf("%s%s\n%s\n%s", fence, language, content, fence)
}

func longestBacktickRun(s string) int {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

// indentFunc indents each line of text by the specified number of spaces
func indentFunc(spaces int, text string) string {
	if spaces <= 0 {
		return text
	}

	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) != "" { // Don't indent empty lines
			lines[i] = indent + line
		}
	}

	return strings.Join(lines, "\n")
}

// expandPath expands ~ to user home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return homeDir + path[1:]
}
