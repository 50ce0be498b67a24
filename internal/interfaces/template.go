package interfaces

import (
	"text/template"
	"time"
)

// PromptData contains all variables available to prompt templates
type PromptData struct {
	Intro        string    `json:"intro"`
	Label        string    `json:"label"`
	ErrorSection string    `json:"error_section"`
	Errors       string    `json:"errors"`
	Code         string    `json:"code"`
	Language     string    `json:"language"`
	Origin       string    `json:"origin"`
	Source       string    `json:"source"`
	Now          time.Time `json:"now"`
}

// TemplateProcessor handles template loading and execution
type TemplateProcessor interface {
	// LoadTemplate loads a template from the specified path
	LoadTemplate(path string) (*template.Template, error)

	// Default returns the built-in prompt template
	Default() (*template.Template, error)

	// Execute executes a template with the provided data
	Execute(tmpl *template.Template, data PromptData) (string, error)
}
