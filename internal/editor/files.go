package editor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var languageByExt = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascriptreact",
	".ts":   "typescript",
	".tsx":  "typescriptreact",
	".rs":   "rust",
	".java": "java",
	".kt":   "kotlin",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".hpp":  "cpp",
	".cs":   "csharp",
	".rb":   "ruby",
	".php":  "php",
	".sh":   "shellscript",
	".sql":  "sql",
	".html": "html",
	".css":  "css",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".md":   "markdown",
}

// LanguageForPath guesses the host language id from a file extension
func LanguageForPath(path string) string {
	return languageByExt[strings.ToLower(filepath.Ext(path))]
}

// LoadTextFile builds a TextContext from a file on disk. selection is taken
// verbatim; diagnosticsPath, when set, names a JSON array of diagnostics.
func LoadTextFile(path, selection, diagnosticsPath string) (TextContext, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return TextContext{}, err
	}

	uri := path
	if abs, err := filepath.Abs(path); err == nil {
		uri = "file://" + filepath.ToSlash(abs)
	}

	tc := TextContext{
		URI:        uri,
		LanguageID: LanguageForPath(path),
		Text:       string(content),
		Selection:  selection,
	}

	if diagnosticsPath != "" {
		diags, err := LoadDiagnosticsFile(diagnosticsPath)
		if err != nil {
			return TextContext{}, err
		}
		tc.Diagnostics = diags
	}

	return tc, nil
}

// LoadDiagnosticsFile reads a JSON array of diagnostics
func LoadDiagnosticsFile(path string) ([]Diagnostic, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var diags []Diagnostic
	if err := json.Unmarshal(content, &diags); err != nil {
		return nil, fmt.Errorf("failed to decode diagnostics %s: %w", path, err)
	}
	return diags, nil
}
