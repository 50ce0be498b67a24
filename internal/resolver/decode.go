package resolver

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"copyhelper-cli/internal/editor"
)

type errorPayload struct {
	Name    string          `json:"name"`
	Message string          `json:"message"`
	Stack   json.RawMessage `json:"stack"`
}

// summary renders "name: message" for payloads whose stack carries no text
func (p errorPayload) summary() string {
	switch {
	case p.Name != "" && p.Message != "":
		return p.Name + ": " + p.Message
	case p.Name != "":
		return p.Name
	default:
		return p.Message
	}
}

// DecodeErrorItem extracts the traceback text from a notebook error output.
// A JSON payload with a non-blank "stack" array (or string) yields the joined
// stack. A blank or missing stack falls back to "name: message", then to the
// raw text. A payload that is not JSON yields its raw text together with a
// non-nil error. An undecodable base64 payload yields no text.
func DecodeErrorItem(item editor.OutputItem) (string, error) {
	data := item.Data
	if item.Encoding == editor.EncodingBase64 {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return "", fmt.Errorf("invalid base64 payload: %w", err)
		}
		data = decoded
	}

	raw := string(data)

	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return raw, fmt.Errorf("error payload is not JSON: %w", err)
	}

	if stack := decodeStack(payload.Stack); strings.TrimSpace(stack) != "" {
		return stack, nil
	}
	if summary := payload.summary(); summary != "" {
		return summary, nil
	}
	return raw, nil
}

func decodeStack(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, "\n")
	}

	var stack string
	if err := json.Unmarshal(raw, &stack); err == nil {
		return stack
	}
	return ""
}
