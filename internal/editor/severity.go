package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Severity mirrors the host's diagnostic severity levels. The numeric values
// match the host so snapshots can carry either form.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

var severityNames = map[string]Severity{
	"error":       SeverityError,
	"warning":     SeverityWarning,
	"warn":        SeverityWarning,
	"information": SeverityInformation,
	"info":        SeverityInformation,
	"hint":        SeverityHint,
}

// String returns the lowercase host name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity converts a host severity name to a Severity
func ParseSeverity(name string) (Severity, error) {
	if s, ok := severityNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("unknown diagnostic severity: %q", name)
}

// MarshalJSON encodes the severity by name
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either the host name or its numeric value
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseSeverity(name)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("diagnostic severity must be a name or number: %s", string(data))
	}
	if n < int(SeverityError) || n > int(SeverityHint) {
		return fmt.Errorf("diagnostic severity out of range: %d", n)
	}
	*s = Severity(n)
	return nil
}

// ErrMissingSeverity rejects diagnostics that do not state a severity, since
// the zero Severity is SeverityError
var ErrMissingSeverity = errors.New("diagnostic has no severity")

// UnmarshalJSON decodes a diagnostic and requires its severity to be present
func (d *Diagnostic) UnmarshalJSON(data []byte) error {
	var wire struct {
		Severity *Severity `json:"severity"`
		Message  string    `json:"message"`
		Range    Range     `json:"range"`
		Source   string    `json:"source"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Severity == nil {
		return fmt.Errorf("%w: %q", ErrMissingSeverity, wire.Message)
	}

	*d = Diagnostic{
		Severity: *wire.Severity,
		Message:  wire.Message,
		Range:    wire.Range,
		Source:   wire.Source,
	}
	return nil
}
