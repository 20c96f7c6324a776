package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects the wording of the generated document.
// QA mode changes the title, the metadata type label and the purpose
// introduction; it never changes which sections are emitted.
type Mode int

const (
	// ModeStandard documents a production procedure.
	ModeStandard Mode = iota

	// ModeQA documents a data-quality validation procedure.
	ModeQA
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeQA:
		return "qa"
	default:
		return "unknown"
	}
}

// IsValid reports whether m is one of the declared modes.
func (m Mode) IsValid() bool {
	return m == ModeStandard || m == ModeQA
}

// ParseMode parses a mode name. The empty string means ModeStandard.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "production":
		return ModeStandard, nil
	case "qa":
		return ModeQA, nil
	default:
		return ModeStandard, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m Mode) MarshalYAML() (any, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return m.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d", ErrUnknownMode, value.Line)
	}
	return m.UnmarshalText([]byte(value.Value))
}
