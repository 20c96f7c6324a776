package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// LogicFlowKind tags the shape held by a LogicFlow.
type LogicFlowKind int

const (
	// LogicFlowNarrative is a single prose paragraph.
	LogicFlowNarrative LogicFlowKind = iota

	// LogicFlowSteps is an ordered list of titled steps.
	LogicFlowSteps
)

// String returns a human-readable name of the kind.
func (k LogicFlowKind) String() string {
	switch k {
	case LogicFlowNarrative:
		return "narrative"
	case LogicFlowSteps:
		return "steps"
	default:
		return "unknown"
	}
}

// Step is one titled step of a logic flow.
type Step struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// LogicFlow is a tagged union of Steps and Narrative.
// The zero value is an empty narrative.
//
// Design decision: the fields are unexported so that the only way to read a
// LogicFlow is Match, which requires a handler for both shapes. Adding a new
// shape therefore breaks every caller at compile time instead of silently
// falling through a type switch.
type LogicFlow struct {
	kind      LogicFlowKind
	steps     []Step
	narrative string
}

// Steps builds a step-list logic flow.
func Steps(steps ...Step) LogicFlow {
	return LogicFlow{kind: LogicFlowSteps, steps: slices.Clone(steps)}
}

// Narrative builds a single-paragraph logic flow.
func Narrative(text string) LogicFlow {
	return LogicFlow{kind: LogicFlowNarrative, narrative: text}
}

// Kind returns the shape held by f.
func (f LogicFlow) Kind() LogicFlowKind {
	return f.kind
}

// Match calls exactly one of the handlers depending on the shape of f.
// The step slice passed to onSteps is a copy.
func (f LogicFlow) Match(onSteps func(steps []Step), onNarrative func(text string)) {
	switch f.kind {
	case LogicFlowSteps:
		onSteps(slices.Clone(f.steps))
	default:
		onNarrative(f.narrative)
	}
}

// IsZero reports whether f is the empty narrative. It lets omitempty drop
// an unset logic flow when marshalling.
func (f LogicFlow) IsZero() bool {
	return f.kind == LogicFlowNarrative && f.narrative == ""
}

// MarshalJSON implements json.Marshaler.
func (f LogicFlow) MarshalJSON() ([]byte, error) {
	if f.kind == LogicFlowSteps {
		steps := f.steps
		if steps == nil {
			steps = []Step{}
		}
		return json.Marshal(steps)
	}
	return json.Marshal(f.narrative)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *LogicFlow) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*f = LogicFlow{}
		return nil
	case trimmed[0] == '[':
		var steps []Step
		if err := json.Unmarshal(trimmed, &steps); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLogicFlow, err)
		}
		*f = Steps(steps...)
		return nil
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLogicFlow, err)
		}
		*f = Narrative(text)
		return nil
	default:
		return ErrInvalidLogicFlow
	}
}

// MarshalYAML implements yaml.Marshaler.
func (f LogicFlow) MarshalYAML() (any, error) {
	if f.kind == LogicFlowSteps {
		return f.steps, nil
	}
	return f.narrative, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
// The shape is decided by the YAML node kind, never by inspecting values.
func (f *LogicFlow) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var steps []Step
		if err := value.Decode(&steps); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLogicFlow, err)
		}
		*f = Steps(steps...)
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*f = LogicFlow{}
			return nil
		}
		*f = Narrative(value.Value)
		return nil
	default:
		return fmt.Errorf("%w (line %d)", ErrInvalidLogicFlow, value.Line)
	}
}
