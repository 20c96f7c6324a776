package model

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeRecord reads one documentation record from YAML.
// JSON input is accepted because JSON is a subset of YAML.
// Unknown keys are rejected so that typos do not silently drop a section.
//
// DecodeRecord does not validate the record; the assembler does that.
func DecodeRecord(r io.Reader) (*DocumentationRecord, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var rec DocumentationRecord
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyRecord
		}
		return nil, err
	}
	return &rec, nil
}

// LoadRecordFile reads a documentation record from a YAML or JSON file.
func LoadRecordFile(path string) (*DocumentationRecord, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided record path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open record file: %w", err)
	}
	defer f.Close()

	rec, err := DecodeRecord(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record file %s: %w", path, err)
	}
	return rec, nil
}
