// Package model defines the documentation record consumed by the assembler.
//
// This package contains the following main types:
//   - DocumentationRecord: everything known about one stored procedure
//   - LogicFlow: either a list of steps or a single narrative paragraph
//   - Mode: standard or QA rendering
//   - ValidationError: a missing or out-of-range required field
//
// Design decision: We keep the record in its own package, free of any
// rendering concerns, so that the loader, the assembler, the history database
// and the CLI can all share it without import cycles.
//
// Records are decoded from YAML (JSON files are accepted as YAML) and are
// serializable to JSON for history storage.
package model
