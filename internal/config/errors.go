package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. ErrUnknownFormat is wrapped with the offending
// name, everything else is returned as is.
var (
	// ErrNoTarget is returned when no record file is specified.
	// This error occurs when neither --batch nor a positional argument provides a target.
	ErrNoTarget = errors.New("no target specified: provide a record file or use --batch")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no record is ever processed.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrNoFormat is returned when the format list is empty.
	ErrNoFormat = errors.New("no output format specified")

	// ErrUnknownFormat is returned when a format name is not supported.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrInvalidOutputDir is returned when files are to be written but no
	// output directory is set.
	ErrInvalidOutputDir = errors.New("invalid output directory: must not be empty unless --stdout is used")

	// ErrInvalidTextWidth is returned when the text width is too small to
	// hold a heading.
	ErrInvalidTextWidth = errors.New("invalid text width: must be at least 20")

	// ErrUnknownStyleTag is returned when the configuration file overrides a
	// style tag that does not exist.
	ErrUnknownStyleTag = errors.New("unknown style tag")
)
