package report

import "errors"

// ErrUnknownFormat is returned when an output format name is not supported.
var ErrUnknownFormat = errors.New("unknown output format")
