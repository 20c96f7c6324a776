package style

import "errors"

var (
	// ErrInvalidColor is returned for colors not in "#RRGGBB" form.
	ErrInvalidColor = errors.New("invalid color: must be #RRGGBB")

	// ErrNegativeMeasure is returned for negative sizes, indents or spacing.
	ErrNegativeMeasure = errors.New("invalid measure: must be non-negative")
)
