package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/spdoc/internal/document"
	"github.com/nao1215/spdoc/internal/style"
)

// Writer defines the interface for document output.
// Implementations write an assembled document in a specific format.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or a buffer
// with the same API.
type Writer interface {
	// Write renders the document to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(doc document.Document) (int, error)
}

// MultiWriter writes to multiple Writers in sequence.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because each Writer renders its own format;
// the bytes differ per destination.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the document to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(doc document.Document) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(doc)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for document writers.
type baseWriter struct {
	output io.Writer
	styles style.Provider
}

// newBaseWriter creates a baseWriter with the given output destination.
// The default theme is used for style lookups.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output, styles: style.DefaultTheme()}
}

// lookup resolves a style tag.
func (b baseWriter) lookup(tag style.Tag) style.Style {
	return b.styles.Lookup(tag)
}

// Format is an output format name as used on the command line and in the
// config file.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatHTML, FormatJSON}
}

// ParseFormat converts a user supplied name to a Format.
// "md" and "txt" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatExtension returns the file extension, without the dot, used when
// a document is written to a file.
func FormatExtension(format Format) string {
	switch format {
	case FormatMarkdown:
		return "md"
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// NewWriter creates the Writer for format. A nil provider selects the
// default theme.
func NewWriter(format Format, output io.Writer, provider style.Provider) (Writer, error) {
	switch format {
	case FormatText:
		return NewTextWriter(output, WithStyles(provider)), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatHTML:
		return NewHTMLWriter(output, WithHTMLStyles(provider)), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
