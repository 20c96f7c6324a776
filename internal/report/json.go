package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/spdoc/internal/document"
)

// JSONWriter writes the instruction sequence itself, for tools that drive
// their own renderer (a word-processor converter, for example).
//
// Design decision: encoding/json is used because document.Digest hashes the
// same encoding, so a consumer can recompute the digest from the output.
// HTML escaping is off; record prose and SQL contain '<' and '&' often and
// the output is never embedded in a page.
type JSONWriter struct {
	baseWriter
	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent and starts every line
// after the first with prefix.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix, w.indent = prefix, indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter. Output is compact unless an indent
// option is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONDocument is the envelope written by JSONWriter.
type JSONDocument struct {
	// Digest is document.Document.Digest of Instructions.
	Digest string `json:"digest"`

	// Sections is the number of numbered sections.
	Sections int `json:"sections"`

	// Outline lists the title and section headings.
	Outline []document.Heading `json:"outline"`

	Instructions document.Document `json:"instructions"`
}

// NewJSONDocument wraps doc with its digest, section count and outline.
func NewJSONDocument(doc document.Document) (*JSONDocument, error) {
	if doc == nil {
		doc = document.Document{}
	}
	digest, err := doc.Digest()
	if err != nil {
		return nil, err
	}
	outline := doc.Outline()
	if outline == nil {
		outline = []document.Heading{}
	}
	return &JSONDocument{
		Digest:       digest,
		Sections:     doc.SectionCount(),
		Outline:      outline,
		Instructions: doc,
	}, nil
}

// Write encodes doc as one JSONDocument followed by a newline.
func (w *JSONWriter) Write(doc document.Document) (int, error) {
	env, err := NewJSONDocument(doc)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.prefix != "" || w.indent != "" {
		enc.SetIndent(w.prefix, w.indent)
	}
	if err := enc.Encode(env); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
