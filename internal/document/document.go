// Package document defines the render instructions exchanged between the
// assembler and the sinks.
//
// An instruction says what block to draw and with which style tag. It never
// carries concrete visual values; sinks resolve tags through a style.Provider.
package document

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/spdoc/internal/style"
)

// Kind is the block kind of an instruction.
type Kind int

// Block kinds.
const (
	KindTitle Kind = iota
	KindSubheading
	KindParagraph
	KindBullet
	KindCodeBlock
	KindTableHeader
	KindTableRow
	KindDivider
)

var kindNames = [...]string{
	KindTitle:       "title",
	KindSubheading:  "subheading",
	KindParagraph:   "paragraph",
	KindBullet:      "bullet",
	KindCodeBlock:   "code-block",
	KindTableHeader: "table-header",
	KindTableRow:    "table-row",
	KindDivider:     "divider",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k.String() == "unknown" {
		return nil, fmt.Errorf("unknown block kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown block kind %q", string(text))
}

// Instruction is one block of document content.
type Instruction struct {
	Kind Kind `json:"kind"`

	// Text is the block content. It is empty for dividers and table rows.
	Text string `json:"text,omitempty"`

	// Cells holds the columns of a table header or table row.
	Cells []string `json:"cells,omitempty"`

	Style style.Tag `json:"style"`

	// Section is the 1-based number of the section that emitted the block.
	Section int `json:"section"`
}

// Document is the ordered instruction sequence for one record.
type Document []Instruction

// Digest returns a hex SHA3-256 digest of the canonical JSON encoding of d.
// Equal documents always have equal digests.
func (d Document) Digest() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Heading is one entry of a document outline.
type Heading struct {
	Section int    `json:"section"`
	Label   string `json:"label"`
}

// Outline returns the section headings in order: the document title and
// every section-heading title.
func (d Document) Outline() []Heading {
	var out []Heading
	for _, in := range d {
		if in.Kind != KindTitle {
			continue
		}
		out = append(out, Heading{Section: in.Section, Label: in.Text})
	}
	return out
}

// SectionCount returns the number of distinct sections in d.
func (d Document) SectionCount() int {
	n := 0
	for _, in := range d {
		if in.Section > n {
			n = in.Section
		}
	}
	return n
}

// Filter returns the instructions of the given kind.
func (d Document) Filter(kind Kind) Document {
	var out Document
	for _, in := range d {
		if in.Kind == kind {
			out = append(out, in)
		}
	}
	return out
}

// Section returns the instructions emitted by section n.
func (d Document) Section(n int) Document {
	var out Document
	for _, in := range d {
		if in.Section == n {
			out = append(out, in)
		}
	}
	return out
}
