package report

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/spdoc/internal/document"
	"github.com/nao1215/spdoc/internal/style"
)

// DefaultTextWidth is the line width used for rules and wrapping.
const DefaultTextWidth = 70

// TextWriter outputs documents as plain text.
// This format is designed for terminal display and for pasting into
// tickets or emails.
//
// Design decision: We use plain ASCII rules and indentation rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// The only style attribute honored is the indent, which keeps the
// parameter and step descriptions visually nested under their headings.
type TextWriter struct {
	baseWriter

	// width is the line width for rules and paragraph wrapping.
	width int
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithWidth sets the line width. Values below 20 are ignored.
func WithWidth(width int) TextWriterOption {
	return func(w *TextWriter) {
		if width >= 20 {
			w.width = width
		}
	}
}

// WithStyles sets the style provider used to resolve indentation.
// A nil provider keeps the default theme.
func WithStyles(provider style.Provider) TextWriterOption {
	return func(w *TextWriter) {
		if provider != nil {
			w.styles = provider
		}
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		width:      DefaultTextWidth,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the document as plain text.
func (w *TextWriter) Write(doc document.Document) (int, error) {
	var sb strings.Builder

	for i := 0; i < len(doc); i++ {
		in := doc[i]
		switch in.Kind {
		case document.KindTitle:
			w.writeTitle(&sb, in)
		case document.KindSubheading:
			// A section heading already ends with a blank line.
			if i == 0 || doc[i-1].Kind != document.KindTitle {
				sb.WriteString("\n")
			}
			indent := w.indent(in.Style)
			w.writeWrapped(&sb, in.Text, indent, indent)
		case document.KindParagraph:
			indent := w.indent(in.Style)
			w.writeWrapped(&sb, in.Text, indent, indent)
		case document.KindBullet:
			indent := w.indent(in.Style)
			w.writeWrapped(&sb, in.Text, indent+"* ", indent+"  ")
		case document.KindCodeBlock:
			w.writeCode(&sb, in.Text)
		case document.KindTableHeader, document.KindTableRow:
			// Collect the contiguous run of rows so columns can be aligned.
			end := runEnd(doc, i, document.KindTableHeader, document.KindTableRow)
			w.writeTable(&sb, doc[i:end])
			i = end - 1
		case document.KindDivider:
			sb.WriteString("\n")
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// writeTitle writes the document title as a banner and section headings
// with an underline.
func (w *TextWriter) writeTitle(sb *strings.Builder, in document.Instruction) {
	if in.Style == style.TagDocumentTitle {
		sb.WriteString(strings.Repeat("=", w.width))
		sb.WriteString("\n")
		if pad := (w.width - utf8.RuneCountInString(in.Text)) / 2; pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(in.Text)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", w.width))
		sb.WriteString("\n")
		return
	}

	sb.WriteString(strings.Repeat("-", w.width))
	sb.WriteString("\n")
	sb.WriteString(in.Text)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", w.width))
	sb.WriteString("\n\n")
}

// writeCode writes a code block indented by four spaces, line by line,
// without wrapping.
func (w *TextWriter) writeCode(sb *strings.Builder, code string) {
	sb.WriteString("\n")
	for _, line := range strings.Split(code, "\n") {
		sb.WriteString("    ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeTable writes rows as aligned columns separated by " | ".
// A header row is followed by a rule.
func (w *TextWriter) writeTable(sb *strings.Builder, rows document.Document) {
	var widths []int
	for _, r := range rows {
		for c, cell := range r.Cells {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], utf8.RuneCountInString(cell))
		}
	}

	for _, r := range rows {
		cells := make([]string, len(widths))
		for c := range widths {
			var cell string
			if c < len(r.Cells) {
				cell = r.Cells[c]
			}
			cells[c] = cell + strings.Repeat(" ", widths[c]-utf8.RuneCountInString(cell))
		}
		sb.WriteString(strings.TrimRight(strings.Join(cells, " | "), " "))
		sb.WriteString("\n")

		if r.Kind == document.KindTableHeader {
			rules := make([]string, len(widths))
			for c, n := range widths {
				rules[c] = strings.Repeat("-", n)
			}
			sb.WriteString(strings.Join(rules, "-+-"))
			sb.WriteString("\n")
		}
	}
}

// indent converts the style's indent from inches to spaces,
// eight spaces to the inch.
func (w *TextWriter) indent(tag style.Tag) string {
	n := int(w.lookup(tag).IndentIn * 8)
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// writeWrapped writes text word-wrapped to the writer width.
// Each input line starts with lead; wrapped continuation lines start
// with hang.
func (w *TextWriter) writeWrapped(sb *strings.Builder, text, lead, hang string) {
	for _, para := range strings.Split(text, "\n") {
		line := lead
		lineLen := utf8.RuneCountInString(line)
		first := true
		for _, word := range strings.Fields(para) {
			wl := utf8.RuneCountInString(word)
			if !first && lineLen+1+wl > w.width {
				sb.WriteString(line)
				sb.WriteString("\n")
				line, lineLen, first = hang, utf8.RuneCountInString(hang), true
			}
			if !first {
				line += " "
				lineLen++
			}
			line += word
			lineLen += wl
			first = false
		}
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteString("\n")
	}
}
