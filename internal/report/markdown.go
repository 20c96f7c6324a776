package report

import (
	"io"
	"slices"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/spdoc/internal/document"
	"github.com/nao1215/spdoc/internal/style"
)

// syntaxSQL is the fence language for usage examples.
const syntaxSQL markdown.SyntaxHighlight = "sql"

// MarkdownWriter outputs documents in Markdown format.
// This format is designed for repositories, wikis and code review.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. Correct escaping of table cells
//
// Headings map to H1 (document title), H2 (numbered sections) and H3
// (subheadings). Consecutive bullets are grouped into one list and
// consecutive table rows into one table.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the document in Markdown format.
func (w *MarkdownWriter) Write(doc document.Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	for i := 0; i < len(doc); i++ {
		in := doc[i]
		switch in.Kind {
		case document.KindTitle:
			w.writeTitle(md, in)
		case document.KindSubheading:
			md.H3(in.Text)
			md.PlainText("")
		case document.KindParagraph:
			w.writeParagraph(md, in)
		case document.KindBullet:
			end := runEnd(doc, i, document.KindBullet)
			items := make([]string, 0, end-i)
			for _, b := range doc[i:end] {
				items = append(items, b.Text)
			}
			md.BulletList(items...)
			md.PlainText("")
			i = end - 1
		case document.KindCodeBlock:
			md.CodeBlocks(syntaxSQL, in.Text)
			md.PlainText("")
		case document.KindTableHeader, document.KindTableRow:
			end := runEnd(doc, i, document.KindTableHeader, document.KindTableRow)
			md.Table(tableSet(doc[i:end]))
			md.PlainText("")
			i = end - 1
		case document.KindDivider:
			md.HorizontalRule()
			md.PlainText("")
		}
	}

	return len(md.String()), md.Build()
}

// writeTitle writes the document title as H1 and every other title as H2.
func (w *MarkdownWriter) writeTitle(md *markdown.Markdown, in document.Instruction) {
	if in.Style == style.TagDocumentTitle {
		md.H1(in.Text)
	} else {
		md.H2(in.Text)
	}
	md.PlainText("")
}

// writeParagraph writes a paragraph, using emphasis to carry the parts of
// the style that Markdown can express.
func (w *MarkdownWriter) writeParagraph(md *markdown.Markdown, in document.Instruction) {
	if in.Text == "" {
		return
	}

	text := in.Text
	switch in.Style {
	case style.TagQualifiedName:
		text = "`" + text + "`"
	case style.TagPlaceholder, style.TagNote, style.TagDocumentSubtitle:
		text = emphasize(text, "*")
	default:
		if w.lookup(in.Style).Bold {
			text = emphasize(text, "**")
		}
	}
	md.PlainText(text)
	md.PlainText("")
}

// emphasize wraps the trimmed text in marker. CommonMark does not treat a
// delimiter next to whitespace as emphasis, so the surrounding spaces stay
// outside ("Created: " becomes "**Created:** ").
func emphasize(text, marker string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	start := strings.Index(text, trimmed)
	return text[:start] + marker + trimmed + marker + text[start+len(trimmed):]
}

// tableSet converts a run of table instructions to a markdown table.
// A run without a header row gets an empty header of matching width.
func tableSet(rows document.Document) markdown.TableSet {
	var set markdown.TableSet
	for _, r := range rows {
		cells := make([]string, len(r.Cells))
		for c, cell := range r.Cells {
			cells[c] = strings.ReplaceAll(cell, "\n", " ")
		}
		if r.Kind == document.KindTableHeader && set.Header == nil {
			set.Header = cells
			continue
		}
		set.Rows = append(set.Rows, cells)
	}
	if set.Header == nil && len(set.Rows) > 0 {
		set.Header = make([]string, len(set.Rows[0]))
	}
	return set
}

// runEnd returns the index just past the run of instructions starting at
// start whose kind is one of kinds.
func runEnd(doc document.Document, start int, kinds ...document.Kind) int {
	end := start
	for end < len(doc) && slices.Contains(kinds, doc[end].Kind) {
		end++
	}
	return end
}
