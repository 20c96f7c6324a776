package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/spdoc/internal/document"
	"github.com/nao1215/spdoc/internal/style"
)

// HTMLWriter outputs documents as a standalone HTML page.
//
// Design decision: We build a golang.org/x/net/html node tree and let
// html.Render serialize it instead of concatenating strings. The renderer
// escapes text and attribute values, so record prose containing "<" or
// "&" can never break the markup. Visual attributes come from the style
// provider and are emitted as inline CSS, which keeps the page a single
// self-contained file that survives being mailed or attached to a ticket.
type HTMLWriter struct {
	baseWriter
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithHTMLStyles sets the style provider used for inline CSS.
// A nil provider keeps the default theme.
func WithHTMLStyles(provider style.Provider) HTMLWriterOption {
	return func(w *HTMLWriter) {
		if provider != nil {
			w.styles = provider
		}
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the document as HTML.
func (w *HTMLWriter) Write(doc document.Document) (int, error) {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	page := element(atom.Html, html.Attribute{Key: "lang", Val: "en"})
	root.AppendChild(page)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	title := element(atom.Title)
	title.AppendChild(text(documentTitle(doc)))
	head.AppendChild(title)
	page.AppendChild(head)

	body := element(atom.Body, html.Attribute{Key: "style", Val: w.css(style.TagBody)})
	page.AppendChild(body)

	for i := 0; i < len(doc); i++ {
		in := doc[i]
		switch in.Kind {
		case document.KindTitle:
			tag := atom.H2
			if in.Style == style.TagDocumentTitle {
				tag = atom.H1
			}
			body.AppendChild(w.block(tag, in))
		case document.KindSubheading:
			body.AppendChild(w.block(atom.H3, in))
		case document.KindParagraph:
			body.AppendChild(w.block(atom.P, in))
		case document.KindBullet:
			end := runEnd(doc, i, document.KindBullet)
			list := element(atom.Ul)
			for _, b := range doc[i:end] {
				list.AppendChild(w.block(atom.Li, b))
			}
			body.AppendChild(list)
			i = end - 1
		case document.KindCodeBlock:
			pre := element(atom.Pre, w.attrs(in.Style)...)
			code := element(atom.Code)
			code.AppendChild(text(in.Text))
			pre.AppendChild(code)
			body.AppendChild(pre)
		case document.KindTableHeader, document.KindTableRow:
			end := runEnd(doc, i, document.KindTableHeader, document.KindTableRow)
			body.AppendChild(w.table(doc[i:end]))
			i = end - 1
		case document.KindDivider:
			body.AppendChild(element(atom.Hr, w.attrs(in.Style)...))
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return 0, fmt.Errorf("failed to render html: %w", err)
	}
	buf.WriteByte('\n')

	return w.output.Write(buf.Bytes())
}

// block creates an element holding the instruction text.
func (w *HTMLWriter) block(a atom.Atom, in document.Instruction) *html.Node {
	n := element(a, w.attrs(in.Style)...)
	n.AppendChild(text(in.Text))
	return n
}

// table creates a table from a run of header and row instructions.
func (w *HTMLWriter) table(rows document.Document) *html.Node {
	t := element(atom.Table, html.Attribute{Key: "style", Val: "border-collapse: collapse"})
	var thead, tbody *html.Node

	for _, r := range rows {
		cellAtom := atom.Td
		section := tbody
		if r.Kind == document.KindTableHeader {
			cellAtom = atom.Th
			if thead == nil {
				thead = element(atom.Thead)
				t.AppendChild(thead)
			}
			section = thead
		} else if tbody == nil {
			tbody = element(atom.Tbody)
			t.AppendChild(tbody)
			section = tbody
		}

		tr := element(atom.Tr)
		for _, cell := range r.Cells {
			td := element(cellAtom, w.attrs(r.Style)...)
			td.AppendChild(text(cell))
			tr.AppendChild(td)
		}
		section.AppendChild(tr)
	}
	return t
}

// attrs returns the class and inline style attributes for tag.
func (w *HTMLWriter) attrs(tag style.Tag) []html.Attribute {
	attrs := []html.Attribute{{Key: "class", Val: string(tag)}}
	if css := w.css(tag); css != "" {
		attrs = append(attrs, html.Attribute{Key: "style", Val: css})
	}
	return attrs
}

// genericFamily is the CSS fallback family for tag. Only code falls back
// to a monospace face.
func genericFamily(tag style.Tag) string {
	if tag == style.TagCodeBlock {
		return "monospace"
	}
	return "sans-serif"
}

// css converts a resolved style to an inline CSS declaration list.
func (w *HTMLWriter) css(tag style.Tag) string {
	s := w.lookup(tag)
	var decls []string

	if s.Font != "" {
		decls = append(decls, "font-family: "+s.Font+", "+genericFamily(tag))
	}
	if s.SizePt > 0 {
		decls = append(decls, "font-size: "+pt(s.SizePt))
	}
	if s.Bold {
		decls = append(decls, "font-weight: bold")
	}
	if s.Color != "" {
		decls = append(decls, "color: "+s.Color)
	}
	if s.FillColor != "" {
		decls = append(decls, "background-color: "+s.FillColor)
	}
	if s.IndentIn > 0 {
		decls = append(decls, "margin-left: "+strconv.FormatFloat(s.IndentIn, 'f', -1, 64)+"in")
	}
	if s.SpaceBeforePt > 0 {
		decls = append(decls, "margin-top: "+pt(s.SpaceBeforePt))
	}
	if s.SpaceAfterPt > 0 {
		decls = append(decls, "margin-bottom: "+pt(s.SpaceAfterPt))
	}
	if b := s.Border; b.Side != style.BorderNone && b.WidthEighthPt > 0 {
		color := b.Color
		if color == "" {
			color = "currentColor"
		}
		value := pt(float64(b.WidthEighthPt)/8) + " solid " + color
		switch b.Side {
		case style.BorderLeft:
			decls = append(decls, "border-left: "+value, "padding-left: 6pt")
		case style.BorderBottom:
			decls = append(decls, "border-bottom: "+value)
		case style.BorderAll:
			decls = append(decls, "border: "+value, "padding: 4pt")
		}
	}

	return strings.Join(decls, "; ")
}

func pt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "pt"
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// documentTitle returns the page title: the document title followed by
// the qualified procedure name when present.
func documentTitle(doc document.Document) string {
	var title, name string
	for _, in := range doc {
		switch {
		case title == "" && in.Style == style.TagDocumentTitle:
			title = in.Text
		case name == "" && in.Style == style.TagQualifiedName:
			name = in.Text
		}
	}
	if name == "" {
		return title
	}
	return title + " - " + name
}
