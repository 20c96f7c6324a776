package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nao1215/spdoc/internal/document"
	"github.com/nao1215/spdoc/internal/style"
)

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, doc document.Document) string {
		t.Helper()
		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf).Write(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Fatal("expected non-zero byte count")
		}
		return buf.String()
	}

	t.Run("maps titles to heading levels", func(t *testing.T) {
		t.Parallel()

		output := write(t, createTestDocument())
		if !strings.Contains(output, "# STORED PROCEDURE") {
			t.Error("expected H1 document title")
		}
		if !strings.Contains(output, "## 3. PURPOSE") {
			t.Error("expected H2 section heading")
		}
		if !strings.Contains(output, "### @CustomerID (INT):") {
			t.Error("expected H3 subheading")
		}
	})

	t.Run("writes qualified name as code span", func(t *testing.T) {
		t.Parallel()

		output := write(t, createTestDocument())
		if !strings.Contains(output, "`dbo.usp_Customer_Update`") {
			t.Error("expected qualified name in backticks")
		}
		if !strings.Contains(output, "*Default: 0*") {
			t.Error("expected emphasized default note")
		}
	})

	t.Run("groups bullets into one list", func(t *testing.T) {
		t.Parallel()

		output := write(t, createTestDocument())
		first := strings.Index(output, "2024-12-03 - Added error handling (DF-0089)")
		second := strings.Index(output, "2024-10-01 - Initial documentation ()")
		if first < 0 || second < 0 {
			t.Fatal("expected both bullets")
		}
		if strings.Count(output[first:second], "\n") != 1 {
			t.Error("expected bullets on consecutive lines")
		}
	})

	t.Run("writes sql code block", func(t *testing.T) {
		t.Parallel()

		output := write(t, createTestDocument())
		if !strings.Contains(output, "```sql") {
			t.Error("expected sql fenced code block")
		}
		if !strings.Contains(output, "    @CustomerID = 12345") {
			t.Error("expected code indentation to be preserved")
		}
	})

	t.Run("writes version history table", func(t *testing.T) {
		t.Parallel()

		output := write(t, createTestDocument())
		for _, want := range []string{"Changed By", "Added error handling (Ref: DF-0089)", "| v1.0"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected table to contain %q", want)
			}
		}
	})

	t.Run("writes dividers as horizontal rules", func(t *testing.T) {
		t.Parallel()

		output := write(t, createTestDocument())
		if !strings.Contains(output, "---") {
			t.Error("expected horizontal rule")
		}
	})

	t.Run("uses bold for bold styles", func(t *testing.T) {
		t.Parallel()

		output := write(t, document.Document{
			{Kind: document.KindParagraph, Text: "Type: QA Procedure", Style: style.TagMetadataAccent, Section: 1},
		})
		if !strings.Contains(output, "**Type: QA Procedure**") {
			t.Errorf("expected bold metadata, got %q", output)
		}
	})

	t.Run("keeps trailing space outside bold markers", func(t *testing.T) {
		t.Parallel()

		output := write(t, document.Document{
			{Kind: document.KindParagraph, Text: "Created: ", Style: style.TagMetadata, Section: 1},
		})
		if strings.Contains(output, "**Created: **") {
			t.Errorf("expected no space before closing marker, got %q", output)
		}
		if !strings.Contains(output, "**Created:**") {
			t.Errorf("expected bold label, got %q", output)
		}
	})
}

func TestTableSet(t *testing.T) {
	t.Parallel()

	t.Run("header only", func(t *testing.T) {
		t.Parallel()

		set := tableSet(document.Document{
			{Kind: document.KindTableHeader, Cells: []string{"A", "B"}},
		})
		if len(set.Header) != 2 || len(set.Rows) != 0 {
			t.Errorf("unexpected table set: %+v", set)
		}
	})

	t.Run("rows without header get blank header", func(t *testing.T) {
		t.Parallel()

		set := tableSet(document.Document{
			{Kind: document.KindTableRow, Cells: []string{"x", "multi\nline"}},
		})
		if len(set.Header) != 2 {
			t.Fatalf("expected 2 header cells, got %d", len(set.Header))
		}
		if set.Rows[0][1] != "multi line" {
			t.Errorf("expected newline to be flattened, got %q", set.Rows[0][1])
		}
	})
}

func TestRunEnd(t *testing.T) {
	t.Parallel()

	doc := createTestDocument()
	if got := runEnd(doc, 6, document.KindBullet); got != 8 {
		t.Errorf("runEnd bullets = %d, want 8", got)
	}
	if got := runEnd(doc, 22, document.KindTableHeader, document.KindTableRow); got != len(doc) {
		t.Errorf("runEnd table = %d, want %d", got, len(doc))
	}
	if got := runEnd(doc, 0, document.KindBullet); got != 0 {
		t.Errorf("runEnd mismatch = %d, want 0", got)
	}
}

func TestEmphasize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		marker string
		want   string
	}{
		{text: "Version: v1.2", marker: "**", want: "**Version: v1.2**"},
		{text: "Created By: ", marker: "**", want: "**Created By:** "},
		{text: "  Default: 0", marker: "*", want: "  *Default: 0*"},
		{text: "   ", marker: "**", want: "   "},
	}
	for _, tt := range tests {
		if got := emphasize(tt.text, tt.marker); got != tt.want {
			t.Errorf("emphasize(%q, %q) = %q, want %q", tt.text, tt.marker, got, tt.want)
		}
	}
}
