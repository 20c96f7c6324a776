package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nao1215/spdoc/internal/document"
)

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON envelope", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		doc := createTestDocument()
		if _, err := NewJSONWriter(&buf).Write(doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got JSONDocument
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Sections != 6 {
			t.Errorf("expected 6 sections, got %d", got.Sections)
		}
		if len(got.Outline) != 6 || got.Outline[0].Section != 1 {
			t.Errorf("unexpected outline %+v", got.Outline)
		}
		if len(got.Instructions) != len(doc) {
			t.Errorf("expected %d instructions, got %d", len(doc), len(got.Instructions))
		}

		want, err := doc.Digest()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Digest != want {
			t.Errorf("digest mismatch: %s != %s", got.Digest, want)
		}
		recomputed, err := got.Instructions.Digest()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if recomputed != want {
			t.Error("expected digest to be reproducible from the decoded instructions")
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestDocument()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected single line output")
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestDocument()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"digest\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("uses custom prefix and indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent(">", "\t")).Write(createTestDocument()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n>\t\"digest\"") {
			t.Error("expected custom prefix and tab indent")
		}
	})

	t.Run("writes empty instruction list for nil document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"instructions":[]`) {
			t.Errorf("expected empty array, got %s", buf.String())
		}
	})

	t.Run("does not escape HTML characters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		doc := document.Document{{Kind: document.KindParagraph, Section: 1, Text: "a < b && c"}}
		if _, err := NewJSONWriter(&buf).Write(doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "a < b && c") {
			t.Errorf("expected raw text, got %s", buf.String())
		}
	})
}
