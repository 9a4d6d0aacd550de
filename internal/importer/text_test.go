package importer

import (
	"strings"
	"testing"
)

func TestTextImporter_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	doc, err := (&TextImporter{}).Import(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if len(doc.Topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(doc.Topics))
	}

	want := []string{
		"First paragraph line one.\nFirst paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	for i, w := range want {
		if got := doc.Topics[i].Content[0]["text"]; got != w {
			t.Errorf("topic[%d]: expected %q, got %q", i, w, got)
		}
	}
}

func TestTextImporter_EmptyInput(t *testing.T) {
	doc, err := (&TextImporter{}).Import(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
	if len(doc.Topics) != 0 {
		t.Errorf("expected 0 topics for empty input, got %d", len(doc.Topics))
	}
}

func TestTextImporter_MultipleBlankLines(t *testing.T) {
	// Consecutive blank lines should not produce empty topics.
	input := "Para one.\n\n\n\nPara two."
	doc, err := (&TextImporter{}).Import(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(doc.Topics))
	}
}

func TestTextImporter_WhitespaceOnlyLines(t *testing.T) {
	input := "Para one.\n   \nPara two."
	doc, err := (&TextImporter{}).Import(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(doc.Topics))
	}
}
