package importer

import (
	"strings"
	"testing"

	"github.com/dgallion1/topicserve/internal/dataset"
	"github.com/dgallion1/topicserve/internal/search"
)

func TestMarkdownImporter_HeadingHierarchy(t *testing.T) {
	input := `# Math

Course intro.

## Algebra

Algebra basics.

### Linear Equations

Solve for x.

#### Worked Example

Two x equals four.

## Geometry

Shapes and angles.
`
	p := &MarkdownImporter{}
	doc, err := p.Import(strings.NewReader(input), "course.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The lone h1 names the document.
	if doc.Title != "Math" {
		t.Errorf("expected title %q, got %q", "Math", doc.Title)
	}

	// Intro text becomes its own topic ahead of the h2 topics.
	if len(doc.Topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(doc.Topics))
	}
	wantTitles := []string{"Introduction", "Algebra", "Geometry"}
	for i, w := range wantTitles {
		if doc.Topics[i].Title != w {
			t.Errorf("topic[%d]: expected title %q, got %q", i, w, doc.Topics[i].Title)
		}
		if want := "T" + string(rune('1'+i)); doc.Topics[i].ID != want {
			t.Errorf("topic[%d]: expected id %q, got %q", i, want, doc.Topics[i].ID)
		}
	}

	algebra := doc.Topics[1]
	if len(algebra.Content) != 2 {
		t.Fatalf("expected 2 algebra blocks, got %d", len(algebra.Content))
	}
	if algebra.Content[0]["text"] != "Algebra basics." {
		t.Errorf("expected topic text block, got %v", algebra.Content[0])
	}
	sub, ok := algebra.Content[1].Subtitle()
	if !ok || sub != "Linear Equations" {
		t.Errorf("expected subtitle %q, got %q", "Linear Equations", sub)
	}
	nested, ok := algebra.Content[1]["sections"].([]any)
	if !ok || len(nested) != 1 {
		t.Fatalf("expected 1 nested section, got %v", algebra.Content[1]["sections"])
	}
	inner := nested[0].(map[string]any)
	if inner["title"] != "Worked Example" || inner["text"] != "Two x equals four." {
		t.Errorf("unexpected nested section %v", inner)
	}
}

func TestMarkdownImporter_NestedTextIsSearchable(t *testing.T) {
	input := "# Course\n\n## Algebra\n\n### Equations\n\n#### Example\n\nA hidden phrase.\n"
	doc, err := (&MarkdownImporter{}).Import(strings.NewReader(input), "c.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := search.Search(doc, "hidden phrase")
	if len(got) != 1 || got[0].Site != dataset.SiteContentBlock {
		t.Fatalf("expected one content-block hit, got %+v", got)
	}
}

func TestMarkdownImporter_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.
`
	doc, err := (&MarkdownImporter{}).Import(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "plain" {
		t.Errorf("expected title %q, got %q", "plain", doc.Title)
	}
	if len(doc.Topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(doc.Topics))
	}
	if doc.Topics[0].Title != "Section 1" {
		t.Errorf("expected fallback title %q, got %q", "Section 1", doc.Topics[0].Title)
	}
	text, _ := doc.Topics[0].Content[0]["text"].(string)
	if !strings.Contains(text, "Just some plain text.") || !strings.Contains(text, "Another paragraph here.") {
		t.Errorf("expected both paragraphs, got %q", text)
	}
	if strings.Count(text, "Just some plain text.") != 1 {
		t.Errorf("expected paragraph text once, got %q", text)
	}
}

func TestMarkdownImporter_MultipleTopLevelHeadings(t *testing.T) {
	input := "# One\n\nfirst\n\n# Two\n\nsecond\n"
	doc, err := (&MarkdownImporter{}).Import(strings.NewReader(input), "multi.markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "multi" {
		t.Errorf("expected file stem title %q, got %q", "multi", doc.Title)
	}
	if len(doc.Topics) != 2 || doc.Topics[0].Title != "One" || doc.Topics[1].Title != "Two" {
		t.Errorf("unexpected topics %+v", doc.Topics)
	}
}

func TestMarkdownImporter_ListItems(t *testing.T) {
	input := "## Tips\n\n- first tip\n- second tip\n"
	doc, err := (&MarkdownImporter{}).Import(strings.NewReader(input), "tips.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, _ := doc.Topics[0].Content[0]["text"].(string)
	if text != "first tip\nsecond tip" {
		t.Errorf("expected list items on separate lines, got %q", text)
	}
}

func TestMarkdownImporter_Empty(t *testing.T) {
	doc, err := (&MarkdownImporter{}).Import(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Topics == nil || len(doc.Topics) != 0 {
		t.Errorf("expected empty topics, got %#v", doc.Topics)
	}
	if err := dataset.Validate(doc); err != nil {
		t.Errorf("expected imported document to be valid, got %v", err)
	}
}
