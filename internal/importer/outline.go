package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/topicserve/internal/dataset"
)

// section is a heading-delimited part of an authoring document.
type section struct {
	title    string
	text     string
	children []*section
}

// outline is the section tree parsed from one file.
type outline struct {
	title    string
	sections []*section
}

// document maps the outline onto the dataset shape. A lone top-level
// section with subsections is treated as the document heading.
func (o *outline) document() *dataset.Document {
	doc := dataset.Empty()
	doc.Title = o.title

	sections := o.sections
	if len(sections) == 1 && sections[0].title != "" && len(sections[0].children) > 0 {
		root := sections[0]
		doc.Title = root.title
		sections = root.children
		if root.text != "" {
			intro := &section{title: "Introduction", text: root.text}
			sections = append([]*section{intro}, sections...)
		}
	}
	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = "Untitled"
	}

	for i, sec := range sections {
		doc.Topics = append(doc.Topics, sec.topic(i+1))
	}
	return doc
}

func (s *section) topic(n int) dataset.Topic {
	t := dataset.Topic{ID: fmt.Sprintf("T%d", n), Title: s.title}
	if t.Title == "" {
		t.Title = fmt.Sprintf("Section %d", n)
	}
	if s.text != "" {
		t.Content = append(t.Content, dataset.ContentBlock{"text": s.text})
	}
	for _, c := range s.children {
		t.Content = append(t.Content, c.block("subtitle"))
	}
	return t
}

func (s *section) block(titleKey string) dataset.ContentBlock {
	b := dataset.ContentBlock{}
	if s.title != "" {
		b[titleKey] = s.title
	}
	if s.text != "" {
		b["text"] = s.text
	}
	if len(s.children) > 0 {
		nested := make([]any, 0, len(s.children))
		for _, c := range s.children {
			nested = append(nested, map[string]any(c.block("title")))
		}
		b["sections"] = nested
	}
	return b
}

// builder turns a flat stream of headings and paragraphs into a section tree.
type builder struct {
	root  *section
	stack []stackEntry
	text  strings.Builder
}

type stackEntry struct {
	node  *section
	level int
}

func newBuilder() *builder {
	root := &section{}
	// Root is level 0, all h1+ nest under it.
	return &builder{root: root, stack: []stackEntry{{node: root, level: 0}}}
}

func (b *builder) heading(level int, title string) {
	b.flush()
	node := &section{title: title}

	// Pop until the top of the stack is a shallower heading.
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.children = append(parent.children, node)
	b.stack = append(b.stack, stackEntry{node: node, level: level})
}

func (b *builder) paragraph(t string) {
	if t == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(t)
}

func (b *builder) flush() {
	t := strings.TrimSpace(b.text.String())
	if t != "" {
		top := b.stack[len(b.stack)-1].node
		if top.text != "" {
			top.text += "\n\n" + t
		} else {
			top.text = t
		}
	}
	b.text.Reset()
}

func (b *builder) outline(title string) *outline {
	b.flush()
	o := &outline{title: title, sections: b.root.children}
	// No headings: keep all text in a single section.
	if len(o.sections) == 0 && b.root.text != "" {
		o.sections = []*section{{text: b.root.text}}
	}
	return o
}

// stem returns the file name without directory or extension.
func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
