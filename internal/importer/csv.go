package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/topicserve/internal/dataset"
)

// CSVImporter handles CSV files with a header row. A "title" column is
// required; "id", "subtitle", "question" and "choices" ("|"-separated) are
// recognized, and every other column becomes a content block field. Rows that
// share an id are merged into one topic.
type CSVImporter struct{}

var csvReserved = map[string]bool{
	"id":       true,
	"title":    true,
	"subtitle": true,
	"question": true,
	"choices":  true,
}

func (p *CSVImporter) Import(r io.Reader, filename string) (*dataset.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := dataset.Empty()
	doc.Title = stem(filename)
	if len(records) == 0 {
		return doc, nil
	}

	headers := make([]string, len(records[0]))
	cols := make(map[string]int, len(headers))
	for i, h := range records[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		headers[i] = h
		if _, dup := cols[h]; !dup && h != "" {
			cols[h] = i
		}
	}
	if _, ok := cols["title"]; !ok {
		return nil, fmt.Errorf("parse csv: missing title column")
	}

	positions := make(map[string]int)
	for _, row := range records[1:] {
		get := func(name string) string {
			if idx, ok := cols[name]; ok && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		id := get("id")
		if id == "" {
			id = fmt.Sprintf("T%d", len(doc.Topics)+1)
		}
		pos, seen := positions[id]
		if !seen {
			doc.Topics = append(doc.Topics, dataset.Topic{ID: id})
			pos = len(doc.Topics) - 1
			positions[id] = pos
		}
		topic := &doc.Topics[pos]
		if topic.Title == "" {
			topic.Title = get("title")
		}

		block := dataset.ContentBlock{}
		if sub := get("subtitle"); sub != "" {
			block["subtitle"] = sub
		}
		for j, h := range headers {
			if h == "" || csvReserved[h] || j >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[j]); v != "" {
				block[h] = v
			}
		}
		if len(block) > 0 {
			topic.Content = append(topic.Content, block)
		}

		question, choices := get("question"), get("choices")
		if question != "" || choices != "" {
			item := dataset.QuizItem{Question: question}
			for _, c := range strings.Split(choices, "|") {
				if c = strings.TrimSpace(c); c != "" {
					item.Choices = append(item.Choices, c)
				}
			}
			topic.Quiz = append(topic.Quiz, item)
		}
	}

	return doc, nil
}
