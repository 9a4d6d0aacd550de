// Package search implements case-insensitive substring search over a
// dataset.Document.
//
// Each topic yields at most one hit. Fields are checked in a fixed priority
// order and the first match wins:
//
//	title > content subtitle > content block text > quiz question > quiz choice
//
// Content blocks are compared through dataset.FlattenBlock, so values inside
// nested maps and slices are searchable. There is no ranking; results follow
// document order.
package search

import (
	"strings"

	"github.com/dgallion1/topicserve/internal/dataset"
)

// NormalizeQuery trims and lower-cases a raw query.
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Search scans doc for rawQuery. An empty query returns an empty slice.
func Search(doc *dataset.Document, rawQuery string) []dataset.MatchResult {
	results := []dataset.MatchResult{}
	q := NormalizeQuery(rawQuery)
	if q == "" || doc == nil {
		return results
	}

	for i := range doc.Topics {
		if r, ok := matchTopic(&doc.Topics[i], q); ok {
			results = append(results, r)
		}
	}
	return results
}

// matchTopic returns the highest-priority hit for a single topic.
func matchTopic(t *dataset.Topic, q string) (dataset.MatchResult, bool) {
	hit := func(site dataset.MatchSite, text string) (dataset.MatchResult, bool) {
		return dataset.MatchResult{TopicID: t.ID, TopicTitle: t.Title, Site: site, Text: text}, true
	}

	if contains(t.Title, q) {
		return hit(dataset.SiteTitle, t.Title)
	}

	for _, block := range t.Content {
		if sub, ok := block.Subtitle(); ok && contains(sub, q) {
			return hit(dataset.SiteSubtitle, sub)
		}
		if contains(dataset.FlattenBlock(block), q) {
			return hit(dataset.SiteContentBlock, "")
		}
	}

	for _, item := range t.Quiz {
		if contains(item.Question, q) {
			return hit(dataset.SiteQuizQuestion, item.Question)
		}
		for _, choice := range item.Choices {
			if contains(choice, q) {
				return hit(dataset.SiteQuizChoice, choice)
			}
		}
	}

	return dataset.MatchResult{}, false
}

// contains reports whether s holds the already lower-cased query q.
func contains(s, q string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), q)
}
