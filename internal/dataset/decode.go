package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RequiredShape describes what a replacement payload must look like.
const RequiredShape = "{title: non-empty string, topics: array}"

// ValidationError reports a replacement payload with the wrong shape.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid document: %s (expected %s)", e.Reason, RequiredShape)
}

// ErrTrailingData is returned when a JSON value is followed by more input.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// DecodeValue reads exactly one JSON value from r, keeping numbers as
// json.Number. Anything but whitespace after the value is an error.
func DecodeValue(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch err := dec.Decode(&struct{}{}); {
	case err == io.EOF:
		return v, nil
	case err == nil, errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return nil, ErrTrailingData
	default:
		return nil, err
	}
}

// Decode parses a JSON document. Syntax errors are returned; shape problems
// are absorbed by FromValue.
func Decode(r io.Reader) (*Document, error) {
	v, err := DecodeValue(r)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return FromValue(v), nil
}

// DecodePayload parses a JSON replacement payload and applies FromPayload.
func DecodePayload(r io.Reader) (*Document, error) {
	v, err := DecodeValue(r)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return FromPayload(v)
}

// FromValue converts a generic decoded JSON value into a Document. Missing or
// malformed topics become an empty slice, non-object topics and blocks are
// skipped, and non-string quiz entries are dropped. Content blocks keep the
// maps they were given.
func FromValue(v any) *Document {
	m, ok := v.(map[string]any)
	if !ok {
		return Empty()
	}

	doc := Empty()
	doc.Title, _ = m["title"].(string)

	items, _ := m["topics"].([]any)
	for _, item := range items {
		tm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		doc.Topics = append(doc.Topics, topicFromValue(tm))
	}
	return doc
}

// FromPayload validates a replacement payload and converts it.
func FromPayload(v any) (*Document, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &ValidationError{Reason: "payload is not an object"}
	}
	title, ok := m["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Reason: "title must be a non-empty string"}
	}
	if _, ok := m["topics"].([]any); !ok {
		return nil, &ValidationError{Reason: "topics must be an array"}
	}
	return FromValue(m), nil
}

// Validate applies the replacement shape rule to a typed Document.
func Validate(doc *Document) error {
	if doc == nil {
		return &ValidationError{Reason: "document is missing"}
	}
	if strings.TrimSpace(doc.Title) == "" {
		return &ValidationError{Reason: "title must be a non-empty string"}
	}
	if doc.Topics == nil {
		return &ValidationError{Reason: "topics must be an array"}
	}
	return nil
}

func topicFromValue(m map[string]any) Topic {
	t := Topic{ID: scalarString(m["id"])}
	t.Title, _ = m["title"].(string)

	if blocks, ok := m["content"].([]any); ok {
		for _, b := range blocks {
			if bm, ok := b.(map[string]any); ok {
				t.Content = append(t.Content, ContentBlock(bm))
			}
		}
	}

	if items, ok := m["quiz"].([]any); ok {
		for _, it := range items {
			qm, ok := it.(map[string]any)
			if !ok {
				continue
			}
			var q QuizItem
			q.Question, _ = qm["question"].(string)
			if choices, ok := qm["choices"].([]any); ok {
				for _, c := range choices {
					if s, ok := c.(string); ok {
						q.Choices = append(q.Choices, s)
					}
				}
			}
			t.Quiz = append(t.Quiz, q)
		}
	}
	return t
}

// scalarString renders ids given as strings or numbers.
func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	}
	return ""
}
