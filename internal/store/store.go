package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dgallion1/topicserve/internal/dataset"
)

// Store owns the current document and its backing JSON file. Readers get the
// snapshot installed by the last Load or Put; writers serialize on mu so the
// file write and the pointer swap happen together.
type Store struct {
	path string
	log  *slog.Logger

	mu      sync.Mutex
	current atomic.Pointer[snapshot]
}

type snapshot struct {
	doc      *dataset.Document
	revision string
}

// New creates a store for path holding an empty document.
func New(path string, log *slog.Logger) *Store {
	s := &Store{path: path, log: log}
	s.current.Store(newSnapshot(dataset.Empty()))
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Bootstrap writes an empty default document if no file exists at the path.
func (s *Store) Bootstrap() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	if err := writeFile(s.path, dataset.Empty()); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	s.log.Info("created empty data file", "path", s.path)
	return nil
}

// Load parses the backing file and installs it. A missing or corrupt file is
// logged and replaced in memory by an empty document. The read and the swap
// hold mu, so a concurrent Put is never overwritten by an older file.
func (s *Store) Load() *dataset.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := readFile(s.path)
	if err != nil {
		s.log.Error("failed to load data file, using empty document",
			"path", s.path,
			"error", fmt.Errorf("%w: %w", ErrSourceUnreadable, err),
		)
		doc = dataset.Empty()
	} else {
		s.log.Info("loaded data file", "path", s.path, "topics", doc.TopicCount())
	}

	s.current.Store(newSnapshot(doc))
	return doc
}

// Reload re-reads the backing file and returns the new topic count.
func (s *Store) Reload() int {
	return s.Load().TopicCount()
}

// Replace validates a generic payload, persists it and makes it current.
func (s *Store) Replace(payload any) (int, error) {
	doc, err := dataset.FromPayload(payload)
	if err != nil {
		return 0, err
	}
	return s.Put(doc)
}

// Put validates, persists and installs a typed document. The store takes
// ownership of doc.
func (s *Store) Put(doc *dataset.Document) (int, error) {
	if err := dataset.Validate(doc); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFile(s.path, doc); err != nil {
		return 0, &PersistenceError{Path: s.path, Err: err}
	}
	s.current.Store(newSnapshot(doc))
	s.log.Info("document replaced", "title", doc.Title, "topics", doc.TopicCount())
	return doc.TopicCount(), nil
}

// Document returns the current snapshot. Callers must not modify it.
func (s *Store) Document() *dataset.Document {
	return s.current.Load().doc
}

// Revision returns a content hash of the current snapshot.
func (s *Store) Revision() string {
	return s.current.Load().revision
}

// Topic returns the first topic whose id equals id, falling back to the
// upper-cased id when there is no exact match.
func (s *Store) Topic(id string) (*dataset.Topic, error) {
	doc := s.Document()
	if t := findTopic(doc, id); t != nil {
		return t, nil
	}
	if upper := strings.ToUpper(id); upper != id {
		if t := findTopic(doc, upper); t != nil {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

// Summaries lists id/title pairs of the current document.
func (s *Store) Summaries() []dataset.Summary {
	return s.Document().Summaries()
}

func findTopic(doc *dataset.Document, id string) *dataset.Topic {
	for i := range doc.Topics {
		if doc.Topics[i].ID == id {
			return &doc.Topics[i]
		}
	}
	return nil
}

func newSnapshot(doc *dataset.Document) *snapshot {
	data, err := json.Marshal(doc)
	if err != nil {
		data = nil
	}
	h := sha256.Sum256(data)
	return &snapshot{doc: doc, revision: fmt.Sprintf("%x", h[:])}
}

func readFile(path string) (*dataset.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return dataset.Decode(bytes.NewReader(data))
}

// writeFile replaces path through a temp file in the same directory so a
// failed write never truncates the existing data.
func writeFile(path string, doc *dataset.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".topicserve-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
