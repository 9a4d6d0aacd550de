package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/topicserve/internal/metrics"
	"github.com/dgallion1/topicserve/internal/search"
	"github.com/dgallion1/topicserve/internal/store"
)

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Summaries())
}

func (s *Server) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := s.store.Topic(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "topic not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("topic lookup failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, topic)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := search.NormalizeQuery(r.URL.Query().Get("q"))

	start := time.Now()
	results := search.Search(s.store.Document(), q)
	if s.searchStats != nil {
		s.searchStats.Record(time.Since(start), len(results))
	}
	metrics.RecordSearch(q, len(results))

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": results,
	})
}
