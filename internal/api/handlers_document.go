package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/topicserve/internal/dataset"
	"github.com/dgallion1/topicserve/internal/metrics"
	"github.com/dgallion1/topicserve/internal/store"
)

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	etag := `"` + s.store.Revision() + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Document())
}

func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	payload, err := dataset.DecodeValue(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.RecordReplace("invalid", 0)
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return
		}
		metrics.RecordReplace("invalid", 0)
		jsonError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	n, err := s.store.Replace(payload)
	if !s.writeStoreError(w, err) {
		return
	}
	metrics.RecordReplace("ok", n)

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "topics": n})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	n := s.store.Reload()
	metrics.RecordReload(n)

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "reloaded",
		"topics":  n,
	})
}

// writeStoreError maps a replace error onto a response. It reports whether
// the caller may continue.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return true
	}

	var verr *dataset.ValidationError
	var perr *store.PersistenceError
	switch {
	case errors.As(err, &verr):
		metrics.RecordReplace("invalid", 0)
		jsonError(w, verr.Error(), http.StatusBadRequest)
	case errors.As(err, &perr):
		metrics.RecordReplace("error", 0)
		s.log.Error("failed to persist document", "path", perr.Path, "error", perr.Err)
		jsonError(w, "failed to persist document", http.StatusInternalServerError)
	default:
		metrics.RecordReplace("error", 0)
		s.log.Error("replace failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
	return false
}
