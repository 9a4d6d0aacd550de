package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/topicserve/internal/dataset"
	"github.com/dgallion1/topicserve/internal/importer"
	"github.com/dgallion1/topicserve/internal/metrics"
)

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !importer.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	format := importer.Format(filename)

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	imp, err := importer.ForFile(filename, s.importOptions())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := imp.Import(bytes.NewReader(data), filename)
	var verr *dataset.ValidationError
	if errors.As(err, &verr) {
		metrics.RecordImport(format, "invalid")
		jsonError(w, verr.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		metrics.RecordImport(format, "error")
		s.log.Warn("import failed", "filename", filename, "format", format, "error", err)
		jsonError(w, "failed to import: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if r.FormValue("dry_run") == "true" {
		metrics.RecordImport(format, "dry_run")
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"dry_run":  true,
			"format":   format,
			"document": doc,
		})
		return
	}

	n, err := s.store.Put(doc)
	if !s.writeStoreError(w, err) {
		metrics.RecordImport(format, "error")
		return
	}
	metrics.RecordReplace("ok", n)
	metrics.RecordImport(format, "ok")
	s.log.Info("document imported", "filename", filename, "format", format, "topics", n)

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"format": format,
		"topics": n,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
