// Package importer converts authoring files into a dataset.Document that can
// replace the served dataset.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/topicserve/internal/dataset"
)

// Importer converts raw file bytes into a Document.
type Importer interface {
	Import(r io.Reader, filename string) (*dataset.Document, error)
}

// Options tunes individual importers.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions that can be imported.
var SupportedExtensions = map[string]bool{
	".json":     true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the importer for a filename.
func ForFile(filename string, opts Options) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONImporter{}, nil
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".csv":
		return &CSVImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Format returns the lower-case extension without its dot, e.g. "md".
func Format(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// JSONImporter reads the native dataset format. The file must satisfy the
// same shape rule as a replacement payload.
type JSONImporter struct{}

func (p *JSONImporter) Import(r io.Reader, filename string) (*dataset.Document, error) {
	return dataset.DecodePayload(r)
}
