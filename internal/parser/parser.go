package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsearch/internal/document"
)

// Parser converts raw document bytes into text and metadata.
type Parser interface {
	Parse(r io.Reader, filename string) (*document.Extraction, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	return forExt(strings.ToLower(filepath.Ext(filename)), false)
}

func forExt(ext string, fallbackPdftotext bool) (Parser, error) {
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: fallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// DetectExtension guesses a file extension from content when the name carries none.
func DetectExtension(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return ".pdf"
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return ".docx"
	}
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "text/html") {
		return ".html"
	}
	return ".txt"
}

// Extractor picks a parser by file name (or content, for unnamed input) and runs it.
type Extractor struct {
	FallbackPdftotext bool
}

// Extract implements textindex.Extractor.
func (e *Extractor) Extract(ctx context.Context, data []byte, name string) (*document.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !SupportedExtensions[ext] {
		ext = DetectExtension(data)
	}
	p, err := forExt(ext, e.FallbackPdftotext)
	if err != nil {
		return nil, err
	}
	return p.Parse(bytes.NewReader(data), name)
}

func trimExt(filename string, exts ...string) string {
	for _, ext := range exts {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename
}
