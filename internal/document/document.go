package document

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Extraction is what a text extractor produces from raw document bytes.
type Extraction struct {
	Text      string         // Full decoded text
	PageCount int            // Number of pages (1 for formats without pagination)
	Info      map[string]any // Document info dictionary (title, author, ...)
	Metadata  map[string]any // Extractor-specific metadata
}

// Document is a loaded document snapshot. It is never mutated after construction.
type Document struct {
	Raw         []byte
	Text        string
	PageCount   int
	Info        map[string]any
	Metadata    map[string]any
	Source      string // Filename or path the bytes came from
	ContentHash string // SHA-256 of Raw, hex
	LoadedAt    time.Time
}

// New builds a Document from raw bytes and their extraction.
func New(raw []byte, ext *Extraction, source string) *Document {
	pages := ext.PageCount
	if pages < 0 {
		pages = 0
	}
	return &Document{
		Raw:         raw,
		Text:        ext.Text,
		PageCount:   pages,
		Info:        ext.Info,
		Metadata:    ext.Metadata,
		Source:      source,
		ContentHash: ContentHashHex(raw),
		LoadedAt:    time.Now(),
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
