// Package textindex holds the text of one loaded document and answers literal
// substring queries against it.
//
// Loading replaces the current document as a whole. Queries never mutate state and
// may run concurrently with each other and with loads; a query sees either the old
// document or the new one, never a mix. Query methods do not return errors: when
// nothing is loaded they log a warning and return the empty result for their type.
package textindex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/dgallion1/docsearch/internal/document"
)

var (
	// ErrNoDocument is reported when a query runs before any document was loaded.
	ErrNoDocument = errors.New("no document loaded")
	// ErrNotFound is returned by LoadFromPath when the path does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrEmptyNeedle is reported when a search is issued with an empty string.
	ErrEmptyNeedle = errors.New("empty search text")
)

// LoadError wraps a failure to read or extract a document.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load document: %v", e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Extractor converts raw document bytes into text and metadata.
type Extractor interface {
	Extract(ctx context.Context, data []byte, name string) (*document.Extraction, error)
}

// Index is the single-document text index.
type Index struct {
	extractor Extractor
	log       *slog.Logger

	mu  sync.RWMutex
	doc *document.Document
}

// New creates an empty index that loads documents through extractor.
func New(extractor Extractor, log *slog.Logger) *Index {
	if log == nil {
		log = slog.Default()
	}
	return &Index{
		extractor: extractor,
		log:       log,
	}
}

// LoadFromBytes extracts data and makes the result the current document.
// On failure the previously loaded document stays in place.
func (x *Index) LoadFromBytes(ctx context.Context, data []byte, name string) (*document.Document, error) {
	if x.extractor == nil {
		return nil, &LoadError{Source: name, Err: errors.New("no extractor configured")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}

	raw := bytes.Clone(data)
	ext, err := x.extractor.Extract(ctx, raw, name)
	if err != nil {
		x.log.Error("document load failed", "source", name, "bytes", len(raw), "error", err)
		return nil, &LoadError{Source: name, Err: err}
	}
	if ext == nil {
		return nil, &LoadError{Source: name, Err: errors.New("extractor returned no result")}
	}
	// A load cancelled during extraction must not replace state.
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}

	doc := document.New(raw, ext, name)

	x.mu.Lock()
	x.doc = doc
	x.mu.Unlock()

	x.log.Info("document loaded",
		"source", name,
		"pages", doc.PageCount,
		"bytes", len(raw),
		"text_length", utf8.RuneCountInString(doc.Text),
	)
	return doc, nil
}

// LoadFromPath reads the file at path and loads it.
func (x *Index) LoadFromPath(ctx context.Context, path string) (*document.Document, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Source: path, Err: fmt.Errorf("%w: %s", ErrNotFound, path)}
		}
		return nil, &LoadError{Source: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: fmt.Errorf("read file: %w", err)}
	}
	return x.LoadFromBytes(ctx, data, filepath.Base(path))
}

// Loaded reports whether a document is currently loaded.
func (x *Index) Loaded() bool {
	return x.current() != nil
}

// Document returns the current document snapshot, or ErrNoDocument.
func (x *Index) Document() (*document.Document, error) {
	doc := x.current()
	if doc == nil {
		return nil, ErrNoDocument
	}
	return doc, nil
}

func (x *Index) current() *document.Document {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.doc
}

// Snapshot returns a read-only view of the current document. Every query on one
// snapshot answers from the same document, even if a load completes in between.
func (x *Index) Snapshot() *Snapshot {
	return &Snapshot{doc: x.current(), log: x.log}
}

// Snapshot answers queries against the document that was current when it was
// taken. A snapshot of an empty index soft-fails like the Index methods.
type Snapshot struct {
	doc *document.Document
	log *slog.Logger
}

// Loaded reports whether the snapshot holds a document.
func (s *Snapshot) Loaded() bool {
	return s.doc != nil
}

// loadedOrWarn returns the document or logs why the query is a no-op.
func (s *Snapshot) loadedOrWarn(op string) *document.Document {
	if s.doc == nil {
		s.log.Warn("query on empty index", "op", op, "error", ErrNoDocument)
	}
	return s.doc
}
