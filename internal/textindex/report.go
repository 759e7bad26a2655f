package textindex

import (
	"encoding/json"
	"time"
	"unicode/utf8"
)

// Validation issues.
const (
	IssueNoText  = "Document contains no text content"
	IssueNoPages = "Document has no pages"
)

// DocumentInfo summarises the loaded document.
type DocumentInfo struct {
	Pages       int            `json:"pages"`
	Info        map[string]any `json:"info"`
	Metadata    map[string]any `json:"metadata"`
	TextLength  int            `json:"text_length"`
	ByteLength  int            `json:"byte_length"`
	Source      string         `json:"source"`
	ContentHash string         `json:"content_hash"`
	LoadedAt    time.Time      `json:"loaded_at"`
}

// ValidationReport is the result of Validate. When nothing is loaded only Valid
// and Error are set and the JSON form is {"valid":false,"error":...}; callers
// tell the two shapes apart by Error.
type ValidationReport struct {
	Valid      bool     `json:"valid"`
	HasText    bool     `json:"has_text"`
	HasPages   bool     `json:"has_pages"`
	HasInfo    bool     `json:"has_info"`
	TextLength int      `json:"text_length"`
	PageCount  int      `json:"page_count"`
	Issues     []string `json:"issues"`
	Error      string   `json:"-"`
}

func (r ValidationReport) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Valid bool   `json:"valid"`
			Error string `json:"error"`
		}{Valid: false, Error: r.Error})
	}
	type report ValidationReport
	out := report(r)
	if out.Issues == nil {
		out.Issues = []string{}
	}
	return json.Marshal(out)
}

// FullText returns the loaded text, or "" when nothing is loaded.
func (x *Index) FullText() string {
	return x.Snapshot().FullText()
}

// FullText is Index.FullText on this snapshot.
func (s *Snapshot) FullText() string {
	doc := s.loadedOrWarn("full_text")
	if doc == nil {
		return ""
	}
	return doc.Text
}

// Info returns a summary of the loaded document, or nil when nothing is loaded.
func (x *Index) Info() *DocumentInfo {
	return x.Snapshot().Info()
}

// Info is Index.Info on this snapshot.
func (s *Snapshot) Info() *DocumentInfo {
	doc := s.loadedOrWarn("info")
	if doc == nil {
		return nil
	}
	return &DocumentInfo{
		Pages:       doc.PageCount,
		Info:        doc.Info,
		Metadata:    doc.Metadata,
		TextLength:  utf8.RuneCountInString(doc.Text),
		ByteLength:  len(doc.Raw),
		Source:      doc.Source,
		ContentHash: doc.ContentHash,
		LoadedAt:    doc.LoadedAt,
	}
}

// Validate checks that the loaded document has text and pages.
func (x *Index) Validate() ValidationReport {
	return x.Snapshot().Validate()
}

// Validate is Index.Validate on this snapshot.
func (s *Snapshot) Validate() ValidationReport {
	doc := s.loadedOrWarn("validate")
	if doc == nil {
		return ValidationReport{Valid: false, Error: "No document loaded"}
	}

	textLen := utf8.RuneCountInString(doc.Text)
	r := ValidationReport{
		HasText:    textLen > 0,
		HasPages:   doc.PageCount > 0,
		HasInfo:    doc.Info != nil,
		TextLength: textLen,
		PageCount:  doc.PageCount,
		Issues:     []string{},
	}
	if !r.HasText {
		r.Issues = append(r.Issues, IssueNoText)
	}
	if !r.HasPages {
		r.Issues = append(r.Issues, IssueNoPages)
	}
	r.Valid = len(r.Issues) == 0

	if r.Valid {
		s.log.Info("document validation", "valid", true)
	} else {
		s.log.Warn("document validation", "valid", false, "issues", r.Issues)
	}
	return r
}
