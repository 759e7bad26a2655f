package textindex

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultContextLength is the number of characters kept on each side of a match.
const DefaultContextLength = 50

// TermResult is the outcome for one needle of ContainsAnyOf.
type TermResult struct {
	Text     string `json:"text"`
	Found    bool   `json:"found"`
	Position int    `json:"position"`
}

// AnyResult is returned by ContainsAnyOf. Results follow the order of the input.
type AnyResult struct {
	Found   bool         `json:"found"`
	Results []TermResult `json:"results"`
}

// Match is one occurrence found by SearchWithContext. Context fields are cut from
// the original text, so they keep its casing even for case-insensitive searches.
type Match struct {
	Text          string `json:"text"`
	Position      int    `json:"position"`
	Context       string `json:"context"`
	BeforeContext string `json:"before_context"`
	AfterContext  string `json:"after_context"`
}

// ContainsText reports whether needle occurs in the loaded text.
func (x *Index) ContainsText(needle string, caseSensitive bool) bool {
	return x.Snapshot().ContainsText(needle, caseSensitive)
}

// ContainsText is Index.ContainsText on this snapshot.
func (s *Snapshot) ContainsText(needle string, caseSensitive bool) bool {
	doc := s.loadedOrWarn("contains")
	if doc == nil {
		return false
	}
	if needle == "" {
		s.log.Warn("search rejected", "op", "contains", "error", ErrEmptyNeedle)
		return false
	}

	found := strings.Contains(fold(doc.Text, caseSensitive), fold(needle, caseSensitive))
	s.log.Debug("search", "op", "contains", "text", needle, "case_sensitive", caseSensitive, "found", found)
	return found
}

// ContainsAnyOf checks every needle and reports where each first occurs.
// Positions are character offsets; -1 means not found.
func (x *Index) ContainsAnyOf(needles []string, caseSensitive bool) AnyResult {
	return x.Snapshot().ContainsAnyOf(needles, caseSensitive)
}

// ContainsAnyOf is Index.ContainsAnyOf on this snapshot.
func (s *Snapshot) ContainsAnyOf(needles []string, caseSensitive bool) AnyResult {
	doc := s.loadedOrWarn("contains_any")
	if doc == nil {
		return AnyResult{Results: []TermResult{}}
	}

	text := fold(doc.Text, caseSensitive)
	res := AnyResult{Results: make([]TermResult, 0, len(needles))}
	for _, n := range needles {
		tr := TermResult{Text: n, Position: -1}
		if n == "" {
			s.log.Warn("search term rejected", "op", "contains_any", "error", ErrEmptyNeedle)
		} else if b := strings.Index(text, fold(n, caseSensitive)); b >= 0 {
			tr.Found = true
			tr.Position = utf8.RuneCountInString(text[:b])
		}
		res.Found = res.Found || tr.Found
		res.Results = append(res.Results, tr)
	}

	s.log.Debug("search", "op", "contains_any", "terms", len(needles), "case_sensitive", caseSensitive, "found", res.Found)
	return res
}

// SearchWithContext returns every non-overlapping occurrence of needle, scanning
// left to right, with up to contextLength characters of surrounding text.
func (x *Index) SearchWithContext(needle string, contextLength int, caseSensitive bool) []Match {
	return x.Snapshot().SearchWithContext(needle, contextLength, caseSensitive)
}

// SearchWithContext is Index.SearchWithContext on this snapshot.
func (s *Snapshot) SearchWithContext(needle string, contextLength int, caseSensitive bool) []Match {
	doc := s.loadedOrWarn("context")
	if doc == nil {
		return []Match{}
	}
	if needle == "" {
		s.log.Warn("search rejected", "op", "context", "error", ErrEmptyNeedle)
		return []Match{}
	}
	if contextLength < 0 {
		contextLength = 0
	}

	hay := fold(doc.Text, caseSensitive)
	pat := fold(needle, caseSensitive)
	patRunes := utf8.RuneCountInString(pat)
	orig := []rune(doc.Text)

	matches := []Match{}
	byteCur, runeCur := 0, 0
	for byteCur <= len(hay) {
		i := strings.Index(hay[byteCur:], pat)
		if i < 0 {
			break
		}
		pos := runeCur + utf8.RuneCountInString(hay[byteCur:byteCur+i])
		end := pos + patRunes

		start := max(0, pos-contextLength)
		stop := min(len(orig), end+contextLength)
		matches = append(matches, Match{
			Text:          needle,
			Position:      pos,
			Context:       string(orig[start:stop]),
			BeforeContext: string(orig[start:pos]),
			AfterContext:  string(orig[end:stop]),
		})

		byteCur += i + len(pat)
		runeCur = end
	}

	s.log.Debug("search", "op", "context", "text", needle, "case_sensitive", caseSensitive, "matches", len(matches))
	return matches
}

// fold lower-cases s one rune at a time so the result has exactly as many runes
// as s and character offsets line up with the original text. Invalid bytes become
// U+FFFD one per byte in both modes, matching []rune conversion, so a match can
// never start or end inside a character.
func fold(s string, caseSensitive bool) string {
	if caseSensitive {
		return strings.Map(keepRune, s)
	}
	return strings.Map(unicode.ToLower, s)
}

func keepRune(r rune) rune { return r }
