package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type containsAnyRequest struct {
	Needles       []string `json:"needles"`
	CaseSensitive bool     `json:"case_sensitive"`
}

func (s *Server) handleContains(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	caseSensitive, ok := boolParam(w, r, "case_sensitive")
	if !ok {
		return
	}

	snap := s.index.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"query":          q,
		"case_sensitive": caseSensitive,
		"found":          snap.ContainsText(q, caseSensitive),
		"loaded":         snap.Loaded(),
	})
}

func (s *Server) handleContainsAny(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req containsAnyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	snap := s.index.Snapshot()
	res := snap.ContainsAnyOf(req.Needles, req.CaseSensitive)
	writeJSON(w, http.StatusOK, map[string]any{
		"found":   res.Found,
		"results": res.Results,
		"loaded":  snap.Loaded(),
	})
}

func (s *Server) handleSearchContext(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	caseSensitive, ok := boolParam(w, r, "case_sensitive")
	if !ok {
		return
	}

	contextLength := s.cfg.DefaultContextLength
	if v := r.URL.Query().Get("context"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "context must be a non-negative integer", http.StatusBadRequest)
			return
		}
		contextLength = n
	}

	snap := s.index.Snapshot()
	matches := snap.SearchWithContext(q, contextLength, caseSensitive)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":          q,
		"case_sensitive": caseSensitive,
		"context_length": contextLength,
		"count":          len(matches),
		"matches":        matches,
		"loaded":         snap.Loaded(),
	})
}

func (s *Server) handleSearchStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"window":     s.cfg.StatsWindow.String(),
		"operations": s.latency.Snapshot(),
	})
}

// boolParam parses an optional boolean query parameter, writing a 400 on bad input.
func boolParam(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		jsonError(w, name+" must be a boolean", http.StatusBadRequest)
		return false, false
	}
	return b, true
}
