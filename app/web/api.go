package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/netdiag/app/diag"
	"github.com/umputun/netdiag/app/web/persistence"
)

// APIStatusResponse is the JSON response for /api/v1/status
type APIStatusResponse struct {
	Version   string       `json:"version"`
	Hostname  string       `json:"hostname"`
	Uptime    string       `json:"uptime"`
	StartedAt time.Time    `json:"started_at"`
	System    diag.Summary `json:"system"`
	Checks    []APICheck   `json:"checks"`
	Timestamp time.Time    `json:"timestamp"`
}

// APICheck is a scheduled check in JSON API response
type APICheck struct {
	Name string `json:"name"`
	Spec string `json:"spec"`
	Kind string `json:"kind"`
}

// APIRunsResponse is the JSON response for run history, runs come without output
type APIRunsResponse struct {
	Runs  []persistence.Run `json:"runs"`
	Count int               `json:"count"`
}

// handleAPIStatus returns JSON status of the app and the host - designed for CLI/jq consumption
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	resp := APIStatusResponse{
		Version:   s.version,
		Hostname:  s.hostname,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		StartedAt: s.startedAt,
		System:    s.diag.Summary(r.Context()),
		Checks:    make([]APICheck, 0, len(s.checks)),
		Timestamp: time.Now(),
	}
	for _, c := range s.checks {
		resp.Checks = append(resp.Checks, APICheck{Name: c.Name, Spec: c.Spec, Kind: c.Kind})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleAPIRuns returns recent runs, newest first. limit query param caps the number of runs.
func (s *Server) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeJSONError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := historyOnPage
	if v := r.URL.Query().Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l <= 0 {
			s.writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = l
	}

	runs, err := s.history.List(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to list runs: %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	s.writeJSON(w, http.StatusOK, APIRunsResponse{Runs: runs, Count: len(runs)})
}

// handleAPIRun returns a single run with its output
func (s *Server) handleAPIRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeJSONError(w, http.StatusNotFound, "history is disabled")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	run, err := s.history.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			s.writeJSONError(w, http.StatusNotFound, "run not found")
			return
		}
		log.Printf("[ERROR] failed to get run %d: %v", id, err)
		s.writeJSONError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
