package web

import (
	"context"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/netdiag/app/diag"
	"github.com/umputun/netdiag/app/web/enums"
)

const historyOnPage = 20

// handleIndex renders the form with pending flashes, recent runs and the host summary
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := s.newTemplateData()
	data.Flashes = s.popFlashes(r)
	data.Summary = s.diag.Summary(r.Context())
	if s.history != nil {
		runs, err := s.history.List(r.Context(), historyOnPage)
		if err != nil {
			log.Printf("[WARN] failed to load history: %v", err)
		}
		data.Runs = runs
	}
	// flashes are one-shot, the page must not be served from cache
	w.Header().Set("Cache-Control", "no-store")
	s.render(w, http.StatusOK, "base.html", "base", data)
}

func (s *Server) newTemplateData() TemplateData {
	return TemplateData{
		Checks:      s.checks,
		Presets:     s.presets,
		ProxyAddr:   s.proxyAddr,
		BaseURL:     s.baseURL,
		Hostname:    s.hostname,
		Version:     shortVersion(s.version),
		CurrentYear: time.Now().Year(),
		AuthEnabled: s.passwordHash != "",
		HistoryOn:   s.history != nil,
	}
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.runDiagnostic(w, r, func(ctx context.Context) diag.Report {
		return s.diag.Ping(ctx, r.FormValue("target"))
	})
}

func (s *Server) handleTraceroute(w http.ResponseWriter, r *http.Request) {
	s.runDiagnostic(w, r, func(ctx context.Context) diag.Report {
		return s.diag.Traceroute(ctx, r.FormValue("target"))
	})
}

func (s *Server) handleNetInfo(w http.ResponseWriter, r *http.Request) {
	s.runDiagnostic(w, r, s.diag.NetInfo)
}

// handleReachability checks tcp connect to host:port, proxy=on routes it through the tailscale SOCKS5 proxy
func (s *Server) handleReachability(w http.ResponseWriter, r *http.Request) {
	s.runDiagnostic(w, r, func(ctx context.Context) diag.Report {
		port, err := diag.ValidatePort(r.FormValue("port"))
		if err != nil {
			now := time.Now()
			return diag.Report{Kind: diag.KindReachability, Target: r.FormValue("host"), Output: "Error: " + err.Error(),
				Status: enums.RunStatusFailed, ExitCode: -1, StartedAt: now, FinishedAt: now}
		}
		return s.diag.Reachability(ctx, r.FormValue("host"), port, r.FormValue("proxy") == "on")
	})
}

func (s *Server) handleTailscaleStatus(w http.ResponseWriter, r *http.Request) {
	s.runDiagnostic(w, r, s.diag.TailscaleStatus)
}

func (s *Server) handleBugReport(w http.ResponseWriter, r *http.Request) {
	s.runDiagnostic(w, r, s.diag.BugReport)
}

func (s *Server) handleDebugReport(w http.ResponseWriter, r *http.Request) {
	s.runDiagnostic(w, r, s.diag.DebugReport)
}

// runDiagnostic runs fn, records the report, stores it as a flash and redirects back to the form.
// The request context bounds the run, so a dropped client cancels the command.
func (s *Server) runDiagnostic(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context) diag.Report) {
	if err := r.ParseForm(); err != nil {
		s.addFlash(w, r, Flash{Category: enums.CategoryWarning, Title: "Invalid request", Text: "Error: " + err.Error()})
		http.Redirect(w, r, s.url("/"), http.StatusSeeOther)
		return
	}

	rep := fn(r.Context())
	var runID int64
	if s.recorder != nil {
		runID = s.recorder.Record(r.Context(), rep, enums.SourceWeb)
	}
	s.addFlash(w, r, Flash{Category: enums.CategoryFor(rep.Status), Title: rep.Title(), Text: rep.Output,
		Command: rep.Command, RunID: runID})
	http.Redirect(w, r, s.url("/"), http.StatusSeeOther)
}
