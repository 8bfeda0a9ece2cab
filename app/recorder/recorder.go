// Package recorder is the single sink for finished diagnostics. Every report, from the web
// form or from a scheduled check, goes to the run history, metrics and notifications.
package recorder

import (
	"context"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/netdiag/app/diag"
	"github.com/umputun/netdiag/app/web/enums"
	"github.com/umputun/netdiag/app/web/persistence"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// Store saves runs, implemented by persistence.SQLiteStore
type Store interface {
	Save(ctx context.Context, r *persistence.Run) error
}

// Notifier sends messages about reports, implemented by notify.Service
type Notifier interface {
	Notify(ctx context.Context, rep diag.Report, source enums.Source)
}

// Recorder fans a report out to history, metrics and notifications. All parts are optional.
type Recorder struct {
	Store    Store
	Metrics  *Metrics
	Notifier Notifier
}

// Record stores, measures and notifies. Failures are logged and never returned,
// recording must not change what the user sees.
func (r *Recorder) Record(ctx context.Context, rep diag.Report, source enums.Source) (id int64) {
	log.Printf("[INFO] %s from %s: %s in %v", rep.Title(), source, rep.Status, rep.Duration().Round(time.Millisecond))
	if r.Metrics != nil {
		r.Metrics.Observe(rep, source)
	}

	// detached from request ctx, a client going away should not lose the run
	bgCtx := context.WithoutCancel(ctx)
	if r.Store != nil {
		run := &persistence.Run{Kind: string(rep.Kind), Target: rep.Target, Command: rep.Command, Status: rep.Status,
			ExitCode: rep.ExitCode, Output: rep.Output, Source: source, StartedAt: rep.StartedAt, FinishedAt: rep.FinishedAt}
		saveCtx, cancel := context.WithTimeout(bgCtx, 5*time.Second)
		if err := r.Store.Save(saveCtx, run); err != nil {
			log.Printf("[WARN] failed to save run %s, %v", rep.Title(), err)
		}
		cancel()
		id = run.ID
	}

	if r.Notifier != nil {
		go r.Notifier.Notify(bgCtx, rep, source)
	}
	return id
}
