// Package scheduler runs diagnostics from the checks section of the config on cron schedules.
// Every run is recorded with the schedule source, same as runs started from the web form.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/netdiag/app/config"
	"github.com/umputun/netdiag/app/diag"
	"github.com/umputun/netdiag/app/web/enums"
)

//go:generate moq -out mocks/diagnostics.go -pkg mocks -skip-ensure -fmt goimports . Diagnostics
//go:generate moq -out mocks/recorder.go -pkg mocks -skip-ensure -fmt goimports . Recorder

// Scheduler wires cron with the diagnostics service. Do is the blocking entry point.
type Scheduler struct {
	Cron
	Diagnostics Diagnostics
	Recorder    Recorder
	Checks      []config.Check

	mu      sync.Mutex
	running map[string]bool // names of checks in progress
}

// Cron interface defines basic robfig/cron methods used by scheduler
type Cron interface {
	Start()
	Stop() context.Context
	Schedule(schedule cron.Schedule, cmd cron.Job) cron.EntryID
}

// Diagnostics is the subset of diag.Service usable by checks
type Diagnostics interface {
	Ping(ctx context.Context, target string) diag.Report
	Traceroute(ctx context.Context, target string) diag.Report
	NetInfo(ctx context.Context) diag.Report
	Reachability(ctx context.Context, host string, port int, viaProxy bool) diag.Report
	TailscaleStatus(ctx context.Context) diag.Report
	DebugReport(ctx context.Context) diag.Report
	SystemInfo(ctx context.Context) diag.Report
}

// Recorder stores finished diagnostics, implemented by recorder.Recorder
type Recorder interface {
	Record(ctx context.Context, rep diag.Report, source enums.Source) (id int64)
}

// Do schedules all checks and blocks until ctx is canceled. Running checks are waited for on exit.
func (s *Scheduler) Do(ctx context.Context) error {
	for _, chk := range s.Checks {
		if err := s.schedule(ctx, chk); err != nil {
			return err
		}
	}
	log.Printf("[INFO] scheduler started with %d checks", len(s.Checks))
	s.Start()
	<-ctx.Done()
	log.Print("[DEBUG] terminate scheduler")
	<-s.Stop().Done()
	return nil
}

// schedule makes a cron job from the check and adds it to cron
func (s *Scheduler) schedule(ctx context.Context, chk config.Check) error {
	sched, err := cron.ParseStandard(chk.Spec)
	if err != nil {
		return fmt.Errorf("can't parse %s for check %q: %w", chk.Spec, chk.Name, err)
	}
	id := s.Schedule(sched, s.jobFunc(ctx, chk))
	log.Printf("[INFO] check %q (%s), first: %s (%v)", chk.Name, chk.Kind, sched.Next(time.Now()).Format(time.RFC3339), id)
	return nil
}

func (s *Scheduler) jobFunc(ctx context.Context, chk config.Check) cron.FuncJob {
	return func() {
		if !s.markRunning(chk.Name) {
			log.Printf("[WARN] check %q is still running, skipped", chk.Name)
			return
		}
		defer s.markDone(chk.Name)
		if err := s.RunCheck(ctx, chk); err != nil {
			log.Printf("[WARN] check %q failed to run, %v", chk.Name, err)
		}
	}
}

// RunCheck runs the check once and records the report
func (s *Scheduler) RunCheck(ctx context.Context, chk config.Check) error {
	rep, err := s.run(ctx, chk)
	if err != nil {
		return err
	}
	log.Printf("[DEBUG] check %q done, %s", chk.Name, rep.Status)
	if s.Recorder != nil {
		s.Recorder.Record(ctx, rep, enums.SourceSchedule)
	}
	return nil
}

func (s *Scheduler) run(ctx context.Context, chk config.Check) (diag.Report, error) {
	switch chk.Kind {
	case config.KindPing:
		return s.Diagnostics.Ping(ctx, chk.Target), nil
	case config.KindTraceroute:
		return s.Diagnostics.Traceroute(ctx, chk.Target), nil
	case config.KindNetInfo:
		return s.Diagnostics.NetInfo(ctx), nil
	case config.KindReachability:
		return s.Diagnostics.Reachability(ctx, chk.Host, chk.Port, chk.Proxy), nil
	case config.KindTSStatus:
		return s.Diagnostics.TailscaleStatus(ctx), nil
	case config.KindDebug:
		return s.Diagnostics.DebugReport(ctx), nil
	case config.KindSysInfo:
		return s.Diagnostics.SystemInfo(ctx), nil
	default:
		return diag.Report{}, fmt.Errorf("unknown check kind %q", chk.Kind)
	}
}

// markRunning records the check as in progress, false if it is running already
func (s *Scheduler) markRunning(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[name] {
		return false
	}
	if s.running == nil {
		s.running = map[string]bool{}
	}
	s.running[name] = true
	return true
}

func (s *Scheduler) markDone(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, name)
}
