// Package diag implements the catalog of network diagnostics. Each diagnostic runs one or more
// external commands through Runner and turns the captured output into a Report.
// Diagnostics never return errors, every failure is described in the Report itself.
package diag

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/netdiag/app/config"
	"github.com/umputun/netdiag/app/runner"
	"github.com/umputun/netdiag/app/web/enums"
)

//go:generate moq -out mocks/runner.go -pkg mocks -skip-ensure -fmt goimports . Runner

// Kind identifies a diagnostic
type Kind string

// diagnostic kinds
const (
	KindPing         Kind = config.KindPing
	KindTraceroute   Kind = config.KindTraceroute
	KindNetInfo      Kind = config.KindNetInfo
	KindReachability Kind = config.KindReachability
	KindTSStatus     Kind = config.KindTSStatus
	KindDebug        Kind = config.KindDebug
	KindBugReport    Kind = "bugreport"
	KindSysInfo      Kind = config.KindSysInfo
)

var titles = map[Kind]string{
	KindPing:         "Ping",
	KindTraceroute:   "Traceroute",
	KindNetInfo:      "Network info",
	KindReachability: "Reachability test",
	KindTSStatus:     "Tailscale status",
	KindDebug:        "Debug report",
	KindBugReport:    "Tailscale bugreport",
	KindSysInfo:      "System info",
}

// Title returns human readable name of the diagnostic
func (k Kind) Title() string {
	if t, ok := titles[k]; ok {
		return t
	}
	return string(k)
}

// Runner executes a single command, implemented by runner.Exec
type Runner interface {
	Run(ctx context.Context, spec runner.Spec) runner.Result
}

// Report is the outcome of a diagnostic
type Report struct {
	Kind       Kind
	Target     string // host, host:port or empty
	Command    string // command line(s) executed
	Output     string
	Status     enums.RunStatus
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Title of the report as shown in the flash message
func (r Report) Title() string {
	if r.Target == "" {
		return r.Kind.Title()
	}
	return r.Kind.Title() + " " + r.Target
}

// Duration of the diagnostic
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Service runs diagnostics with the configured binaries and timeouts
type Service struct {
	runner Runner
	cfg    config.Config
	dialer func(ctx context.Context, network, addr string) (net.Conn, error) // direct dialer, replaceable in tests
}

// New makes diagnostics service
func New(r Runner, cfg config.Config) *Service {
	return &Service{runner: r, cfg: cfg, dialer: (&net.Dialer{}).DialContext}
}

// Ping sends 4 ICMP echo requests to target
func (s *Service) Ping(ctx context.Context, target string) Report {
	target = strings.TrimSpace(target)
	if err := ValidateTarget(target); err != nil {
		return invalidInput(KindPing, target, err)
	}
	spec := runner.Spec{Args: []string{s.cfg.Binaries.Ping, "-c", "4", target}, Timeout: s.cfg.Timeouts.Ping}
	return fromResult(KindPing, target, s.runner.Run(ctx, spec))
}

// Traceroute discovers the path to target
func (s *Service) Traceroute(ctx context.Context, target string) Report {
	target = strings.TrimSpace(target)
	if err := ValidateTarget(target); err != nil {
		return invalidInput(KindTraceroute, target, err)
	}
	spec := runner.Spec{Args: []string{s.cfg.Binaries.Traceroute, "-m", "20", "-w", "2", target},
		Timeout: s.cfg.Timeouts.Traceroute}
	return fromResult(KindTraceroute, target, s.runner.Run(ctx, spec))
}

// NetInfo shows interface addresses and the routing table
func (s *Service) NetInfo(ctx context.Context) Report {
	addr := s.runner.Run(ctx, runner.Spec{Args: []string{s.cfg.Binaries.IP, "addr"}, Timeout: s.cfg.Timeouts.NetInfo})
	route := s.runner.Run(ctx, runner.Spec{Args: []string{s.cfg.Binaries.IP, "route"}, Timeout: s.cfg.Timeouts.NetInfo})

	var sb strings.Builder
	writeSection(&sb, addr.Command, addr.Output())
	sb.WriteString("\n")
	writeSection(&sb, route.Command, route.Output())

	rep := Report{
		Kind:       KindNetInfo,
		Command:    addr.Command + "; " + route.Command,
		Output:     sb.String(),
		StartedAt:  addr.StartedAt,
		FinishedAt: route.FinishedAt,
		Status:     enums.RunStatusSuccess,
	}
	for _, r := range []runner.Result{addr, route} {
		switch {
		case r.TimedOut:
			rep.Status, rep.ExitCode = enums.RunStatusTimeout, r.ExitCode
		case !r.Success() && rep.Status == enums.RunStatusSuccess:
			rep.Status, rep.ExitCode = enums.RunStatusFailed, r.ExitCode
		}
	}
	return rep
}

// TailscaleStatus shows the tailscale peers and connection state
func (s *Service) TailscaleStatus(ctx context.Context) Report {
	spec := runner.Spec{Args: []string{s.cfg.Binaries.Tailscale, "status"}, Timeout: s.cfg.Timeouts.TSStatus}
	return fromResult(KindTSStatus, "", s.runner.Run(ctx, spec))
}

// BugReport asks tailscale to upload a bugreport and returns its marker
func (s *Service) BugReport(ctx context.Context) Report {
	spec := runner.Spec{Args: []string{s.cfg.Binaries.Tailscale, "bugreport"}, Timeout: s.cfg.Timeouts.BugReport}
	return fromResult(KindBugReport, "", s.runner.Run(ctx, spec))
}

var reHostname = regexp.MustCompile(`^[a-zA-Z0-9_]([a-zA-Z0-9_-]{0,62})(\.[a-zA-Z0-9_]([a-zA-Z0-9_-]{0,62}))*\.?$`)

// ValidateTarget accepts hostnames and IP literals. Anything that could be read as a command flag is rejected.
func ValidateTarget(target string) error {
	if target == "" {
		return fmt.Errorf("target is required")
	}
	if len(target) > 253 {
		return fmt.Errorf("target is too long")
	}
	if net.ParseIP(target) != nil {
		return nil
	}
	if !reHostname.MatchString(target) {
		return fmt.Errorf("invalid target %q, expected hostname or IP address", target)
	}
	return nil
}

// ValidatePort parses tcp port in 1-65535 range
func ValidatePort(port string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", port)
	}
	if p < 1 || p > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", p)
	}
	return p, nil
}

func fromResult(kind Kind, target string, res runner.Result) Report {
	rep := Report{
		Kind:       kind,
		Target:     target,
		Command:    res.Command,
		Output:     res.Output(),
		ExitCode:   res.ExitCode,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	switch {
	case res.TimedOut:
		rep.Status = enums.RunStatusTimeout
	case res.Success():
		rep.Status = enums.RunStatusSuccess
	default:
		rep.Status = enums.RunStatusFailed
	}
	return rep
}

func invalidInput(kind Kind, target string, err error) Report {
	now := time.Now()
	return Report{Kind: kind, Target: target, Output: "Error: " + err.Error(), Status: enums.RunStatusFailed,
		ExitCode: -1, StartedAt: now, FinishedAt: now}
}

func writeSection(sb *strings.Builder, title, body string) {
	sb.WriteString("=== " + title + " ===\n")
	sb.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
}
