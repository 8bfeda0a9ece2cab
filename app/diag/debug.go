package diag

import (
	"context"
	"fmt"
	"net"
	"slices"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"

	"github.com/umputun/netdiag/app/runner"
	"github.com/umputun/netdiag/app/web/enums"
)

// DebugReport collects five command outputs and concludes whether the traffic leaves through
// the tailscale exit node. Commands run concurrently, the report keeps the step order.
func (s *Service) DebugReport(ctx context.Context) Report {
	curl := []string{s.cfg.Binaries.Curl, "-s", "--max-time", "10"}
	steps := []struct {
		title string
		spec  runner.Spec
	}{
		{"Tailscale status", s.debugSpec(s.cfg.Binaries.Tailscale, "status")},
		{"Listening sockets", s.debugSpec(s.cfg.Binaries.SS, "-lntp")},
		{"Routing table", s.debugSpec(s.cfg.Binaries.IP, "route")},
		{"Direct egress IP", s.debugSpec(slices.Concat(curl, []string{s.cfg.Debug.IPEchoURL})...)},
		{"Proxied egress IP", s.debugSpec(slices.Concat(curl,
			[]string{"--socks5-hostname", s.cfg.Debug.SOCKS5Proxy, s.cfg.Debug.IPEchoURL})...)},
	}

	started := time.Now()
	results := make([]runner.Result, len(steps))
	wg := syncs.NewSizedGroup(len(steps), syncs.Context(ctx))
	for i, st := range steps {
		wg.Go(func(ctx context.Context) {
			results[i] = s.runner.Run(ctx, st.spec)
		})
	}
	wg.Wait()

	var sb strings.Builder
	commands := make([]string, 0, len(steps))
	for i, st := range steps {
		commands = append(commands, results[i].Command)
		writeSection(&sb, fmt.Sprintf("Step %d: %s", i+1, st.title), results[i].Output())
		sb.WriteString("\n")
	}

	direct, proxied := egressIP(results[3]), egressIP(results[4])
	conclusion, ok := Conclude(direct, proxied)
	writeSection(&sb, fmt.Sprintf("Step %d: Conclusion", len(steps)+1),
		fmt.Sprintf("Direct IP: %s\nProxied IP: %s\n%s", orUnknown(direct), orUnknown(proxied), conclusion))

	rep := Report{
		Kind:       KindDebug,
		Command:    strings.Join(commands, "; "),
		Output:     sb.String(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Status:     enums.RunStatusSuccess,
	}
	if !ok {
		rep.Status, rep.ExitCode = enums.RunStatusFailed, 1
	}
	log.Printf("[DEBUG] debug report, direct ip %q, proxied ip %q, concluded %v", direct, proxied, ok)
	return rep
}

// Conclude compares direct and proxied egress IPs. Returns false if either IP is unknown.
func Conclude(direct, proxied string) (conclusion string, ok bool) {
	direct, proxied = strings.TrimSpace(direct), strings.TrimSpace(proxied)
	if direct == "" || proxied == "" {
		return "Conclusion: could not determine the egress IP, check the steps above.", false
	}
	if direct == proxied {
		return "Conclusion: traffic is NOT routed through the exit node, both requests leave from " + direct + ".", true
	}
	return "Conclusion: traffic is routed through the exit node, proxied requests leave from " + proxied + ".", true
}

func (s *Service) debugSpec(args ...string) runner.Spec {
	return runner.Spec{Args: args, Timeout: s.cfg.Timeouts.DebugStep}
}

// egressIP extracts ip from successful curl output, html error pages and partial output are ignored
func egressIP(res runner.Result) string {
	if !res.Success() {
		return ""
	}
	ip := strings.TrimSpace(res.Stdout)
	if net.ParseIP(ip) == nil {
		return ""
	}
	return ip
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
