package diag

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/net/proxy"

	"github.com/umputun/netdiag/app/runner"
	"github.com/umputun/netdiag/app/web/enums"
)

// Reachability opens a raw TCP connection to host:port, directly or through the SOCKS5 proxy
// of the tailscale daemon. Nothing is sent, the connection is closed right after connect.
func (s *Service) Reachability(ctx context.Context, host string, port int, viaProxy bool) Report {
	host = strings.TrimSpace(host)
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	if err := ValidateTarget(host); err != nil {
		return invalidInput(KindReachability, addr, err)
	}
	if port < 1 || port > 65535 {
		return invalidInput(KindReachability, addr, fmt.Errorf("port %d out of range 1-65535", port))
	}

	timeout := s.cfg.Timeouts.Reachability
	rep := Report{Kind: KindReachability, Target: addr, Command: "tcp connect " + addr, StartedAt: time.Now()}
	if viaProxy {
		rep.Command += " via socks5 " + s.cfg.Debug.SOCKS5Proxy
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := s.dial(dialCtx, addr, viaProxy)
	rep.FinishedAt = time.Now()

	switch {
	case err == nil:
		if e := conn.Close(); e != nil {
			log.Printf("[DEBUG] failed to close connection to %s: %v", addr, e)
		}
		rep.Status = enums.RunStatusSuccess
		rep.Output = fmt.Sprintf("Successfully connected to %s in %v.", addr, rep.Duration().Round(time.Millisecond))
		if viaProxy {
			rep.Output = fmt.Sprintf("Successfully connected to %s via SOCKS5 proxy %s in %v.", addr,
				s.cfg.Debug.SOCKS5Proxy, rep.Duration().Round(time.Millisecond))
		}
	case errors.Is(dialCtx.Err(), context.DeadlineExceeded):
		rep.Status, rep.ExitCode = enums.RunStatusTimeout, -1
		rep.Output = runner.TimeoutMessage(timeout)
	default:
		rep.Status, rep.ExitCode = enums.RunStatusFailed, 1
		rep.Output = fmt.Sprintf("Failed to connect to %s: %v", addr, err)
	}
	log.Printf("[DEBUG] reachability %s: %s", rep.Command, rep.Status)
	return rep
}

func (s *Service) dial(ctx context.Context, addr string, viaProxy bool) (net.Conn, error) {
	if !viaProxy {
		return s.dialer(ctx, "tcp", addr)
	}

	d, err := proxy.SOCKS5("tcp", s.cfg.Debug.SOCKS5Proxy, nil, &net.Dialer{})
	if err != nil {
		return nil, fmt.Errorf("failed to make socks5 dialer for %s: %w", s.cfg.Debug.SOCKS5Proxy, err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("socks5 dialer for %s doesn't support context", s.cfg.Debug.SOCKS5Proxy)
	}
	return cd.DialContext(ctx, "tcp", addr)
}
