// Package notify delivers diagnostic failure and completion messages to email, slack and webhook destinations
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/notify"

	"github.com/umputun/netdiag/app/diag"
	"github.com/umputun/netdiag/app/web/enums"
)

//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

const maxOutputLen = 2000

// Notifier delivers text to a destination, implemented by go-pkgz/notify transports
type Notifier interface {
	fmt.Stringer
	Schema() string
	Send(ctx context.Context, destination, text string) error
}

// Repeater retries delivery, implemented by go-pkgz/repeater
type Repeater interface {
	Do(ctx context.Context, fun func() error, errors ...error) (err error)
}

// Params define when and how notifications are sent
type Params struct {
	EnabledError      bool
	EnabledCompletion bool
	Timeout           time.Duration // per-message delivery timeout including retries
	Hostname          string        // reported as the origin of the message
	Repeater          Repeater      // optional, delivery is attempted once without it
}

// SendersParams configure transports, a transport without destinations is skipped
type SendersParams struct {
	SMTPParams     notify.SMTPParams
	FromEmail      string
	ToEmails       []string
	SlackToken     string
	SlackChannels  []string
	WebhookURLs    []string
	WebhookHeaders []string
}

// Service sends notifications about diagnostics
type Service struct {
	Params
	destinations  []Notifier
	fromEmail     string
	toEmail       []string
	slackChannels []string
	webhookURLs   []string
}

// NewService makes notification service, returns nil if no destinations defined
func NewService(p Params, sp SendersParams) *Service {
	res := &Service{Params: p, fromEmail: sp.FromEmail, toEmail: sp.ToEmails, slackChannels: sp.SlackChannels,
		webhookURLs: sp.WebhookURLs}
	if res.Timeout <= 0 {
		res.Timeout = 30 * time.Second
	}

	if len(sp.ToEmails) > 0 {
		smtp := sp.SMTPParams
		if smtp.ContentType == "" {
			smtp.ContentType = "text/plain"
		}
		if smtp.Charset == "" {
			smtp.Charset = "UTF-8"
		}
		res.destinations = append(res.destinations, notify.NewEmail(smtp))
	}
	if sp.SlackToken != "" && len(sp.SlackChannels) > 0 {
		res.destinations = append(res.destinations, notify.NewSlack(sp.SlackToken))
	}
	if len(sp.WebhookURLs) > 0 {
		res.destinations = append(res.destinations, notify.NewWebhook(notify.WebhookParams{Timeout: res.Timeout,
			Headers: sp.WebhookHeaders}))
	}

	if len(res.destinations) == 0 {
		return nil
	}
	for _, d := range res.destinations {
		log.Printf("[INFO] notifications enabled for %s", d)
	}
	return res
}

// IsOnError reports whether failed diagnostics are notified
func (s *Service) IsOnError() bool { return s.EnabledError }

// IsOnCompletion reports whether successful diagnostics are notified
func (s *Service) IsOnCompletion() bool { return s.EnabledCompletion }

// Notify sends a message about the report if enabled for its status
func (s *Service) Notify(ctx context.Context, rep diag.Report, source enums.Source) {
	failed := rep.Status != enums.RunStatusSuccess
	if (failed && !s.IsOnError()) || (!failed && !s.IsOnCompletion()) {
		return
	}
	subj, text := s.MakeMessage(rep, source)
	if err := s.Send(ctx, subj, text); err != nil {
		log.Printf("[WARN] can't send notification for %s, %v", rep.Title(), err)
	}
}

// MakeMessage builds subject and plain text body for the report
func (s *Service) MakeMessage(rep diag.Report, source enums.Source) (subj, text string) {
	host := s.Hostname
	if host == "" {
		host = "unknown host"
	}
	subj = fmt.Sprintf("netdiag %s %s on %s", strings.ToLower(rep.Title()), rep.Status, host)

	out := rep.Output
	if len(out) > maxOutputLen {
		out = "...\n" + out[len(out)-maxOutputLen:]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", subj)
	fmt.Fprintf(&sb, "command: %s\n", rep.Command)
	fmt.Fprintf(&sb, "source: %s\n", source)
	fmt.Fprintf(&sb, "exit code: %d\n", rep.ExitCode)
	fmt.Fprintf(&sb, "started: %s, took %v\n\n", rep.StartedAt.Format(time.RFC3339), rep.Duration().Round(time.Millisecond))
	sb.WriteString(out)
	return subj, sb.String()
}

// Send delivers text to all destinations, errors are collected
func (s *Service) Send(ctx context.Context, subj, text string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var errs []error
	for _, n := range s.destinations {
		for _, dest := range s.destinationsFor(n, subj) {
			if err := s.deliver(ctx, n, dest, text); err != nil {
				errs = append(errs, err)
				continue
			}
			log.Printf("[DEBUG] notification %q sent to %s", subj, n)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) deliver(ctx context.Context, n Notifier, dest, text string) error {
	if s.Repeater == nil {
		return n.Send(ctx, dest, text)
	}
	return s.Repeater.Do(ctx, func() error { return n.Send(ctx, dest, text) })
}

// destinationsFor makes destination strings in the format expected by go-pkgz/notify transports
func (s *Service) destinationsFor(n Notifier, subj string) []string {
	switch n.Schema() {
	case "mailto":
		return []string{fmt.Sprintf("mailto:%s?from=%s&subject=%s", strings.Join(s.toEmail, ","),
			url.QueryEscape(s.fromEmail), url.QueryEscape(subj))}
	case "slack":
		res := make([]string, 0, len(s.slackChannels))
		for _, ch := range s.slackChannels {
			res = append(res, "slack:"+ch+"?title="+url.QueryEscape(subj))
		}
		return res
	default:
		return s.webhookURLs
	}
}
