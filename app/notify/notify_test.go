package notify

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/netdiag/app/diag"
	"github.com/umputun/netdiag/app/notify/mocks"
	"github.com/umputun/netdiag/app/web/enums"
)

func TestService_EmptyDestinations(t *testing.T) {
	svc := NewService(Params{}, SendersParams{})
	require.Nil(t, svc)

	svc = NewService(Params{}, SendersParams{SlackToken: "token"})
	require.Nil(t, svc, "slack without channels is not a destination")
}

func TestNewService(t *testing.T) {
	svc := NewService(Params{EnabledError: true}, SendersParams{ToEmails: []string{"test@example.com"},
		SlackToken: "token", SlackChannels: []string{"ops"}, WebhookURLs: []string{"https://example.com/hook"}})
	require.NotNil(t, svc)
	assert.Len(t, svc.destinations, 3)
	assert.Equal(t, 30*time.Second, svc.Timeout, "default timeout")
	assert.True(t, svc.IsOnError())
	assert.False(t, svc.IsOnCompletion())
}

func TestService_Send(t *testing.T) {
	tests := []struct {
		name           string
		subj           string
		text           string
		destination    string
		mockSendErr    error
		expectedErrMsg string
	}{
		{
			name:        "Successful Send",
			subj:        "Test Subject",
			text:        "Test Text",
			destination: "mailto:to@example.com,to2@example.com?from=from%40example.com&subject=Test+Subject",
			mockSendErr: nil,
		},
		{
			name:           "Send Error",
			subj:           "Problem Subject",
			text:           "Problem Text",
			destination:    "mailto:to@example.com,to2@example.com?from=from%40example.com&subject=Problem+Subject",
			mockSendErr:    errors.New("mock error"),
			expectedErrMsg: "mock error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailtoNotifier := &mocks.NotifierMock{
				SendFunc: func(_ context.Context, dest string, text string) error {
					assert.Equal(t, tt.text, text)
					assert.Equal(t, tt.destination, dest)
					return tt.mockSendErr
				},
				SchemaFunc: func() string { return "mailto" },
				StringFunc: func() string { return "email" },
			}

			s := Service{
				Params:       Params{Timeout: time.Second},
				destinations: []Notifier{mailtoNotifier},
				fromEmail:    "from@example.com",
				toEmail:      []string{"to@example.com", "to2@example.com"},
			}

			err := s.Send(context.Background(), tt.subj, tt.text)
			assert.Len(t, mailtoNotifier.SendCalls(), 1)
			if tt.expectedErrMsg == "" {
				require.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.expectedErrMsg)
			}
		})
	}
}

func TestService_MailtoDestinationFrom(t *testing.T) {
	n := &mocks.NotifierMock{SchemaFunc: func() string { return "mailto" }}
	for _, from := range []string{`"netdiag" <netdiag@example.com>`, "ops&noc@example.com"} {
		s := Service{fromEmail: from, toEmail: []string{"to@example.com"}}
		dests := s.destinationsFor(n, "ping failed")
		require.Len(t, dests, 1)

		u, err := url.Parse(dests[0])
		require.NoError(t, err)
		assert.Equal(t, "mailto", u.Scheme)
		assert.Equal(t, from, u.Query().Get("from"))
		assert.Equal(t, "ping failed", u.Query().Get("subject"))
	}
}

func TestService_SendSlackAndWebhooks(t *testing.T) {
	slack := &mocks.NotifierMock{
		SendFunc:   func(context.Context, string, string) error { return nil },
		SchemaFunc: func() string { return "slack" },
		StringFunc: func() string { return "slack" },
	}
	hook := &mocks.NotifierMock{
		SendFunc:   func(context.Context, string, string) error { return errors.New("503") },
		SchemaFunc: func() string { return "http" },
		StringFunc: func() string { return "webhook" },
	}
	s := Service{
		Params:        Params{Timeout: time.Second},
		destinations:  []Notifier{slack, hook},
		slackChannels: []string{"ops", "alerts"},
		webhookURLs:   []string{"https://example.com/a", "https://example.com/b"},
	}

	err := s.Send(context.Background(), "ping failed", "text")
	require.Error(t, err)
	assert.Equal(t, "503\n503", err.Error())

	require.Len(t, slack.SendCalls(), 2)
	assert.Equal(t, "slack:ops?title=ping+failed", slack.SendCalls()[0].Destination)
	assert.Equal(t, "slack:alerts?title=ping+failed", slack.SendCalls()[1].Destination)
	require.Len(t, hook.SendCalls(), 2)
	assert.Equal(t, "https://example.com/b", hook.SendCalls()[1].Destination)
}

func TestService_SendWithRepeater(t *testing.T) {
	attempts := 0
	n := &mocks.NotifierMock{
		SendFunc: func(context.Context, string, string) error {
			attempts++
			if attempts < 3 {
				return errors.New("temporary")
			}
			return nil
		},
		SchemaFunc: func() string { return "http" },
		StringFunc: func() string { return "webhook" },
	}
	s := Service{
		Params: Params{Timeout: time.Second,
			Repeater: repeater.New(&strategy.Backoff{Repeats: 5, Duration: time.Millisecond, Factor: 1.5})},
		destinations: []Notifier{n},
		webhookURLs:  []string{"https://example.com/hook"},
	}

	require.NoError(t, s.Send(context.Background(), "subj", "text"))
	assert.Equal(t, 3, attempts)
}

func TestService_Notify(t *testing.T) {
	rep := diag.Report{Kind: diag.KindPing, Target: "8.8.8.8", Command: "ping -c 4 8.8.8.8", Output: "100% packet loss",
		Status: enums.RunStatusFailed, ExitCode: 1, StartedAt: time.Now(), FinishedAt: time.Now().Add(time.Second)}

	tbl := []struct {
		name               string
		onError, onSuccess bool
		status             enums.RunStatus
		sent               bool
	}{
		{"failed, on error", true, false, enums.RunStatusFailed, true},
		{"timeout, on error", true, false, enums.RunStatusTimeout, true},
		{"failed, errors disabled", false, true, enums.RunStatusFailed, false},
		{"success, on completion", false, true, enums.RunStatusSuccess, true},
		{"success, completion disabled", true, false, enums.RunStatusSuccess, false},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			n := &mocks.NotifierMock{
				SendFunc:   func(context.Context, string, string) error { return nil },
				SchemaFunc: func() string { return "http" },
				StringFunc: func() string { return "webhook" },
			}
			s := Service{
				Params:       Params{EnabledError: tt.onError, EnabledCompletion: tt.onSuccess, Timeout: time.Second, Hostname: "box"},
				destinations: []Notifier{n},
				webhookURLs:  []string{"https://example.com/hook"},
			}
			r := rep
			r.Status = tt.status
			s.Notify(context.Background(), r, enums.SourceSchedule)
			if !tt.sent {
				assert.Empty(t, n.SendCalls())
				return
			}
			require.Len(t, n.SendCalls(), 1)
			assert.Contains(t, n.SendCalls()[0].Text, "netdiag ping 8.8.8.8 "+tt.status.String()+" on box")
			assert.Contains(t, n.SendCalls()[0].Text, "source: schedule")
		})
	}
}

func TestService_MakeMessage(t *testing.T) {
	s := Service{}
	rep := diag.Report{Kind: diag.KindDebug, Command: "curl", Output: strings.Repeat("x", 3000) + "tail",
		Status: enums.RunStatusFailed, ExitCode: 1}
	subj, text := s.MakeMessage(rep, enums.SourceWeb)
	assert.Equal(t, "netdiag debug report failed on unknown host", subj)
	assert.Contains(t, text, "command: curl\n")
	assert.Contains(t, text, "exit code: 1\n")
	assert.True(t, strings.HasSuffix(text, "tail"))
	assert.Less(t, len(text), 2300, "output truncated")
}
