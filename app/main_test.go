package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func Test_makeHostName(t *testing.T) {
	opts.Notify.HostName = "test"
	assert.Equal(t, "test", makeHostName())

	opts.Notify.HostName = ""
	exp, err := os.Hostname()
	require.NoError(t, err)
	assert.Equal(t, exp, makeHostName())
}

func Test_makeNotifier(t *testing.T) {
	defer func() { opts.Notify.EnabledCompletion, opts.Notify.EnabledError = false, false }()

	opts.Notify.EnabledCompletion, opts.Notify.EnabledError = false, false
	opts.Notify.FromEmail = ""
	opts.Notify.WebhookURLs = []string{"https://example.com/hook"}
	assert.Nil(t, makeNotifier("host1"), "disabled")

	opts.Notify.EnabledError = true
	opts.Notify.WebhookURLs = nil
	assert.Nil(t, makeNotifier("host1"), "enabled without destinations")

	opts.Notify.ToEmails = []string{"test@example.com"}
	notif := makeNotifier("host1")
	require.NotNil(t, notif)
	assert.True(t, notif.IsOnError())
	assert.False(t, notif.IsOnCompletion())
	assert.Equal(t, "netdiag@host1", opts.Notify.FromEmail, "from set based on hostname")
	opts.Notify.ToEmails = nil
}

func Test_setupLogsWithLogsDisabled(t *testing.T) {
	opts.Log.Enabled = false
	assert.Equal(t, os.Stdout, setupLogs())
}

func Test_setupLogsToFile(t *testing.T) {
	defer func() { opts.Log.Enabled = false; setupLogs() }()
	tmpfile := filepath.Join(t.TempDir(), "netdiag.log")

	opts.Log.Enabled = true
	opts.Log.Filename = tmpfile
	opts.Log.MaxSize = 100
	opts.Log.MaxBackups = 7
	opts.Log.MaxAge = 0
	opts.Log.EnabledCompress = false

	out := setupLogs()
	assert.IsType(t, &lumberjack.Logger{}, out)

	logger := out.(*lumberjack.Logger)
	assert.Equal(t, tmpfile, logger.Filename)
	assert.Equal(t, 100, logger.MaxSize)
	assert.Equal(t, 7, logger.MaxBackups)
	assert.Equal(t, 0, logger.MaxAge)
	assert.False(t, logger.Compress)
}

func Test_validateBaseURL(t *testing.T) {
	tests := []struct{ name, input, want string }{
		{"empty string", "", ""},
		{"root path", "/", ""},
		{"path without trailing slash", "/netdiag", "/netdiag"},
		{"path with trailing slash", "/netdiag/", "/netdiag"},
		{"multi-segment path", "/app/netdiag", "/app/netdiag"},
		{"missing leading slash", "netdiag", "/netdiag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validateBaseURL(tt.input))
		})
	}
}

func Test_writeSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSchema(&buf))
	var schema map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))
	assert.Contains(t, buf.String(), "netdiag configuration")
}

func Test_execLogWriter(t *testing.T) {
	defer func() { opts.Dbg = false }()
	opts.Dbg = false
	assert.Nil(t, execLogWriter(os.Stdout))
	opts.Dbg = true
	assert.Equal(t, io.Writer(os.Stdout), execLogWriter(os.Stdout))
}

func Test_execLogWriterToLogFile(t *testing.T) {
	defer func() { opts.Dbg, opts.Log.Enabled = false, false; setupLogs() }()
	opts.Dbg, opts.Log.Enabled = true, true
	opts.Log.Filename = filepath.Join(t.TempDir(), "netdiag.log")

	out := setupLogs()
	w := execLogWriter(out)
	assert.Same(t, out, w, "command output goes to the rotated log file")

	lj, ok := w.(*lumberjack.Logger)
	require.True(t, ok)
	_, err := w.Write([]byte("{ping} 64 bytes from 1.1.1.1\n"))
	require.NoError(t, err)
	require.NoError(t, lj.Close())
	data, err := os.ReadFile(opts.Log.Filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "{ping} 64 bytes from 1.1.1.1")
}

func Test_runBadConfig(t *testing.T) {
	defer func() { opts.Config = "" }()
	opts.Config = filepath.Join(t.TempDir(), "missing.yml")
	err := run(context.Background(), os.Stdout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func Test_run(t *testing.T) {
	port := chooseRandomUnusedPort(t)
	defer func() {
		opts.Listen, opts.Port, opts.History.Enabled, opts.History.DBPath, opts.Web.Metrics = "0.0.0.0", 8080, false, "", false
	}()
	opts.Listen, opts.Port = "127.0.0.1", port
	opts.History.Enabled, opts.History.DBPath, opts.History.Retention = true, filepath.Join(t.TempDir(), "test.db"), 10
	opts.Web.Metrics = true
	opts.Web.LoginTTL = time.Hour
	opts.Web.LoginLimit = 1

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- run(ctx, os.Stdout) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `action="/ping"`)

	resp, err = http.Get(base + "/api/v1/runs")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "history enabled")

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run didn't stop")
	}
}

func chooseRandomUnusedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
