// Package runner executes diagnostic commands with a timeout and captures their output.
// Commands are executed directly, never through a shell.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
)

// Spec describes a single command invocation
type Spec struct {
	Args    []string      // command vector, Args[0] is the binary
	Timeout time.Duration // zero means no timeout beyond the parent context
}

// String returns the command line as shown to the user
func (s Spec) String() string {
	return strings.Join(s.Args, " ")
}

// Result of a command invocation
type Result struct {
	Command    string
	Stdout     string
	Stderr     string
	ExitCode   int // -1 if the process could not start or was killed
	TimedOut   bool
	Timeout    time.Duration
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Output returns combined output, stdout followed by stderr.
// A timeout replaces the output with a fixed message, a failure without any output returns the error text.
func (r Result) Output() string {
	if r.TimedOut {
		return TimeoutMessage(r.Timeout)
	}
	out := r.Stdout + r.Stderr
	if out == "" && r.Err != nil {
		return "Error: " + r.Err.Error()
	}
	return out
}

// Success reports whether the command finished in time with zero exit code
func (r Result) Success() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Duration of the execution
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// TimeoutMessage is the fixed text shown instead of the output of a timed out command.
// Fractional timeouts keep their fraction, e.g. 1.5 seconds.
func TimeoutMessage(timeout time.Duration) string {
	return fmt.Sprintf("Command timed out after %s seconds.", strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64))
}

// Exec runs commands as local processes
type Exec struct {
	MaxLines  int       // max lines kept per stream, <=0 for unlimited
	LogWriter io.Writer // if set, command output echoed here with {command} prefix
}

// Run executes the command and blocks until it finishes, times out or ctx is canceled.
// It never returns an error directly, all failures are reported in Result.
func (e *Exec) Run(ctx context.Context, spec Spec) Result {
	res := Result{Command: spec.String(), Timeout: spec.Timeout, StartedAt: time.Now()}
	if len(spec.Args) == 0 || spec.Args[0] == "" {
		res.ExitCode, res.Err, res.FinishedAt = -1, errors.New("empty command"), time.Now()
		return res
	}

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	stdout, stderr := NewOutputCapture(e.MaxLines), NewOutputCapture(e.MaxLines)
	cmd := exec.CommandContext(ctx, spec.Args[0], spec.Args[1:]...) // #nosec G204 - args come from the fixed catalog
	cmd.WaitDelay = time.Second                                      // don't hang on pipes held by orphaned children
	cmd.Stdout, cmd.Stderr = stdout, stderr
	var echo []*LogPrefixer
	if e.LogWriter != nil {
		lw := &syncWriter{w: e.LogWriter}
		echo = []*LogPrefixer{NewLogPrefixer(lw, res.Command, false), NewLogPrefixer(lw, res.Command, true)}
		cmd.Stdout = io.MultiWriter(stdout, echo[0])
		cmd.Stderr = io.MultiWriter(stderr, echo[1])
	}

	log.Printf("[DEBUG] run %q, timeout %v", res.Command, spec.Timeout)
	err := cmd.Run()
	for _, p := range echo {
		if ferr := p.Flush(); ferr != nil {
			log.Printf("[WARN] failed to echo output of %q, %v", res.Command, ferr)
		}
	}
	res.FinishedAt = time.Now()
	res.Stdout, res.Stderr = stdout.String(), stderr.String()

	if spec.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.TimedOut, res.ExitCode = true, -1
		res.Err = fmt.Errorf("command %q timed out after %v", res.Command, spec.Timeout)
		log.Printf("[WARN] %v", res.Err)
		return res
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			res.Err = fmt.Errorf("command %q failed: %w", res.Command, err)
		} else {
			res.ExitCode = -1
			res.Err = fmt.Errorf("failed to execute %q: %w", res.Command, err)
		}
		log.Printf("[DEBUG] %v", res.Err)
		return res
	}

	log.Printf("[DEBUG] completed %q in %v", res.Command, res.Duration())
	return res
}
