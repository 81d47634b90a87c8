// Package gateway executes scripted shell commands and streams their
// output back to the TUI as Bubble Tea messages.
package gateway

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stimulus-ml/onboard/internal/logging"
)

// Outcome is the terminal result of a command execution. Every outcome,
// including failure and timeout, counts as completion for script flow.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFailed
	OutcomeTimedOut
)

// String returns a short label for logs and the command surface.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// LineMsg carries one output line. Stderr lines are flagged so the
// surface can style them distinctly. Exec allows the receiver to keep
// listening for the next event.
type LineMsg struct {
	Exec   *Execution
	Line   string
	Stderr bool
}

// DoneMsg signals that an execution reached its terminal outcome.
type DoneMsg struct {
	ID       string
	Outcome  Outcome
	ExitCode int
	Err      error
}

// slowPatterns marks commands granted the longer timeout.
var slowPatterns = []string{
	"pip install",
	"apt-get install",
	"npm install",
}

const maxLineLength = 4096

// Runner starts command executions with bounded timeouts.
type Runner struct {
	// DefaultTimeout bounds ordinary commands; SlowTimeout bounds
	// commands matching a slow pattern (package installs).
	DefaultTimeout time.Duration
	SlowTimeout    time.Duration
}

// NewRunner returns a runner with the given timeouts.
func NewRunner(defaultTimeout, slowTimeout time.Duration) *Runner {
	return &Runner{DefaultTimeout: defaultTimeout, SlowTimeout: slowTimeout}
}

// Run starts the command asynchronously and returns the command that
// delivers its first event. Implements engine.CommandRunner.
func (r *Runner) Run(command string) tea.Cmd {
	execution := r.start(command)
	return execution.Next()
}

// TimeoutFor returns the timeout applied to a command.
func (r *Runner) TimeoutFor(command string) time.Duration {
	for _, pattern := range slowPatterns {
		if strings.Contains(command, pattern) {
			return r.SlowTimeout
		}
	}
	return r.DefaultTimeout
}

// Execution is one in-flight command. Events are delivered one at a
// time via Next so the TUI loop stays in control.
type Execution struct {
	ID      string
	Command string

	events chan event
}

type event struct {
	line   string
	stderr bool
	done   bool
	result DoneMsg
}

// Next returns a command that blocks for the next execution event and
// converts it to a message. After a LineMsg the caller re-issues
// msg.Exec.Next(); after DoneMsg the stream is exhausted.
func (x *Execution) Next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-x.events
		if !ok || ev.done {
			if !ok {
				return DoneMsg{ID: x.ID, Outcome: OutcomeFailed, Err: errors.New("execution stream closed")}
			}
			return ev.result
		}
		return LineMsg{Exec: x, Line: ev.line, Stderr: ev.stderr}
	}
}

func (r *Runner) start(command string) *Execution {
	x := &Execution{
		ID:      uuid.New().String(),
		Command: command,
		events:  make(chan event, 64),
	}
	timeout := r.TimeoutFor(command)
	go x.run(timeout)
	return x
}

func (x *Execution) run(timeout time.Duration) {
	logger := logging.Component("gateway")
	defer close(x.events)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", x.Command)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		x.finish(ctx, logger, OutcomeFailed, -1, err)
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		x.finish(ctx, logger, OutcomeFailed, -1, err)
		return
	}

	logger.Info().
		Str("execution_id", x.ID).
		Str("command", x.Command).
		Dur("timeout", timeout).
		Msg("command starting")

	if err := cmd.Start(); err != nil {
		x.finish(ctx, logger, OutcomeFailed, -1, err)
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go x.readLines(ctx, &wg, stdout, false)
	go x.readLines(ctx, &wg, stderr, true)
	wg.Wait()

	waitErr := cmd.Wait()

	switch {
	case ctx.Err() == context.DeadlineExceeded:
		// CommandContext killed the process; report completion so the
		// script never hangs on a stuck command.
		x.finish(ctx, logger, OutcomeTimedOut, -1, ctx.Err())
	case waitErr != nil:
		code := 1
		exitErr := new(exec.ExitError)
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		}
		x.finish(ctx, logger, OutcomeFailed, code, waitErr)
	default:
		x.finish(ctx, logger, OutcomeOK, 0, nil)
	}
}

// readLines sends one event per output line. A send blocked on a full
// buffer means the consumer stopped draining; the context deadline then
// unblocks the goroutine so an abandoned execution still unwinds.
func (x *Execution) readLines(ctx context.Context, wg *sync.WaitGroup, r io.Reader, stderr bool) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), maxLineLength)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		select {
		case x.events <- event{line: line, stderr: stderr}:
		case <-ctx.Done():
			return
		}
	}
}

func (x *Execution) finish(ctx context.Context, logger zerolog.Logger, outcome Outcome, exitCode int, err error) {
	entry := logger.Info().
		Str("execution_id", x.ID).
		Str("outcome", outcome.String()).
		Int("exit_code", exitCode)
	if err != nil {
		entry = entry.Err(err)
	}
	entry.Msg("command finished")

	ev := event{done: true, result: DoneMsg{
		ID:       x.ID,
		Outcome:  outcome,
		ExitCode: exitCode,
		Err:      err,
	}}

	// On timeout the context is already expired, so try the buffer
	// first; a live consumer keeps it from filling up.
	select {
	case x.events <- ev:
		return
	default:
	}
	select {
	case x.events <- ev:
	case <-ctx.Done():
	}
}
