package source

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

const (
	// historyLines is how much initial context journalctl replays.
	historyLines = 50

	// killGrace is how long Stop waits after SIGTERM before SIGKILL.
	killGrace = 500 * time.Millisecond
)

// JournalOption configures a JournalSource.
type JournalOption func(*JournalSource)

// WithCommand overrides the executable and arguments (useful for testing).
func WithCommand(name string, args ...string) JournalOption {
	return func(js *JournalSource) {
		js.command = name
		js.args = args
	}
}

// JournalSource streams lines from a long-running `journalctl -f` child
// process. The process is deliberately not restarted if it exits; the
// orchestrator decides how to surface that.
type JournalSource struct {
	unit    string
	command string
	args    []string
	events  chan Event
	cancel  context.CancelFunc
	once    sync.Once
	stopped chan struct{}
}

// NewJournalSource creates a journalctl source. An empty unit streams all
// units; otherwise output is restricted with -u.
func NewJournalSource(unit string, opts ...JournalOption) *JournalSource {
	js := &JournalSource{
		unit:    unit,
		command: "journalctl",
		args:    defaultJournalArgs(unit),
		events:  make(chan Event, 256),
		stopped: make(chan struct{}),
	}
	for _, o := range opts {
		o(js)
	}
	return js
}

// defaultJournalArgs builds the fixed invocation contract: follow mode,
// bounded history, no pager, machine-readable timestamps.
func defaultJournalArgs(unit string) []string {
	args := []string{"-f", "-n", fmt.Sprint(historyLines), "--no-pager", "--output=short-iso"}
	if unit != "" {
		args = append(args, "-u", unit)
	}
	return args
}

func (js *JournalSource) Events() <-chan Event { return js.events }

// Label describes the invocation for display.
func (js *JournalSource) Label() string {
	if js.unit == "" {
		return "journalctl"
	}
	return fmt.Sprintf("journalctl -u %s", js.unit)
}

// Start launches the child process and begins streaming its stdout.
func (js *JournalSource) Start(ctx context.Context) error {
	ctx, js.cancel = context.WithCancel(ctx)
	go js.run(ctx)
	return nil
}

// Stop terminates the child process, escalating to SIGKILL after the
// grace interval, and waits until the source has fully shut down.
func (js *JournalSource) Stop() error {
	js.once.Do(func() {
		if js.cancel != nil {
			js.cancel()
		}
	})
	<-js.stopped
	return nil
}

func (js *JournalSource) run(ctx context.Context) {
	defer close(js.stopped)
	defer close(js.events)

	cmd := exec.Command(js.command, js.args...)
	stdout, err := cmd.StdoutPipe()
	if err == nil {
		err = cmd.Start()
	}
	if err != nil {
		js.emit(ctx, Event{
			Kind: EventOpenError,
			Text: fmt.Sprintf("%s: failed to start — is systemd available?", js.command),
		})
		return
	}

	// reaped is closed once Wait has returned; the killer goroutine uses
	// it to stop escalating.
	reaped := make(chan struct{})
	go js.killOnCancel(ctx, cmd, reaped)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !js.emit(ctx, Event{Kind: EventLine, Text: line}) {
			break
		}
	}

	// The pipe is drained (EOF or cancellation); reap the process.
	waitErr := cmd.Wait()
	close(reaped)

	if ctx.Err() == nil {
		text := js.command + " exited"
		if waitErr != nil {
			text = fmt.Sprintf("%s exited: %v", js.command, waitErr)
		}
		js.emit(ctx, Event{Kind: EventExited, Text: text})
	}
}

// killOnCancel terminates the child when the source is stopped: SIGTERM,
// a bounded grace wait, then SIGKILL.
func (js *JournalSource) killOnCancel(ctx context.Context, cmd *exec.Cmd, reaped chan struct{}) {
	select {
	case <-reaped:
		return
	case <-ctx.Done():
	}

	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-reaped:
	case <-time.After(killGrace):
		_ = cmd.Process.Kill()
	}
}

// emit sends an event, or reports false if the source was cancelled.
func (js *JournalSource) emit(ctx context.Context, ev Event) bool {
	select {
	case js.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
