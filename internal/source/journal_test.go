package source

import (
	"context"
	"testing"
	"time"
)

func TestJournalSource_StreamsLines(t *testing.T) {
	src := NewJournalSource("", WithCommand("sh", "-c", `printf 'line1\nline2\nline3\n'`))
	if err := src.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer src.Stop()

	events := collectEvents(t, src, 3*time.Second, 3)
	got := lineTexts(events)
	if len(got) != 3 || got[0] != "line1" || got[1] != "line2" || got[2] != "line3" {
		t.Errorf("unexpected lines: %v", got)
	}
}

func TestJournalSource_SplitsAcrossChunks(t *testing.T) {
	// Output arrives in two writes with a line split across the boundary.
	script := `printf 'line1\nlin'; sleep 0.1; printf 'e2\nline3\n'`
	src := NewJournalSource("", WithCommand("sh", "-c", script))
	if err := src.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer src.Stop()

	events := collectEvents(t, src, 3*time.Second, 3)
	got := lineTexts(events)
	if len(got) != 3 || got[0] != "line1" || got[1] != "line2" || got[2] != "line3" {
		t.Errorf("split boundary mangled lines: %v", got)
	}
}

func TestJournalSource_DropsBlankLines(t *testing.T) {
	src := NewJournalSource("", WithCommand("sh", "-c", `printf 'a\n\n   \nb\n'`))
	if err := src.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer src.Stop()

	events := collectEvents(t, src, 3*time.Second, 2)
	got := lineTexts(events)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected blanks dropped, got: %v", got)
	}
}

func TestJournalSource_LaunchFailure(t *testing.T) {
	src := NewJournalSource("", WithCommand("/nonexistent/binary"))
	if err := src.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer src.Stop()

	events := collectEvents(t, src, 2*time.Second, 1)
	if events[0].Kind != EventOpenError {
		t.Fatalf("expected EventOpenError, got: %v", events[0])
	}

	// No retry: the channel closes and stays closed.
	select {
	case _, ok := <-src.Events():
		if ok {
			t.Error("expected events channel to close after launch failure")
		}
	case <-time.After(2 * time.Second):
		t.Error("events channel still open after launch failure")
	}
}

func TestJournalSource_ReportsExit(t *testing.T) {
	src := NewJournalSource("", WithCommand("sh", "-c", `printf 'only\n'`))
	if err := src.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer src.Stop()

	events := collectEvents(t, src, 3*time.Second, 2)
	if events[0].Kind != EventLine || events[0].Text != "only" {
		t.Fatalf("unexpected first event: %v", events[0])
	}
	if events[1].Kind != EventExited {
		t.Errorf("expected EventExited after process end, got: %v", events[1])
	}
}

func TestJournalSource_StopKillsProcess(t *testing.T) {
	// A process that ignores nothing and sleeps forever; Stop must return
	// within the grace interval plus scheduling slack.
	src := NewJournalSource("", WithCommand("sh", "-c", `printf 'up\n'; exec sleep 60`))
	if err := src.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	collectEvents(t, src, 3*time.Second, 1)

	done := make(chan struct{})
	go func() {
		src.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not terminate the child process in time")
	}
}

func TestJournalSource_StopIsIdempotent(t *testing.T) {
	src := NewJournalSource("", WithCommand("sh", "-c", `exec sleep 60`))
	if err := src.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := src.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := src.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestJournalSource_Label(t *testing.T) {
	if got := NewJournalSource("").Label(); got != "journalctl" {
		t.Errorf("Label() = %q, want journalctl", got)
	}
	if got := NewJournalSource("nginx.service").Label(); got != "journalctl -u nginx.service" {
		t.Errorf("Label() = %q", got)
	}
}

func TestJournalSource_DefaultArgs(t *testing.T) {
	args := defaultJournalArgs("")
	want := []string{"-f", "-n", "50", "--no-pager", "--output=short-iso"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("args = %v, want %v", args, want)
		}
	}

	unitArgs := defaultJournalArgs("sshd")
	if unitArgs[len(unitArgs)-2] != "-u" || unitArgs[len(unitArgs)-1] != "sshd" {
		t.Errorf("unit filter missing: %v", unitArgs)
	}
}
