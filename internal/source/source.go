// Package source provides log line sources (file tail, journalctl stream).
package source

import "context"

// EventKind distinguishes the events a source can emit.
type EventKind int

const (
	// EventLine carries one complete, trimmed, non-empty log line.
	EventLine EventKind = iota
	// EventRotated signals the watched file was truncated or replaced.
	// The consumer is expected to reset its view before further lines.
	EventRotated
	// EventOpenError signals a permanent open/launch failure. The source
	// emits it once and goes inert.
	EventOpenError
	// EventExited signals the child process ended on its own.
	EventExited
)

// Event is one item in a source's ordered output stream. Data lines,
// rotation markers, and synthetic errors share a single channel so their
// relative order is preserved.
type Event struct {
	Kind EventKind
	Text string
}

// Source defines the interface for all log sources.
type Source interface {
	// Events returns the channel of source events. It is closed when the
	// source terminates.
	Events() <-chan Event
	// Start begins producing events. It does not block.
	Start(ctx context.Context) error
	// Stop shuts the source down and releases its OS resources. It blocks
	// until no further events can be produced and is safe to call more
	// than once.
	Stop() error
	// Label returns a short human-readable description of the source.
	Label() string
}
