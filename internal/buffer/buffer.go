// Package buffer provides the bounded in-memory line window.
package buffer

import "github.com/clarabennett2626/logtail/internal/classify"

// DefaultCapacity is the retained-line limit when none is configured.
const DefaultCapacity = 500

// Entry is one retained log line with its display severity.
type Entry struct {
	Text string
	Tag  classify.Severity
}

// NotifyFunc is invoked after every Append with the appended entry.
type NotifyFunc func(Entry)

// Buffer is a fixed-capacity ordered line window with FIFO eviction.
// It is not safe for concurrent use; the owning session serializes access.
type Buffer struct {
	entries []Entry
	head    int // index of the oldest live entry
	cap     int
	notify  NotifyFunc
}

// New creates a Buffer with the given capacity. Capacities below 1 are
// raised to 1.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{cap: capacity}
}

// SetNotify registers the append observer. Pass nil to remove it.
func (b *Buffer) SetNotify(fn NotifyFunc) { b.notify = fn }

// Len returns the number of live entries.
func (b *Buffer) Len() int { return len(b.entries) - b.head }

// Capacity returns the current retained-line limit.
func (b *Buffer) Capacity() int { return b.cap }

// Append adds an entry at the tail, evicting from the head if the buffer
// is full. It always succeeds.
func (b *Buffer) Append(text string, tag classify.Severity) {
	e := Entry{Text: text, Tag: tag}
	b.entries = append(b.entries, e)
	if b.Len() > b.cap {
		b.head += b.Len() - b.cap
	}
	b.compact()
	if b.notify != nil {
		b.notify(e)
	}
}

// Clear removes all entries.
func (b *Buffer) Clear() {
	b.entries = b.entries[:0]
	b.head = 0
}

// Snapshot returns the live entries oldest-first. The slice is a copy.
func (b *Buffer) Snapshot() []Entry {
	out := make([]Entry, b.Len())
	copy(out, b.entries[b.head:])
	return out
}

// SetCapacity changes the limit, evicting oldest entries immediately if
// the buffer is over the new limit.
func (b *Buffer) SetCapacity(n int) {
	if n < 1 {
		n = 1
	}
	b.cap = n
	if b.Len() > n {
		b.head += b.Len() - n
		b.compact()
	}
}

// compact reclaims the dead prefix once it dominates the backing slice,
// keeping eviction amortized O(1).
func (b *Buffer) compact() {
	if b.head > b.cap && b.head > len(b.entries)/2 {
		n := copy(b.entries, b.entries[b.head:])
		b.entries = b.entries[:n]
		b.head = 0
	}
}
