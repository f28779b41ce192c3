// Package session orchestrates one active log source and the line buffer.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/clarabennett2626/logtail/internal/buffer"
	"github.com/clarabennett2626/logtail/internal/classify"
	"github.com/clarabennett2626/logtail/internal/config"
	"github.com/clarabennett2626/logtail/internal/source"
)

// RotationMarker is the synthetic line appended when the tailed file is
// truncated or replaced.
const RotationMarker = "─── log rotated ───"

// Change describes one buffer mutation delivered to the subscriber.
type Change struct {
	// Cleared reports the buffer was emptied (reconfigure or rotation).
	Cleared bool
	// Label, Configured, and Capacity describe the applied configuration
	// when Cleared is true.
	Label      string
	Configured bool
	Capacity   int
	// Entry is the appended entry when Cleared is false.
	Entry buffer.Entry
}

// View is a read-only snapshot of the session for presentation.
type View struct {
	Label      string
	Entries    []buffer.Entry
	Configured bool
}

// Session owns at most one active source and routes its lines into the
// bounded buffer. All methods are safe for concurrent use; buffer
// mutation is serialized under the session lock, so sources never touch
// shared state directly.
type Session struct {
	mu     sync.Mutex
	cfg    config.Config
	buf    *buffer.Buffer
	src    source.Source
	gen    uint64
	notify func(Change)
	logger *zap.Logger
}

// New creates an unconfigured session. A nil logger disables logging.
func New(logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		cfg:    config.Default(),
		buf:    buffer.New(buffer.DefaultCapacity),
		logger: logger,
	}
	// Appends reach the subscriber via the buffer's own observer; the
	// buffer is only mutated under the session lock.
	s.buf.SetNotify(func(e buffer.Entry) {
		s.emitLocked(Change{Entry: e})
	})
	return s
}

// Subscribe registers the single change observer. It must be set before
// Configure; the callback may be invoked from the session's forwarding
// goroutine.
func (s *Session) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// Configure stops any active source, resets the buffer to the new
// capacity, and starts the source the config names. The old source is
// fully torn down before the new one starts, so no stale line can land
// in the fresh buffer.
func (s *Session) Configure(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()
	s.cfg = cfg
	s.buf.SetCapacity(cfg.MaxLines)
	s.buf.Clear()
	s.emitClearLocked()

	var src source.Source
	switch cfg.SourceType {
	case config.SourceNone:
		s.logger.Debug("session unconfigured")
		return nil
	case config.SourceFile:
		src = source.NewFileSource(source.FileConfig{Path: cfg.FilePath, SeedLines: cfg.MaxLines})
	case config.SourceJournal:
		src = source.NewJournalSource(cfg.JournalUnit)
	}

	if err := src.Start(context.Background()); err != nil {
		return fmt.Errorf("starting source: %w", err)
	}
	s.src = src
	s.logger.Info("source started", zap.String("source", src.Label()))

	go s.forward(s.gen, src)
	return nil
}

// Stop tears down the active source and empties the buffer. Safe to call
// multiple times.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.cfg = config.Config{MaxLines: s.cfg.MaxLines}
	s.buf.Clear()
	s.emitClearLocked()
}

// CurrentView returns the buffer snapshot and a display label for the
// active source.
func (s *Session) CurrentView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Label:      s.labelLocked(),
		Entries:    s.buf.Snapshot(),
		Configured: s.cfg.SourceType != config.SourceNone,
	}
}

// labelLocked describes the configured source for display.
func (s *Session) labelLocked() string {
	if s.src != nil {
		return s.src.Label()
	}
	switch s.cfg.SourceType {
	case config.SourceFile:
		return filepath.Base(s.cfg.FilePath)
	case config.SourceJournal:
		if s.cfg.JournalUnit != "" {
			return fmt.Sprintf("journalctl -u %s", s.cfg.JournalUnit)
		}
		return "journalctl"
	default:
		return "not configured"
	}
}

// Config returns the currently applied configuration.
func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// teardownLocked stops the active source to completion and bumps the
// generation so any event still in flight is recognized as stale.
func (s *Session) teardownLocked() {
	if s.src != nil {
		label := s.src.Label()
		if err := s.src.Stop(); err != nil {
			s.logger.Warn("source stop failed", zap.String("source", label), zap.Error(err))
		} else {
			s.logger.Debug("source stopped", zap.String("source", label))
		}
		s.src = nil
	}
	s.gen++
}

// forward drains one source's events into the buffer. It runs until the
// source closes its channel; events from a superseded generation are
// dropped.
func (s *Session) forward(gen uint64, src source.Source) {
	for ev := range src.Events() {
		s.apply(gen, ev)
	}
}

func (s *Session) apply(gen uint64, ev source.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Debug("dropping event from stale source", zap.Uint64("gen", gen))
		return
	}

	switch ev.Kind {
	case source.EventLine:
		s.appendLocked(ev.Text, classify.Classify(ev.Text))

	case source.EventRotated:
		s.logger.Info("log rotated", zap.String("source", s.cfg.FilePath))
		s.buf.Clear()
		s.emitClearLocked()
		s.appendLocked(RotationMarker, classify.SeverityDebug)

	case source.EventOpenError:
		s.logger.Warn("source failed to open", zap.String("detail", ev.Text))
		s.appendLocked(ev.Text, classify.SeverityError)

	case source.EventExited:
		// Not surfaced as a line; the orchestrator only guarantees the
		// process was reaped.
		s.logger.Warn("source process exited", zap.String("detail", ev.Text))
	}
}

func (s *Session) appendLocked(text string, tag classify.Severity) {
	s.buf.Append(text, tag)
}

func (s *Session) emitClearLocked() {
	s.emitLocked(Change{
		Cleared:    true,
		Label:      s.labelLocked(),
		Configured: s.cfg.SourceType != config.SourceNone,
		Capacity:   s.buf.Capacity(),
	})
}

func (s *Session) emitLocked(ch Change) {
	if s.notify != nil {
		s.notify(ch)
	}
}
