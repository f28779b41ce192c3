package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const (
	// seedWindow bounds the initial read so gigabyte-sized files cost
	// ~100 KB to open.
	seedWindow = 100 * 1024

	// DefaultSeedLines caps how many lines are emitted from the seed
	// window when no capacity is given.
	DefaultSeedLines = 500
)

// FileConfig holds configuration for a file source.
type FileConfig struct {
	// Path is the file to tail.
	Path string
	// SeedLines is the maximum number of lines emitted from the tail of
	// the file on startup. Defaults to DefaultSeedLines.
	SeedLines int
}

// FileSource tails a single growing file, emitting newly appended lines
// and detecting truncation/rotation.
type FileSource struct {
	config  FileConfig
	events  chan Event
	cancel  context.CancelFunc
	once    sync.Once
	stopped chan struct{}

	// offset is the next unread byte position; 0 right after a rotation.
	offset int64
}

// NewFileSource creates a new file source from the given config.
func NewFileSource(cfg FileConfig) *FileSource {
	if cfg.SeedLines < 1 {
		cfg.SeedLines = DefaultSeedLines
	}
	return &FileSource{
		config:  cfg,
		events:  make(chan Event, 256),
		stopped: make(chan struct{}),
	}
}

func (fs *FileSource) Events() <-chan Event { return fs.events }

// Label returns the base name of the tailed file.
func (fs *FileSource) Label() string { return filepath.Base(fs.config.Path) }

// Start seeds from the tail of the file and begins watching it.
func (fs *FileSource) Start(ctx context.Context) error {
	ctx, fs.cancel = context.WithCancel(ctx)
	go fs.run(ctx)
	return nil
}

// Stop cancels tailing and waits until no further events can be emitted.
func (fs *FileSource) Stop() error {
	fs.once.Do(func() {
		if fs.cancel != nil {
			fs.cancel()
		}
	})
	<-fs.stopped
	return nil
}

func (fs *FileSource) run(ctx context.Context) {
	defer close(fs.stopped)
	defer close(fs.events)

	lines, size, err := fs.seed()
	if err != nil {
		fs.emit(ctx, Event{Kind: EventOpenError, Text: fmt.Sprintf("Cannot open: %s", fs.config.Path)})
		return
	}
	for _, l := range lines {
		if !fs.emit(ctx, Event{Kind: EventLine, Text: l}) {
			return
		}
	}
	fs.offset = size

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fs.emit(ctx, Event{Kind: EventOpenError, Text: fmt.Sprintf("Cannot watch: %s", fs.config.Path)})
		return
	}
	defer watcher.Close()

	// Watch the directory too: rotation replaces the file, and the watch
	// on the old inode dies with it.
	path := fs.config.Path
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		fs.emit(ctx, Event{Kind: EventOpenError, Text: fmt.Sprintf("Cannot watch: %s", path)})
		return
	}
	_ = watcher.Add(path)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !sameName(ev.Name, path) {
				continue
			}
			if !fs.onChanged(ctx) {
				return
			}
			fs.rewatch(watcher, path)

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// onChanged processes one change notification. A momentary open/stat
// failure is ignored; the next notification retries naturally. Returns
// false when the context was cancelled mid-emit.
func (fs *FileSource) onChanged(ctx context.Context) bool {
	f, err := os.Open(fs.config.Path)
	if err != nil {
		return true
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return true
	}
	size := st.Size()

	if size < fs.offset {
		// Truncation or replacement by a smaller file.
		fs.offset = 0
		if !fs.emit(ctx, Event{Kind: EventRotated}) {
			return false
		}
	}
	if size == fs.offset {
		return true
	}

	if _, err := f.Seek(fs.offset, io.SeekStart); err != nil {
		return true
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return true
	}
	// The file may have grown during the read; trust the post-read
	// position over the earlier size.
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		pos = fs.offset + int64(len(data))
	}
	fs.offset = pos

	for _, l := range splitLines(data) {
		if !fs.emit(ctx, Event{Kind: EventLine, Text: l}) {
			return false
		}
	}
	return true
}

// rewatch re-adds the path if the watcher dropped it. Editors that
// replace files atomically (rename over the original) kill the old watch.
func (fs *FileSource) rewatch(watcher *fsnotify.Watcher, path string) {
	for _, w := range watcher.WatchList() {
		if w == path {
			return
		}
	}
	_ = watcher.Add(path)
}

// seed reads up to seedWindow bytes from the end of the file and returns
// the last SeedLines trimmed non-empty lines plus the post-read offset.
func (fs *FileSource) seed() ([]string, int64, error) {
	f, err := os.Open(fs.config.Path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}
	seek := st.Size() - seedWindow
	if seek < 0 {
		seek = 0
	}
	if _, err := f.Seek(seek, io.SeekStart); err != nil {
		return nil, 0, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, err
	}
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		pos = seek + int64(len(data))
	}

	lines := splitLines(data)
	if len(lines) > fs.config.SeedLines {
		lines = lines[len(lines)-fs.config.SeedLines:]
	}
	return lines, pos, nil
}

// emit sends an event, or reports false if the source was cancelled.
func (fs *FileSource) emit(ctx context.Context, ev Event) bool {
	select {
	case fs.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// splitLines splits raw bytes on newline, trimming whitespace and
// dropping empty lines.
func splitLines(data []byte) []string {
	var lines []string
	for _, raw := range bytes.Split(data, []byte{'\n'}) {
		line := strings.TrimSpace(string(raw))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// sameName compares a watcher event path against the tailed path.
func sameName(a, b string) bool {
	am, err := filepath.Abs(a)
	if err != nil {
		return a == b
	}
	bm, err := filepath.Abs(b)
	if err != nil {
		return a == b
	}
	return am == bm
}
