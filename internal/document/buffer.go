package document

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/matkrin/shtokd/internal/lsp"
)

// Buffer owns the authoritative text and version of one open document.
// All methods are safe for concurrent use; they serialize on the buffer.
type Buffer struct {
	mu       sync.Mutex
	uri      string
	version  int
	text     string
	encoding Encoding
	index    *PositionIndex
	closed   bool
}

// Snapshot is an immutable view of a buffer at one version.
type Snapshot struct {
	URI     string
	Version int
	Text    string
	Index   *PositionIndex
}

func NewBuffer(uri, text string, version int, enc Encoding) *Buffer {
	return &Buffer{
		uri:      uri,
		version:  version,
		text:     text,
		encoding: enc,
	}
}

func (b *Buffer) URI() string {
	return b.uri
}

func (b *Buffer) Version() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// ApplyChanges applies events in order and moves the buffer to newVersion.
// Each ranged event is resolved against the text left by the events
// before it. Either every event applies or the buffer stays untouched.
func (b *Buffer) ApplyChanges(events []lsp.TextDocumentContentChangeEvent, newVersion int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("%w: %s", ErrNotOpen, b.uri)
	}
	if newVersion <= b.version {
		return fmt.Errorf("%w: %s version %d does not advance %d", ErrVersionConflict, b.uri, newVersion, b.version)
	}

	text := b.text
	index := b.index
	for i, event := range events {
		if event.Range == nil {
			text = event.Text
			index = nil
			continue
		}

		if index == nil {
			index = NewPositionIndex(text, b.encoding)
		}
		start, end, err := index.Span(*event.Range)
		if err != nil {
			return fmt.Errorf("change %d of %s: %w", i, b.uri, err)
		}

		// The range is authoritative; rangeLength is advisory.
		if event.RangeLength != nil {
			if got := b.encoding.UnitLen(text[start:end]); uint(got) != *event.RangeLength {
				slog.Debug("rangeLength disagrees with range",
					"uri", b.uri,
					"rangeLength", *event.RangeLength,
					"computed", got,
					"encoding", b.encoding,
				)
			}
		}

		text = text[:start] + event.Text + text[end:]
		index = nil
	}

	b.text = text
	b.index = index
	b.version = newVersion
	return nil
}

func (b *Buffer) Snapshot() (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotOpen, b.uri)
	}
	return b.snapshotLocked(), nil
}

// Guard runs fn with the buffer locked, provided the buffer is still at
// version. Results computed from an older snapshot are installed through
// Guard so they cannot race with an incoming edit.
func (b *Buffer) Guard(version int, fn func(Snapshot) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("%w: %s", ErrNotOpen, b.uri)
	}
	if b.version != version {
		return fmt.Errorf("%w: %s computed for version %d, now at %d", ErrStaleResult, b.uri, version, b.version)
	}
	return fn(b.snapshotLocked())
}

func (b *Buffer) snapshotLocked() Snapshot {
	if b.index == nil {
		b.index = NewPositionIndex(b.text, b.encoding)
	}
	return Snapshot{
		URI:     b.uri,
		Version: b.version,
		Text:    b.text,
		Index:   b.index,
	}
}

func (b *Buffer) markClosed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}
