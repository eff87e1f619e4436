package semtok

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Entry is the last result returned for one document.
type Entry struct {
	ResultID string
	Version  int
	Stream   Stream
	Data     []uint32
}

// Cache keeps one Entry per document URI. Recording a result replaces the
// previous one, so a delta can only be computed against the latest result.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	newID   func() string
}

type CacheOption func(*Cache)

// WithIDGenerator replaces the default random result identifiers.
func WithIDGenerator(fn func() string) CacheOption {
	return func(c *Cache) {
		c.newID = fn
	}
}

func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Record stores the result computed for version and returns its fresh resultId.
func (c *Cache) Record(uri string, version int, stream Stream, data []uint32) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.newID()
	c.entries[uri] = Entry{
		ResultID: id,
		Version:  version,
		Stream:   stream,
		Data:     data,
	}
	return id
}

func (c *Cache) Lookup(uri, resultID string) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[uri]
	if !ok || entry.ResultID != resultID {
		return Entry{}, fmt.Errorf("%w: %q for %s", ErrUnknownResultID, resultID, uri)
	}
	return entry, nil
}

// Current returns the cached entry only if it was computed for version.
// After an edit the entry still serves as a delta base but is no longer current.
func (c *Cache) Current(uri string, version int) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[uri]
	if !ok || entry.Version != version {
		return Entry{}, false
	}
	return entry, true
}

func (c *Cache) Forget(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, uri)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
