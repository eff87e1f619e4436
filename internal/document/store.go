package document

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/matkrin/shtokd/internal/lsp"
)

// Store maps document URIs to their buffers for one server session.
// The map changes only on Open and Close.
type Store struct {
	mu       sync.RWMutex
	encoding Encoding
	buffers  map[string]*Buffer
	onClose  []func(uri string)
}

type StoreOption func(*Store)

// WithCloseHandler registers fn to run after a document is closed.
func WithCloseHandler(fn func(uri string)) StoreOption {
	return func(s *Store) {
		s.onClose = append(s.onClose, fn)
	}
}

// NewStore creates a store whose buffers all count characters in enc.
func NewStore(enc Encoding, opts ...StoreOption) *Store {
	s := &Store{
		encoding: enc,
		buffers:  make(map[string]*Buffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Encoding() Encoding {
	return s.encoding
}

func (s *Store) Open(uri, text string, version int) (*Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.buffers[uri]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyOpen, uri)
	}

	buffer := NewBuffer(uri, text, version, s.encoding)
	s.buffers[uri] = buffer
	return buffer, nil
}

func (s *Store) Get(uri string) (*Buffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buffer, exists := s.buffers[uri]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotOpen, uri)
	}
	return buffer, nil
}

// Change applies a didChange notification to the buffer for uri.
func (s *Store) Change(uri string, events []lsp.TextDocumentContentChangeEvent, version int) error {
	buffer, err := s.Get(uri)
	if err != nil {
		return err
	}
	return buffer.ApplyChanges(events, version)
}

func (s *Store) Close(uri string) error {
	s.mu.Lock()
	buffer, exists := s.buffers[uri]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotOpen, uri)
	}
	delete(s.buffers, uri)
	s.mu.Unlock()

	// Results being installed under Guard finish before this returns,
	// so close handlers observe their writes.
	buffer.markClosed()
	for _, fn := range s.onClose {
		fn(uri)
	}
	return nil
}

// URIs returns the open document URIs in sorted order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.buffers))
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffers)
}

func (s *Store) CloseAll() {
	for _, uri := range s.URIs() {
		s.Close(uri)
	}
}
