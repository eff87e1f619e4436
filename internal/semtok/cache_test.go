package semtok

import (
	"errors"
	"fmt"
	"testing"
)

func sequentialIDs() CacheOption {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("r%d", n)
	})
}

func TestCacheRecordReplaces(t *testing.T) {
	cache := NewCache(sequentialIDs())
	uri := "file:///tmp/a.sh"

	first := cache.Record(uri, 1, nil, []uint32{0, 0, 1, 0, 0})
	second := cache.Record(uri, 2, nil, []uint32{0, 0, 2, 0, 0})
	if first == second {
		t.Fatalf("Record() returned %q twice", first)
	}

	if _, err := cache.Lookup(uri, first); !errors.Is(err, ErrUnknownResultID) {
		t.Errorf("Lookup(first) error = %v, expected %v", err, ErrUnknownResultID)
	}

	entry, err := cache.Lookup(uri, second)
	if err != nil {
		t.Fatalf("Lookup(second) error = %v", err)
	}
	if entry.Version != 2 || entry.Data[2] != 2 {
		t.Errorf("Lookup(second) = %+v, expected version 2 result", entry)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", cache.Len())
	}
}

func TestCacheUnknownResultID(t *testing.T) {
	cache := NewCache()

	_, err := cache.Lookup("file:///tmp/a.sh", "never-issued")
	if !errors.Is(err, ErrUnknownResultID) {
		t.Errorf("Lookup() error = %v, expected %v", err, ErrUnknownResultID)
	}
}

func TestCacheResultIDsPerDocument(t *testing.T) {
	cache := NewCache(sequentialIDs())

	id := cache.Record("file:///tmp/a.sh", 1, nil, nil)
	if _, err := cache.Lookup("file:///tmp/b.sh", id); !errors.Is(err, ErrUnknownResultID) {
		t.Errorf("Lookup() for another document error = %v, expected %v", err, ErrUnknownResultID)
	}
}

func TestCacheCurrent(t *testing.T) {
	cache := NewCache()
	uri := "file:///tmp/a.sh"

	id := cache.Record(uri, 3, nil, nil)

	entry, ok := cache.Current(uri, 3)
	if !ok || entry.ResultID != id {
		t.Errorf("Current(3) = %+v, %v, expected entry %q", entry, ok, id)
	}
	if _, ok := cache.Current(uri, 4); ok {
		t.Errorf("Current(4) found an entry computed for version 3")
	}
}

func TestCacheForget(t *testing.T) {
	cache := NewCache()
	uri := "file:///tmp/a.sh"

	id := cache.Record(uri, 1, nil, nil)
	cache.Forget(uri)

	if _, err := cache.Lookup(uri, id); !errors.Is(err, ErrUnknownResultID) {
		t.Errorf("Lookup() after Forget() error = %v, expected %v", err, ErrUnknownResultID)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", cache.Len())
	}
}

func TestCacheDefaultIDsAreUnique(t *testing.T) {
	cache := NewCache()
	seen := make(map[string]bool)
	for i := range 100 {
		id := cache.Record("file:///tmp/a.sh", i, nil, nil)
		if seen[id] {
			t.Fatalf("Record() reused result id %q", id)
		}
		seen[id] = true
	}
}
