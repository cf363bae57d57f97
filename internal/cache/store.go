// Package cache holds the last fetched result of each logical query, keyed by
// query identity, the way the web client's query cache does. Mutating services
// keep it consistent two ways at once: invalidation (marking an entry stale so
// the next read refetches) and optimistic direct patches applied right after a
// mutation succeeds.
package cache

import "sync"

// Key identifies a logical query whose last result is cached.
type Key string

// Store is an injectable query cache: a key→entry map plus a subscriber list.
// It is deliberately not a hidden global; tests construct isolated instances.
type Store struct {
	mu          sync.RWMutex
	entries     map[Key]*entry
	subscribers []func(Key)
}

type entry struct {
	value interface{}
	stale bool
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[Key]*entry)}
}

// Lookup returns the cached value for key. ok reports whether anything is
// cached; stale reports whether it has been invalidated since it was set, in
// which case callers should still render it but schedule a refetch.
func (s *Store) Lookup(key Key) (value interface{}, ok bool, stale bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.value, true, e.stale
}

// Set stores a fresh value for key.
func (s *Store) Set(key Key, value interface{}) {
	s.mu.Lock()
	s.entries[key] = &entry{value: value}
	s.mu.Unlock()
}

// Invalidate marks the given keys stale and notifies subscribers so an
// authoritative refetch can be scheduled. Keys with no cached entry are
// still announced: a subscriber may be interested even before first fetch.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	for _, key := range keys {
		if e, ok := s.entries[key]; ok {
			e.stale = true
		}
	}
	subscribers := make([]func(Key), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		for _, key := range keys {
			fn(key)
		}
	}
}

// Remove drops the entry for key entirely (used after a delete, so a stale
// single-entity entry cannot resurrect the deleted row).
func (s *Store) Remove(key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Subscribe registers fn to be called with every invalidated key.
func (s *Store) Subscribe(fn func(Key)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Prepend inserts v at the head of the list cached under key. The patch keeps
// the entry's stale flag and leaves a missing entry missing, so an invalidation
// issued just before still forces an authoritative refetch on the next read.
func Prepend[T any](s *Store, key Key, v T) {
	patchList(s, key, func(list []T) []T {
		return append([]T{v}, list...)
	})
}

// ReplaceWhere substitutes v for every element matching match in the list
// cached under key.
func ReplaceWhere[T any](s *Store, key Key, v T, match func(T) bool) {
	patchList(s, key, func(list []T) []T {
		out := make([]T, len(list))
		for i, item := range list {
			if match(item) {
				out[i] = v
			} else {
				out[i] = item
			}
		}
		return out
	})
}

// RemoveWhere drops every element matching match from the list cached under key.
func RemoveWhere[T any](s *Store, key Key, match func(T) bool) {
	patchList(s, key, func(list []T) []T {
		out := make([]T, 0, len(list))
		for _, item := range list {
			if !match(item) {
				out = append(out, item)
			}
		}
		return out
	})
}

// patchList rewrites the list cached under key in place, preserving the entry's
// stale flag. Missing entries and entries holding a different shape are left
// untouched; there is nothing to patch, and the next read falls through to
// the store.
func patchList[T any](s *Store, key Key, fn func([]T) []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	list, ok := e.value.([]T)
	if !ok {
		return
	}
	e.value = fn(list)
}

// ListOf returns the list cached under key, or an empty list when the entry is
// missing or holds a different shape.
func ListOf[T any](s *Store, key Key) []T {
	value, ok, _ := s.Lookup(key)
	if !ok {
		return nil
	}
	list, ok := value.([]T)
	if !ok {
		return nil
	}
	return list
}
