package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupLifecycle(t *testing.T) {
	s := New()
	key := Key("clients:abc")

	_, ok, _ := s.Lookup(key)
	assert.False(t, ok, "empty store should miss")

	s.Set(key, []string{"a"})
	value, ok, stale := s.Lookup(key)
	require.True(t, ok)
	assert.False(t, stale)
	assert.Equal(t, []string{"a"}, value)

	s.Invalidate(key)
	value, ok, stale = s.Lookup(key)
	require.True(t, ok, "invalidation keeps the value around")
	assert.True(t, stale)
	assert.Equal(t, []string{"a"}, value)

	s.Set(key, []string{"b"})
	_, _, stale = s.Lookup(key)
	assert.False(t, stale, "a fresh Set clears staleness")

	s.Remove(key)
	_, ok, _ = s.Lookup(key)
	assert.False(t, ok)
}

func TestInvalidateNotifiesSubscribers(t *testing.T) {
	s := New()
	var seen []Key
	s.Subscribe(func(k Key) { seen = append(seen, k) })

	// Keys are announced even when nothing is cached under them yet.
	s.Invalidate(Key("a"), Key("b"))
	assert.Equal(t, []Key{Key("a"), Key("b")}, seen)
}

func TestListPatches(t *testing.T) {
	s := New()
	key := Key("training-plans:u1")

	s.Set(key, []string{"second"})
	Prepend(s, key, "first")
	assert.Equal(t, []string{"first", "second"}, ListOf[string](s, key))

	ReplaceWhere(s, key, "SECOND", func(v string) bool { return v == "second" })
	assert.Equal(t, []string{"first", "SECOND"}, ListOf[string](s, key))

	RemoveWhere(s, key, func(v string) bool { return v == "first" })
	assert.Equal(t, []string{"SECOND"}, ListOf[string](s, key))

	// A wrongly shaped entry reads as empty rather than panicking.
	s.Set(key, 42)
	assert.Empty(t, ListOf[string](s, key))
}

func TestListPatchesSkipMissingEntries(t *testing.T) {
	s := New()
	key := Key("training-plans:u1")

	// A patch never conjures an entry: with nothing cached the next read must
	// fall through to the store rather than see a one-element list.
	Prepend(s, key, "only")
	_, ok, _ := s.Lookup(key)
	assert.False(t, ok)
	ReplaceWhere(s, key, "x", func(string) bool { return true })
	RemoveWhere(s, key, func(string) bool { return true })
	_, ok, _ = s.Lookup(key)
	assert.False(t, ok)
}

func TestListPatchesPreserveStaleness(t *testing.T) {
	s := New()
	key := Key("clients:u1")

	s.Set(key, []string{"a"})
	s.Invalidate(key)
	Prepend(s, key, "b")

	value, ok, stale := s.Lookup(key)
	require.True(t, ok)
	assert.True(t, stale, "a patch must not cancel a pending refetch")
	assert.Equal(t, []string{"b", "a"}, value)
}
