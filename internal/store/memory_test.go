package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissingKeyReturnsErrNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetThenGetRoundTrips(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("hello"), time.Hour))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestMemoryStore_TTLExpiresTheKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))

	time.Sleep(20 * time.Millisecond)
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestMemoryStore_ListAppendAndRange(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.ListAppend(ctx, "l", []byte("a"), time.Hour))
	require.NoError(t, s.ListAppend(ctx, "l", []byte("b"), time.Hour))

	items, err := s.ListRange(ctx, "l")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", string(items[0]))
	assert.Equal(t, "b", string(items[1]))
}

func TestMemoryStore_SetAddIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	added, err := s.SetAdd(ctx, "s", "m1", time.Hour)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.SetAdd(ctx, "s", "m1", time.Hour)
	require.NoError(t, err)
	assert.False(t, added, "adding the same member twice must report it already existed")

	size, err := s.SetSize(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestMemoryStore_SetRemoveAndContains(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.SetAdd(ctx, "s", "m1", time.Hour)
	require.NoError(t, err)

	contains, err := s.SetContains(ctx, "s", "m1")
	require.NoError(t, err)
	assert.True(t, contains)

	require.NoError(t, s.SetRemove(ctx, "s", "m1"))
	contains, err = s.SetContains(ctx, "s", "m1")
	require.NoError(t, err)
	assert.False(t, contains)
}

func TestMemoryStore_DeleteRemovesEveryShape(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, s.ListAppend(ctx, "k", []byte("a"), time.Hour))
	_, err := s.SetAdd(ctx, "k", "m1", time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "k"))

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := s.ListRange(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, items)

	contains, err := s.SetContains(ctx, "k", "m1")
	require.NoError(t, err)
	assert.False(t, contains)
}
