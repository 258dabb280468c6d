package lru

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetPut(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// "b" is now least recently used.
	c.Put("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)

	v, ok = c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, c.Len())
}

func TestCache_PutUpdates(t *testing.T) {
	t.Parallel()

	c := New[string, int](1)

	c.Put("a", 1)
	c.Put("a", 5)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_GetOrCreate(t *testing.T) {
	t.Parallel()

	c := New[string, int](4)
	calls := 0

	create := func() (int, error) {
		calls++

		return 7, nil
	}

	for range 3 {
		v, err := c.GetOrCreate("k", create)
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	}

	assert.Equal(t, 1, calls)

	errBoom := errors.New("boom")

	_, err := c.GetOrCreate("bad", func() (int, error) { return 0, errBoom })
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Stats(t *testing.T) {
	t.Parallel()

	c := New[int, int](2)
	assert.Zero(t, c.Stats().HitRate())

	c.Put(1, 1)
	c.Get(1)
	c.Get(2)

	st := c.Stats()
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
	assert.Equal(t, 1, st.Entries)
	assert.InDelta(t, 0.5, st.HitRate(), 1e-12)
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := New[string, int](16)

	var wg sync.WaitGroup

	for w := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 100 {
				key := strconv.Itoa((w + i) % 32)
				c.Put(key, i)
				c.Get(key)
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}

func TestNew_PanicsWithoutCapacity(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { New[string, int](0) })
}
