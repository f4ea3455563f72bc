package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache_TTL(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewInMemoryCache[string, int](time.Minute, 0)
	defer c.Close()
	c.now = func() time.Time { return now }

	c.Set("a", 1, 0)
	c.Set("b", 2, time.Second)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Size())

	c.cleanup()
	assert.Equal(t, 1, c.Size())

	c.Delete("a")
	assert.Equal(t, 0, c.Size())
}

func TestInMemoryCache_ClearAndClose(t *testing.T) {
	c := NewInMemoryCache[int, string](time.Minute, 10*time.Millisecond)
	c.Set(1, "x", 0)
	c.Clear()
	assert.Equal(t, 0, c.Size())

	c.Close()
	c.Close()
}
