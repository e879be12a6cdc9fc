package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "b was least recently used")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestSetUpdatesExisting(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("a", 5)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, 1, c.Len())
}

func TestResize(t *testing.T) {
	c := New[int, int](5)
	for i := 0; i < 5; i++ {
		c.Set(i, i)
	}

	c.Resize(2)
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(4)
	assert.True(t, ok)
	_, ok = c.Get(0)
	assert.False(t, ok)

	c.Resize(0)
	assert.Equal(t, 0, c.Len())
	c.Set(9, 9)
	assert.Equal(t, 0, c.Len(), "zero capacity stores nothing")
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("k%d", i%20)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
