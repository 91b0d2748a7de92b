package llm

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResultCache(t *testing.T) {
	t.Run("basic operations", func(t *testing.T) {
		cache := newResultCache(5 * time.Minute)

		_, found := cache.get("non-existent")
		assert.False(t, found)

		cache.set("key1", "Transport")
		got, found := cache.get("key1")
		assert.True(t, found)
		assert.Equal(t, "Transport", got)
		assert.Equal(t, 1, cache.size())

		cache.set("key1", "Shopping")
		got, _ = cache.get("key1")
		assert.Equal(t, "Shopping", got)
		assert.Equal(t, 1, cache.size())
	})

	t.Run("expiration", func(t *testing.T) {
		clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		cache := newResultCache(time.Minute)
		cache.now = clock.now
		cache.lastSweep = clock.now()

		cache.set("old", "Health")
		clock.advance(30 * time.Second)
		_, found := cache.get("old")
		assert.True(t, found)

		clock.advance(31 * time.Second)
		_, found = cache.get("old")
		assert.False(t, found)

		// The next write sweeps expired entries.
		cache.set("new", "Education")
		assert.Equal(t, 1, cache.size())
	})

	t.Run("default ttl", func(t *testing.T) {
		assert.Equal(t, 15*time.Minute, newResultCache(0).ttl)
	})

	t.Run("concurrent access", func(t *testing.T) {
		cache := newResultCache(time.Minute)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("key-%d", i%5)
				cache.set(key, "Other")
				_, _ = cache.get(key)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 5, cache.size())
	})
}
