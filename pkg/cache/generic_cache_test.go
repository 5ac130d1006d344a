package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenericCacheGetSetDelete(t *testing.T) {
	c := New(0, nil)

	c.Set("key1", "value1")
	val, ok := c.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1", val)

	val, ok = c.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)

	c.Set("key1", "value1_overwritten")
	val, ok = c.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1_overwritten", val)

	c.Delete("key1")
	_, ok = c.Get("key1")
	assert.False(t, ok)

	assert.NotPanics(t, func() { c.Delete("nonexistent_delete") })
}

func TestGenericCacheHasAndCount(t *testing.T) {
	c := New(0, nil)
	assert.False(t, c.Has("k"))
	assert.Equal(t, 0, c.Count())

	c.Set("k", 1)
	assert.True(t, c.Has("k"))
	assert.Equal(t, 1, c.Count())
}

func TestGenericCacheSetWithTTLExpires(t *testing.T) {
	c := New(0, nil)
	c.SetWithTTL("k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok, "entry should have expired")
	assert.False(t, c.Has("k"))
}

func TestGenericCacheDefaultTTLAppliesToPlainSet(t *testing.T) {
	c := New(time.Millisecond, nil)
	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok, "Set should inherit the cache's defaultTTL")
}

func TestGenericCacheFlush(t *testing.T) {
	c := New(0, nil)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 2, c.Count())

	c.Flush()
	assert.Equal(t, 0, c.Count())
	assert.Empty(t, c.Keys())
}

func TestGenericCacheKeys(t *testing.T) {
	c := New(0, nil)
	assert.Empty(t, c.Keys())

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	assert.ElementsMatch(t, []string{"key1", "key2"}, c.Keys())

	c.Delete("key1")
	assert.ElementsMatch(t, []string{"key2"}, c.Keys())
}

func TestGenericCacheRangeSkipsExpiredAndStopsEarly(t *testing.T) {
	c := New(0, nil)
	c.Set("a", 1)
	c.Set("b", 2)
	c.SetWithTTL("expired", "gone", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	seen := map[string]interface{}{}
	c.Range(func(key string, value interface{}) bool {
		seen[key] = value
		return true
	})
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, seen)

	var visited int
	c.Range(func(key string, value interface{}) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited, "returning false from the callback should stop Range early")
}

// TestGenericCacheInheritedGet mirrors the scope stack's innermost-first
// lookup: a miss on the local layer falls through to parent.
func TestGenericCacheInheritedGet(t *testing.T) {
	top := New(0, nil)
	feature := New(0, top)
	scenario := New(0, feature)

	top.Set("topKey", "topValue")
	top.Set("overrideKey", "topOverride")
	feature.Set("featureKey", "featureValue")
	feature.Set("overrideKey", "featureOverride")
	scenario.Set("scenarioKey", "scenarioValue")

	val, ok := scenario.Get("scenarioKey")
	assert.True(t, ok)
	assert.Equal(t, "scenarioValue", val)

	val, ok = scenario.Get("featureKey")
	assert.True(t, ok)
	assert.Equal(t, "featureValue", val)

	val, ok = scenario.Get("overrideKey")
	assert.True(t, ok)
	assert.Equal(t, "featureOverride", val)

	val, ok = scenario.Get("topKey")
	assert.True(t, ok)
	assert.Equal(t, "topValue", val)

	_, ok = feature.Get("scenarioKey")
	assert.False(t, ok, "a parent must not see its child's local writes")
}

func TestGenericCacheLocalizedDeleteDoesNotAffectParent(t *testing.T) {
	top := New(0, nil)
	feature := New(0, top)

	top.Set("shared", "topValue")
	feature.Set("shared", "featureValue")

	feature.Delete("shared")

	val, ok := feature.Get("shared")
	assert.True(t, ok, "after deleting its own override, the child should fall through to the parent")
	assert.Equal(t, "topValue", val)
}

func TestGenericCacheConcurrentAccess(t *testing.T) {
	c := New(0, nil)
	var wg sync.WaitGroup
	const n = 50

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", idx)
			value := fmt.Sprintf("value-%d", idx)
			c.Set(key, value)
			got, ok := c.Get(key)
			assert.True(t, ok)
			assert.Equal(t, value, got)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, c.Count())
}
