/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package typecache provides a reflect.Type keyed cache with build-once,
// first-insert-wins semantics.
//
// Builders run outside any lock. Two goroutines racing on the same unseen key
// may both build; only the first insert is kept and both callers observe it.
package typecache

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Cache maps types to values that never change once stored.
type Cache[V any] struct {
	entries sync.Map // map[reflect.Type]V
	size    atomic.Int64
}

// Load returns the cached value for t, if any.
func (c *Cache[V]) Load(t reflect.Type) (V, bool) {
	v, ok := c.entries.Load(t)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// LoadOrStore stores v for t unless a value is already present. It returns the
// value now cached and whether it was already there.
func (c *Cache[V]) LoadOrStore(t reflect.Type, v V) (V, bool) {
	actual, loaded := c.entries.LoadOrStore(t, v)
	if !loaded {
		c.size.Add(1)
	}
	return actual.(V), loaded
}

// TryAdd stores v for t only if t has no entry and reports whether it did.
func (c *Cache[V]) TryAdd(t reflect.Type, v V) bool {
	_, loaded := c.LoadOrStore(t, v)
	return !loaded
}

// GetOrBuild returns the cached value for t, calling build on a miss.
func (c *Cache[V]) GetOrBuild(t reflect.Type, build func(reflect.Type) V) V {
	if v, ok := c.Load(t); ok {
		return v
	}
	v, _ := c.LoadOrStore(t, build(t))
	return v
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return int(c.size.Load())
}

// Range calls fn for every entry until fn returns false. Order is unspecified.
func (c *Cache[V]) Range(fn func(t reflect.Type, v V) bool) {
	c.entries.Range(func(key, value any) bool {
		return fn(key.(reflect.Type), value.(V))
	})
}
