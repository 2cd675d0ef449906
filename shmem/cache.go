// SPDX-License-Identifier: MIT

package shmem

import (
	"errors"
	"sync"

	"github.com/katalvlaran/hopshare/matrix"
)

// Cache keeps one view per region for the lifetime of a worker context
// (one goroutine pool or one child process), so tasks attach once instead
// of once per task. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	views    map[string]*View
	onAttach func(Handle)
	onDetach func(Handle)
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithHooks installs callbacks run after a view is opened and after it is
// closed. Either may be nil.
func WithHooks(onAttach, onDetach func(Handle)) CacheOption {
	return func(c *Cache) { c.onAttach, c.onDetach = onAttach, onDetach }
}

// NewCache returns an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{views: make(map[string]*View)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the matrix for h, opening a view on first use.
func (c *Cache) Get(h Handle) (*matrix.Adjacency, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[h.Name]
	if !ok {
		var err error
		if v, err = Open(h); err != nil {
			return nil, err
		}
		c.views[h.Name] = v
		if c.onAttach != nil {
			c.onAttach(h)
		}
	}
	return v.Matrix()
}

// Len returns the number of cached views.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.views)
}

// Close closes every cached view and empties the cache.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for name, v := range c.views {
		errs = append(errs, v.Close())
		delete(c.views, name)
		if c.onDetach != nil {
			c.onDetach(v.Handle())
		}
	}
	return errors.Join(errs...)
}
