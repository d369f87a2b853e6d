package introspect

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache acquires the host's tables exactly once and serves the same typed
// references for the lifetime of the process. Concurrent first-time calls are
// collapsed into a single adapter hit; after the first outcome is known, every
// call returns it without re-locating anything. A failed acquisition is just
// as sticky as a successful one: host shape mismatch cannot heal itself, so
// retrying would only re-report the same fault.
type Cache struct {
	adapter Adapter

	group singleflight.Group

	mu     sync.RWMutex
	tables *Tables
	err    error
}

// NewCache creates a cache over the given adapter. Acquisition is lazy: the
// adapter is not touched until the first Tables call (or Warm on the control
// plane above).
func NewCache(adapter Adapter) *Cache {
	return &Cache{adapter: adapter}
}

// Tables returns the cached table references, acquiring them on first use.
func (c *Cache) Tables() (*Tables, error) {
	c.mu.RLock()
	tables, err := c.tables, c.err
	c.mu.RUnlock()
	if tables != nil || err != nil {
		return tables, err
	}

	c.group.Do("acquire", func() (any, error) {
		c.acquire()
		return nil, nil
	})

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables, c.err
}

func (c *Cache) acquire() {
	c.mu.RLock()
	done := c.tables != nil || c.err != nil
	c.mu.RUnlock()
	if done {
		return
	}

	var (
		tables *Tables
		err    error
	)
	if c.adapter == nil {
		err = ErrNilAdapter
	} else {
		tables, err = c.adapter.Acquire()
		if err != nil {
			err = fmt.Errorf("acquire host tables: %w", err)
		} else if tables == nil {
			err = fmt.Errorf("%w: adapter returned no tables", ErrShapeMismatch)
		}
	}

	c.mu.Lock()
	if c.tables == nil && c.err == nil {
		c.tables, c.err = tables, err
	}
	c.mu.Unlock()
}
