// Package cache provides the extraction-result stores: a process-scoped
// in-memory map and a SQLite-backed variant that survives restarts. Both are
// keyed by the hex content digest of the document bytes.
package cache

import (
	"context"
	"sync"

	"github.com/tharindu-jay/policyscan/internal/record"
)

// Memory is the default process-scoped store.
type Memory struct {
	mu sync.RWMutex
	m  map[string]record.FlatRecord
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]record.FlatRecord)}
}

func (c *Memory) Get(_ context.Context, digest string) (record.FlatRecord, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.m[digest]
	return rec, ok, nil
}

func (c *Memory) Put(_ context.Context, digest string, rec record.FlatRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[digest] = rec
	return nil
}
