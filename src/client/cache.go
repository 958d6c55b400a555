package client

import (
	"context"
	"sync"

	"todo-app/src/domain"
)

// MutationState is the lifecycle of one optimistic mutation
type MutationState int

const (
	// MutationPending means the optimistic transform has been applied
	// and snapshots are held for a possible rollback.
	MutationPending MutationState = iota
	// MutationCommitted means the server confirmed the mutation.
	MutationCommitted
	// MutationRolledBack means the server rejected the mutation and
	// every snapshot was restored.
	MutationRolledBack
)

// QueryCache caches list query results keyed by the canonical filter
// query string. Two different filter combinations are independent
// entries; a mutation touches every entry at once.
//
// Optimistic state is never final: settlement (commit or rollback)
// marks every entry stale, so the next read revalidates against the
// server and reconciles synthetic ids and server-derived fields.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	result ListResult
	loaded bool
	stale  bool

	// gen is bumped on every optimistic write. A revalidating fetch
	// records the gen it started under and its result is discarded if
	// the entry moved on, so a stale response can never overwrite an
	// optimistic write.
	gen    int
	cancel context.CancelFunc
}

// NewQueryCache creates an empty query cache
func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
	}
}

// Read returns the cached result for the key, if any
func (c *QueryCache) Read(key string) (ListResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || !entry.loaded {
		return ListResult{}, false
	}
	return cloneResult(entry.result), true
}

// ReadFresh returns the cached result only if it is not stale
func (c *QueryCache) ReadFresh(key string) (ListResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || !entry.loaded || entry.stale {
		return ListResult{}, false
	}
	return cloneResult(entry.result), true
}

// Write stores a result for the key and clears its staleness
func (c *QueryCache) Write(key string, result ListResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.ensure(key)
	entry.result = cloneResult(result)
	entry.loaded = true
	entry.stale = false
}

// InvalidateAll marks every cached entry stale
func (c *QueryCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.entries {
		entry.stale = true
	}
}

// Keys returns the keys of all loaded entries
func (c *QueryCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for key, entry := range c.entries {
		if entry.loaded {
			keys = append(keys, key)
		}
	}
	return keys
}

// Mutation is one optimistic mutation in flight. It starts Pending,
// holding a snapshot of every cached entry, and settles exactly once
// into Committed or RolledBack.
type Mutation struct {
	cache     *QueryCache
	snapshots map[string]ListResult
	state     MutationState
	mu        sync.Mutex
}

// State returns the mutation's current state
func (m *Mutation) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// BeginMutation starts an optimistic mutation:
//  1. cancels every in-flight revalidation, so a stale response cannot
//     overwrite the optimistic write,
//  2. snapshots every loaded entry for rollback,
//  3. applies the optimistic transform to every loaded entry.
func (c *QueryCache) BeginMutation(transform func(ListResult) ListResult) *Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshots := make(map[string]ListResult)
	for key, entry := range c.entries {
		if entry.cancel != nil {
			entry.cancel()
			entry.cancel = nil
		}
		entry.gen++

		if !entry.loaded {
			continue
		}
		snapshots[key] = cloneResult(entry.result)
		entry.result = transform(cloneResult(entry.result))
	}

	return &Mutation{
		cache:     c,
		snapshots: snapshots,
		state:     MutationPending,
	}
}

// Commit settles the mutation after server confirmation. The optimistic
// entries stay in place but every entry is marked stale so the next
// read reconciles against server-confirmed data.
func (m *Mutation) Commit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != MutationPending {
		return
	}
	m.state = MutationCommitted
	m.cache.InvalidateAll()
}

// Rollback settles the mutation after server rejection by restoring
// every snapshot exactly, entry by entry, then marking entries stale.
func (m *Mutation) Rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != MutationPending {
		return
	}
	m.state = MutationRolledBack

	m.cache.mu.Lock()
	for key, snapshot := range m.snapshots {
		entry, ok := m.cache.entries[key]
		if !ok {
			continue
		}
		entry.result = cloneResult(snapshot)
		entry.loaded = true
	}
	m.cache.mu.Unlock()

	m.cache.InvalidateAll()
}

// beginRevalidate registers a cancelable revalidating fetch for the key
// and returns the generation it started under.
func (c *QueryCache) beginRevalidate(ctx context.Context, key string) (context.Context, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.ensure(key)
	if entry.cancel != nil {
		entry.cancel()
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	entry.cancel = cancel
	return fetchCtx, entry.gen
}

// completeRevalidate applies a fetched result unless the entry moved on
// (a newer optimistic write bumped the generation). Reports whether the
// result was applied.
func (c *QueryCache) completeRevalidate(key string, gen int, result ListResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || entry.gen != gen {
		return false
	}

	entry.result = cloneResult(result)
	entry.loaded = true
	entry.stale = false
	entry.cancel = nil
	return true
}

func (c *QueryCache) ensure(key string) *cacheEntry {
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	return entry
}

func cloneResult(result ListResult) ListResult {
	cloned := ListResult{
		Todos:      make([]domain.Todo, len(result.Todos)),
		Pagination: result.Pagination,
	}
	copy(cloned.Todos, result.Todos)
	return cloned
}
