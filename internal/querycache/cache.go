// Package querycache is the process-local keyed store for query results.
// It is the only place anything is retained across invoke calls; entries
// live and die with the process.
package querycache

import "sync"

// Key identifies one cached query result.
type Key string

// Hooks receive cache events, used to feed observability counters.
// All fields are optional.
type Hooks struct {
	OnHit        func(key Key)
	OnMiss       func(key Key)
	OnSet        func(key Key)
	OnInvalidate func(key Key)
}

// Cache is a keyed store with change subscription. Stored values are
// treated as immutable: readers must not modify what they get back, and
// writers replace whole entries.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]any

	subsMu  sync.Mutex
	subs    map[Key]map[int]chan struct{}
	nextSub int

	hooks Hooks
}

// Option configures a Cache.
type Option func(*Cache)

// WithHooks installs cache event hooks.
func WithHooks(h Hooks) Option {
	return func(c *Cache) {
		c.hooks = h
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[Key]any),
		subs:    make(map[Key]map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry stored under key.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		if c.hooks.OnHit != nil {
			c.hooks.OnHit(key)
		}
	} else if c.hooks.OnMiss != nil {
		c.hooks.OnMiss(key)
	}
	return v, ok
}

// Set replaces the entry under key and notifies subscribers.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()

	if c.hooks.OnSet != nil {
		c.hooks.OnSet(key)
	}
	c.notify(key)
}

// Invalidate removes entries and notifies their subscribers. Missing
// keys are ignored.
func (c *Cache) Invalidate(keys ...Key) {
	for _, key := range keys {
		c.mu.Lock()
		_, existed := c.entries[key]
		delete(c.entries, key)
		c.mu.Unlock()

		if existed {
			if c.hooks.OnInvalidate != nil {
				c.hooks.OnInvalidate(key)
			}
			c.notify(key)
		}
	}
}

// Subscribe returns a channel that receives a signal whenever the entry
// under key is set or invalidated, plus an idempotent unsubscribe
// function. Signals are coalesced; a slow consumer sees at least one.
func (c *Cache) Subscribe(key Key) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	if c.subs[key] == nil {
		c.subs[key] = make(map[int]chan struct{})
	}
	c.subs[key][id] = ch
	c.subsMu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs[key], id)
			if len(c.subs[key]) == 0 {
				delete(c.subs, key)
			}
			c.subsMu.Unlock()
		})
	}
	return ch, unsubscribe
}

func (c *Cache) notify(key Key) {
	c.subsMu.Lock()
	for _, ch := range c.subs[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	c.subsMu.Unlock()
}
