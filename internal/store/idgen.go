package store

import (
	"sync"
	"time"
)

// IDGenerator issues millisecond-timestamp-derived identifiers. Entity ids
// keep the wall-clock shape of the legacy data, but a monotonic guard makes
// uniqueness explicit: creations within the same millisecond get last+1
// instead of colliding.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator returns a generator backed by the system clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// NewIDGeneratorWithClock returns a generator backed by the given clock.
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	return &IDGenerator{now: now}
}

// SetClock swaps the clock while keeping the monotonic guard, so ids
// observed before the swap are still never re-issued.
func (g *IDGenerator) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// Next returns a unique id, never repeated within the process.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe advances the guard past an externally assigned id, so locally
// generated ids never collide with imported or server-assigned ones.
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}
