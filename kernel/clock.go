package kernel

import (
	"sync"
	"time"

	"github.com/AmannSingh/deadline-driven-scheduler/tasklist"
)

// MonotonicClock implements Clock against the process's monotonic clock,
// anchored once at construction — the same anchor-plus-elapsed-offset
// pattern the teacher's event loop uses (CurrentTickTime/tickAnchor in
// eventloop/loop.go), adapted here to produce whole ticks instead of
// time.Time values.
type MonotonicClock struct {
	tickPeriod time.Duration
	anchor     time.Time
	mu         sync.RWMutex
}

// NewMonotonicClock constructs a clock whose tick 0 is "now", advancing one
// tick every tickPeriod.
func NewMonotonicClock(tickPeriod time.Duration) *MonotonicClock {
	return &MonotonicClock{tickPeriod: tickPeriod, anchor: time.Now()}
}

// Now returns the current tick count since the clock was constructed.
func (c *MonotonicClock) Now() tasklist.Tick {
	c.mu.RLock()
	anchor := c.anchor
	c.mu.RUnlock()
	elapsed := time.Since(anchor)
	return tasklist.Tick(elapsed / c.tickPeriod)
}

// TickPeriod returns the fixed duration of one tick.
func (c *MonotonicClock) TickPeriod() time.Duration { return c.tickPeriod }

// SetAnchor rebases tick 0 to t. Exposed for deterministic tests only,
// mirroring eventloop.Loop.SetTickAnchor's test-only reset of its anchor.
func (c *MonotonicClock) SetAnchor(t time.Time) {
	c.mu.Lock()
	c.anchor = t
	c.mu.Unlock()
}
