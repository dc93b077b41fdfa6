package dds_test

import (
	"sync"
	"time"

	"github.com/AmannSingh/deadline-driven-scheduler/kernel"
	"github.com/AmannSingh/deadline-driven-scheduler/tasklist"
)

// fakeClock is a manually-advanced kernel.Clock, so scenarios from spec.md
// §8 ("at t=751, next message triggers overdue sweep") can be reproduced
// deterministically instead of racing a real monotonic clock.
type fakeClock struct {
	mu     sync.Mutex
	now    tasklist.Tick
	period time.Duration
}

func newFakeClock(period time.Duration) *fakeClock {
	return &fakeClock{period: period}
}

func (c *fakeClock) Now() tasklist.Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) TickPeriod() time.Duration { return c.period }

func (c *fakeClock) Set(t tasklist.Tick) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// fakeRegistry records every SetPriority/Suspend/Resume call against a
// handle so tests can assert on the EDF priority policy (spec.md §4.D
// step 5-6) without a real kernel scheduler underneath it.
type fakeRegistry struct {
	mu         sync.Mutex
	priorities map[kernel.Handle]kernel.Priority
	suspended  map[kernel.Handle]bool
	resumed    []kernel.Handle
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		priorities: make(map[kernel.Handle]kernel.Priority),
		suspended:  make(map[kernel.Handle]bool),
	}
}

func (r *fakeRegistry) Create(_ string, initial kernel.Priority, _ kernel.TaskFunc) (kernel.Handle, error) {
	h := new(int)
	r.mu.Lock()
	r.priorities[h] = initial
	r.suspended[h] = true
	r.mu.Unlock()
	return h, nil
}

func (r *fakeRegistry) SetPriority(h kernel.Handle, level kernel.Priority) error {
	r.mu.Lock()
	r.priorities[h] = level
	r.mu.Unlock()
	return nil
}

func (r *fakeRegistry) Suspend(h kernel.Handle) error {
	r.mu.Lock()
	r.suspended[h] = true
	r.mu.Unlock()
	return nil
}

func (r *fakeRegistry) Resume(h kernel.Handle) error {
	r.mu.Lock()
	r.suspended[h] = false
	r.resumed = append(r.resumed, h)
	r.mu.Unlock()
	return nil
}

func (r *fakeRegistry) PriorityOf(h kernel.Handle) kernel.Priority {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.priorities[h]
}

// fakeAdapter wires a fakeRegistry and fakeClock into kernel.Adapter.
// NewPeriodicTimer is never called by dds.Scheduler itself (only by
// generator wiring at the cmd/ddsim level), so it's a minimal stub here.
type fakeAdapter struct {
	tasks *fakeRegistry
	clock *fakeClock
}

func (a *fakeAdapter) Tasks() kernel.TaskRegistry { return a.tasks }
func (a *fakeAdapter) Clock() kernel.Clock        { return a.clock }
func (a *fakeAdapter) NewPeriodicTimer(time.Duration, func()) (kernel.PeriodicTimer, error) {
	return nil, nil
}
