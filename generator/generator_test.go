package generator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmannSingh/deadline-driven-scheduler/config"
	"github.com/AmannSingh/deadline-driven-scheduler/dds"
	"github.com/AmannSingh/deadline-driven-scheduler/generator"
	"github.com/AmannSingh/deadline-driven-scheduler/kernel"
	"github.com/AmannSingh/deadline-driven-scheduler/tasklist"
	"github.com/AmannSingh/deadline-driven-scheduler/telemetry"
)

// fakeTaskEntry/fakeRegistry/fakeClock/fakeAdapter are the generator
// package's own minimal stand-ins, mirroring the ones in dds's test suite
// but capturing the registered TaskFunc too, so a test can invoke a
// generator's task body directly instead of needing a real scheduler
// goroutine behind Resume.
type fakeTaskEntry struct {
	fn        kernel.TaskFunc
	priority  kernel.Priority
	suspended bool
}

type fakeRegistry struct {
	mu      sync.Mutex
	entries map[kernel.Handle]*fakeTaskEntry
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{entries: make(map[kernel.Handle]*fakeTaskEntry)}
}

func (r *fakeRegistry) Create(_ string, initial kernel.Priority, fn kernel.TaskFunc) (kernel.Handle, error) {
	h := new(int)
	r.mu.Lock()
	r.entries[h] = &fakeTaskEntry{fn: fn, priority: initial, suspended: true}
	r.mu.Unlock()
	return h, nil
}

func (r *fakeRegistry) SetPriority(h kernel.Handle, level kernel.Priority) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[h]; ok {
		e.priority = level
	}
	return nil
}

func (r *fakeRegistry) Suspend(h kernel.Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[h].suspended = true
	return nil
}

func (r *fakeRegistry) Resume(h kernel.Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[h]; ok {
		e.suspended = false
	}
	return nil
}

func (r *fakeRegistry) IsSuspended(h kernel.Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[h].suspended
}

// invoke runs h's registered task body synchronously, simulating what the
// real kernel does after Resume wakes an M-task (spec.md §4.C step 2).
func (r *fakeRegistry) invoke(t *testing.T, h kernel.Handle) {
	t.Helper()
	r.mu.Lock()
	fn := r.entries[h].fn
	r.mu.Unlock()
	require.NotNil(t, fn)
	fn(context.Background())
}

type fakeClock struct{ period time.Duration }

func (c fakeClock) Now() tasklist.Tick        { return 0 }
func (c fakeClock) TickPeriod() time.Duration { return c.period }

type fakeAdapter struct {
	tasks *fakeRegistry
	clock fakeClock
}

func (a *fakeAdapter) Tasks() kernel.TaskRegistry { return a.tasks }
func (a *fakeAdapter) Clock() kernel.Clock        { return a.clock }
func (a *fakeAdapter) NewPeriodicTimer(time.Duration, func()) (kernel.PeriodicTimer, error) {
	return nil, nil
}

func newTestScheduler(t *testing.T) (*dds.Scheduler, *fakeRegistry) {
	t.Helper()
	cfg := config.Default()
	registry := newFakeRegistry()
	adapter := &fakeAdapter{tasks: registry, clock: fakeClock{period: cfg.TickPeriod()}}

	s, err := dds.NewScheduler(cfg, adapter, telemetry.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s, registry
}

func TestPeriodicRunReleasesAndSelfSuspends(t *testing.T) {
	s, registry := newTestScheduler(t)

	p := generator.NewPeriodic(1, config.IDBase(1), "workload-handle", s, registry, nil, telemetry.Discard())
	self, err := p.Attach("generator-class-1", kernel.Priority(4))
	require.NoError(t, err)

	registry.invoke(t, self)

	assert.True(t, registry.IsSuspended(self), "generator self-suspends after releasing (spec.md §4.C step 4)")
	assert.NotZero(t, p.CurrentTaskID())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	active, err := s.Query(ctx, dds.GetActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, p.CurrentTaskID(), active[0].TaskID)
	assert.Equal(t, "workload-handle", active[0].Handle)
}

func TestPeriodicMarkCompletedClearsOutstandingID(t *testing.T) {
	s, registry := newTestScheduler(t)
	p := generator.NewPeriodic(1, config.IDBase(1), "workload-handle", s, registry, nil, telemetry.Discard())
	self, err := p.Attach("generator-class-1", kernel.Priority(4))
	require.NoError(t, err)
	registry.invoke(t, self)

	id := p.CurrentTaskID()
	require.NotZero(t, id)
	p.MarkCompleted(id)
	assert.Zero(t, p.CurrentTaskID())
}

func TestAperiodicReleaseUsesExplicitDeadline(t *testing.T) {
	s, _ := newTestScheduler(t)
	a := generator.NewAperiodic(config.IDBase(1), s, nil, telemetry.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, a.Release(ctx, "aperiodic-handle", 1, 4242))

	active, err := s.Query(ctx, dds.GetActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, tasklist.Tick(4242), active[0].AbsoluteDeadline)
	assert.Equal(t, tasklist.Aperiodic, active[0].Type)
	assert.Equal(t, a.CurrentTaskID(), active[0].TaskID)
}
