// Package simkernel is the in-process stand-in for the real-time kernel
// kernel.Adapter abstracts over. The real kernel's task/timer primitives are
// explicitly out of scope (spec.md §1); this package exists only so the
// repository has something runnable to drive the DDS core against, using
// goroutines and channels to approximate "M-task blocked until resumed,
// runs its workload, yields back".
//
// It makes no attempt to honour kernel.Priority as an actual OS scheduling
// priority — Go's runtime scheduler doesn't expose that knob. Priority
// values are still recorded and observable (see State), which is enough to
// verify the EDF policy in spec.md §4.D's invariant 5 end-to-end.
package simkernel

import (
	"context"
	"errors"
	"sync"

	"github.com/AmannSingh/deadline-driven-scheduler/kernel"
)

// ErrUnknownHandle is returned when a registry method is called with a
// Handle it did not create.
var ErrUnknownHandle = errors.New("simkernel: unknown task handle")

// task is the concrete Handle implementation: a managed goroutine blocked on
// resumeCh until Resume wakes it to run one invocation of fn.
type task struct {
	name string
	fn   kernel.TaskFunc

	mu        sync.Mutex
	priority  kernel.Priority
	suspended bool

	resumeCh chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
}

// Registry implements kernel.TaskRegistry over a set of simulated tasks.
type Registry struct {
	mu    sync.Mutex
	tasks map[*task]struct{}
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[*task]struct{})}
}

// Create registers a new simulated M-task and starts its goroutine; the
// task does not run fn until the first Resume call (spec.md §4.C: "Starts
// suspended").
func (r *Registry) Create(name string, initial kernel.Priority, fn kernel.TaskFunc) (kernel.Handle, error) {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{
		name:      name,
		fn:        fn,
		priority:  initial,
		suspended: true,
		resumeCh:  make(chan struct{}, 1),
		ctx:       ctx,
		cancel:    cancel,
	}

	r.mu.Lock()
	r.tasks[t] = struct{}{}
	r.mu.Unlock()

	go t.run()
	return t, nil
}

func (t *task) run() {
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-t.resumeCh:
			t.fn(t.ctx)
		}
	}
}

func asTask(h kernel.Handle) (*task, error) {
	t, ok := h.(*task)
	if !ok || t == nil {
		return nil, ErrUnknownHandle
	}
	return t, nil
}

// SetPriority updates the recorded priority of h.
func (r *Registry) SetPriority(h kernel.Handle, level kernel.Priority) error {
	t, err := asTask(h)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.priority = level
	t.mu.Unlock()
	return nil
}

// Suspend marks h as not runnable. The goroutine backing h is already
// blocked on resumeCh whenever it isn't mid-execution, so this only updates
// the observable state; a Resume already in flight is not cancelled.
func (r *Registry) Suspend(h kernel.Handle) error {
	t, err := asTask(h)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.suspended = true
	t.mu.Unlock()
	return nil
}

// Resume wakes h's goroutine to run one invocation of its task body.
func (r *Registry) Resume(h kernel.Handle) error {
	t, err := asTask(h)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.suspended = false
	t.mu.Unlock()

	select {
	case t.resumeCh <- struct{}{}:
	default:
		// already has a pending resume signal
	}
	return nil
}

// State describes a task's observable state, for tests and the monitor.
type State struct {
	Name      string
	Priority  kernel.Priority
	Suspended bool
}

// StateOf returns the current observable state of h.
func StateOf(h kernel.Handle) (State, error) {
	t, err := asTask(h)
	if err != nil {
		return State{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{Name: t.name, Priority: t.priority, Suspended: t.suspended}, nil
}

// Shutdown cancels every task goroutine this registry created.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t := range r.tasks {
		t.cancel()
	}
}
