// Package kernel abstracts the underlying real-time kernel primitives the
// DDS core depends on (spec.md §4.B): a task registry capable of mutating
// kernel-level priority and suspending/resuming M-tasks, a periodic timer,
// a monotonic tick clock, and bounded message channels. The real kernel
// (and its task/timer primitives) is out of scope per spec.md §1 — this
// package defines the contract; internal/simkernel provides the in-process
// stand-in that exercises it for this repository's test bench.
package kernel

import (
	"context"
	"time"

	"github.com/AmannSingh/deadline-driven-scheduler/tasklist"
)

// Handle is an opaque reference to a kernel task (M-task), threaded through
// tasklist.Record.Handle without ever being dereferenced by tasklist or dds
// code.
type Handle interface{}

// TaskFunc is the body of a simulated M-task: it runs until ctx is
// cancelled or it returns on its own (having completed one unit of work).
type TaskFunc func(ctx context.Context)

// TaskRegistry creates and controls M-tasks. Every method it exposes
// corresponds 1:1 to a capability spec.md §4.B names: create at a priority,
// obtain a handle, mutate priority, suspend, resume.
type TaskRegistry interface {
	// Create registers a new kernel task running fn, starting suspended at
	// the given initial priority, and returns its handle.
	Create(name string, initial Priority, fn TaskFunc) (Handle, error)
	// SetPriority changes h's kernel-level priority.
	SetPriority(h Handle, level Priority) error
	// Suspend removes h from consideration by the kernel scheduler until
	// Resume is called.
	Suspend(h Handle) error
	// Resume makes h eligible to run again.
	Resume(h Handle) error
}

// PeriodicTimer fires a callback on every expiration of a fixed period,
// until stopped. spec.md §4.C's release generators are driven by one of
// these per task class.
type PeriodicTimer interface {
	Start()
	Stop()
}

// Clock exposes the kernel's monotonically nondecreasing tick counter and
// its fixed tick period (spec.md §4.B, §6). All deadline arithmetic in the
// DDS core is expressed in ticks, derived from this clock.
type Clock interface {
	Now() tasklist.Tick
	TickPeriod() time.Duration
}

// Adapter bundles the three capabilities a running DDS instance needs at
// wiring time. Queue is generic and constructed directly (see queue.go);
// it isn't part of this interface because its type parameter varies by
// call site (Request vs Response messages).
type Adapter interface {
	Tasks() TaskRegistry
	Clock() Clock
	// NewPeriodicTimer constructs (but does not start) a timer that invokes
	// cb on every expiration of period. Returns an error only for resource
	// exhaustion at construction time (spec.md §7's TimerCreationFailure).
	NewPeriodicTimer(period time.Duration, cb func()) (PeriodicTimer, error)
}
