package dds

import "errors"

// Sentinel errors for the DDS core, following the teacher's
// eventloop/errors.go convention of package-level Err* values usable with
// errors.Is.
var (
	// ErrNoCapacity marks a Release that could not be admitted because
	// Active's node pool is exhausted (spec.md §4.D, §7). The Run loop logs
	// it joined with the pool's own error and drops the instance; it is never
	// returned to the producer.
	ErrNoCapacity = errors.New("dds: no capacity for release")
	// ErrQueueFull is returned by TrySubmit when REQ is at capacity
	// (spec.md §7's NoCapacity condition for REQ itself, distinct from the
	// node-pool exhaustion above).
	ErrQueueFull = errors.New("dds: request queue is full")
	// ErrSchedulerStopped names the condition of the scheduler's Run loop
	// having returned. No function in this package returns it: Submit and
	// Query do not detect a stopped Run loop, so after Run returns they still
	// enqueue while REQ has room and otherwise block until ctx is done.
	ErrSchedulerStopped = errors.New("dds: scheduler is not running")
)
