// Package tasklist implements the DD-task value type and the singly-linked
// lists (Active, Completed, Overdue) that partition released instances.
//
// The module has no dependency on the kernel-adapter: it manipulates plain
// value records, so the DDS core is free to run it without any locking of
// its own (the lists are owned exclusively by whichever goroutine holds the
// *List).
package tasklist

import "time"

// Type distinguishes a periodic, timer-driven task instance from a one-shot
// aperiodic release.
type Type int

const (
	// Periodic instances are released by a generator on a fixed period and
	// have their deadline computed as release_time + period(class).
	Periodic Type = iota
	// Aperiodic instances carry an explicit deadline supplied by the
	// producer (see the "aperiodic deadline" open question in SPEC_FULL.md).
	Aperiodic
)

func (t Type) String() string {
	if t == Aperiodic {
		return "aperiodic"
	}
	return "periodic"
}

// Tick is an absolute point on the kernel's monotonic tick counter.
type Tick uint64

// Handle is an opaque reference to the underlying kernel task (M-task) that
// will execute a given instance. Task-record & list code never dereferences
// it; only the kernel-adapter does.
type Handle interface{}

// Class selects the per-class static parameters (period, worst-case
// execution time) of an instance. Classes are fixed at system build.
type Class uint16

// Record is an (immutable-once-released) value describing one instance of a
// task class. Once a Record leaves the Active list its ReleaseTime and
// AbsoluteDeadline are frozen; CompletionTime is the only field a later
// transition may still set, and only once.
type Record struct {
	Handle           Handle
	Type             Type
	TaskID           uint32
	TaskClass        Class
	ReleaseTime      Tick
	AbsoluteDeadline Tick
	CompletionTime   Tick
	completed        bool
}

// Completed reports whether CompletionTime has been stamped.
func (r Record) Completed() bool { return r.completed }

// WithCompletion returns a copy of r with CompletionTime stamped.
func (r Record) WithCompletion(t Tick) Record {
	r.CompletionTime = t
	r.completed = true
	return r
}

// MetDeadline reports whether a completed record finished at or before its
// absolute deadline. Calling it on a record that hasn't completed is a bug
// in the caller; it returns false.
func (r Record) MetDeadline() bool {
	return r.completed && r.CompletionTime <= r.AbsoluteDeadline
}

// TickDuration converts a count of ticks to a time.Duration given the
// kernel's fixed tick period, mirroring the ms<->tick conversions the
// kernel-adapter performs at its boundary.
func TickDuration(ticks Tick, tickPeriod time.Duration) time.Duration {
	return time.Duration(ticks) * tickPeriod
}
