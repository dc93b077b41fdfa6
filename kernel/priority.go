package kernel

import "fmt"

// Priority is a kernel scheduling priority level. Only the relative
// ordering between the three configured levels (High > Med > Low) matters;
// the concrete integers are not otherwise significant (spec.md §4.B).
type Priority int

// Levels holds the three priority values the DDS core and kernel-adapter
// operate with: HIGH (the DDS core's own consumer goroutine), MED (the
// single M-task currently holding the earliest deadline), and LOW (every
// other Active M-task, effectively preempted).
type Levels struct {
	High Priority
	Med  Priority
	Low  Priority
}

// DefaultLevels reproduces the reference values (4/3/1) from
// original_source/src/main.c.
func DefaultLevels() Levels {
	return Levels{High: 4, Med: 3, Low: 1}
}

// Validate enforces spec.md §4.B's HIGH > MED > LOW >= 1 constraint. A
// violation is a startup-fatal TaskCreationFailure per spec.md §7: the
// scheduler must never be configured such that the DDS core itself is
// reachable at or below a user task's priority.
func (l Levels) Validate() error {
	if l.Low < 1 {
		return fmt.Errorf("kernel: priority LOW must be >= 1, got %d", l.Low)
	}
	if !(l.High > l.Med && l.Med > l.Low) {
		return fmt.Errorf("kernel: priorities must satisfy HIGH(%d) > MED(%d) > LOW(%d)", l.High, l.Med, l.Low)
	}
	return nil
}
