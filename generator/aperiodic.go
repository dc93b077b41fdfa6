package generator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	catrate "github.com/joeycumines/go-catrate"

	"github.com/AmannSingh/deadline-driven-scheduler/dds"
	"github.com/AmannSingh/deadline-driven-scheduler/kernel"
	"github.com/AmannSingh/deadline-driven-scheduler/tasklist"
	"github.com/AmannSingh/deadline-driven-scheduler/telemetry"
)

// maxAperiodicAttempts bounds the immediate retry loop an aperiodic producer
// runs when REQ is momentarily full, per spec.md §7's backoff policy applied
// to a context with no natural "next period" to fall back on.
const maxAperiodicAttempts = 5

// Aperiodic releases one-shot instances from any context (spec.md §4.C:
// "Aperiodic releases use the same request shape from any context"). Unlike
// Periodic it has no dedicated suspend/resume cycle: Release may be called
// directly from whatever goroutine observed the triggering event.
type Aperiodic struct {
	scheduler *dds.Scheduler
	limiter   *catrate.Limiter
	log       *telemetry.Logger
	counter   atomic.Uint32
	currentID atomic.Uint32 // 0 = no instance awaiting completion
}

// NewAperiodic constructs an aperiodic producer with instance ids starting
// from idBase.
func NewAperiodic(idBase uint32, scheduler *dds.Scheduler, limiter *catrate.Limiter, log *telemetry.Logger) *Aperiodic {
	a := &Aperiodic{scheduler: scheduler, limiter: limiter, log: log}
	a.counter.Store(idBase)
	return a
}

// Release admits a one-shot instance with an explicit absolute deadline
// (spec.md §9's "aperiodic deadline" open question resolves this spec to
// require the producer supply it, used by the DDS core verbatim). handle is
// the M-task that will execute the instance. On NoCapacity, Release retries
// immediately up to maxAperiodicAttempts, paced by a catrate.Limiter so a
// persistently full REQ degrades to bounded retries rather than a tight
// loop (spec.md §7).
func (a *Aperiodic) Release(ctx context.Context, handle kernel.Handle, class tasklist.Class, absoluteDeadline tasklist.Tick) error {
	id := a.counter.Add(1)
	req := dds.Request{
		Kind: dds.Release,
		Task: tasklist.Record{
			Handle:           handle,
			Type:             tasklist.Aperiodic,
			TaskID:           id,
			TaskClass:        class,
			AbsoluteDeadline: absoluteDeadline,
		},
	}

	var lastErr error
	for attempt := 0; attempt < maxAperiodicAttempts; attempt++ {
		if err := a.scheduler.TrySubmit(req); err == nil {
			a.currentID.Store(id)
			return nil
		} else {
			lastErr = err
		}
		telemetry.LogNoCapacity(a.log, int(class), lastErr)

		if a.limiter == nil {
			continue
		}
		next, allowed := a.limiter.Allow(class)
		if !allowed && !next.IsZero() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Until(next)):
			}
		}
	}
	return fmt.Errorf("generator: aperiodic release of class %d failed after %d attempts: %w", class, maxAperiodicAttempts, lastErr)
}

// CurrentTaskID returns the id of this producer's most recently accepted
// instance that has not yet been reported complete, or 0 if none is
// outstanding. Mirrors Periodic.CurrentTaskID for the aperiodic path.
func (a *Aperiodic) CurrentTaskID() uint32 { return a.currentID.Load() }

// MarkCompleted clears the outstanding instance id once id has been reported
// complete; see Periodic.MarkCompleted.
func (a *Aperiodic) MarkCompleted(id uint32) { a.currentID.CompareAndSwap(id, 0) }
