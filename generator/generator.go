// Package generator implements the release generators of spec.md §4.C: one
// cooperative producer per periodic task class, plus the aperiodic producer
// path recovered by spec.md §9's "aperiodic deadline" open question.
package generator

import (
	"context"
	"sync/atomic"

	catrate "github.com/joeycumines/go-catrate"

	"github.com/AmannSingh/deadline-driven-scheduler/dds"
	"github.com/AmannSingh/deadline-driven-scheduler/kernel"
	"github.com/AmannSingh/deadline-driven-scheduler/tasklist"
	"github.com/AmannSingh/deadline-driven-scheduler/telemetry"
)

// Periodic is one per-class release generator (spec.md §4.C). It owns a
// dedicated kernel task that starts suspended, is resumed once per period by
// its class timer, releases one instance, and self-suspends again.
type Periodic struct {
	class     tasklist.Class
	workload  kernel.Handle
	scheduler *dds.Scheduler
	tasks     kernel.TaskRegistry
	limiter   *catrate.Limiter
	log       *telemetry.Logger

	counter   atomic.Uint32
	self      kernel.Handle
	currentID atomic.Uint32 // 0 = no instance awaiting completion
}

// NewPeriodic constructs a generator for class, with per-class instance ids
// starting from idBase (spec.md §3: "per-class counters suffice provided
// class id-ranges are disjoint"). workload is the handle of the M-task that
// will execute released instances (spec.md §3's "handle" field) — distinct
// from the generator's own task, which only ever releases and suspends.
// limiter may be nil to disable NoCapacity backoff pacing.
func NewPeriodic(class tasklist.Class, idBase uint32, workload kernel.Handle, scheduler *dds.Scheduler, tasks kernel.TaskRegistry, limiter *catrate.Limiter, log *telemetry.Logger) *Periodic {
	p := &Periodic{
		class:     class,
		workload:  workload,
		scheduler: scheduler,
		tasks:     tasks,
		limiter:   limiter,
		log:       log,
	}
	p.counter.Store(idBase)
	return p
}

// SetWorkload sets the handle of the M-task that executes released
// instances. Exists because wiring is circular at construction time: the
// workload task body needs this Periodic as its instanceSource (see
// internal/simkernel.Workload), so the workload handle is necessarily
// created after this Periodic and attached here rather than passed to
// NewPeriodic.
func (p *Periodic) SetWorkload(workload kernel.Handle) { p.workload = workload }

// Attach registers this generator's own cooperative task, starting suspended
// (spec.md §4.C step 1), and returns its handle so the caller can wire a
// PeriodicTimer whose callback resumes it.
func (p *Periodic) Attach(name string, level kernel.Priority) (kernel.Handle, error) {
	h, err := p.tasks.Create(name, level, p.run)
	if err != nil {
		return nil, err
	}
	p.self = h
	return h, nil
}

// Handle returns the generator's own task handle, valid after Attach.
func (p *Periodic) Handle() kernel.Handle { return p.self }

// run is the generator's task body (spec.md §4.C steps 2-4): construct a
// Release request, push it onto REQ, self-suspend. It never blocks on REQ
// (TrySubmit) since a full queue here must not stall the generator past its
// own suspend point; a NoCapacity condition is absorbed and retried
// naturally on the next period (spec.md §7).
func (p *Periodic) run(context.Context) {
	id := p.counter.Add(1)
	req := dds.Request{
		Kind: dds.Release,
		Task: tasklist.Record{
			Handle:    p.workload,
			Type:      tasklist.Periodic,
			TaskID:    id,
			TaskClass: p.class,
		},
	}

	if err := p.scheduler.TrySubmit(req); err != nil {
		if p.shouldLog() {
			telemetry.LogNoCapacity(p.log, int(p.class), err)
		}
	} else {
		p.currentID.Store(id)
	}

	_ = p.tasks.Suspend(p.self)
}

// CurrentTaskID returns the id of this generator's most recently released
// instance that has not yet been reported complete, or 0 if none is
// outstanding. The workload M-task named by Handle reads this to learn which
// instance it is executing when the DDS core resumes it (original_source's
// user_defined reads an activeTask populated by an implicit global; this
// resolves that ambiguity explicitly, see DESIGN.md).
func (p *Periodic) CurrentTaskID() uint32 { return p.currentID.Load() }

// MarkCompleted clears the outstanding instance id once id has been reported
// complete, so a stray extra Resume of an already-finished workload (the DDS
// core resumes the Active head unconditionally every loop iteration) is a
// no-op rather than a duplicate Complete submission.
func (p *Periodic) MarkCompleted(id uint32) { p.currentID.CompareAndSwap(id, 0) }

// shouldLog gates NoCapacity logging through the per-class catrate.Limiter
// window, so a stuck observer holding RESP full doesn't flood the log once
// per period indefinitely. It only limits the log line; the rejected
// instance is not retried.
func (p *Periodic) shouldLog() bool {
	if p.limiter == nil {
		return true
	}
	_, allowed := p.limiter.Allow(p.class)
	return allowed
}
