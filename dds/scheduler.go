// Package dds implements the DDS core scheduler loop (spec.md §4.D): the
// single message-driven consumer that maintains the Active/Completed/Overdue
// lists, runs the EDF priority policy, and answers queries.
package dds

import (
	"context"
	"errors"
	"fmt"

	"github.com/AmannSingh/deadline-driven-scheduler/config"
	"github.com/AmannSingh/deadline-driven-scheduler/kernel"
	"github.com/AmannSingh/deadline-driven-scheduler/tasklist"
	"github.com/AmannSingh/deadline-driven-scheduler/telemetry"
)

// Scheduler is the DDS core. A Scheduler is not safe for concurrent calls to
// Run; Submit/TrySubmit are safe to call from any goroutine since they only
// ever touch the bounded REQ queue (spec.md §5: "Concurrency between
// generators, user M-tasks, and the DDS is mediated solely by the two
// bounded message channels"). Query is memory-safe from any goroutine, but
// concurrent Query callers may receive each other's snapshots (see Query).
type Scheduler struct {
	req  *kernel.Queue[Request]
	resp *kernel.Queue[Response]

	active, completed, overdue *tasklist.List

	tasks  kernel.TaskRegistry
	clock  kernel.Clock
	levels kernel.Levels

	log           *telemetry.Logger
	hyperPeriodMs int64
	testBench     int

	// owned exclusively by Run's goroutine; see spec.md §5's "no internal
	// locking" rationale for the three lists, which extends to this
	// bookkeeping.
	eventNumber     int
	hyperPeriodDone bool
}

// NewScheduler constructs a Scheduler. The three task lists are freshly
// allocated with capacity cfg.NodePoolCapacity (spec.md §5); REQ and RESP
// are sized to cfg.MessageQueueSize (spec.md §6).
func NewScheduler(cfg config.Config, adapter kernel.Adapter, log *telemetry.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	active, completed, overdue := tasklist.NewSharedLists(cfg.NodePoolCapacity)
	return &Scheduler{
		req:           kernel.NewQueue[Request](cfg.MessageQueueSize),
		resp:          kernel.NewQueue[Response](cfg.MessageQueueSize),
		active:        active,
		completed:     completed,
		overdue:       overdue,
		tasks:         adapter.Tasks(),
		clock:         adapter.Clock(),
		levels:        cfg.Levels,
		log:           log,
		hyperPeriodMs: cfg.HyperPeriodMs,
		testBench:     cfg.TestBench,
	}, nil
}

// TrySubmit enqueues req onto REQ without blocking, returning ErrQueueFull
// if REQ is at capacity. This is the NoCapacity path spec.md §7 describes
// for producers: "Producers surface NoCapacity by backing off."
func (s *Scheduler) TrySubmit(req Request) error {
	if err := s.req.TrySendBack(req); err != nil {
		return fmt.Errorf("%w: %v", ErrQueueFull, err)
	}
	return nil
}

// Submit enqueues req onto REQ, blocking until there is room or ctx is
// done (spec.md §5: "REQ receive uses infinite timeout" — the complementary
// send side here honours whatever ctx the caller supplies, with
// context.Background() reproducing the infinite-wait contract).
func (s *Scheduler) Submit(ctx context.Context, req Request) error {
	return s.req.SendBack(ctx, req)
}

// Query submits a Get* request and waits for its RESP snapshot. Per
// spec.md §4.E, the monitor is the sole caller of Query; concurrent callers
// would race on which RESP message they receive, same as a single shared
// mailbox in the reference design.
func (s *Scheduler) Query(ctx context.Context, kind Kind) ([]tasklist.Record, error) {
	if err := s.Submit(ctx, Request{Kind: kind}); err != nil {
		return nil, err
	}
	resp, err := s.resp.Receive(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Snapshot, nil
}

// Run executes the main loop (spec.md §4.D): blocking receive, timestamp,
// overdue sweep, dispatch, EDF priority policy, resume. It returns when ctx
// is cancelled (returning ctx.Err()) — there is no other shutdown path in
// scope (spec.md §5).
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		req, err := s.req.Receive(ctx)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		s.sweepOverdue(now)

		switch req.Kind {
		case Release:
			s.handleRelease(req.Task, now)
		case Complete:
			s.handleComplete(req.TaskID, now)
		case GetActive, GetCompleted, GetOverdue:
			if err := s.handleQuery(ctx, req.Kind); err != nil {
				return err
			}
		}

		s.applyEDFPriorityPolicy()
	}
}

// sweepOverdue walks Active front-to-back, unlinking every record whose
// deadline has passed and appending it to Overdue, stopping at the first
// non-overdue record (spec.md §4.D step 3: Active is sorted by deadline, so
// the overdue set is always a prefix).
func (s *Scheduler) sweepOverdue(now tasklist.Tick) {
	for {
		rec, ok := s.active.Front()
		if !ok || rec.AbsoluteDeadline >= now {
			return
		}
		rec, _ = s.active.DeleteByID(rec.TaskID)
		_ = s.overdue.InsertBack(rec)
		s.log.Warning().
			Str("event", string(telemetry.EventOverdue)).
			Uint64("task_id", uint64(rec.TaskID)).
			Int("task_class", int(rec.TaskClass)).
			Uint64("deadline", uint64(rec.AbsoluteDeadline)).
			Uint64("now", uint64(now)).
			Log("overdue sweep moved instance")
	}
}

// handleRelease implements spec.md §4.D's Release dispatch branch,
// including the aperiodic-deadline open question from spec.md §9: a
// Periodic release's deadline is always computed from now + period;
// an Aperiodic release's deadline is the one the producer already stamped
// onto req.Task.AbsoluteDeadline, used verbatim.
func (s *Scheduler) handleRelease(task tasklist.Record, now tasklist.Tick) {
	task.ReleaseTime = now
	if task.Type == tasklist.Periodic {
		params, err := config.ClassParamsFor(s.testBenchHint(), int(task.TaskClass))
		if err == nil {
			task.AbsoluteDeadline = now + s.ticksFromMs(params.PeriodMs)
		}
	}
	// Aperiodic: task.AbsoluteDeadline is already set by the producer.

	if err := s.active.InsertBack(task); err != nil {
		// spec.md §7: NoCapacity is absorbed, not propagated; the producer
		// already got its message accepted onto REQ, so all the core can do
		// is log and drop the instance.
		telemetry.LogNoCapacity(s.log, int(task.TaskClass), errors.Join(ErrNoCapacity, err))
		return
	}
	s.active.SortEDF()

	s.logEvent(telemetry.EventRelease, task.TaskID, int(task.TaskClass), now)
}

// handleComplete implements spec.md §4.D's Complete dispatch branch and the
// "unknown id: silently ignored" policy from spec.md §9.
func (s *Scheduler) handleComplete(taskID uint32, now tasklist.Tick) {
	rec, ok := s.active.DeleteByID(taskID)
	if !ok {
		telemetry.LogUnknownTaskID(s.log, taskID)
		return
	}
	rec = rec.WithCompletion(now)
	if rec.MetDeadline() {
		_ = s.completed.InsertBack(rec)
	} else {
		_ = s.overdue.InsertBack(rec)
	}
	s.logEvent(telemetry.EventComplete, rec.TaskID, int(rec.TaskClass), now)
}

// handleQuery answers GetActive/GetCompleted/GetOverdue with a deep-copy
// snapshot (spec.md §4.D's "Idempotence": two back-to-back queries on
// unchanged state must compare equal, which List.Snapshot guarantees since
// it always allocates a fresh slice of value Records).
func (s *Scheduler) handleQuery(ctx context.Context, kind Kind) error {
	var list *tasklist.List
	switch kind {
	case GetActive:
		list = s.active
	case GetCompleted:
		list = s.completed
	case GetOverdue:
		list = s.overdue
	}
	snap := list.Snapshot()
	s.log.Debug().
		Str("event", string(telemetry.EventQuery)).
		Str("list", kind.String()).
		Int("count", len(snap)).
		Log("query answered")
	return s.resp.SendBack(ctx, Response{Snapshot: snap})
}

// applyEDFPriorityPolicy implements spec.md §4.D step 5-6: the head of
// Active (earliest deadline, ties broken by SortEDF's stability) holds
// priority MED; every other Active member holds LOW; the head's M-task is
// resumed unconditionally (idempotent if it's already running).
func (s *Scheduler) applyEDFPriorityPolicy() {
	head, ok := s.active.Front()
	if !ok {
		return
	}

	i := 0
	s.active.Traverse(func(rec tasklist.Record) bool {
		level := s.levels.Low
		if i == 0 {
			level = s.levels.Med
		}
		_ = s.tasks.SetPriority(rec.Handle, level)
		i++
		return true
	})

	_ = s.tasks.Resume(head.Handle)
}

// logEvent reproduces original_source/src/main.c's print_event: events are
// numbered and annotated only up to the hyper-period cutoff, after which a
// one-time "finished" marker is logged (spec.md §5.D's supplemented
// hyper-period cutoff logging).
func (s *Scheduler) logEvent(kind telemetry.EventKind, taskID uint32, class int, now tasklist.Tick) {
	measuredMs := int64(now) * int64(s.clock.TickPeriod().Milliseconds())
	if measuredMs <= s.hyperPeriodMs {
		s.eventNumber++
		telemetry.LogScheduleEvent(s.log, telemetry.ScheduleEvent{
			EventNumber: s.eventNumber,
			Kind:        kind,
			TaskID:      taskID,
			TaskClass:   class,
			MeasuredMs:  measuredMs,
		})
		return
	}
	if !s.hyperPeriodDone {
		s.hyperPeriodDone = true
		telemetry.LogHyperPeriodFinished(s.log, measuredMs)
	}
}

// testBenchHint returns the TEST_BENCH selector fixed at construction.
func (s *Scheduler) testBenchHint() int { return s.testBench }

// ticksFromMs converts a millisecond duration to a tick count using the
// adapter's fixed tick period (spec.md §6: "all ms<->tick conversions use
// this").
func (s *Scheduler) ticksFromMs(ms int64) tasklist.Tick {
	tp := s.clock.TickPeriod().Milliseconds()
	if tp <= 0 {
		tp = 1
	}
	return tasklist.Tick(ms / tp)
}
