package simkernel

import (
	"context"
	"time"

	"github.com/AmannSingh/deadline-driven-scheduler/dds"
	"github.com/AmannSingh/deadline-driven-scheduler/kernel"
)

// instanceSource is satisfied by generator.Periodic and generator.Aperiodic.
// Workload depends on this narrow interface rather than either concrete type
// so the same helper drives both release paths.
type instanceSource interface {
	CurrentTaskID() uint32
	MarkCompleted(id uint32)
}

// Workload builds the kernel.TaskFunc for an M-task that executes released
// instances of one class (original_source/src/main.c's user_defined, adapted
// per SPEC_FULL.md §5.D: "time.Sleep-based simulated workload per class").
//
// original_source reads a package-global activeTask that is never populated
// from the message that triggered the resume, so task_number/task_id there
// are effectively whatever the last write left behind — a latent bug, not a
// contract worth reproducing. Here the M-task instead asks source which
// instance it is currently responsible for; source is the same generator
// that stamped the id onto the Release request, so the answer is always
// accurate for the instance that made this M-task the Active head.
//
// A resume with no outstanding instance (source.CurrentTaskID() == 0)
// returns immediately: the DDS core resumes the Active head unconditionally
// every loop iteration, so a workload that already reported completion will
// see spurious resumes until it is next released.
func Workload(source instanceSource, execution time.Duration, scheduler *dds.Scheduler) kernel.TaskFunc {
	return func(ctx context.Context) {
		id := source.CurrentTaskID()
		if id == 0 {
			return
		}

		timer := time.NewTimer(execution)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := scheduler.Submit(ctx, dds.Request{Kind: dds.Complete, TaskID: id}); err == nil {
			source.MarkCompleted(id)
		}
	}
}
