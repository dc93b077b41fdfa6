// Package monitor implements the reference consumer of the DDS core's
// query interface (spec.md §4.E): it periodically issues GetActive,
// GetCompleted, and GetOverdue, derives counts, and logs them. spec.md §1
// scopes the monitor as "external collaborator... interface only"; this
// package is that collaborator, driving the contract the core exposes.
package monitor

import (
	"context"
	"time"

	"github.com/AmannSingh/deadline-driven-scheduler/dds"
	"github.com/AmannSingh/deadline-driven-scheduler/telemetry"
)

// Monitor periodically queries the three task lists and logs their counts.
type Monitor struct {
	scheduler *dds.Scheduler
	period    time.Duration
	log       *telemetry.Logger
}

// New constructs a Monitor that queries scheduler every period.
func New(scheduler *dds.Scheduler, period time.Duration, log *telemetry.Logger) *Monitor {
	return &Monitor{scheduler: scheduler, period: period, log: log}
}

// Run blocks, issuing one sweep every period until ctx is cancelled. A
// query error (e.g. the scheduler stopped) ends the loop and returns the
// error; spec.md §4.E only guarantees each query "never blocks beyond the
// bounded channel wait", it does not guarantee the scheduler is alive
// forever.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.sweep(ctx); err != nil {
				return err
			}
		}
	}
}

// sweep issues the three queries in sequence (spec.md §4.E: "periodically
// requests all three lists") and logs their counts.
func (m *Monitor) sweep(ctx context.Context) error {
	active, err := m.scheduler.Query(ctx, dds.GetActive)
	if err != nil {
		return err
	}
	completed, err := m.scheduler.Query(ctx, dds.GetCompleted)
	if err != nil {
		return err
	}
	overdue, err := m.scheduler.Query(ctx, dds.GetOverdue)
	if err != nil {
		return err
	}

	telemetry.LogMonitorSweep(m.log, telemetry.MonitorCounts{
		Active:    len(active),
		Completed: len(completed),
		Overdue:   len(overdue),
	})
	return nil
}
