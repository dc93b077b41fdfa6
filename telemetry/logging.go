// Package telemetry wires the structured-logging facade every other
// component shares: github.com/joeycumines/logiface, backed by
// github.com/joeycumines/stumpy's JSON writer, the same pairing the teacher
// monorepo's eventloop and catrate packages sit alongside. Every component
// (dds, generator, monitor) takes a *Logger instead of constructing its own.
package telemetry

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the shared logger type, parameterised on stumpy's event
// implementation. Field-rich, one JSON line per scheduling event, matching
// spec.md §6's "Observable output".
type Logger = logiface.Logger[*stumpy.Event]

// New constructs a Logger writing newline-delimited JSON to w.
func New(w io.Writer) *Logger {
	return stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(w)))
}

// Discard is a Logger that writes nowhere, for tests that don't want to
// assert on log output but still need to drive logging code paths.
func Discard() *Logger {
	return New(io.Discard)
}

// EventKind labels the class of scheduling event being logged, matching
// spec.md §6's "one line per scheduling event (release / complete)" plus the
// overdue/query events this implementation also reports.
type EventKind string

const (
	EventRelease          EventKind = "release"
	EventComplete         EventKind = "complete"
	EventOverdue          EventKind = "overdue"
	EventQuery            EventKind = "query"
	EventHyperPeriodEnded EventKind = "hyper_period_finished"
)

// ScheduleEvent carries the fields every scheduling-event log line shares.
type ScheduleEvent struct {
	EventNumber int
	Kind        EventKind
	TaskID      uint32
	TaskClass   int
	MeasuredMs  int64
}

// LogScheduleEvent emits one structured line per scheduling event
// (spec.md §6), mirroring original_source/src/main.c's print_event: event
// number, class/id, and measured time in milliseconds.
func LogScheduleEvent(log *Logger, ev ScheduleEvent) {
	log.Info().
		Str("event", string(ev.Kind)).
		Int("event_num", ev.EventNumber).
		Uint64("task_id", uint64(ev.TaskID)).
		Int("task_class", ev.TaskClass).
		Int64("measured_ms", ev.MeasuredMs).
		Log("scheduling event")
}

// LogHyperPeriodFinished emits the one-time marker
// original_source/src/main.c's print_event prints once measured_time first
// exceeds HYPER_PERIOD (spec.md §9's "Supplemented" hyper-period cutoff
// logging).
func LogHyperPeriodFinished(log *Logger, measuredMs int64) {
	log.Info().
		Str("event", string(EventHyperPeriodEnded)).
		Int64("measured_ms", measuredMs).
		Log("hyper-period finished")
}

// MonitorCounts is the three-way population snapshot the monitor
// collaborator logs on each sweep (spec.md §4.E).
type MonitorCounts struct {
	Active    int
	Completed int
	Overdue   int
}

// LogMonitorSweep logs one line per monitor sweep with the three counts
// (spec.md §6's "monitor periodically prints three counts").
func LogMonitorSweep(log *Logger, counts MonitorCounts) {
	log.Info().
		Int("active", counts.Active).
		Int("completed", counts.Completed).
		Int("overdue", counts.Overdue).
		Log("monitor sweep")
}

// LogNoCapacity logs a producer's NoCapacity backoff (spec.md §7: producers
// surface NoCapacity by backing off, not by failing).
func LogNoCapacity(log *Logger, taskClass int, err error) {
	log.Warning().
		Int("task_class", taskClass).
		Err(err).
		Log("release backed off: no capacity")
}

// LogUnknownTaskID logs, at debug level, a Complete for an id not found in
// Active (spec.md §9's open question: logged, never failed).
func LogUnknownTaskID(log *Logger, taskID uint32) {
	log.Debug().
		Uint64("task_id", uint64(taskID)).
		Log("complete for unknown task id ignored")
}
