// Command ddsim wires the five DDS collaborators (spec.md §4) into a single
// running process over the in-process internal/simkernel stand-in, driven by
// the reference test-bench parameters from original_source/src/main.c.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v3"
	catrate "github.com/joeycumines/go-catrate"
	"golang.org/x/sync/errgroup"

	"github.com/AmannSingh/deadline-driven-scheduler/config"
	"github.com/AmannSingh/deadline-driven-scheduler/dds"
	"github.com/AmannSingh/deadline-driven-scheduler/generator"
	"github.com/AmannSingh/deadline-driven-scheduler/internal/simkernel"
	"github.com/AmannSingh/deadline-driven-scheduler/kernel"
	"github.com/AmannSingh/deadline-driven-scheduler/monitor"
	"github.com/AmannSingh/deadline-driven-scheduler/tasklist"
	"github.com/AmannSingh/deadline-driven-scheduler/telemetry"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newCommand().Run(ctx, os.Args); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, "ddsim:", err)
		os.Exit(1)
	}
}

// newCommand builds the root CLI command, flag-driven the way the retrieval
// pack's small daemons configure themselves (e.g. dohr-michael-ozzie's root
// command).
func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "ddsim",
		Usage: "run the deadline-driven scheduler simulation",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "test-bench", Value: 1, Usage: "selects the {execution_ms, period_ms} triplet (1-3)"},
			&cli.Int64Flag{Name: "hyper-period-ms", Value: 1500, Usage: "event-logging cutoff in milliseconds"},
			&cli.Int64Flag{Name: "tick-period-ms", Value: 1, Usage: "kernel tick granularity in milliseconds"},
			&cli.IntFlag{Name: "queue-size", Value: 50, Usage: "REQ/RESP bounded queue capacity"},
			&cli.DurationFlag{Name: "run-for", Value: 5 * time.Second, Usage: "how long to run before shutting down"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Default()
	cfg.TestBench = int(cmd.Int("test-bench"))
	cfg.HyperPeriodMs = cmd.Int64("hyper-period-ms")
	cfg.TickPeriodMs = cmd.Int64("tick-period-ms")
	cfg.MessageQueueSize = int(cmd.Int("queue-size"))
	cfg.NodePoolCapacity = 0
	cfg = withRecomputedCapacity(cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("ddsim: invalid configuration: %w", err)
	}

	log := telemetry.New(cmd.Writer)

	registry := simkernel.NewRegistry()
	defer registry.Shutdown()
	clock := kernel.NewMonotonicClock(cfg.TickPeriod())
	adapter := kernel.NewAdapter(registry, clock)

	scheduler, err := dds.NewScheduler(cfg, adapter, log)
	if err != nil {
		return fmt.Errorf("ddsim: constructing scheduler: %w", err)
	}

	limiter := catrate.NewLimiter(map[time.Duration]int{time.Second: 5})

	generators, workloads, err := wireClasses(cfg, adapter, scheduler, registry, log, limiter)
	if err != nil {
		return fmt.Errorf("ddsim: wiring task classes: %w", err)
	}

	mon := monitor.New(scheduler, cfg.MonitorPeriod, log)

	runCtx, cancel := context.WithTimeout(ctx, cmd.Duration("run-for"))
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error { return scheduler.Run(groupCtx) })
	group.Go(func() error { return mon.Run(groupCtx) })

	for _, timer := range generatorTimers(generators) {
		timer.Start()
		defer timer.Stop()
	}
	_ = workloads // already registered via tasks.Create inside wireClasses; returned for callers that want the handles

	err = group.Wait()
	if runCtx.Err() != nil {
		// run-for elapsed, or the parent ctx (e.g. SIGINT) was cancelled:
		// expected shutdown, not a failure.
		return nil
	}
	return err
}

// withRecomputedCapacity mirrors config.Default's NodePoolCapacity
// computation for a Config whose TestBench/HyperPeriodMs may have been
// overridden by flags after Default() ran.
func withRecomputedCapacity(cfg config.Config) config.Config {
	total := 0
	for class := 1; class <= config.ClassCount; class++ {
		params, err := config.ClassParamsFor(cfg.TestBench, class)
		if err != nil || params.PeriodMs <= 0 {
			continue
		}
		total += int(cfg.HyperPeriodMs/params.PeriodMs) + 1
	}
	if total == 0 {
		total = 1
	}
	cfg.NodePoolCapacity = total + cfg.MessageQueueSize
	return cfg
}

// classGenerator bundles one class's periodic generator with the timer that
// drives it, so run can Start/Stop every class uniformly.
type classGenerator struct {
	periodic *generator.Periodic
	timer    kernel.PeriodicTimer
}

// wireClasses reproduces original_source/src/main.c's task-creation block
// (lines ~218-280): one generator task, one workload (M-task), and one
// periodic timer per class, named and id-based per spec.md §3.
func wireClasses(cfg config.Config, adapter kernel.Adapter, scheduler *dds.Scheduler, registry *simkernel.Registry, log *telemetry.Logger, limiter *catrate.Limiter) ([]*classGenerator, []kernel.Handle, error) {
	tasks := adapter.Tasks()
	var generators []*classGenerator
	var workloads []kernel.Handle

	for class := 1; class <= config.ClassCount; class++ {
		params, err := config.ClassParamsFor(cfg.TestBench, class)
		if err != nil {
			return nil, nil, err
		}

		periodic := generator.NewPeriodic(tasklist.Class(class), config.IDBase(class), nil, scheduler, tasks, limiter, log)

		workloadFn := simkernel.Workload(periodic, time.Duration(params.ExecutionMs)*time.Millisecond, scheduler)
		workloadHandle, err := tasks.Create(fmt.Sprintf("workload-class-%d", class), cfg.Levels.Low, workloadFn)
		if err != nil {
			return nil, nil, fmt.Errorf("creating workload task for class %d: %w", class, err)
		}
		periodic.SetWorkload(workloadHandle)

		if _, err := periodic.Attach(fmt.Sprintf("generator-class-%d", class), cfg.Levels.Med); err != nil {
			return nil, nil, fmt.Errorf("attaching generator task for class %d: %w", class, err)
		}

		timer, err := adapter.NewPeriodicTimer(time.Duration(params.PeriodMs)*time.Millisecond, func() {
			_ = registry.Resume(periodic.Handle())
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating periodic timer for class %d: %w", class, err)
		}

		generators = append(generators, &classGenerator{periodic: periodic, timer: timer})
		workloads = append(workloads, workloadHandle)
	}

	return generators, workloads, nil
}

func generatorTimers(generators []*classGenerator) []kernel.PeriodicTimer {
	timers := make([]kernel.PeriodicTimer, 0, len(generators))
	for _, g := range generators {
		timers = append(timers, g.timer)
	}
	return timers
}
