package kernel

import (
	"sync"
	"time"
)

// selfRescheduling is a PeriodicTimer built from time.AfterFunc, the same
// "schedule one delay, have its own firing reschedule the next" idiom the
// teacher's event loop uses for one-shot timers (eventloop.ScheduleTimer),
// generalized here into an indefinite period instead of a single delay.
type selfRescheduling struct {
	period time.Duration
	cb     func()

	mu      sync.Mutex
	running bool
	timer   *time.Timer
	gen     uint64 // invalidates in-flight fire() calls after Stop
}

// NewPeriodicTimer constructs a PeriodicTimer that invokes cb every period
// once Start is called.
func NewPeriodicTimer(period time.Duration, cb func()) PeriodicTimer {
	return &selfRescheduling{period: period, cb: cb}
}

func (t *selfRescheduling) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.period, func() { t.fire(gen) })
}

func (t *selfRescheduling) fire(gen uint64) {
	t.mu.Lock()
	if !t.running || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.timer = time.AfterFunc(t.period, func() { t.fire(gen) })
	t.mu.Unlock()

	t.cb()
}

func (t *selfRescheduling) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
	}
}
