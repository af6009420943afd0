// Package sparkletest provides a manually advanced scheduler for sparkle tests.
package sparkletest

import (
	"sync"
	"time"

	"wrapped/internal/core/sparkle"
)

// Scheduler fires callbacks only when Advance moves its clock past their deadline.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*Timer
}

// Timer is a deferred call owned by Scheduler.
type Timer struct {
	mu       sync.Mutex
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

// NewScheduler creates a scheduler whose clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the scheduler clock; pass it to sparkle.WithClock.
func (scheduler *Scheduler) Now() time.Time {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.now
}

// AfterFunc implements sparkle.Scheduler.
func (scheduler *Scheduler) AfterFunc(delay time.Duration, fn func()) sparkle.Timer {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	timer := &Timer{deadline: scheduler.now.Add(delay), fn: fn}
	scheduler.timers = append(scheduler.timers, timer)
	return timer
}

// Advance moves the clock forward and runs every due callback in deadline order.
func (scheduler *Scheduler) Advance(delta time.Duration) {
	scheduler.mu.Lock()
	scheduler.now = scheduler.now.Add(delta)
	now := scheduler.now
	timers := append([]*Timer(nil), scheduler.timers...)
	scheduler.mu.Unlock()

	for {
		next := earliestDue(timers, now)
		if next == nil {
			return
		}
		next.fire()
	}
}

// Pending returns how many timers are neither stopped nor fired.
func (scheduler *Scheduler) Pending() int {
	scheduler.mu.Lock()
	timers := append([]*Timer(nil), scheduler.timers...)
	scheduler.mu.Unlock()

	count := 0
	for _, timer := range timers {
		if timer.active() {
			count++
		}
	}
	return count
}

// Timers returns every timer created so far, in creation order.
func (scheduler *Scheduler) Timers() []*Timer {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return append([]*Timer(nil), scheduler.timers...)
}

// Stop implements sparkle.Timer.
func (timer *Timer) Stop() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	wasActive := !timer.stopped && !timer.fired
	timer.stopped = true
	return wasActive
}

// Stopped reports whether Stop was called before the timer fired.
func (timer *Timer) Stopped() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.stopped
}

// Invoke runs the callback regardless of state, simulating a timer that fired
// concurrently with Stop.
func (timer *Timer) Invoke() {
	timer.fn()
}

func (timer *Timer) active() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return !timer.stopped && !timer.fired
}

func (timer *Timer) fire() {
	timer.mu.Lock()
	if timer.stopped || timer.fired {
		timer.mu.Unlock()
		return
	}
	timer.fired = true
	timer.mu.Unlock()
	timer.fn()
}

func earliestDue(timers []*Timer, now time.Time) *Timer {
	var next *Timer
	for _, timer := range timers {
		if !timer.active() || timer.deadline.After(now) {
			continue
		}
		if next == nil || timer.deadline.Before(next.deadline) {
			next = timer
		}
	}
	return next
}
