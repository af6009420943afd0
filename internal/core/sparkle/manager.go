// Package sparkle tracks the short-lived markers spawned at the leading edge of
// a progress arc.
package sparkle

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"wrapped/internal/core/geometry"
	"wrapped/internal/logging"

	"github.com/google/uuid"
)

const idPrefix = "sparkle-"

// Config contains sparkle tuning values.
type Config struct {
	Lifetime time.Duration
	Capacity int
}

// DefaultConfig returns the reference tuning: 600ms lifetime, three live sparkles.
func DefaultConfig() Config {
	return Config{
		Lifetime: 600 * time.Millisecond,
		Capacity: 3,
	}
}

func (config Config) normalized() Config {
	defaults := DefaultConfig()
	if config.Lifetime <= 0 {
		config.Lifetime = defaults.Lifetime
	}
	if config.Capacity <= 0 {
		config.Capacity = defaults.Capacity
	}
	return config
}

// Event is a short-lived marker spawned at the arc's leading edge.
type Event struct {
	ID        string
	Angle     float64
	Progress  float64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Age returns how much of the event's lifetime has elapsed at now, in [0, 1].
func (event Event) Age(now time.Time) float64 {
	lifetime := event.ExpiresAt.Sub(event.CreatedAt)
	if lifetime <= 0 {
		return 1
	}
	return geometry.ClampFraction(float64(now.Sub(event.CreatedAt)) / float64(lifetime))
}

// Timer is a pending deferred call.
type Timer interface {
	Stop() bool
}

// Scheduler creates deferred calls.
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func()) Timer
}

// RealScheduler schedules with time.AfterFunc.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, fn)
}

// Option configures a Manager.
type Option func(*Manager)

// WithScheduler replaces the timer source.
func WithScheduler(scheduler Scheduler) Option {
	return func(manager *Manager) {
		if scheduler != nil {
			manager.scheduler = scheduler
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(manager *Manager) {
		if now != nil {
			manager.now = now
		}
	}
}

// WithOnChange sets a callback fired after every change to the active set.
// It runs outside the manager lock, possibly on a timer goroutine.
func WithOnChange(handler func()) Option {
	return func(manager *Manager) {
		manager.onChange = handler
	}
}

// WithLogger sets the logger used for lifecycle debug lines.
func WithLogger(logger *logging.Logger) Option {
	return func(manager *Manager) {
		if logger != nil {
			manager.logger = logger
		}
	}
}

// WithIDSource replaces the event id generator.
func WithIDSource(newID func() string) Option {
	return func(manager *Manager) {
		if newID != nil {
			manager.newID = newID
		}
	}
}

// Manager owns the active set of sparkle events.
// Every event removes itself after the configured lifetime; Close cancels all
// pending removals.
type Manager struct {
	mu        sync.Mutex
	config    Config
	scheduler Scheduler
	now       func() time.Time
	newID     func() string
	onChange  func()
	logger    *logging.Logger
	active    []Event
	timers    map[string]Timer
	closed    bool
}

// New creates a sparkle manager.
func New(config Config, options ...Option) *Manager {
	manager := &Manager{
		config:    config.normalized(),
		scheduler: RealScheduler{},
		now:       time.Now,
		newID:     newEventID,
		logger:    logging.Discard(),
		timers:    make(map[string]Timer),
	}
	for _, option := range options {
		option(manager)
	}
	return manager
}

// Config returns the normalized configuration.
func (manager *Manager) Config() Config {
	return manager.config
}

// OnProgressChange spawns a sparkle for a new progress value.
// Nothing happens while paused, at zero or negative progress, or after Close.
func (manager *Manager) OnProgressChange(progress float64, paused bool) (Event, bool) {
	if paused || progress <= 0 {
		return Event{}, false
	}

	manager.mu.Lock()
	if manager.closed {
		manager.mu.Unlock()
		return Event{}, false
	}

	createdAt := manager.now()
	event := Event{
		ID:        manager.newID(),
		Angle:     geometry.SparkleAngle(progress),
		Progress:  progress,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(manager.config.Lifetime),
	}

	manager.active = append(manager.active, event)
	evicted := manager.trimLocked()

	id := event.ID
	manager.timers[id] = manager.scheduler.AfterFunc(manager.config.Lifetime, func() {
		manager.expire(id)
	})
	manager.mu.Unlock()

	manager.logger.Debug("sparkle spawned", "id", id, "angle", event.Angle, "evicted", evicted)
	manager.notify()
	return event, true
}

// Remove deletes an event by id. Removing an absent id is a no-op.
func (manager *Manager) Remove(id string) bool {
	manager.mu.Lock()
	if timer, ok := manager.timers[id]; ok {
		timer.Stop()
		delete(manager.timers, id)
	}
	removed := manager.removeLocked(id)
	manager.mu.Unlock()

	if removed {
		manager.notify()
	}
	return removed
}

// Active returns a copy of the live events, oldest first.
func (manager *Manager) Active() []Event {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	events := make([]Event, len(manager.active))
	copy(events, manager.active)
	return events
}

// Len returns the number of live events.
func (manager *Manager) Len() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.active)
}

// Pending returns the number of removal timers not yet fired or stopped.
func (manager *Manager) Pending() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.timers)
}

// Closed reports whether Close has been called.
func (manager *Manager) Closed() bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.closed
}

// Close cancels every pending removal and drops the active set.
func (manager *Manager) Close() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.closed {
		return
	}
	manager.closed = true
	for id, timer := range manager.timers {
		timer.Stop()
		delete(manager.timers, id)
	}
	manager.active = nil
}

func (manager *Manager) expire(id string) {
	manager.mu.Lock()
	// A timer that fired just before Close may still reach this point.
	if manager.closed {
		manager.mu.Unlock()
		return
	}
	delete(manager.timers, id)
	removed := manager.removeLocked(id)
	manager.mu.Unlock()

	if removed {
		manager.logger.Debug("sparkle expired", "id", id)
		manager.notify()
	}
}

// trimLocked keeps the newest Capacity events and returns how many were dropped.
func (manager *Manager) trimLocked() int {
	excess := len(manager.active) - manager.config.Capacity
	if excess <= 0 {
		return 0
	}
	for _, event := range manager.active[:excess] {
		if timer, ok := manager.timers[event.ID]; ok {
			timer.Stop()
			delete(manager.timers, event.ID)
		}
	}
	kept := make([]Event, manager.config.Capacity)
	copy(kept, manager.active[excess:])
	manager.active = kept
	return excess
}

func (manager *Manager) removeLocked(id string) bool {
	for i, event := range manager.active {
		if event.ID == id {
			manager.active = append(manager.active[:i:i], manager.active[i+1:]...)
			return true
		}
	}
	return false
}

func (manager *Manager) notify() {
	if manager.onChange != nil {
		manager.onChange()
	}
}

var fallbackSequence atomic.Uint64

// newEventID uses UUIDv7 so ids sort by creation time.
func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%s%d-%d", idPrefix, time.Now().UnixNano(), fallbackSequence.Add(1))
	}
	return idPrefix + id.String()
}
