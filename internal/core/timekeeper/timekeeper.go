package timekeeper

import (
	"sync"
	"time"

	"wrapped/internal/core/model"
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
}

// TimeKeeper drives slide progress from 0 to 100 and owns the paused flag.
type TimeKeeper struct {
	mu            sync.Mutex
	config        model.DriverConfig
	options       Config
	state         State
	previousState State
	slide         int
	elapsed       time.Duration
	events        []chan Event
	stopCh        chan struct{}
	running       bool
	paused        bool
}

// New creates a TimeKeeper with the provided configuration.
func New(config model.DriverConfig, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = 50 * time.Millisecond
	}
	if config.SlideDuration <= 0 {
		config.SlideDuration = 5 * time.Second
	}

	return &TimeKeeper{
		config:        config,
		options:       options,
		state:         StateRunning,
		previousState: StateRunning,
		stopCh:        make(chan struct{}),
	}
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	if keeper.running {
		keeper.mu.Unlock()
		return
	}
	keeper.running = true
	keeper.mu.Unlock()

	keeper.emit(EventSlideChange)

	go keeper.run()
}

// Stop terminates the ticking loop and closes observers.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if !keeper.running {
		keeper.mu.Unlock()
		return
	}
	close(keeper.stopCh)
	keeper.running = false
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Pause freezes progress.
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	if keeper.paused {
		keeper.mu.Unlock()
		return
	}
	keeper.paused = true
	keeper.previousState = keeper.state
	keeper.state = StatePaused
	keeper.emitLocked(keeper.eventLocked(EventStateChange, time.Now()))
	keeper.mu.Unlock()
}

// Resume unfreezes progress.
func (keeper *TimeKeeper) Resume() {
	keeper.mu.Lock()
	if !keeper.paused {
		keeper.mu.Unlock()
		return
	}
	keeper.paused = false
	keeper.state = keeper.previousState
	keeper.emitLocked(keeper.eventLocked(EventStateChange, time.Now()))
	keeper.mu.Unlock()
}

// Toggle flips the paused flag and returns the new value.
func (keeper *TimeKeeper) Toggle() bool {
	if keeper.Paused() {
		keeper.Resume()
		return false
	}
	keeper.Pause()
	return true
}

// Paused reports whether progress is frozen.
func (keeper *TimeKeeper) Paused() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.paused
}

// Snapshot returns the current state as an event without emitting it.
func (keeper *TimeKeeper) Snapshot() Event {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.eventLocked(EventProgress, time.Now())
}

// Next moves to the following slide. On the last slide it wraps only when looping.
func (keeper *TimeKeeper) Next() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	next := keeper.slide + 1
	if next >= keeper.config.SlideCount() {
		if !keeper.config.Loop {
			return
		}
		next = 0
	}
	keeper.jumpLocked(next, time.Now())
}

// Previous moves to the preceding slide, or restarts the first one.
func (keeper *TimeKeeper) Previous() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	previous := keeper.slide - 1
	if previous < 0 {
		previous = 0
	}
	keeper.jumpLocked(previous, time.Now())
}

// UpdateConfig replaces the slide list and restarts the current slide.
func (keeper *TimeKeeper) UpdateConfig(config model.DriverConfig) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if config.SlideDuration <= 0 {
		config.SlideDuration = keeper.config.SlideDuration
	}
	keeper.config = config
	slide := keeper.slide
	if slide >= config.SlideCount() {
		slide = config.SlideCount() - 1
	}
	keeper.jumpLocked(slide, time.Now())
}

func (keeper *TimeKeeper) run() {
	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-keeper.stopCh:
			return
		case tickTime := <-ticker.C:
			keeper.tick(tickTime)
		}
	}
}

func (keeper *TimeKeeper) tick(tickTime time.Time) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.paused || keeper.state == StateFinished {
		return
	}

	keeper.elapsed += keeper.options.TickInterval
	if keeper.elapsed < keeper.config.DurationOf(keeper.slide) {
		keeper.emitLocked(keeper.eventLocked(EventProgress, tickTime))
		return
	}

	next := keeper.slide + 1
	if next < keeper.config.SlideCount() || keeper.config.Loop {
		keeper.jumpLocked(next%keeper.config.SlideCount(), tickTime)
		return
	}

	keeper.elapsed = keeper.config.DurationOf(keeper.slide)
	keeper.state = StateFinished
	keeper.emitLocked(keeper.eventLocked(EventProgress, tickTime))
	keeper.emitLocked(keeper.eventLocked(EventStateChange, tickTime))
}

func (keeper *TimeKeeper) jumpLocked(slide int, now time.Time) {
	keeper.slide = slide
	keeper.elapsed = 0
	if keeper.state == StateFinished {
		keeper.state = StateRunning
		keeper.emitLocked(keeper.eventLocked(EventStateChange, now))
	}
	if keeper.paused {
		keeper.previousState = StateRunning
	}
	keeper.emitLocked(keeper.eventLocked(EventSlideChange, now))
}

func (keeper *TimeKeeper) progressLocked() float64 {
	total := keeper.config.DurationOf(keeper.slide)
	if total <= 0 {
		return 100
	}
	progress := float64(keeper.elapsed) / float64(total) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

func (keeper *TimeKeeper) eventLocked(eventType EventType, at time.Time) Event {
	remaining := keeper.config.DurationOf(keeper.slide) - keeper.elapsed
	if remaining < 0 {
		remaining = 0
	}
	return Event{
		Type:      eventType,
		State:     keeper.state,
		Slide:     keeper.slide,
		Slides:    keeper.config.SlideCount(),
		Progress:  keeper.progressLocked(),
		Remaining: remaining,
		At:        at,
	}
}

func (keeper *TimeKeeper) emit(eventType EventType) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.emitLocked(keeper.eventLocked(eventType, time.Now()))
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	events := append([]chan Event(nil), keeper.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
