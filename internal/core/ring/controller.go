// Package ring holds the toolkit-independent state of the circular progress
// indicator: arc geometry, the sparkle lifecycle and the externally owned
// paused flag. Renderers read Snapshot every cycle and never keep their own copy.
package ring

import (
	"sync"
	"time"

	"wrapped/internal/core/geometry"
	"wrapped/internal/core/sparkle"
)

// PausedCaption is shown under the ring while paused.
const PausedCaption = "Paused"

// Config defines ring layout and sparkle tuning.
type Config struct {
	Size         float64
	StrokeWidth  float64
	Markers      int
	MarkerOffset float64
	Sparkle      sparkle.Config
}

// DefaultConfig returns the reference layout: 48 units wide, 3 unit stroke.
func DefaultConfig() Config {
	return Config{
		Size:         48,
		StrokeWidth:  3,
		Markers:      geometry.DefaultMarkerCount,
		MarkerOffset: geometry.DefaultMarkerOffset,
		Sparkle:      sparkle.DefaultConfig(),
	}
}

func (config Config) normalized() Config {
	defaults := DefaultConfig()
	if config.Size <= 0 {
		config.Size = defaults.Size
	}
	if config.StrokeWidth <= 0 {
		config.StrokeWidth = defaults.StrokeWidth
	}
	if config.Markers < 0 {
		config.Markers = 0
	}
	return config
}

// SparkleGlyph is a live sparkle placed on the ring.
type SparkleGlyph struct {
	sparkle.Event
	Point geometry.Point
	Age   float64
}

// Snapshot is everything a renderer needs for one cycle.
type Snapshot struct {
	Size        float64
	StrokeWidth float64
	Arc         geometry.ArcParameters
	Path        []geometry.Point
	Markers     []geometry.Marker
	Sparkles    []SparkleGlyph
	Paused      bool
	Caption     string
	Lifetime    time.Duration
}

// Controller reflects the owner's progress and paused values and owns the sparkles.
type Controller struct {
	mu            sync.RWMutex
	config        Config
	progress      float64
	paused        bool
	markers       []geometry.Marker
	onTogglePause func()
	sparkles      *sparkle.Manager
	now           func() time.Time
	sparkleOpts   []sparkle.Option
	disposed      bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now for sparkle ages.
func WithClock(now func() time.Time) Option {
	return func(controller *Controller) {
		if now != nil {
			controller.now = now
		}
	}
}

// WithSparkleOptions forwards options to the sparkle manager.
func WithSparkleOptions(options ...sparkle.Option) Option {
	return func(controller *Controller) {
		controller.sparkleOpts = append(controller.sparkleOpts, options...)
	}
}

// New creates a controller.
func New(config Config, onTogglePause func(), options ...Option) *Controller {
	config = config.normalized()
	controller := &Controller{
		config:        config,
		onTogglePause: onTogglePause,
		now:           time.Now,
	}
	for _, option := range options {
		option(controller)
	}
	controller.sparkles = sparkle.New(config.Sparkle, controller.sparkleOpts...)
	controller.config.Sparkle = controller.sparkles.Config()
	controller.markers = geometry.Markers(config.Size, config.StrokeWidth, config.Markers, config.MarkerOffset)
	return controller
}

// Config returns the normalized configuration.
func (controller *Controller) Config() Config {
	controller.mu.RLock()
	defer controller.mu.RUnlock()
	return controller.config
}

// SetProgress records a new progress value and offers it to the sparkle manager.
// It reports whether a sparkle was spawned.
func (controller *Controller) SetProgress(progress float64) bool {
	controller.mu.Lock()
	if controller.disposed {
		controller.mu.Unlock()
		return false
	}
	changed := progress != controller.progress
	controller.progress = progress
	paused := controller.paused
	controller.mu.Unlock()

	if !changed {
		return false
	}
	_, spawned := controller.sparkles.OnProgressChange(progress, paused)
	return spawned
}

// SetPaused reflects the owner's paused flag. Resuming offers the current
// progress to the sparkle manager again, so a sparkle marks where motion restarts.
func (controller *Controller) SetPaused(paused bool) bool {
	controller.mu.Lock()
	if controller.disposed {
		controller.mu.Unlock()
		return false
	}
	resumed := controller.paused && !paused
	controller.paused = paused
	progress := controller.progress
	controller.mu.Unlock()

	if !resumed {
		return false
	}
	_, spawned := controller.sparkles.OnProgressChange(progress, false)
	return spawned
}

// SetOnTogglePause replaces the owner callback.
func (controller *Controller) SetOnTogglePause(handler func()) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.onTogglePause = handler
}

// TogglePause asks the owner to flip the paused flag. The controller's own
// value only changes when the owner calls SetPaused.
func (controller *Controller) TogglePause() {
	controller.mu.RLock()
	handler := controller.onTogglePause
	disposed := controller.disposed
	controller.mu.RUnlock()
	if disposed || handler == nil {
		return
	}
	handler()
}

// Progress returns the last value set by the owner.
func (controller *Controller) Progress() float64 {
	controller.mu.RLock()
	defer controller.mu.RUnlock()
	return controller.progress
}

// Paused returns the last paused value set by the owner.
func (controller *Controller) Paused() bool {
	controller.mu.RLock()
	defer controller.mu.RUnlock()
	return controller.paused
}

// Arc returns the unclamped geometry for the current progress.
func (controller *Controller) Arc() geometry.ArcParameters {
	controller.mu.RLock()
	defer controller.mu.RUnlock()
	return geometry.Arc(controller.progress, controller.config.Size, controller.config.StrokeWidth)
}

// Sparkles exposes the sparkle manager for inspection.
func (controller *Controller) Sparkles() *sparkle.Manager {
	return controller.sparkles
}

// Snapshot derives the render input. Progress is clamped to [0, 100] here so
// renderers never draw outside the ring.
func (controller *Controller) Snapshot(segments int) Snapshot {
	controller.mu.RLock()
	config := controller.config
	progress := controller.progress
	paused := controller.paused
	markers := controller.markers
	controller.mu.RUnlock()

	arc := geometry.Arc(geometry.ClampProgress(progress), config.Size, config.StrokeWidth)
	snapshot := Snapshot{
		Size:        config.Size,
		StrokeWidth: config.StrokeWidth,
		Arc:         arc,
		Path:        geometry.ArcPath(arc, config.Size, segments),
		Paused:      paused,
		Lifetime:    config.Sparkle.Lifetime,
	}
	if paused {
		snapshot.Caption = PausedCaption
	} else {
		snapshot.Markers = append([]geometry.Marker(nil), markers...)
	}

	now := controller.now()
	for _, event := range controller.sparkles.Active() {
		snapshot.Sparkles = append(snapshot.Sparkles, SparkleGlyph{
			Event: event,
			Point: geometry.PointAt(config.Size, arc.Radius, event.Angle),
			Age:   event.Age(now),
		})
	}
	return snapshot
}

// Dispose cancels pending sparkle removals. It is safe to call more than once.
func (controller *Controller) Dispose() {
	controller.mu.Lock()
	if controller.disposed {
		controller.mu.Unlock()
		return
	}
	controller.disposed = true
	controller.mu.Unlock()

	controller.sparkles.Close()
}

// Disposed reports whether Dispose has been called.
func (controller *Controller) Disposed() bool {
	controller.mu.RLock()
	defer controller.mu.RUnlock()
	return controller.disposed
}
