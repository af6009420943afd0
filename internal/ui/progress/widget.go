package progress

import (
	"context"
	"sync"

	"wrapped/internal/core/ring"
	"wrapped/internal/core/sparkle"
	"wrapped/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Config defines the widget layout, sparkle tuning and motion timings.
type Config struct {
	Ring   ring.Config
	Motion animation.Config
	// ArcSegments is the polyline resolution of a full turn.
	ArcSegments int
	// Static holds the decorations still. Live sparkles still play out.
	Static bool
}

// DefaultConfig returns a 48x48 widget with a 3 unit stroke.
func DefaultConfig() Config {
	return Config{
		Ring:        ring.DefaultConfig(),
		Motion:      animation.DefaultConfig(),
		ArcSegments: 96,
	}
}

// CircularProgress shows slide progress as a ring with sparkles at its leading
// edge. The paused flag belongs to the owner: tapping the widget only calls
// OnTogglePause, and the owner answers with SetPaused.
type CircularProgress struct {
	widget.BaseWidget

	config     Config
	controller *ring.Controller
	engine     *animation.Engine

	mu       sync.RWMutex
	frame    animation.Frame
	hovered  bool
	disposed bool
}

var (
	_ fyne.Tappable     = (*CircularProgress)(nil)
	_ desktop.Hoverable = (*CircularProgress)(nil)
)

// New creates a widget with the default layout.
func New(progress float64, paused bool, onTogglePause func()) *CircularProgress {
	return NewWithConfig(DefaultConfig(), progress, paused, onTogglePause)
}

// NewWithConfig creates a widget. Options are forwarded to the ring controller.
func NewWithConfig(config Config, progress float64, paused bool, onTogglePause func(), options ...ring.Option) *CircularProgress {
	if config.ArcSegments <= 0 {
		config.ArcSegments = DefaultConfig().ArcSegments
	}

	progressWidget := &CircularProgress{config: config}
	options = append(options, ring.WithSparkleOptions(sparkleRefresh(progressWidget)))
	progressWidget.controller = ring.New(config.Ring, onTogglePause, options...)
	progressWidget.controller.SetPaused(paused)
	progressWidget.controller.SetProgress(progress)

	progressWidget.engine = animation.New(config.Motion, progressWidget.controller.Config().Markers, progressWidget.setFrame)
	progressWidget.engine.SetPausedSource(progressWidget.controller.Paused)
	progressWidget.engine.SetActiveSource(progressWidget.hasSparkles)
	progressWidget.engine.SetStill(config.Static)
	progressWidget.frame = progressWidget.engine.Current()

	progressWidget.ExtendBaseWidget(progressWidget)
	return progressWidget
}

// SetProgress updates the ring and may spawn a sparkle.
func (progressWidget *CircularProgress) SetProgress(progress float64) {
	progressWidget.controller.SetProgress(progress)
	progressWidget.Refresh()
}

// SetPaused reflects the owner's paused flag.
func (progressWidget *CircularProgress) SetPaused(paused bool) {
	progressWidget.controller.SetPaused(paused)
	if paused {
		progressWidget.setFrameUnsafe(progressWidget.config.Motion.Rest(progressWidget.controller.Config().Markers))
	}
	progressWidget.Refresh()
}

// SetOnTogglePause replaces the owner callback.
func (progressWidget *CircularProgress) SetOnTogglePause(handler func()) {
	progressWidget.controller.SetOnTogglePause(handler)
}

// TogglePause requests a pause flip from the owner.
func (progressWidget *CircularProgress) TogglePause() {
	progressWidget.controller.TogglePause()
}

// Progress returns the last progress value.
func (progressWidget *CircularProgress) Progress() float64 {
	return progressWidget.controller.Progress()
}

// Paused returns the last paused value pushed by the owner.
func (progressWidget *CircularProgress) Paused() bool {
	return progressWidget.controller.Paused()
}

// Snapshot returns the current render input.
func (progressWidget *CircularProgress) Snapshot() ring.Snapshot {
	return progressWidget.controller.Snapshot(progressWidget.config.ArcSegments)
}

// Controller exposes the toolkit-independent state.
func (progressWidget *CircularProgress) Controller() *ring.Controller {
	return progressWidget.controller
}

// Frame returns the latest motion frame.
func (progressWidget *CircularProgress) Frame() animation.Frame {
	progressWidget.mu.RLock()
	defer progressWidget.mu.RUnlock()
	return progressWidget.frame
}

// Hovered reports whether the pointer is over the widget.
func (progressWidget *CircularProgress) Hovered() bool {
	progressWidget.mu.RLock()
	defer progressWidget.mu.RUnlock()
	return progressWidget.hovered
}

// Animating reports whether the motion engine is running.
func (progressWidget *CircularProgress) Animating() bool {
	return progressWidget.engine.Running()
}

// Dispose stops the motion engine and cancels every pending sparkle removal.
// Owners call it when the widget leaves the screen for good.
func (progressWidget *CircularProgress) Dispose() {
	progressWidget.mu.Lock()
	if progressWidget.disposed {
		progressWidget.mu.Unlock()
		return
	}
	progressWidget.disposed = true
	progressWidget.mu.Unlock()

	progressWidget.stopMotion()
	progressWidget.controller.Dispose()
}

// Disposed reports whether Dispose has been called.
func (progressWidget *CircularProgress) Disposed() bool {
	progressWidget.mu.RLock()
	defer progressWidget.mu.RUnlock()
	return progressWidget.disposed
}

// Tapped implements fyne.Tappable.
func (progressWidget *CircularProgress) Tapped(*fyne.PointEvent) {
	progressWidget.TogglePause()
}

// MouseIn implements desktop.Hoverable.
func (progressWidget *CircularProgress) MouseIn(*desktop.MouseEvent) {
	progressWidget.setHovered(true)
}

// MouseMoved implements desktop.Hoverable.
func (progressWidget *CircularProgress) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (progressWidget *CircularProgress) MouseOut() {
	progressWidget.setHovered(false)
}

// Cursor implements desktop.Cursorable.
func (progressWidget *CircularProgress) Cursor() desktop.Cursor {
	return desktop.PointerCursor
}

// CreateRenderer implements fyne.Widget.
func (progressWidget *CircularProgress) CreateRenderer() fyne.WidgetRenderer {
	progressWidget.ExtendBaseWidget(progressWidget)
	progressWidget.startMotion()
	return newRenderer(progressWidget)
}

func (progressWidget *CircularProgress) setHovered(hovered bool) {
	progressWidget.mu.Lock()
	progressWidget.hovered = hovered
	progressWidget.mu.Unlock()
	progressWidget.Refresh()
}

func (progressWidget *CircularProgress) setFrame(frame animation.Frame) {
	fyne.Do(func() {
		progressWidget.setFrameUnsafe(frame)
		progressWidget.Refresh()
	})
}

func (progressWidget *CircularProgress) setFrameUnsafe(frame animation.Frame) {
	progressWidget.mu.Lock()
	progressWidget.frame = frame
	progressWidget.mu.Unlock()
}

func (progressWidget *CircularProgress) hasSparkles() bool {
	return progressWidget.controller.Sparkles().Len() > 0
}

func sparkleRefresh(progressWidget *CircularProgress) sparkle.Option {
	return sparkle.WithOnChange(func() {
		fyne.Do(progressWidget.Refresh)
	})
}

func (progressWidget *CircularProgress) startMotion() {
	if progressWidget.Disposed() || progressWidget.engine.Running() {
		return
	}
	progressWidget.engine.Start(context.Background())
}

func (progressWidget *CircularProgress) stopMotion() {
	progressWidget.engine.Stop()
}
