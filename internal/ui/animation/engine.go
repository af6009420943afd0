package animation

import (
	"context"
	"sync"
	"time"
)

// Engine produces motion frames on a fixed interval until stopped.
type Engine struct {
	mu       sync.Mutex
	config   Config
	markers  int
	onFrame  func(Frame)
	isPaused func() bool
	isActive func() bool
	still    bool
	now      func() time.Time
	started  time.Time
	cancel   context.CancelFunc

	resting    bool
	restPaused bool
}

// New creates a new animation engine.
func New(config Config, markers int, onFrame func(Frame)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	return &Engine{
		config:   config,
		markers:  markers,
		onFrame:  onFrame,
		isPaused: func() bool { return false },
		isActive: func() bool { return false },
		now:      time.Now,
	}
}

// SetPausedSource sets the function consulted on every frame.
func (engine *Engine) SetPausedSource(isPaused func() bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if isPaused != nil {
		engine.isPaused = isPaused
	}
}

// SetActiveSource sets the function reporting that something outside the
// decorations still moves, such as live sparkles. While it returns true the
// engine keeps emitting frames even when the decorations are at rest.
func (engine *Engine) SetActiveSource(isActive func() bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if isActive != nil {
		engine.isActive = isActive
	}
}

// SetStill holds the decorations at their first frame.
func (engine *Engine) SetStill(still bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.still = still
}

// Config returns the engine timings.
func (engine *Engine) Config() Config {
	return engine.config
}

// Start begins emitting frames, replacing any loop already running.
func (engine *Engine) Start(ctx context.Context) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	engine.cancel = cancel
	engine.started = engine.now()
	engine.resting = false
	engine.mu.Unlock()

	go engine.run(runCtx)
}

// Stop terminates the frame loop.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

// Running reports whether a frame loop is active.
func (engine *Engine) Running() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.cancel != nil
}

// Current computes the frame for the present moment.
func (engine *Engine) Current() Frame {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.frameLocked(engine.isPaused())
}

func (engine *Engine) run(ctx context.Context) {
	ticker := time.NewTicker(engine.config.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, skip := engine.Next()
			if skip {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			engine.onFrame(frame)
		}
	}
}

// Next skips repeated resting frames so an idle widget is not redrawn
// needlessly. Frames keep coming while the active source reports motion.
func (engine *Engine) Next() (Frame, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	paused := engine.isPaused()
	resting := paused || engine.still
	if resting && engine.resting && engine.restPaused == paused && !engine.isActive() {
		return Frame{}, true
	}
	engine.resting = resting
	engine.restPaused = paused
	return engine.frameLocked(paused), false
}

func (engine *Engine) frameLocked(paused bool) Frame {
	elapsed := time.Duration(0)
	if !engine.started.IsZero() && !engine.still {
		elapsed = engine.now().Sub(engine.started)
	}
	return engine.config.FrameAt(elapsed, paused, engine.markers)
}
