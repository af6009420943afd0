package term

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wrapped/internal/core/model"
	"wrapped/internal/core/ring"
	"wrapped/internal/core/sparkle"
	"wrapped/internal/core/timekeeper"
	"wrapped/internal/logging"
	"wrapped/internal/ui/animation"

	"github.com/gdamore/tcell/v2"
)

const (
	defaultRows        = 9
	defaultArcSegments = 64
	keyHint            = "space pause · ←/→ slide · q quit"
)

var (
	sparkleBlue  = tcell.NewRGBColor(147, 197, 253)
	defaultStyle = tcell.StyleDefault
)

// Options tunes the terminal view.
type Options struct {
	Rows        int
	ArcSegments int
	Ring        ring.Config
	Motion      animation.Config
	Logger      *logging.Logger
}

// App shows the slideshow driven by a TimeKeeper in a tcell screen. The
// keeper owns the paused flag; the ring only mirrors what the keeper reports.
type App struct {
	screen  tcell.Screen
	keeper  *timekeeper.TimeKeeper
	config  model.DriverConfig
	options Options
	logger  *logging.Logger

	mu         sync.Mutex
	controller *ring.Controller
	last       timekeeper.Event
	started    time.Time
}

// New creates the view. The screen must already be initialised.
func New(screen tcell.Screen, keeper *timekeeper.TimeKeeper, config model.DriverConfig, options Options) *App {
	if options.Rows <= 0 {
		options.Rows = defaultRows
	}
	if options.ArcSegments <= 0 {
		options.ArcSegments = defaultArcSegments
	}
	if options.Ring.Size <= 0 {
		options.Ring = ring.DefaultConfig()
	}
	if options.Motion.FrameInterval <= 0 {
		options.Motion = animation.DefaultConfig()
	}
	logger := options.Logger
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{
		screen:  screen,
		keeper:  keeper,
		config:  config,
		options: options,
		logger:  logger.With("component", "term"),
		started: time.Now(),
	}
	app.last = keeper.Snapshot()
	app.controller = app.newController()
	return app
}

// Run starts the keeper and redraws until ctx ends or the user quits.
func (app *App) Run(ctx context.Context) error {
	events := app.keeper.Subscribe(64)
	app.keeper.Start()
	defer app.keeper.Stop()
	defer app.dispose()

	input := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case input <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(app.options.Motion.FrameInterval)
	defer ticker.Stop()

	app.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			app.Apply(event)
		case ev := <-input:
			if !app.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			app.Draw()
		}
	}
}

// Apply mirrors a keeper event into the ring.
func (app *App) Apply(event timekeeper.Event) {
	app.mu.Lock()
	app.last = event
	if event.Type == timekeeper.EventSlideChange {
		app.controller.Dispose()
		app.controller = app.newController()
		app.logger.Debug("slide changed", "slide", event.Slide+1, "of", event.Slides)
	}
	controller := app.controller
	app.mu.Unlock()

	controller.SetPaused(event.State == timekeeper.StatePaused)
	controller.SetProgress(event.Progress)
}

// HandleEvent reacts to screen input. It returns false when the view should close.
func (app *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return app.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		app.screen.Sync()
		app.Draw()
	}
	return true
}

func (app *App) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight:
		app.keeper.Next()
		return true
	case tcell.KeyLeft:
		app.keeper.Previous()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch r {
	case 'q':
		return false
	case ' ':
		app.currentController().TogglePause()
	case 'n':
		app.keeper.Next()
	case 'p':
		app.keeper.Previous()
	}
	return true
}

// Draw paints the current state.
func (app *App) Draw() {
	app.mu.Lock()
	controller := app.controller
	event := app.last
	app.mu.Unlock()

	snapshot := controller.Snapshot(app.options.ArcSegments)
	frame := app.options.Motion.FrameAt(time.Since(app.started), snapshot.Paused, len(snapshot.Markers))
	grid := Draw(snapshot, frame, app.options.Motion, Layout{Rows: app.options.Rows})

	app.screen.Clear()
	width, _ := app.screen.Size()
	slide := app.slideAt(event.Slide)
	row := 1
	drawText(app.screen, centered(width, slide.Title), row, slide.Title, defaultStyle.Bold(true))
	row++
	drawText(app.screen, centered(width, slide.Subtitle), row, slide.Subtitle, defaultStyle.Dim(true))
	row += 2
	Blit(app.screen, grid, max(0, (width-grid.Width)/2), row)
	row += grid.Height + 1

	counter := fmt.Sprintf("%d / %d", event.Slide+1, app.config.SlideCount())
	if event.State == timekeeper.StateFinished {
		counter += " · done"
	}
	drawText(app.screen, centered(width, counter), row, counter, defaultStyle.Dim(true))
	drawText(app.screen, centered(width, keyHint), row+2, keyHint, defaultStyle.Dim(true))
	app.screen.Show()
}

// Blit copies a grid onto the screen with its top-left corner at x, y.
func Blit(screen tcell.Screen, grid Grid, x, y int) {
	for row := 0; row < grid.Height; row++ {
		for column := 0; column < grid.Width; column++ {
			cell := grid.Cells[row][column]
			screen.SetContent(x+column, y+row, cell.Rune, nil, styleFor(cell))
		}
	}
}

func styleFor(cell Cell) tcell.Style {
	switch cell.Kind {
	case CellTrack:
		return defaultStyle.Foreground(shade(255, 255, 255, cell.Alpha))
	case CellArc:
		return defaultStyle.Foreground(shade(255, 255, 255, cell.Alpha)).Bold(true)
	case CellMarker:
		return defaultStyle.Foreground(shade(255, 255, 255, cell.Alpha))
	case CellSparkle:
		return defaultStyle.Foreground(tcell.ColorWhite).Bold(true)
	case CellSparkleCore:
		return defaultStyle.Foreground(sparkleBlue).Bold(true)
	case CellCaption:
		return defaultStyle.Foreground(shade(255, 255, 255, cell.Alpha))
	default:
		return defaultStyle
	}
}

// shade fades a colour toward black, since terminals have no alpha channel.
func shade(r, g, b int32, alpha float64) tcell.Color {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return tcell.NewRGBColor(int32(float64(r)*alpha), int32(float64(g)*alpha), int32(float64(b)*alpha))
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func centered(width int, text string) int {
	x := (width - len([]rune(text))) / 2
	if x < 0 {
		return 0
	}
	return x
}

func (app *App) slideAt(index int) model.Slide {
	if index >= 0 && index < len(app.config.Slides) {
		return app.config.Slides[index]
	}
	return model.Slide{Title: fmt.Sprintf("Slide %d", index+1)}
}

func (app *App) currentController() *ring.Controller {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.controller
}

func (app *App) newController() *ring.Controller {
	controller := ring.New(app.options.Ring, func() {
		paused := app.keeper.Toggle()
		app.logger.Info("pause toggled", "paused", paused)
	}, ring.WithSparkleOptions(sparkle.WithLogger(app.logger)))
	controller.SetPaused(app.last.State == timekeeper.StatePaused)
	return controller
}

func (app *App) dispose() {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.controller.Dispose()
}
