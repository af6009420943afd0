package slideshow

import (
	"fmt"
	"image/color"

	"wrapped/internal/core/model"
	"wrapped/internal/core/ring"
	"wrapped/internal/core/sparkle"
	"wrapped/internal/core/timekeeper"
	"wrapped/internal/logging"
	"wrapped/internal/ui/progress"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// Config defines slideshow visuals.
type Config struct {
	Title    string
	Progress progress.Config
	// Logger receives sparkle lifecycle lines; nil keeps them quiet.
	Logger *logging.Logger
}

// DefaultConfig returns the standard window setup.
func DefaultConfig() Config {
	return Config{
		Title:    "Wrapped",
		Progress: progress.DefaultConfig(),
	}
}

// Callbacks carries the driver actions the window can request.
type Callbacks struct {
	OnTogglePause func()
	OnNext        func()
	OnPrevious    func()
}

// Window shows one slide at a time with the progress ring in the corner.
// All methods must run on the fyne goroutine.
type Window struct {
	app           fyne.App
	window        fyne.Window
	config        Config
	slides        []model.Slide
	callbacks     Callbacks
	background    *canvas.Rectangle
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	counterLabel  *canvas.Text
	corner        *fyne.Container
	progress      *progress.CircularProgress
	last          timekeeper.Event
}

const (
	windowWidth  = float32(640)
	windowHeight = float32(400)
)

var (
	backgroundColor = color.NRGBA{R: 15, G: 23, B: 42, A: 255}
	textColor       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	mutedTextColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 153}
)

// New creates the slideshow window.
func New(app fyne.App, config Config, slides []model.Slide) *Window {
	window := app.NewWindow(config.Title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(backgroundColor)

	titleLabel := canvas.NewText("", textColor)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 28

	subtitleLabel := canvas.NewText("", mutedTextColor)
	subtitleLabel.TextSize = 16

	counterLabel := canvas.NewText("", mutedTextColor)
	counterLabel.TextSize = 12

	slideshow := &Window{
		app:           app,
		window:        window,
		config:        config,
		slides:        slides,
		background:    background,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		counterLabel:  counterLabel,
		corner:        container.NewWithoutLayout(),
	}

	content := container.New(&slideLayout{}, titleLabel, subtitleLabel, counterLabel, slideshow.corner)
	window.SetContent(container.NewStack(background, content))
	window.Canvas().SetOnTypedKey(slideshow.handleKey)
	window.Resize(fyne.NewSize(windowWidth, windowHeight))

	slideshow.mount(timekeeper.Event{Slides: len(slides)})
	return slideshow
}

// SetCallbacks sets the driver actions.
func (slideshow *Window) SetCallbacks(callbacks Callbacks) {
	slideshow.callbacks = callbacks
}

// Show displays the window.
func (slideshow *Window) Show() {
	slideshow.window.Show()
	slideshow.window.RequestFocus()
}

// SetCloseIntercept replaces the default close behaviour.
func (slideshow *Window) SetCloseIntercept(handler func()) {
	slideshow.window.SetCloseIntercept(handler)
}

// Hide hides the window. The progress widget keeps its state.
func (slideshow *Window) Hide() {
	slideshow.window.Hide()
}

// Close disposes the progress widget and closes the window.
func (slideshow *Window) Close() {
	if slideshow.progress != nil {
		slideshow.progress.Dispose()
	}
	slideshow.window.Close()
}

// Progress returns the widget currently mounted in the corner.
func (slideshow *Window) Progress() *progress.CircularProgress {
	return slideshow.progress
}

// Apply mirrors a driver event. A slide change mounts a fresh progress widget
// and disposes the previous one.
func (slideshow *Window) Apply(event timekeeper.Event) {
	slideshow.last = event
	if event.Type == timekeeper.EventSlideChange {
		slideshow.mount(event)
	} else {
		slideshow.progress.SetPaused(event.State == timekeeper.StatePaused)
		slideshow.progress.SetProgress(event.Progress)
	}
	slideshow.updateLabels(event)
}

// UpdateConfig replaces visuals and slides, remounting the progress widget.
func (slideshow *Window) UpdateConfig(config Config, slides []model.Slide) {
	slideshow.config = config
	slideshow.slides = slides
	slideshow.window.SetTitle(config.Title)
	slideshow.mount(slideshow.last)
	slideshow.updateLabels(slideshow.last)
}

func (slideshow *Window) mount(event timekeeper.Event) {
	if slideshow.progress != nil {
		slideshow.progress.Dispose()
	}
	var options []ring.Option
	if slideshow.config.Logger != nil {
		options = append(options, ring.WithSparkleOptions(sparkle.WithLogger(slideshow.config.Logger)))
	}
	slideshow.progress = progress.NewWithConfig(
		slideshow.config.Progress,
		event.Progress,
		event.State == timekeeper.StatePaused,
		slideshow.requestTogglePause,
		options...,
	)
	slideshow.corner.Objects = []fyne.CanvasObject{slideshow.progress}
	slideshow.progress.Resize(slideshow.progress.MinSize())
	slideshow.corner.Refresh()
	slideshow.updateLabels(event)
}

func (slideshow *Window) updateLabels(event timekeeper.Event) {
	slide := slideshow.slideAt(event.Slide)
	slideshow.titleLabel.Text = slide.Title
	slideshow.subtitleLabel.Text = slide.Subtitle

	total := event.Slides
	if total <= 0 {
		total = len(slideshow.slides)
	}
	counter := fmt.Sprintf("%d / %d", event.Slide+1, total)
	if event.State == timekeeper.StateFinished {
		counter += " · done"
	}
	slideshow.counterLabel.Text = counter

	slideshow.titleLabel.Refresh()
	slideshow.subtitleLabel.Refresh()
	slideshow.counterLabel.Refresh()
}

func (slideshow *Window) slideAt(index int) model.Slide {
	if index >= 0 && index < len(slideshow.slides) {
		return slideshow.slides[index]
	}
	return model.Slide{Title: fmt.Sprintf("Slide %d", index+1)}
}

func (slideshow *Window) requestTogglePause() {
	if slideshow.callbacks.OnTogglePause != nil {
		slideshow.callbacks.OnTogglePause()
	}
}

func (slideshow *Window) handleKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeySpace:
		slideshow.progress.TogglePause()
	case fyne.KeyRight:
		if slideshow.callbacks.OnNext != nil {
			slideshow.callbacks.OnNext()
		}
	case fyne.KeyLeft:
		if slideshow.callbacks.OnPrevious != nil {
			slideshow.callbacks.OnPrevious()
		}
	}
}

// slideLayout stacks the texts top-left and pins the last object to the
// bottom-right corner.
type slideLayout struct{}

func (layout *slideLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 4 {
		return
	}
	title := objects[0]
	subtitle := objects[1]
	counter := objects[2]
	corner := objects[3]

	pad := size.Height * 0.08
	availableWidth := size.Width - pad*2
	if availableWidth < 0 {
		availableWidth = 0
	}

	counterSize := counter.MinSize()
	counter.Move(fyne.NewPos(pad, pad))
	counter.Resize(fyne.NewSize(availableWidth, counterSize.Height))

	titleSize := title.MinSize()
	titleY := pad + counterSize.Height + 12
	title.Move(fyne.NewPos(pad, titleY))
	title.Resize(fyne.NewSize(availableWidth, titleSize.Height))

	subtitleSize := subtitle.MinSize()
	subtitle.Move(fyne.NewPos(pad, titleY+titleSize.Height+6))
	subtitle.Resize(fyne.NewSize(availableWidth, subtitleSize.Height))

	cornerSize := cornerMinSize(corner)
	x := size.Width - pad - cornerSize.Width
	y := size.Height - pad - cornerSize.Height
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	corner.Move(fyne.NewPos(x, y))
	corner.Resize(cornerSize)
	if box, ok := corner.(*fyne.Container); ok {
		for _, child := range box.Objects {
			child.Move(fyne.NewPos(0, 0))
			child.Resize(cornerSize)
		}
	}
}

func (layout *slideLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 4 {
		return fyne.NewSize(0, 0)
	}
	titleSize := objects[0].MinSize()
	subtitleSize := objects[1].MinSize()
	counterSize := objects[2].MinSize()
	cornerSize := cornerMinSize(objects[3])

	width := titleSize.Width
	if subtitleSize.Width > width {
		width = subtitleSize.Width
	}
	if counterSize.Width > width {
		width = counterSize.Width
	}
	height := counterSize.Height + titleSize.Height + subtitleSize.Height + cornerSize.Height + 40
	return fyne.NewSize(width+cornerSize.Width+40, height)
}

// cornerMinSize looks through a layout-less container at its children.
func cornerMinSize(object fyne.CanvasObject) fyne.Size {
	box, ok := object.(*fyne.Container)
	if !ok {
		return object.MinSize()
	}
	size := fyne.NewSize(0, 0)
	for _, child := range box.Objects {
		size = size.Max(child.MinSize())
	}
	return size
}
