package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	onCancel func()

	slideDuration   *widget.Entry
	size            *widget.Entry
	strokeWidth     *widget.Entry
	markers         *widget.Entry
	sparkleLifetime *widget.Entry
	sparkleCapacity *widget.Entry
	loop            *widget.Check
	reduceMotion    *widget.Check
	saveButton      *widget.Button
	cancelButton    *widget.Button
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Wrapped Settings")

	prefs := &Window{
		window:          window,
		onSave:          onSave,
		slideDuration:   widget.NewEntry(),
		size:            widget.NewEntry(),
		strokeWidth:     widget.NewEntry(),
		markers:         widget.NewEntry(),
		sparkleLifetime: widget.NewEntry(),
		sparkleCapacity: widget.NewEntry(),
		loop:            widget.NewCheck("Loop slides", nil),
		reduceMotion:    widget.NewCheck("Reduce motion", nil),
	}
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Slides", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Each slide lasts"), prefs.slideDuration, widget.NewLabel("sec")),
		prefs.loop,
		widget.NewLabelWithStyle("Progress ring", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Size"), prefs.size, widget.NewLabel("px")),
		container.NewHBox(widget.NewLabel("Stroke width"), prefs.strokeWidth, widget.NewLabel("px")),
		container.NewHBox(widget.NewLabel("Markers"), prefs.markers),
		container.NewHBox(widget.NewLabel("Sparkle lifetime"), prefs.sparkleLifetime, widget.NewLabel("ms")),
		container.NewHBox(widget.NewLabel("Sparkles at once"), prefs.sparkleCapacity),
		prefs.reduceMotion,
	)

	prefs.saveButton = widget.NewButton("Save", prefs.handleSave)
	prefs.cancelButton = widget.NewButton("Cancel", func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	})
	buttons := container.NewHBox(prefs.saveButton, layout.NewSpacer(), prefs.cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 460))
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel sets the handler called when editing is abandoned.
func (prefs *Window) SetOnCancel(handler func()) {
	prefs.onCancel = handler
}

// Settings returns the last saved values.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.slideDuration.SetText(strconv.FormatFloat(settings.SlideDuration.Seconds(), 'f', -1, 64))
	prefs.size.SetText(strconv.FormatFloat(settings.Size, 'f', -1, 64))
	prefs.strokeWidth.SetText(strconv.FormatFloat(settings.StrokeWidth, 'f', -1, 64))
	prefs.markers.SetText(fmt.Sprintf("%d", settings.Markers))
	prefs.sparkleLifetime.SetText(fmt.Sprintf("%d", settings.SparkleLifetime.Milliseconds()))
	prefs.sparkleCapacity.SetText(fmt.Sprintf("%d", settings.SparkleCapacity))
	prefs.loop.SetChecked(settings.Loop)
	prefs.reduceMotion.SetChecked(settings.ReduceMotion)
}

// handleSave keeps the previous value of every field that does not parse or
// falls outside its limits.
func (prefs *Window) handleSave() {
	settings := prefs.settings

	if seconds, ok := parsePositiveFloat(prefs.slideDuration.Text); ok {
		if duration := time.Duration(seconds * float64(time.Second)); ValidSlideDuration(duration) {
			settings.SlideDuration = duration
		}
	}
	if size, ok := parsePositiveFloat(prefs.size.Text); ok && ValidSize(size) {
		settings.Size = size
	}
	if strokeWidth, ok := parsePositiveFloat(prefs.strokeWidth.Text); ok && ValidStrokeWidth(strokeWidth, settings.Size) {
		settings.StrokeWidth = strokeWidth
	}
	if markers, err := strconv.Atoi(prefs.markers.Text); err == nil && ValidMarkers(markers) {
		settings.Markers = markers
	}
	if milliseconds, ok := parsePositiveInt(prefs.sparkleLifetime.Text); ok {
		if lifetime := time.Duration(milliseconds) * time.Millisecond; ValidSparkleLifetime(lifetime) {
			settings.SparkleLifetime = lifetime
		}
	}
	if capacity, ok := parsePositiveInt(prefs.sparkleCapacity.Text); ok && ValidSparkleCapacity(capacity) {
		settings.SparkleCapacity = capacity
	}
	settings.Loop = prefs.loop.Checked
	settings.ReduceMotion = prefs.reduceMotion.Checked

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func parsePositiveFloat(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
