package preferences

import (
	"time"

	"wrapped/internal/core/model"
	"wrapped/internal/core/ring"
	"wrapped/internal/core/sparkle"
	"wrapped/internal/ui/progress"
)

// Limits applied when reading settings from the window or from disk.
const (
	MinSize            = 16.0
	MaxSize            = 512.0
	MaxMarkers         = 64
	MaxSparkleCapacity = 16
	MinSparkleLifetime = 50 * time.Millisecond
	MaxSparkleLifetime = 10 * time.Second
	MaxSlideDuration   = 10 * time.Minute
)

// Settings defines editable user preferences.
type Settings struct {
	SlideDuration time.Duration
	Loop          bool

	Size         float64
	StrokeWidth  float64
	Markers      int
	ReduceMotion bool

	SparkleLifetime time.Duration
	SparkleCapacity int

	Slides []model.Slide
}

// DefaultSettings returns default settings for the slideshow.
func DefaultSettings() Settings {
	ringDefaults := ring.DefaultConfig()
	return Settings{
		SlideDuration:   5 * time.Second,
		Size:            ringDefaults.Size,
		StrokeWidth:     ringDefaults.StrokeWidth,
		Markers:         ringDefaults.Markers,
		SparkleLifetime: ringDefaults.Sparkle.Lifetime,
		SparkleCapacity: ringDefaults.Sparkle.Capacity,
		Slides: []model.Slide{
			{Title: "Your year in code", Subtitle: "A look back at everything you shipped"},
			{Title: "Pull requests", Subtitle: "Opened, reviewed and merged"},
			{Title: "Reviews", Subtitle: "The feedback you gave your team"},
			{Title: "Top repositories", Subtitle: "Where you spent most of your time"},
			{Title: "See you next year", Subtitle: "Thanks for building with us"},
		},
	}
}

// ValidSize reports whether a widget size is accepted.
func ValidSize(size float64) bool {
	return size >= MinSize && size <= MaxSize
}

// ValidStrokeWidth reports whether a stroke leaves a drawable ring at size.
func ValidStrokeWidth(strokeWidth, size float64) bool {
	return strokeWidth > 0 && strokeWidth < size/2
}

// ValidSlideDuration reports whether a slide duration is accepted.
func ValidSlideDuration(duration time.Duration) bool {
	return duration > 0 && duration <= MaxSlideDuration
}

// ValidSparkleLifetime reports whether a sparkle lifetime is accepted.
func ValidSparkleLifetime(lifetime time.Duration) bool {
	return lifetime >= MinSparkleLifetime && lifetime <= MaxSparkleLifetime
}

// ValidSparkleCapacity reports whether a sparkle cap is accepted.
func ValidSparkleCapacity(capacity int) bool {
	return capacity >= 1 && capacity <= MaxSparkleCapacity
}

// ValidMarkers reports whether a marker count is accepted.
func ValidMarkers(markers int) bool {
	return markers >= 0 && markers <= MaxMarkers
}

// DriverConfig converts settings to the slide driver configuration.
func (settings Settings) DriverConfig() model.DriverConfig {
	return model.DriverConfig{
		SlideDuration: settings.SlideDuration,
		Slides:        append([]model.Slide(nil), settings.Slides...),
		Loop:          settings.Loop,
	}
}

// RingConfig converts settings to the ring layout.
func (settings Settings) RingConfig() ring.Config {
	config := ring.DefaultConfig()
	config.Size = settings.Size
	config.StrokeWidth = settings.StrokeWidth
	config.Markers = settings.Markers
	config.Sparkle = sparkle.Config{
		Lifetime: settings.SparkleLifetime,
		Capacity: settings.SparkleCapacity,
	}
	return config
}

// ProgressConfig converts settings to the widget configuration.
func (settings Settings) ProgressConfig() progress.Config {
	config := progress.DefaultConfig()
	config.Ring = settings.RingConfig()
	config.Static = settings.ReduceMotion
	return config
}
