package model

import "time"

// Slide is one page of the slideshow.
type Slide struct {
	Title    string
	Subtitle string
	// Duration overrides DriverConfig.SlideDuration when positive.
	Duration time.Duration
}

// DriverConfig contains runtime settings for the slide driver.
type DriverConfig struct {
	SlideDuration time.Duration
	Slides        []Slide
	Loop          bool
}

// SlideCount returns the number of slides, at least one.
func (config DriverConfig) SlideCount() int {
	if len(config.Slides) == 0 {
		return 1
	}
	return len(config.Slides)
}

// DurationOf returns how long the slide at index stays on screen.
func (config DriverConfig) DurationOf(index int) time.Duration {
	if index >= 0 && index < len(config.Slides) && config.Slides[index].Duration > 0 {
		return config.Slides[index].Duration
	}
	return config.SlideDuration
}
