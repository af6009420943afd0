package timekeeper

import "time"

// State represents the current driver mode.
type State string

const (
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateFinished State = "finished"
)

// EventType defines the type of driver event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventSlideChange EventType = "slide_change"
	EventProgress    EventType = "progress"
)

// Event represents a driver update for observers.
// Progress is in [0, 100] for the current slide.
type Event struct {
	Type      EventType
	State     State
	Slide     int
	Slides    int
	Progress  float64
	Remaining time.Duration
	At        time.Time
}
