package animation

import (
	"math"
	"time"
)

// Span is a value range that a looping animation oscillates across.
type Span struct {
	From float64
	To   float64
}

// At interpolates the span at t in [0, 1].
func (span Span) At(t float64) float64 {
	return span.From + (span.To-span.From)*t
}

// Config contains motion timing values.
type Config struct {
	FrameInterval time.Duration

	GlowTurn  time.Duration
	GlowPulse time.Duration
	GlowScale Span
	GlowAlpha Span

	MarkerShimmer time.Duration
	MarkerStagger time.Duration
	MarkerAlpha   Span
	MarkerScale   Span

	RingPulse  time.Duration
	RingStroke Span
	RingAlpha  Span

	ArcFlicker     time.Duration
	ArcAlpha       Span
	ArcBreath      time.Duration
	ArcStroke      Span
	PausedArcAlpha float64

	InnerSparkleDelay time.Duration
}

// Pulse is one looping scale/opacity pair.
type Pulse struct {
	Scale   float64
	Opacity float64
}

// Frame holds every time-dependent decoration value for one render cycle.
// Stroke values are additions to the configured stroke width.
type Frame struct {
	GlowRotation float64
	Glow         Pulse
	Markers      []Pulse
	RingStroke   float64
	RingOpacity  float64
	ArcOpacity   float64
	ArcStroke    float64
}

// Glyph is the envelope of one sparkle circle at a point in its life.
type Glyph struct {
	Scale   float64
	Opacity float64
}

// Rest returns the frame shown while paused.
func (config Config) Rest(markers int) Frame {
	frame := Frame{
		Glow:        Pulse{Scale: 1, Opacity: 0},
		RingOpacity: config.RingAlpha.From,
		ArcOpacity:  config.PausedArcAlpha,
	}
	if markers > 0 {
		frame.Markers = make([]Pulse, markers)
		for i := range frame.Markers {
			frame.Markers[i] = Pulse{Scale: 1, Opacity: config.MarkerAlpha.From}
		}
	}
	return frame
}

// FrameAt computes the decoration values elapsed into the animation.
// A paused widget always renders the rest frame.
func (config Config) FrameAt(elapsed time.Duration, paused bool, markers int) Frame {
	if paused {
		return config.Rest(markers)
	}

	frame := Frame{
		GlowRotation: 360 * phase(elapsed, config.GlowTurn),
		Glow: Pulse{
			Scale:   config.GlowScale.At(wave(elapsed, config.GlowPulse)),
			Opacity: config.GlowAlpha.At(wave(elapsed, config.GlowPulse)),
		},
		RingStroke:  config.RingStroke.At(wave(elapsed, config.RingPulse)),
		RingOpacity: config.RingAlpha.At(wave(elapsed, config.RingPulse)),
		ArcOpacity:  config.ArcAlpha.At(wave(elapsed, config.ArcFlicker)),
		ArcStroke:   config.ArcStroke.At(wave(elapsed, config.ArcBreath)),
	}
	if markers > 0 {
		frame.Markers = make([]Pulse, markers)
		for i := range frame.Markers {
			local := elapsed - time.Duration(i)*config.MarkerStagger
			if local < 0 {
				frame.Markers[i] = Pulse{Scale: config.MarkerScale.From, Opacity: config.MarkerAlpha.From}
				continue
			}
			t := wave(local, config.MarkerShimmer)
			frame.Markers[i] = Pulse{
				Scale:   config.MarkerScale.At(t),
				Opacity: config.MarkerAlpha.At(t),
			}
		}
	}
	return frame
}

// SparkleGlyphs returns the outer and inner circle envelopes for a sparkle
// that has lived age (0..1) of its lifetime.
func (config Config) SparkleGlyphs(age float64, lifetime time.Duration) (Glyph, Glyph) {
	t := easeOut(clamp01(age))
	outer := Glyph{
		Scale:   keyframes(t, 0, 2, 0),
		Opacity: keyframes(t, 1, 0.5, 0),
	}

	inner := Glyph{Scale: 0, Opacity: 1}
	if lifetime > 0 {
		delay := float64(config.InnerSparkleDelay) / float64(lifetime)
		local := (clamp01(age) - delay) / (1 - delay)
		if delay < 1 && local > 0 {
			u := easeOut(clamp01(local))
			inner = Glyph{
				Scale:   keyframes(u, 0, 1.5, 0),
				Opacity: keyframes(u, 1, 0, 0),
			}
		}
	}
	return outer, inner
}

// phase returns the position within a repeating period in [0, 1).
func phase(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	return float64(elapsed%period) / float64(period)
}

// wave maps a period onto 0 -> 1 -> 0 with eased ends.
func wave(elapsed, period time.Duration) float64 {
	return (1 - math.Cos(2*math.Pi*phase(elapsed, period))) / 2
}

// keyframes interpolates evenly spaced values at t in [0, 1].
func keyframes(t float64, values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) == 1 || t <= 0 {
		return values[0]
	}
	if t >= 1 {
		return values[len(values)-1]
	}
	position := t * float64(len(values)-1)
	index := int(position)
	local := position - float64(index)
	return values[index] + (values[index+1]-values[index])*local
}

func easeOut(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func clamp01(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
