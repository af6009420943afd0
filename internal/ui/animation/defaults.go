package animation

import "time"

// DefaultConfig returns the reference motion timings.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 33 * time.Millisecond,

		GlowTurn:  3 * time.Second,
		GlowPulse: 1500 * time.Millisecond,
		GlowScale: Span{From: 1, To: 1.3},
		GlowAlpha: Span{From: 0.3, To: 0.7},

		MarkerShimmer: 2 * time.Second,
		MarkerStagger: 200 * time.Millisecond,
		MarkerAlpha:   Span{From: 0.3, To: 0.8},
		MarkerScale:   Span{From: 0.8, To: 1.2},

		RingPulse:  2 * time.Second,
		RingStroke: Span{From: 0, To: 1.5},
		RingAlpha:  Span{From: 0.2, To: 0.4},

		ArcFlicker:     time.Second,
		ArcAlpha:       Span{From: 0.9, To: 1},
		ArcBreath:      1500 * time.Millisecond,
		ArcStroke:      Span{From: 0, To: 0.5},
		PausedArcAlpha: 0.5,

		InnerSparkleDelay: 100 * time.Millisecond,
	}
}
