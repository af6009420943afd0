package geometry

import "math"

const (
	// StartAngle is the 12 o'clock position in the unrotated frame.
	StartAngle = -90.0

	// DefaultMarkerCount is the number of decorative markers on the outer ring.
	DefaultMarkerCount = 8
	// DefaultMarkerOffset is the distance between the arc and the marker ring.
	DefaultMarkerOffset = 4.0
)

// Point is a position in widget coordinates, origin at the top-left corner.
type Point struct {
	X float64
	Y float64
}

// ArcParameters describes how much of the ring is drawn as filled.
type ArcParameters struct {
	Progress      float64
	Radius        float64
	Circumference float64
	FilledOffset  float64
}

// Marker is one decorative point on the outer ring.
type Marker struct {
	Index int
	Angle float64
	Point Point
}

// Arc maps a progress value to arc-length parameters.
// Progress is not clamped; a ring whose stroke is as wide as the widget collapses to zero.
func Arc(progress, size, strokeWidth float64) ArcParameters {
	radius := Radius(size, strokeWidth)
	circumference := 2 * math.Pi * radius
	return ArcParameters{
		Progress:      progress,
		Radius:        radius,
		Circumference: circumference,
		FilledOffset:  circumference * (1 - progress/100),
	}
}

// Radius returns the ring radius, zero for degenerate layouts.
func Radius(size, strokeWidth float64) float64 {
	radius := (size - strokeWidth) / 2
	if radius < 0 || math.IsNaN(radius) {
		return 0
	}
	return radius
}

// FilledLength returns the drawn length of the arc.
func (params ArcParameters) FilledLength() float64 {
	return params.Circumference - params.FilledOffset
}

// Fraction returns the filled share of the ring.
func (params ArcParameters) Fraction() float64 {
	if params.Circumference == 0 {
		return 0
	}
	return params.FilledLength() / params.Circumference
}

// Collapsed reports whether the ring has no drawable radius.
func (params ArcParameters) Collapsed() bool {
	return params.Radius <= 0
}

// SparkleAngle returns the angle in degrees of the arc's leading edge.
func SparkleAngle(progress float64) float64 {
	return progress/100*360 + StartAngle
}

// PointAt places an angle on a circle centred in a square of the given size.
func PointAt(size, radius, angleDeg float64) Point {
	center := size / 2
	radians := angleDeg * math.Pi / 180
	return Point{
		X: center + math.Cos(radians)*radius,
		Y: center + math.Sin(radians)*radius,
	}
}

// Markers returns count evenly spaced markers on a ring just outside the arc.
func Markers(size, strokeWidth float64, count int, offset float64) []Marker {
	if count <= 0 {
		return nil
	}
	ringRadius := Radius(size, strokeWidth) + offset
	markers := make([]Marker, count)
	for i := range markers {
		angle := float64(i) / float64(count) * 360
		markers[i] = Marker{
			Index: i,
			Angle: angle,
			Point: PointAt(size, ringRadius, angle),
		}
	}
	return markers
}

// ArcPath approximates the filled arc with a polyline that starts at 12 o'clock
// and sweeps clockwise. Segments is the resolution of a full turn.
func ArcPath(params ArcParameters, size float64, segments int) []Point {
	if params.Collapsed() || segments <= 0 {
		return nil
	}
	fraction := ClampFraction(params.Fraction())
	if fraction == 0 {
		return nil
	}
	steps := int(math.Ceil(fraction*float64(segments) - 1e-9))
	if steps < 1 {
		steps = 1
	}
	sweep := fraction * 360
	points := make([]Point, steps+1)
	for i := 0; i <= steps; i++ {
		angle := StartAngle + sweep*float64(i)/float64(steps)
		points[i] = PointAt(size, params.Radius, angle)
	}
	return points
}

// ClampProgress limits progress to [0, 100] for rendering.
func ClampProgress(progress float64) float64 {
	if math.IsNaN(progress) || progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// ClampFraction limits a fraction to [0, 1].
func ClampFraction(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
