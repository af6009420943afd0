package progress

import (
	"image/color"
	"math"

	"wrapped/internal/core/geometry"
	"wrapped/internal/core/ring"
	"wrapped/internal/ui/animation"
	"wrapped/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

const (
	captionGap      = float32(6)
	captionTextSize = float32(11)
	markerRadius    = 1.5
	outerSparkleR   = 2.0
	innerSparkleR   = 1.0
	glowOrbitRadius = 2.0
	iconShare       = float32(0.34)
)

var (
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	sparkleBlue = color.NRGBA{R: 147, G: 197, B: 253, A: 255}
	overlayTint = color.NRGBA{R: 0, G: 0, B: 0, A: 102}
	captionTint = color.NRGBA{R: 255, G: 255, B: 255, A: 153}
)

type renderer struct {
	progress *CircularProgress

	glow       *canvas.Circle
	orbit      *canvas.Circle
	background *canvas.Circle
	arc        []*canvas.Line
	markers    []*canvas.Circle
	sparkles   [][2]*canvas.Circle
	overlay    *canvas.Circle
	icon       *canvas.Image
	caption    *canvas.Text

	objects []fyne.CanvasObject
	size    fyne.Size
}

func newRenderer(progressWidget *CircularProgress) *renderer {
	config := progressWidget.controller.Config()

	r := &renderer{
		progress:   progressWidget,
		glow:       canvas.NewCircle(color.Transparent),
		orbit:      canvas.NewCircle(color.Transparent),
		background: canvas.NewCircle(color.Transparent),
		overlay:    canvas.NewCircle(overlayTint),
		icon:       canvas.NewImageFromResource(resources.ToggleIcon(progressWidget.Paused())),
		caption:    canvas.NewText(ring.PausedCaption, captionTint),
	}
	r.icon.FillMode = canvas.ImageFillContain
	r.caption.Alignment = fyne.TextAlignCenter
	r.caption.TextSize = captionTextSize

	r.objects = append(r.objects, r.glow, r.orbit)
	for i := 0; i < config.Markers; i++ {
		marker := canvas.NewCircle(white)
		r.markers = append(r.markers, marker)
		r.objects = append(r.objects, marker)
	}
	r.objects = append(r.objects, r.background)
	for i := 0; i < progressWidget.config.ArcSegments; i++ {
		line := canvas.NewLine(white)
		line.Hide()
		r.arc = append(r.arc, line)
		r.objects = append(r.objects, line)
	}
	for i := 0; i < config.Sparkle.Capacity; i++ {
		pair := [2]*canvas.Circle{canvas.NewCircle(white), canvas.NewCircle(sparkleBlue)}
		pair[0].Hide()
		pair[1].Hide()
		r.sparkles = append(r.sparkles, pair)
		r.objects = append(r.objects, pair[0], pair[1])
	}
	r.objects = append(r.objects, r.overlay, r.icon, r.caption)
	return r
}

func (r *renderer) Destroy() {
	// Renderers can be rebuilt from cache; only motion stops here.
	r.progress.stopMotion()
}

func (r *renderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *renderer) MinSize() fyne.Size {
	side := float32(r.progress.controller.Config().Size)
	return fyne.NewSize(side, side+captionGap+r.caption.MinSize().Height)
}

func (r *renderer) Layout(size fyne.Size) {
	r.size = size
	r.Refresh()
}

func (r *renderer) Refresh() {
	snapshot := r.progress.Snapshot()
	frame := r.progress.Frame()

	side := r.size.Width
	if captionRoom := r.size.Height - captionGap - r.caption.MinSize().Height; captionRoom < side {
		side = captionRoom
	}
	if side < 0 {
		side = 0
	}
	scale := float32(0)
	if snapshot.Size > 0 {
		scale = side / float32(snapshot.Size)
	}
	origin := fyne.NewPos((r.size.Width-side)/2, 0)
	toPos := func(point geometry.Point) fyne.Position {
		return fyne.NewPos(origin.X+float32(point.X)*scale, origin.Y+float32(point.Y)*scale)
	}
	center := geometry.Point{X: snapshot.Size / 2, Y: snapshot.Size / 2}

	// Pulsing glow and the highlight orbiting with the rotating glow.
	glowRadius := snapshot.Size / 2 * frame.Glow.Scale
	placeCircle(r.glow, toPos(center), float32(glowRadius)*scale)
	r.glow.FillColor = withAlpha(white, 0.2*frame.Glow.Opacity)
	orbit := geometry.PointAt(snapshot.Size, snapshot.Size/2, frame.GlowRotation+geometry.StartAngle)
	placeCircle(r.orbit, toPos(orbit), float32(glowOrbitRadius)*scale)
	r.orbit.FillColor = withAlpha(white, 0.3*boolToAlpha(!snapshot.Paused))

	r.layoutMarkers(snapshot, frame.Markers, toPos, scale)

	strokeWidth := float32(snapshot.StrokeWidth) * scale
	placeCircle(r.background, toPos(center), float32(snapshot.Arc.Radius)*scale)
	r.background.StrokeColor = withAlpha(white, frame.RingOpacity)
	r.background.StrokeWidth = strokeWidth + float32(frame.RingStroke)*scale
	if snapshot.Arc.Collapsed() {
		r.background.Hide()
	} else {
		r.background.Show()
	}

	r.layoutArc(snapshot, frame.ArcOpacity, strokeWidth+float32(frame.ArcStroke)*scale, toPos)
	r.layoutSparkles(snapshot, toPos, scale)

	iconSide := side * iconShare
	r.icon.Resource = resources.ToggleIcon(snapshot.Paused)
	r.icon.Resize(fyne.NewSize(iconSide, iconSide))
	r.icon.Move(fyne.NewPos(origin.X+(side-iconSide)/2, origin.Y+(side-iconSide)/2))
	placeCircle(r.overlay, toPos(center), side/2)
	if r.progress.Hovered() {
		r.overlay.Show()
		r.icon.Show()
	} else {
		r.overlay.Hide()
		r.icon.Hide()
	}

	captionSize := r.caption.MinSize()
	r.caption.Text = snapshot.Caption
	r.caption.Move(fyne.NewPos(0, side+captionGap))
	r.caption.Resize(fyne.NewSize(r.size.Width, captionSize.Height))
	if snapshot.Caption == "" {
		r.caption.Hide()
	} else {
		r.caption.Show()
	}

	for _, object := range r.objects {
		canvas.Refresh(object)
	}
}

func (r *renderer) layoutMarkers(snapshot ring.Snapshot, pulses []animation.Pulse, toPos func(geometry.Point) fyne.Position, scale float32) {
	for i, marker := range r.markers {
		if i >= len(snapshot.Markers) {
			marker.Hide()
			continue
		}
		pulse := animation.Pulse{Scale: 1, Opacity: 0.6}
		if i < len(pulses) {
			pulse = pulses[i]
		}
		placeCircle(marker, toPos(snapshot.Markers[i].Point), float32(markerRadius*pulse.Scale)*scale)
		marker.FillColor = withAlpha(white, pulse.Opacity)
		marker.Show()
	}
}

func (r *renderer) layoutArc(snapshot ring.Snapshot, opacity float64, strokeWidth float32, toPos func(geometry.Point) fyne.Position) {
	lineColor := withAlpha(white, opacity)
	segments := len(snapshot.Path) - 1
	for i, line := range r.arc {
		if i >= segments {
			line.Hide()
			continue
		}
		// Sweep the stroke colour from white to blue and back along the arc.
		line.StrokeColor = blend(lineColor, withAlpha(sparkleBlue, opacity), math.Sin(math.Pi*float64(i)/float64(len(r.arc))))
		line.StrokeWidth = strokeWidth
		line.Position1 = toPos(snapshot.Path[i])
		line.Position2 = toPos(snapshot.Path[i+1])
		line.Show()
	}
}

func (r *renderer) layoutSparkles(snapshot ring.Snapshot, toPos func(geometry.Point) fyne.Position, scale float32) {
	motion := r.progress.config.Motion
	for i, pair := range r.sparkles {
		if i >= len(snapshot.Sparkles) {
			pair[0].Hide()
			pair[1].Hide()
			continue
		}
		glyph := snapshot.Sparkles[i]
		outer, inner := motion.SparkleGlyphs(glyph.Age, snapshot.Lifetime)
		position := toPos(glyph.Point)

		placeCircle(pair[0], position, float32(outerSparkleR*outer.Scale)*scale)
		pair[0].FillColor = withAlpha(white, outer.Opacity)
		placeCircle(pair[1], position, float32(innerSparkleR*inner.Scale)*scale)
		pair[1].FillColor = withAlpha(sparkleBlue, inner.Opacity)
		pair[0].Show()
		pair[1].Show()
	}
}

func placeCircle(circle *canvas.Circle, center fyne.Position, radius float32) {
	if radius < 0 {
		radius = 0
	}
	circle.Move(fyne.NewPos(center.X-radius, center.Y-radius))
	circle.Resize(fyne.NewSize(radius*2, radius*2))
}

func withAlpha(base color.NRGBA, opacity float64) color.NRGBA {
	base.A = uint8(math.Round(255 * geometry.ClampFraction(opacity)))
	return base
}

func blend(from, to color.NRGBA, amount float64) color.NRGBA {
	amount = geometry.ClampFraction(amount)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*amount))
	}
	return color.NRGBA{R: mix(from.R, to.R), G: mix(from.G, to.G), B: mix(from.B, to.B), A: mix(from.A, to.A)}
}

func boolToAlpha(visible bool) float64 {
	if visible {
		return 1
	}
	return 0
}
