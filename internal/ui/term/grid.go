// Package term draws the progress ring in a terminal. Drawing happens on a
// plain cell grid first so layout stays testable without a screen.
package term

import (
	"math"

	"wrapped/internal/core/geometry"
	"wrapped/internal/core/ring"
	"wrapped/internal/ui/animation"
)

// CellKind tells the blitter which style a cell uses.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellTrack
	CellArc
	CellMarker
	CellSparkle
	CellSparkleCore
	CellCaption
)

// Glyphs used for each cell kind.
const (
	TrackRune       = '·'
	ArcRune         = '█'
	MarkerRune      = '+'
	SparkleRune     = '*'
	SparkleCoreRune = '•'
)

// Cell is one terminal character.
type Cell struct {
	Rune rune
	Kind CellKind
	// Alpha is the opacity the blitter applies to the foreground colour.
	Alpha float64
}

// Grid is a rectangle of cells addressed as [row][column].
type Grid struct {
	Width  int
	Height int
	Cells  [][]Cell
}

// NewGrid allocates an empty grid.
func NewGrid(width, height int) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([][]Cell, height)
	for row := range cells {
		cells[row] = make([]Cell, width)
		for column := range cells[row] {
			cells[row][column] = Cell{Rune: ' '}
		}
	}
	return Grid{Width: width, Height: height, Cells: cells}
}

// At returns the cell at column x and row y, or an empty cell when out of range.
func (grid Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= grid.Width || y >= grid.Height {
		return Cell{Rune: ' '}
	}
	return grid.Cells[y][x]
}

// Count returns how many cells have the given kind.
func (grid Grid) Count(kind CellKind) int {
	count := 0
	for _, row := range grid.Cells {
		for _, cell := range row {
			if cell.Kind == kind {
				count++
			}
		}
	}
	return count
}

// Row returns the runes of one row as a string.
func (grid Grid) Row(y int) string {
	if y < 0 || y >= grid.Height {
		return ""
	}
	runes := make([]rune, grid.Width)
	for x, cell := range grid.Cells[y] {
		runes[x] = cell.Rune
	}
	return string(runes)
}

func (grid Grid) set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= grid.Width || y >= grid.Height {
		return
	}
	grid.Cells[y][x] = cell
}

// Layout maps ring units onto terminal cells. Cells are about twice as tall
// as they are wide, so columns advance twice as fast as rows.
type Layout struct {
	Rows int
}

// Columns returns the width of the ring area.
func (layout Layout) Columns() int {
	return layout.Rows * 2
}

// viewport is the square of ring units shown in the grid. It grows past the
// ring size when markers sit outside it.
type viewport struct {
	layout Layout
	center float64
	half   float64
}

func newViewport(layout Layout, snapshot ring.Snapshot) viewport {
	view := viewport{layout: layout, center: snapshot.Size / 2, half: snapshot.Size / 2}
	for _, marker := range snapshot.Markers {
		reach := math.Hypot(marker.Point.X-view.center, marker.Point.Y-view.center) + 1
		if reach > view.half {
			view.half = reach
		}
	}
	return view
}

func (view viewport) cell(point geometry.Point) (int, int) {
	if view.half <= 0 {
		return 0, 0
	}
	span := 2 * view.half
	x := (point.X - view.center + view.half) / span * float64(view.layout.Columns()-1)
	y := (point.Y - view.center + view.half) / span * float64(view.layout.Rows-1)
	return int(math.Round(x)), int(math.Round(y))
}

// Draw renders one snapshot. The grid holds the ring area plus one caption row.
func Draw(snapshot ring.Snapshot, frame animation.Frame, motion animation.Config, layout Layout) Grid {
	if layout.Rows < 3 {
		layout.Rows = 3
	}
	grid := NewGrid(layout.Columns(), layout.Rows+1)
	if snapshot.Arc.Collapsed() {
		drawCaption(grid, snapshot.Caption)
		return grid
	}
	view := newViewport(layout, snapshot)

	// Track first, then the arc over it, so arc cells win where both land.
	trackSteps := layout.Columns() * 4
	for i := 0; i < trackSteps; i++ {
		angle := geometry.StartAngle + 360*float64(i)/float64(trackSteps)
		x, y := view.cell(geometry.PointAt(snapshot.Size, snapshot.Arc.Radius, angle))
		grid.set(x, y, Cell{Rune: TrackRune, Kind: CellTrack, Alpha: 0.2 + frame.RingOpacity})
	}

	for i := 1; i < len(snapshot.Path); i++ {
		from, to := snapshot.Path[i-1], snapshot.Path[i]
		for step := 0; step <= 4; step++ {
			t := float64(step) / 4
			x, y := view.cell(geometry.Point{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t})
			grid.set(x, y, Cell{Rune: ArcRune, Kind: CellArc, Alpha: frame.ArcOpacity})
		}
	}

	for i, marker := range snapshot.Markers {
		opacity := 0.6
		if i < len(frame.Markers) {
			opacity = frame.Markers[i].Opacity
		}
		x, y := view.cell(marker.Point)
		grid.set(x, y, Cell{Rune: MarkerRune, Kind: CellMarker, Alpha: opacity})
	}

	for _, glyph := range snapshot.Sparkles {
		outer, inner := motion.SparkleGlyphs(glyph.Age, snapshot.Lifetime)
		x, y := view.cell(glyph.Point)
		// The core circle has half the outer radius.
		if inner.Scale*inner.Opacity/2 > outer.Scale*outer.Opacity {
			grid.set(x, y, Cell{Rune: SparkleCoreRune, Kind: CellSparkleCore, Alpha: inner.Opacity})
			continue
		}
		grid.set(x, y, Cell{Rune: SparkleRune, Kind: CellSparkle, Alpha: math.Max(outer.Opacity, 0.3)})
	}

	drawCaption(grid, snapshot.Caption)
	return grid
}

func drawCaption(grid Grid, caption string) {
	if caption == "" || grid.Height == 0 {
		return
	}
	runes := []rune(caption)
	start := (grid.Width - len(runes)) / 2
	if start < 0 {
		start = 0
	}
	for i, r := range runes {
		grid.set(start+i, grid.Height-1, Cell{Rune: r, Kind: CellCaption, Alpha: 0.6})
	}
}
