// Package hex draws a hex map: a Grid of atlas tiles and the tokens standing
// on it, each as instanced draws over a shared unit quad.
package hex

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Orientation uint8

const (
	// PointUp hexes have a vertex at the top; rows are staggered.
	PointUp Orientation = iota
	// FlatUp hexes have an edge at the top; columns are staggered.
	FlatUp
)

func (o Orientation) String() string {
	if o == FlatUp {
		return "flat-up"
	}
	return "point-up"
}

// ParseOrientation accepts "point-up"/"pointy" and "flat-up"/"flat".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "point-up", "pointy", "point":
		return PointUp, nil
	case "flat-up", "flat":
		return FlatUp, nil
	}
	return PointUp, fmt.Errorf("hex: unknown orientation %q", s)
}

// Coord addresses a cell by column and row.
type Coord struct {
	Col, Row int
}

var sqrt3 = float32(math.Sqrt(3))

// Layout maps cells to world space. TileSize is the side of the square each
// hex is drawn into and equals the point-to-point height of the hex, twice
// its circumradius.
//
// For PointUp, cells in one row are StepX apart, rows are StepY apart, and
// even rows shift left by StepX/2. FlatUp is the same layout with the axes
// swapped.
type Layout struct {
	Orientation Orientation
	TileSize    float32
}

func NewLayout(o Orientation, tileSize float32) Layout {
	return Layout{Orientation: o, TileSize: tileSize}
}

// across is the flat-to-flat width, the spacing between neighbours.
func (l Layout) across() float32 { return l.TileSize * sqrt3 / 2 }

// along is the spacing between staggered lines.
func (l Layout) along() float32 { return l.TileSize * 3 / 4 }

// StepX returns the horizontal distance between neighbouring cells.
func (l Layout) StepX() float32 {
	if l.Orientation == FlatUp {
		return l.along()
	}
	return l.across()
}

// StepY returns the vertical distance between neighbouring cells.
func (l Layout) StepY() float32 {
	if l.Orientation == FlatUp {
		return l.across()
	}
	return l.along()
}

// WorldPosition returns the lower-left corner of the quad for cell (col, row).
func (l Layout) WorldPosition(col, row int) mgl32.Vec2 {
	sx, sy := l.StepX(), l.StepY()
	x := float32(col) * sx
	y := float32(row) * sy
	if l.Orientation == FlatUp {
		if col%2 == 0 {
			y -= sy / 2
		}
		return mgl32.Vec2{x, y}
	}
	if row%2 == 0 {
		x -= sx / 2
	}
	return mgl32.Vec2{x, y}
}

// Center returns the hex centre relative to the quad origin.
func (l Layout) Center() mgl32.Vec2 {
	return mgl32.Vec2{l.TileSize / 2, l.TileSize / 2}
}

// CellCenter returns the world position of the centre of cell (col, row).
func (l Layout) CellCenter(col, row int) mgl32.Vec2 {
	return l.WorldPosition(col, row).Add(l.Center())
}

// GridOffsets returns the world position of every cell, row-major, two floats
// per cell.
func (l Layout) GridOffsets(rows, cols int) []float32 {
	out := make([]float32, 0, rows*cols*2)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			p := l.WorldPosition(col, row)
			out = append(out, p[0], p[1])
		}
	}
	return out
}

// CornerOffset returns vertex corner (0..5) of the hex relative to the quad
// origin. PointUp corners start at the top vertex and run clockwise; FlatUp
// corners are their mirror across the diagonal, starting at the right vertex
// and running counter-clockwise.
func (l Layout) CornerOffset(corner int) mgl32.Vec2 {
	if corner < 0 || corner > 5 {
		panic(fmt.Sprintf("hex: corner %d out of range", corner))
	}
	r := l.TileSize / 2
	angle := float64(90-60*corner) * math.Pi / 180
	dx := r * float32(math.Cos(angle))
	dy := r * float32(math.Sin(angle))
	if l.Orientation == FlatUp {
		dx, dy = dy, dx
	}
	c := l.Center()
	return mgl32.Vec2{c[0] + dx, c[1] + dy}
}

// CellAt returns the cell whose centre is nearest to world point p.
func (l Layout) CellAt(p mgl32.Vec2) Coord {
	c := l.Center()
	approxCol := int(math.Round(float64((p[0] - c[0]) / l.StepX())))
	approxRow := int(math.Round(float64((p[1] - c[1]) / l.StepY())))
	best := Coord{Col: approxCol, Row: approxRow}
	bestDist := float32(math.MaxFloat32)
	for row := approxRow - 1; row <= approxRow+1; row++ {
		for col := approxCol - 1; col <= approxCol+1; col++ {
			d := l.CellCenter(col, row).Sub(p)
			if dist := d.Dot(d); dist < bestDist {
				best, bestDist = Coord{Col: col, Row: row}, dist
			}
		}
	}
	return best
}
