package tile

import (
	"fmt"
	"math"
)

// Index addresses a tile on a Grid (row major)
type Index uint32

const Invalid Index = math.MaxUint32

// Grid describes the dimensions of a tile map and converts between indices and coordinates.
// There is no wrapping: stepping over the border yields no tile.
type Grid struct {
	Width  int
	Height int
}

func MakeGrid(width, height int) Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("invalid grid size %vx%v", width, height))
	}
	return Grid{Width: width, Height: height}
}

func (g Grid) Size() int { return g.Width * g.Height }

// Return the index for the given coordinates
func (g Grid) XY(x, y int) Index {
	if !g.Contains(x, y) {
		panic(fmt.Sprintf("tile (%v, %v) outside of %vx%v grid", x, y, g.Width, g.Height))
	}
	return Index(y*g.Width + x)
}

func (g Grid) X(t Index) int { return int(t) % g.Width }
func (g Grid) Y(t Index) int { return int(t) / g.Width }

func (g Grid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

func (g Grid) IsValid(t Index) bool {
	return t != Invalid && int(t) < g.Size()
}

// Return the neighbour of t in the given direction.
// ok is false if the neighbour would be outside of the grid
func (g Grid) Neighbour(t Index, dir DiagDirection) (neighbour Index, ok bool) {
	dx, dy := dir.Offset()
	return g.AddOffset(t, dx, dy)
}

func (g Grid) AddOffset(t Index, dx, dy int) (Index, bool) {
	x, y := g.X(t)+dx, g.Y(t)+dy
	if !g.Contains(x, y) {
		return Invalid, false
	}
	return g.XY(x, y), true
}

// Manhattan distance between two tiles
func (g Grid) Distance(a, b Index) int {
	return abs(g.X(a)-g.X(b)) + abs(g.Y(a)-g.Y(b))
}

func (g Grid) String(t Index) string {
	if !g.IsValid(t) {
		return "(invalid)"
	}
	return fmt.Sprintf("(%v, %v)", g.X(t), g.Y(t))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
