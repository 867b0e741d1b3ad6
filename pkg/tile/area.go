package tile

// Area is a rectangle of tiles. An area with zero width or height is empty
type Area struct {
	X, Y int // north corner
	W, H int // extent in tiles
}

func MakeArea(x, y, w, h int) Area { return Area{X: x, Y: y, W: w, H: h} }

func (a Area) IsEmpty() bool { return a.W <= 0 || a.H <= 0 }

func (a Area) Contains(x, y int) bool {
	return !a.IsEmpty() && x >= a.X && y >= a.Y && x < a.X+a.W && y < a.Y+a.H
}

func (a Area) ContainsTile(g Grid, t Index) bool {
	return g.IsValid(t) && a.Contains(g.X(t), g.Y(t))
}

// Grow the area so that it also covers (x, y)
func (a Area) Add(x, y int) Area {
	if a.IsEmpty() {
		return Area{X: x, Y: y, W: 1, H: 1}
	}
	left, top := min(a.X, x), min(a.Y, y)
	right, bottom := max(a.X+a.W-1, x), max(a.Y+a.H-1, y)
	return Area{X: left, Y: top, W: right - left + 1, H: bottom - top + 1}
}

// Expand the area by radius tiles on each side, clamped to the grid
func (a Area) Expand(radius int, g Grid) Area {
	if a.IsEmpty() {
		return a
	}
	left, top := max(0, a.X-radius), max(0, a.Y-radius)
	right, bottom := min(g.Width-1, a.X+a.W-1+radius), min(g.Height-1, a.Y+a.H-1+radius)
	return Area{X: left, Y: top, W: right - left + 1, H: bottom - top + 1}
}

// Return the tile coordinates of the area closest to (x, y)
func (a Area) ClosestTo(x, y int) (int, int) {
	return clamp(x, a.X, a.X+a.W-1), clamp(y, a.Y, a.Y+a.H-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
