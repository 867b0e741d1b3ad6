package road

import (
	"github.com/natevvv/yapf-routing/pkg/slice"
	"github.com/natevvv/yapf-routing/pkg/world"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Speed units per km/h on the tile map
const SpeedUnitsPerKmh = 2

// Rasterizer projects road segments onto a tile map.
// Longitude grows with x, latitude shrinks with y.
type Rasterizer struct {
	bound   orb.Bound
	m       *world.Map
	covered slice.FixedSizeSlice
	links   int
	skipped int
}

func NewRasterizer(bound orb.Bound, width, height int) *Rasterizer {
	return &Rasterizer{
		bound:   bound,
		m:       world.NewMap(width, height),
		covered: slice.MakeFixedSizeSlice(width * height),
	}
}

func (r *Rasterizer) Map() *world.Map { return r.m }

// TileOf returns the tile a point falls on, points outside the bound are clamped to the border
func (r *Rasterizer) TileOf(p orb.Point) (x, y int) {
	g := r.m.Grid()
	x = scale(p.Lon()-r.bound.Min.Lon(), r.bound.Max.Lon()-r.bound.Min.Lon(), g.Width)
	y = scale(r.bound.Max.Lat()-p.Lat(), r.bound.Max.Lat()-r.bound.Min.Lat(), g.Height)
	return x, y
}

func scale(offset, extent float64, n int) int {
	if extent <= 0 {
		return 0
	}
	v := int(offset / extent * float64(n))
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func (r *Rasterizer) Rasterize(segments []*Segment) error {
	for _, s := range segments {
		if err := r.Add(s); err != nil {
			return errors.Wrapf(err, "rasterize segment %v", s.ID)
		}
	}
	return nil
}

// Add draws a segment as a chain of 4-connected tiles
func (r *Rasterizer) Add(s *Segment) error {
	if s.Type == Unknown || len(s.Line) < 2 {
		r.skipped++
		return nil
	}
	rtt := world.RoadTypeRoad
	if s.IsTram() {
		rtt = world.RoadTypeTram
	}
	g := r.m.Grid()
	x0, y0 := r.TileOf(s.Start())
	r.limitSpeed(x0, y0, s.MaxSpeed)
	for _, p := range s.Line[1:] {
		x1, y1 := r.TileOf(p)
		err := walk(x0, y0, x1, y1, func(ax, ay, bx, by int) error {
			r.links++
			r.limitSpeed(bx, by, s.MaxSpeed)
			return r.m.Connect(g.XY(ax, ay), g.XY(bx, by), rtt)
		})
		if err != nil {
			return err
		}
		x0, y0 = x1, y1
	}
	return nil
}

// limitSpeed keeps the lowest limit of all segments on a tile
func (r *Rasterizer) limitSpeed(x, y, kmh int) {
	t := r.m.Grid().XY(x, y)
	r.covered.Add(int(t))
	if kmh <= 0 {
		return
	}
	speed := kmh * SpeedUnitsPerKmh
	if current := r.m.Tile(t).MaxSpeed; current > 0 && current < speed {
		return
	}
	r.m.SetSpeedLimit(x, y, speed, 0)
}

// Links returns the number of tile connections drawn
func (r *Rasterizer) Links() int { return r.links }

// Skipped returns the number of segments that could not be drawn
func (r *Rasterizer) Skipped() int { return r.skipped }

// Coverage returns the share of tiles with a road
func (r *Rasterizer) Coverage() float64 { return r.covered.Ratio() }

// walk visits each step of a 4-connected line from (x0, y0) to (x1, y1).
// Each step goes along the axis that keeps closer to the straight line.
func walk(x0, y0, x1, y1 int, visit func(ax, ay, bx, by int) error) error {
	dx, dy := x1-x0, y1-y0
	sx, sy := sign(dx), sign(dy)
	x, y := x0, y0
	for x != x1 || y != y1 {
		nx, ny := x, y
		switch {
		case x == x1:
			ny += sy
		case y == y1:
			nx += sx
		case abs((x+sx-x0)*dy-(y-y0)*dx) <= abs((x-x0)*dy-(y+sy-y0)*dx):
			nx += sx
		default:
			ny += sy
		}
		if err := visit(x, y, nx, ny); err != nil {
			return err
		}
		x, y = nx, ny
	}
	return nil
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

