package yapf

import (
	"fmt"

	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
)

// AnyDepot accepts every road depot of the company the vehicle can drive into
type AnyDepot struct {
	m       world.Reader
	company world.Owner
	rtt     world.RoadTramType
}

func NewAnyDepot(m world.Reader, ctx SimContext, rtt world.RoadTramType) *AnyDepot {
	return &AnyDepot{m: m, company: ctx.Company, rtt: rtt}
}

func (d *AnyDepot) IsDestination(t tile.Index, td tile.Trackdir) bool {
	tl := d.m.Tile(t)
	return tl.IsRoadDepot() && tl.Owner == d.company && tl.Bits(d.rtt) != tile.RoadNone
}

// Estimate without a heuristic, the search runs as Dijkstra
func (d *AnyDepot) Estimate(n *Node) int { return n.cost }

func (d *AnyDepot) String() string { return "any depot" }

// TileDestination accepts a single tile, reached on one of the given trackdirs
type TileDestination struct {
	grid      tile.Grid
	tile      tile.Index
	trackdirs tile.TrackdirBits
}

func NewTileDestination(g tile.Grid, t tile.Index, trackdirs tile.TrackdirBits) *TileDestination {
	return &TileDestination{grid: g, tile: t, trackdirs: trackdirs}
}

func (d *TileDestination) IsDestination(t tile.Index, td tile.Trackdir) bool {
	return t == d.tile && d.trackdirs.Has(td)
}

func (d *TileDestination) Estimate(n *Node) int {
	if d.IsDestination(n.segmentLastTile, n.segmentLastTrackdir) {
		return n.cost
	}
	return n.cost + distanceEstimate(d.grid, n.segmentLastTile, n.segmentLastTrackdir, d.grid.X(d.tile), d.grid.Y(d.tile))
}

func (d *TileDestination) String() string {
	return fmt.Sprintf("tile %v (%v)", d.grid.String(d.tile), d.trackdirs)
}

// StationDestination accepts the stops of one type of a station
type StationDestination struct {
	m              world.Reader
	station        world.StationID
	stopType       world.StationType
	nonArticulated bool
	trackdirs      tile.TrackdirBits // empty for any
	area           tile.Area
}

func NewStationDestination(m world.Reader, st *world.Station, stopType world.StationType, nonArticulated bool, trackdirs tile.TrackdirBits) *StationDestination {
	return &StationDestination{
		m:              m,
		station:        st.ID,
		stopType:       stopType,
		nonArticulated: nonArticulated,
		trackdirs:      trackdirs,
		area:           st.Area(stopType),
	}
}

func (d *StationDestination) IsDestination(t tile.Index, td tile.Trackdir) bool {
	tl := d.m.Tile(t)
	if !tl.IsStation() || tl.Station != d.station || tl.StopType != d.stopType {
		return false
	}
	if !d.nonArticulated && !tl.DriveThrough {
		return false
	}
	return d.trackdirs.IsEmpty() || d.trackdirs.Has(td)
}

// Estimate towards the point of the stop area closest to the segment end
func (d *StationDestination) Estimate(n *Node) int {
	if d.IsDestination(n.segmentLastTile, n.segmentLastTrackdir) {
		return n.cost
	}
	g := d.m.Grid()
	x, y := d.area.ClosestTo(g.X(n.segmentLastTile), g.Y(n.segmentLastTile))
	return n.cost + distanceEstimate(g, n.segmentLastTile, n.segmentLastTrackdir, x, y)
}

func (d *StationDestination) String() string {
	return fmt.Sprintf("%v stop of station %v", d.stopType, d.station)
}

// unreachable is the destination of orders that do not resolve to anything
type unreachable struct{}

func (unreachable) IsDestination(t tile.Index, td tile.Trackdir) bool { return false }
func (unreachable) Estimate(n *Node) int                              { return n.cost }
func (unreachable) String() string                                    { return "nowhere" }

// distanceEstimate is a lower bound of the cost from the exit edge of tile t, leaving on td,
// to the tile (x, y). It works in half tiles: straight steps cost TileLength/2 each, diagonal
// steps TileCornerLength.
func distanceEstimate(g tile.Grid, t tile.Index, td tile.Trackdir, x, y int) int {
	dx, dy := td.ExitDir().Offset()
	x1, y1 := 2*g.X(t)+dx, 2*g.Y(t)+dy
	x2, y2 := 2*x, 2*y
	distX, distY := abs(x1-x2), abs(y1-y2)
	dmin, dxy := min(distX, distY), abs(distX-distY)
	return dmin*TileCornerLength + (dxy-1)*(TileLength/2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
