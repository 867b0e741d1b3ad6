package yapf

import (
	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
)

// roadExpander prices road vehicle segments
// implements Expander
type roadExpander struct {
	m           world.Reader
	v           *world.Vehicle
	settings    *Settings
	destination Destination
	leaders     *LeaderTargets
	maxSpeed    int
}

func newRoadExpander(m world.Reader, v *world.Vehicle, settings *Settings, destination Destination, leaders *LeaderTargets) *roadExpander {
	return &roadExpander{
		m:           m,
		v:           v,
		settings:    settings,
		destination: destination,
		leaders:     leaders,
		maxSpeed:    maxVehicleSpeed(v),
	}
}

// maxVehicleSpeed is the speed the vehicle may drive, limited by its order
func maxVehicleSpeed(v *world.Vehicle) int {
	speed := v.MaxSpeed
	if v.Order.MaxSpeed > 0 && v.Order.MaxSpeed != world.NoSpeedRestriction && v.Order.MaxSpeed*2 < speed {
		speed = v.Order.MaxSpeed * 2
	}
	return speed
}

func (r *roadExpander) Follow(n *Node) (tile.Index, tile.TrackdirBits, bool) {
	f := world.NewRoadFollower(r.m, r.v)
	if !f.Follow(n.segmentLastTile, n.segmentLastTrackdir) {
		return tile.Invalid, tile.TrackdirBitsNone, false
	}
	return f.NewTile, f.NewTrackdirs, true
}

func (r *roadExpander) CalcCost(s *Search, n *Node) bool {
	parentCost := 0
	segmentCost := 0
	if parent := s.Parent(n); parent != nil {
		parentCost = parent.cost
		n.predictedOccupied = parent.predictedOccupied
		segmentCost += r.transitionCost(parent, n)
	}

	t, td := n.key.Tile, n.key.Trackdir
	segmentTiles := 0
	for {
		if !s.CountTiles(1) {
			return false
		}
		segmentCost += r.oneTileCost(n, t, td)
		if s.maxCost > 0 && parentCost+segmentCost > s.maxCost {
			s.kpis.costCeilingHits++
			return false
		}
		if r.destination.IsDestination(t, td) {
			break
		}
		// stop in the depot, leaving it is the next segment
		if tl := r.m.Tile(t); tl.IsRoadDepot() && td == tile.DiagDirToDiagTrackdir(tl.Direction.Reverse()) {
			break
		}

		f := world.NewRoadFollower(r.m, r.v)
		if !f.Follow(t, td) {
			break
		}
		if f.NewTrackdirs.Count() > 1 {
			break
		}
		next := f.NewTrackdirs.First()
		if f.NewTile == n.key.Tile && next == n.key.Trackdir {
			s.kpis.loops++
			return false
		}
		segmentTiles += 1 + f.TilesSkipped
		if r.settings.MaxSegmentTiles > 0 && segmentTiles > r.settings.MaxSegmentTiles {
			s.kpis.segmentLimitHits++
			return false
		}

		segmentCost += f.TilesSkipped * TileLength
		segmentCost += r.slopeCost(t, f.NewTile)
		segmentCost += r.speedCost(f)
		t, td = f.NewTile, next
	}

	n.segmentLastTile = t
	n.segmentLastTrackdir = td
	n.cost = parentCost + segmentCost
	return true
}

// transitionCost prices the move from the end of the parent segment onto the first tile of n
func (r *roadExpander) transitionCost(parent, n *Node) int {
	f := world.NewRoadFollower(r.m, r.v)
	if !f.Follow(parent.segmentLastTile, parent.segmentLastTrackdir) || f.NewTile != n.key.Tile {
		return 0
	}
	return f.TilesSkipped*TileLength + r.slopeCost(parent.segmentLastTile, f.NewTile) + r.speedCost(f)
}

func (r *roadExpander) oneTileCost(n *Node, t tile.Index, td tile.Trackdir) int {
	cost := 0
	// a vehicle in front will probably block this tile
	if r.leaders != nil && r.leaders.Contains(t) {
		cost += r.settings.CurvePenalty
		n.predictedOccupied = true
	}
	if !td.IsDiagonal() {
		return cost + TileCornerLength + r.settings.CurvePenalty
	}
	cost += TileLength

	tl := r.m.Tile(t)
	switch {
	case tl.IsLevelCrossing():
		cost += r.settings.CrossingPenalty
	case tl.IsDriveThroughStop():
		cost += r.settings.StopPenalty
		dir := td.ExitDir()
		prev, ok := r.m.Grid().Neighbour(t, dir.Reverse())
		// the queue is only paid for once, on the first tile of the stop
		if !ok || !world.IsDriveThroughContinuation(r.m, t, prev) {
			cost += r.driveThroughOccupancyCost(r.m.RoadStop(t), dir, n.predictedOccupied)
		}
	case tl.IsBayStop():
		occupied := r.m.RoadStop(t).OccupiedBays()
		if n.predictedOccupied && occupied < 2 {
			occupied++
		}
		cost += r.settings.StopBayOccupiedPenalty * occupied / 2
	}
	return cost
}

func (r *roadExpander) driveThroughOccupancyCost(rs *world.RoadStop, dir tile.DiagDirection, predictedOccupied bool) int {
	if rs == nil {
		return 0
	}
	entry := rs.Entry(dir)
	occupied, length := entry.Occupied, entry.Length
	if rs.Shared {
		other := rs.Entry(dir.Reverse())
		occupied += other.Occupied
		length += other.Length
	}
	if predictedOccupied && occupied < length {
		occupied++
	}
	if length <= 0 {
		return 0
	}
	return occupied * r.settings.StopOccupiedPenalty / length
}

func (r *roadExpander) slopeCost(from, to tile.Index) int {
	if r.m.Tile(to).CenterZ()-r.m.Tile(from).CenterZ() > 1 {
		return r.settings.SlopePenalty
	}
	return 0
}

func (r *roadExpander) speedCost(f *world.RoadFollower) int {
	if r.maxSpeed <= 0 {
		return 0
	}
	cost := 0
	maxSpeed, minSpeed := f.SpeedLimit()
	if maxSpeed < r.maxSpeed {
		cost += TileLength * (r.maxSpeed - maxSpeed) * (4 + f.TilesSkipped) / r.maxSpeed
	}
	if minSpeed > r.maxSpeed {
		cost += TileLength * (minSpeed - r.maxSpeed)
	}
	return cost
}
