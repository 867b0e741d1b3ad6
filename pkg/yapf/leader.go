package yapf

import (
	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
)

const MaxLeaderTargets = 4

// LeaderTargets are the tiles vehicles ahead on the same route are about to enter
type LeaderTargets struct {
	tiles [MaxLeaderTargets]tile.Index
	count int
}

// Add records t unless it is already known or the list is full
func (l *LeaderTargets) Add(t tile.Index) bool {
	if l.count == MaxLeaderTargets || l.Contains(t) {
		return false
	}
	l.tiles[l.count] = t
	l.count++
	return true
}

func (l *LeaderTargets) Contains(t tile.Index) bool {
	for i := 0; i < l.count; i++ {
		if l.tiles[i] == t {
			return true
		}
	}
	return false
}

func (l *LeaderTargets) Len() int { return l.count }

func (l *LeaderTargets) At(i int) tile.Index { return l.tiles[i] }

// FindLeaderTargets looks for vehicles in front of v on its tile that head for the same station.
// enterTile is the tile v is about to enter.
func FindLeaderTargets(m world.Reader, v *world.Vehicle, enterTile tile.Index) LeaderTargets {
	var leaders LeaderTargets
	if v.Order.Type != world.OrderGotoStation {
		return leaders
	}
	for _, other := range m.VehiclesOnTile(v.Tile) {
		if other == v || other.Trackdir != v.Trackdir || other.Progress <= v.Progress {
			continue
		}
		if other.Order.Type != world.OrderGotoStation || other.Order.Station != v.Order.Station {
			continue
		}
		if next, ok := predictNextTile(m, other, enterTile); ok {
			leaders.Add(next)
		}
	}
	return leaders
}

// predictNextTile returns where a vehicle goes after enterTile.
// A cached choice on enterTile tells the tile behind it, any other cached choice is taken as it is.
// Without a cache the vehicle is expected to keep its direction.
func predictNextTile(m world.Reader, v *world.Vehicle, enterTile tile.Index) (tile.Index, bool) {
	if !v.Path.IsEmpty() {
		t, td := v.Path.Front()
		if t != enterTile {
			return t, true
		}
		return m.Grid().Neighbour(t, td.ExitDir())
	}
	return m.Grid().Neighbour(enterTile, v.Trackdir.ExitDir())
}
