package world

import (
	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/pkg/errors"
)

type StationID uint16

const InvalidStation StationID = 0xFFFF

type StationType uint8

const (
	StationBus StationType = iota
	StationTruck
	StationRoadWaypoint
)

var stationTypeNames = [...]string{"bus", "truck", "waypoint"}

func (s StationType) String() string { return stationTypeNames[s] }

func ParseStationType(s string) (StationType, error) {
	for i, name := range stationTypeNames {
		if name == s {
			return StationType(i), nil
		}
	}
	return StationBus, errors.Errorf("unknown station type %q", s)
}

// Station groups road stops. Stops are kept in build order, the first one is the primary stop.
type Station struct {
	ID    StationID
	Name  string
	Owner Owner
	areas [3]tile.Area
	stops [3][]tile.Index
}

// Area covering every stop of the given type
func (s *Station) Area(t StationType) tile.Area { return s.areas[t] }

func (s *Station) Stops(t StationType) []tile.Index { return s.stops[t] }

func (s *Station) addStop(g tile.Grid, t tile.Index, stopType StationType) {
	s.areas[stopType] = s.areas[stopType].Add(g.X(t), g.Y(t))
	s.stops[stopType] = append(s.stops[stopType], t)
}

// RoadStopEntry is the queue of one travel direction through a drive-through stop
type RoadStopEntry struct {
	Occupied int
	Length   int
}

// RoadStop holds the occupancy of a single stop tile.
// Adjacent drive-through tiles of one station form a run and share their entries.
type RoadStop struct {
	Tile    tile.Index
	Station StationID
	// vehicles may approach from both ends and share one queue
	Shared  bool
	entries *[2]RoadStopEntry
	Bays    [2]bool
}

func entryIndex(dir tile.DiagDirection) int {
	if dir == tile.DiagDirNE || dir == tile.DiagDirNW {
		return 0
	}
	return 1
}

// Entry returns the queue used by vehicles travelling in direction dir
func (rs *RoadStop) Entry(dir tile.DiagDirection) RoadStopEntry {
	if rs.entries == nil {
		return RoadStopEntry{}
	}
	return rs.entries[entryIndex(dir)]
}

// SetEntry changes the queue of the whole run the stop belongs to
func (rs *RoadStop) SetEntry(dir tile.DiagDirection, e RoadStopEntry) {
	if rs.entries == nil {
		rs.entries = new([2]RoadStopEntry)
	}
	rs.entries[entryIndex(dir)] = e
}

// SharesEntries reports whether both stops belong to the same run
func (rs *RoadStop) SharesEntries(other *RoadStop) bool {
	return rs.entries != nil && rs.entries == other.entries
}

func (rs *RoadStop) OccupiedBays() int {
	n := 0
	for _, occupied := range rs.Bays {
		if occupied {
			n++
		}
	}
	return n
}
