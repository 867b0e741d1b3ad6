package yapf

import (
	"errors"
	"testing"

	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
)

func TestStraightCorridor(t *testing.T) {
	m := parseMap(t, corridorScenario)
	v := vehicle(t, m, 1)
	for n := 1; n <= 7; n++ {
		pf := NewRoadPathfinder(m, DefaultSettings(), SimContext{})
		cost, err := pf.DistanceToTile(v, xy(m, 1+n, 1))
		if err != nil {
			t.Errorf("corridor of %v tiles: %v", n, err)
			continue
		}
		if cost != n*TileLength {
			t.Errorf("corridor of %v tiles costs %v, expected %v", n, cost, n*TileLength)
		}
		if pf.KPIs().HeuristicViolations() != 0 {
			t.Errorf("corridor of %v tiles: %v heuristic violations", n, pf.KPIs().HeuristicViolations())
		}
	}
}

func TestOriginIsDestination(t *testing.T) {
	m := parseMap(t, corridorScenario)
	v := vehicle(t, m, 1)
	pf := NewRoadPathfinder(m, DefaultSettings(), SimContext{})
	if cost, err := pf.DistanceToTile(v, v.Tile); err != nil || cost != 0 {
		t.Errorf("distance to own tile is %v (%v)", cost, err)
	}

	destination := NewTileDestination(m.Grid(), v.Tile, tile.TrackdirXSW.Bit())
	s := NewSearch(DefaultSettings(), destination, newRoadExpander(m, v, &pf.settings, destination, nil))
	s.AddOrigin(v.Tile, tile.TrackdirXSW.Bit())
	if err := s.Run(); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if s.State() != StateSucceeded || s.BestNode().Cost() != 0 || s.KPIs().ClosedNodes() != 0 {
		t.Errorf("state %v, cost %v, %v closed nodes", s.State(), s.BestNode().Cost(), s.KPIs().ClosedNodes())
	}
}

func TestClosedLoopWithoutJunction(t *testing.T) {
	scenario := `
@map
6 6
@tiles
road 1 1 4 1
road 4 1 4 4
road 4 4 1 4
road 1 4 1 1
@vehicles
1 0 bus road 2 1 x_sw
`
	m := parseMap(t, scenario)
	pf := NewRoadPathfinder(m, DefaultSettings(), SimContext{})
	_, err := pf.DistanceToTile(vehicle(t, m, 1), xy(m, 3, 3))
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("expected no path, got %v", err)
	}
	if pf.KPIs().Loops() != 1 {
		t.Errorf("%v loops detected, expected 1", pf.KPIs().Loops())
	}
}

func TestSearchNodeBudget(t *testing.T) {
	m := parseMap(t, junctionScenario)
	v := vehicle(t, m, 1)
	settings := DefaultSettings()
	settings.MaxSearchNodes = 1
	pf := NewRoadPathfinder(m, settings, SimContext{})
	td, _, err := pf.ChooseTrack(v, xy(m, 2, 1), tile.DiagDirSW)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected an aborted search, got %v", err)
	}
	if td != tile.TrackdirXSW {
		t.Errorf("suggested trackdir %v", td)
	}
}

func TestSearchTileBudget(t *testing.T) {
	m := parseMap(t, corridorScenario)
	settings := DefaultSettings()
	settings.MaxSearchTiles = 3
	pf := NewRoadPathfinder(m, settings, SimContext{})
	if _, err := pf.DistanceToTile(vehicle(t, m, 1), xy(m, 7, 1)); !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("expected an aborted search, got %v", err)
	}
}

func TestSegmentTileLimit(t *testing.T) {
	m := parseMap(t, corridorScenario)
	settings := DefaultSettings()
	settings.MaxSegmentTiles = 2
	pf := NewRoadPathfinder(m, settings, SimContext{})
	if _, err := pf.DistanceToTile(vehicle(t, m, 1), xy(m, 7, 1)); !errors.Is(err, ErrNoPath) {
		t.Errorf("expected no path, got %v", err)
	}
	if pf.KPIs().SegmentLimitHits() == 0 {
		t.Errorf("segment limit not hit")
	}
}

func TestMonotoneEstimate(t *testing.T) {
	m := parseMap(t, gridScenario)
	pf := NewRoadPathfinder(m, DefaultSettings(), SimContext{})
	for _, id := range []world.VehicleID{1, 2} {
		v := vehicle(t, m, id)
		destination, err := pf.destination(v)
		if err != nil {
			t.Fatal(err)
		}
		s := pf.newSearch(v, destination, nil)
		s.AddOrigin(xy(m, 3, 1), tile.TrackdirXSW.Bit())
		if err := s.Run(); err != nil {
			t.Fatalf("vehicle %v: %v", id, err)
		}
		checkEstimates(t, s)
	}

	// all depots, and every single tile as destination
	v := vehicle(t, m, 1)
	if _, _, err := pf.FindNearestDepot(v, 0); err != nil {
		t.Errorf("no depot found: %v", err)
	}
	for _, target := range [][2]int{{12, 12}, {1, 11}, {9, 3}, {5, 7}, {2, 1}} {
		if _, err := pf.DistanceToTile(v, xy(m, target[0], target[1])); err != nil && !errors.Is(err, ErrNoPath) {
			t.Errorf("distance to %v: %v", target, err)
		}
	}
	if pf.KPIs().HeuristicViolations() != 0 {
		t.Errorf("%v heuristic violations", pf.KPIs().HeuristicViolations())
	}
}

func TestSearchSetsAreDisjoint(t *testing.T) {
	m := parseMap(t, gridScenario)
	v := vehicle(t, m, 2)
	pf := NewRoadPathfinder(m, DefaultSettings(), SimContext{})
	destination, _ := pf.destination(v)
	s := pf.newSearch(v, destination, nil)
	s.AddOrigin(xy(m, 3, 1), tile.TrackdirXSW.Bit())
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	seen := make(map[Key]bool)
	for _, n := range s.Path(s.BestNode()) {
		if seen[n.key] {
			t.Errorf("node %v twice on the path", n.key)
		}
		seen[n.key] = true
	}
	for key, n := range s.openNodes {
		if _, closed := s.closedNodes[key]; closed {
			t.Errorf("node %v is open and closed", n)
		}
	}
}

func BenchmarkGridSearch(b *testing.B) {
	m, err := world.Parse(gridScenario)
	if err != nil {
		b.Fatal(err)
	}
	v := m.Vehicle(1)
	pf := NewRoadPathfinder(m, DefaultSettings(), SimContext{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pf.ChooseTrack(v, m.Grid().XY(3, 1), tile.DiagDirSW)
	}
}
