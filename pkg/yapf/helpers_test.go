package yapf

import (
	"testing"

	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
)

// straight road along row 1, vehicle 1 at (1, 1) driving towards x+1
const corridorScenario = `
@map
10 3
@tiles
road 0 1 9 1
@vehicles
1 0 bus road 1 1 x_sw
`

// a main road with a side road at x=3, which has a junction at (3, 4) towards row 4
const junctionScenario = `
@map
10 7
@tiles
road 0 1 9 1
road 3 1 3 6
road 3 4 9 4
@stations
1 0 Market
@stops
7 4 1 bus drive x
8 4 1 bus drive x
@vehicles
1 0 bus road 1 1 x_sw order=tile:7,4
2 0 bus road 1 1 x_sw order=station:1
3 0 bus road 1 1 x_sw order=station:42
`

// roads every four tiles in both directions with hills, a speed limit and a level crossing
const gridScenario = `
@map
13 13
@tiles
road 0 1 12 1
road 0 5 12 5
road 0 9 12 9
road 1 0 1 12
road 5 0 5 12
road 9 0 9 12
height 5 6 1
height 5 7 1 inclined
height 5 8 2
height 6 9 1
speed 3 5 30
crossing 7 9 x
depot 10 12 NW 0
road 10 9 10 12
@stations
1 0 Harbour
@stops
11 9 1 bus drive x
@vehicles
1 0 bus road 2 1 x_sw order=station:1
2 0 bus road 2 1 x_sw order=tile:9,11
`

func parseMap(t *testing.T, scenario string) *world.Map {
	t.Helper()
	m, err := world.Parse(scenario)
	if err != nil {
		t.Fatalf("could not parse scenario: %v", err)
	}
	return m
}

func vehicle(t *testing.T, m *world.Map, id world.VehicleID) *world.Vehicle {
	t.Helper()
	v := m.Vehicle(id)
	if v == nil {
		t.Fatalf("no vehicle %v", id)
	}
	return v
}

func xy(m *world.Map, x, y int) tile.Index { return m.Grid().XY(x, y) }

// checkEstimates verifies that no expanded or open node has a lower estimate than its parent
func checkEstimates(t *testing.T, s *Search) {
	t.Helper()
	check := func(n *Node) {
		if n.estimate < n.cost {
			t.Errorf("node %v has a negative heuristic", n)
		}
		if parent := s.Parent(n); parent != nil && n.estimate < parent.estimate {
			t.Errorf("node %v has a lower estimate than its parent %v", n, parent)
		}
	}
	for _, n := range s.closedNodes {
		check(n)
	}
	for _, n := range s.openNodes {
		check(n)
	}
	if s.KPIs().HeuristicViolations() != 0 {
		t.Errorf("%v heuristic violations", s.KPIs().HeuristicViolations())
	}
}
