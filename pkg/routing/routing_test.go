package routing

import (
	"errors"
	"testing"

	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
	"github.com/natevvv/yapf-routing/pkg/yapf"
)

// a main road with a side road at x=3, which turns towards a stop at (7, 4)
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
@vehicles
1 0 bus road 1 1 x_sw order=tile:7,4
`

const depotScenario = `
@map
10 3
@tiles
depot 8 1 NE 0
road 0 1 8 1
tram 0 2 4 2
@vehicles
1 0 bus road 2 1 x_sw
2 0 bus tram 3 2 x_sw order=tile:4,2
`

func newRouter(t *testing.T, scenario string) *Router {
	t.Helper()
	m, err := world.Parse(scenario)
	if err != nil {
		t.Fatalf("could not parse scenario: %v", err)
	}
	return NewRouter(m, yapf.DefaultSettings())
}

func TestStepToDestination(t *testing.T) {
	r := newRouter(t, junctionScenario)
	g := r.Map().Grid()
	v := r.Map().Vehicle(1)

	expected := [][2]int{{2, 1}, {3, 1}, {3, 2}, {3, 3}, {3, 4}, {4, 4}, {5, 4}, {6, 4}, {7, 4}}
	for i, e := range expected {
		r.Step()
		if v.Tile != g.XY(e[0], e[1]) {
			t.Fatalf("step %v: vehicle on %v, expected %v", i, g.String(v.Tile), e)
		}
	}
	if v.Trackdir != tile.TrackdirXSW {
		t.Errorf("vehicle drives %v at the stop", v.Trackdir)
	}
	r.Step()
	if !r.Arrived(1) {
		t.Errorf("vehicle did not arrive")
	}

	stats := r.Stats()
	if stats.Ticks != 10 || stats.Moves != 9 || stats.Arrivals != 1 {
		t.Errorf("wrong stats %+v", stats)
	}
	// the second choice comes from the path cache
	if stats.Decisions != 2 || stats.CacheHits != 1 || stats.Searches != 1 {
		t.Errorf("%v decisions, %v cache hits, %v searches", stats.Decisions, stats.CacheHits, stats.Searches)
	}
	if stats.KPIs.ClosedNodes() == 0 {
		t.Errorf("no search statistics")
	}
}

func TestStepFindsLeaders(t *testing.T) {
	scenario := `
@map
10 4
@tiles
road 0 1 9 1
road 4 1 4 2
@stations
1 0 Square
@stops
7 1 1 bus drive x
@vehicles
1 0 bus road 2 1 x_sw order=station:1
2 0 bus road 2 1 x_sw order=station:1
`
	r := newRouter(t, scenario)
	first, second := r.Map().Vehicle(1), r.Map().Vehicle(2)
	if decisions := r.Step(); len(decisions) != 0 {
		t.Fatalf("%v decisions on a straight road", len(decisions))
	}
	if first.Tile != second.Tile || second.Progress >= first.Progress {
		t.Fatalf("vehicle 2 is not behind vehicle 1: %v and %v", second.Progress, first.Progress)
	}

	// both search at the junction, only the second one has a vehicle in front
	decisions := r.Step()
	if len(decisions) != 2 {
		t.Fatalf("%v decisions at the junction, expected 2", len(decisions))
	}
	if decisions[0].Vehicle != 1 || decisions[0].Leaders != 0 {
		t.Errorf("first decision %+v", decisions[0])
	}
	if decisions[1].Vehicle != 2 || decisions[1].Leaders != 1 {
		t.Errorf("second decision %+v", decisions[1])
	}
	for _, d := range decisions {
		if d.Err != nil || d.Trackdir != tile.TrackdirXSW {
			t.Errorf("vehicle %v takes %v (%v)", d.Vehicle, d.Trackdir, d.Err)
		}
	}
	if second.Progress >= first.Progress {
		t.Errorf("vehicles swapped places")
	}
}

func TestChooseTrackKeepsVehicle(t *testing.T) {
	r := newRouter(t, junctionScenario)
	v := r.Map().Vehicle(1)
	v.Tile = r.Map().Grid().XY(2, 1)

	d, err := r.ChooseTrack(1)
	if err != nil || d.Err != nil {
		t.Fatalf("no decision: %v %v", err, d.Err)
	}
	if d.Tile != r.Map().Grid().XY(3, 1) || d.Trackdir != tile.TrackdirRightS || d.Cache.Len() != 1 {
		t.Errorf("wrong decision %+v", d)
	}
	if v.Tile != r.Map().Grid().XY(2, 1) || !v.Path.IsEmpty() {
		t.Errorf("vehicle was changed")
	}

	if _, err := r.ChooseTrack(42); !errors.Is(err, ErrUnknownVehicle) {
		t.Errorf("expected unknown vehicle, got %v", err)
	}
}

func TestRoute(t *testing.T) {
	r := newRouter(t, junctionScenario)
	route, err := r.Route(1)
	if err != nil || !route.Found {
		t.Fatalf("no route: %v", err)
	}
	g := r.Map().Grid()
	if len(route.Tiles) != 10 || route.Tiles[0] != g.XY(1, 1) || route.Tiles[9] != g.XY(7, 4) {
		t.Errorf("wrong route %v", route.Tiles)
	}
	fc := r.RouteGeoJSON(1, route)
	if len(fc.Features) != 1 || fc.Features[0].Properties["cost"] != route.Cost {
		t.Errorf("wrong geojson")
	}
}

func TestDistanceToTile(t *testing.T) {
	r := newRouter(t, junctionScenario)
	g := r.Map().Grid()
	distance, err := r.DistanceToTile(1, g.XY(7, 4))
	if err != nil {
		t.Fatal(err)
	}
	expected := 3*yapf.TileLength + 2*(yapf.TileCornerLength+yapf.DefaultSettings().CurvePenalty) +
		4*yapf.TileLength + yapf.DefaultSettings().StopPenalty
	if distance != expected {
		t.Errorf("distance %v, expected %v", distance, expected)
	}
	if distance, err := r.DistanceToTile(1, g.XY(1, 1)); err != nil || distance != 0 {
		t.Errorf("distance to own tile %v (%v)", distance, err)
	}
	if _, err := r.DistanceToTile(1, tile.Invalid); err == nil {
		t.Errorf("distance to a tile outside of the map")
	}
}

func TestFindNearestDepot(t *testing.T) {
	r := newRouter(t, depotScenario)
	depot, cost, err := r.FindNearestDepot(1, 0)
	if err != nil || depot != r.Map().Grid().XY(8, 1) || cost != 6*yapf.TileLength {
		t.Errorf("found %v with cost %v (%v)", depot, cost, err)
	}

	settings := yapf.DefaultSettings()
	settings.MaxGoToDepotPenalty = 5 * yapf.TileLength
	if err := r.SetSettings(settings); err != nil {
		t.Fatal(err)
	}
	if _, _, err := r.FindNearestDepot(1, 0); !errors.Is(err, yapf.ErrBudgetExceeded) {
		t.Errorf("depot beyond the penalty found: %v", err)
	}
	if _, cost, err := r.FindNearestDepot(1, -1); err != nil || cost != 6*yapf.TileLength {
		t.Errorf("unlimited search failed: %v %v", cost, err)
	}

	settings.StopPenalty = -1
	if err := r.SetSettings(settings); err == nil {
		t.Errorf("accepted negative settings")
	}
}

func TestStuckTram(t *testing.T) {
	r := newRouter(t, depotScenario)
	tram := r.Map().Vehicle(2)
	r.Step()
	if tram.Tile != r.Map().Grid().XY(3, 2) || r.Stats().Stuck != 1 {
		t.Errorf("tram moved onto the track end, stats %+v", r.Stats())
	}
}

func TestNetworkGeoJSON(t *testing.T) {
	r := newRouter(t, depotScenario)
	fc := r.NetworkGeoJSON()
	// 8 road links including the depot entrance, 4 tram links and the depot
	if len(fc.Features) != 13 {
		t.Errorf("%v features", len(fc.Features))
	}
	kinds := make(map[string]int)
	for _, f := range fc.Features {
		kinds[f.Properties["kind"].(string)]++
	}
	if kinds["road"] != 8 || kinds["tram"] != 4 || kinds["depot"] != 1 {
		t.Errorf("wrong features %v", kinds)
	}
}
