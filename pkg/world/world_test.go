package world

import (
	"strings"
	"testing"

	"github.com/natevvv/yapf-routing/pkg/tile"
)

const scenarioText = `# a small town
@map
12 6

@tiles
depot 11 1 NE 0
road 0 1 11 1
road 3 1 3 5
height 3 4 1 inclined
height 3 5 1
crossing 6 3 y
tram 6 0 6 5
tunnel 7 4 10 4
road 6 4 7 4
road 10 4 11 4
speed 1 1 40

@stations
1 0 Main Street

@stops
5 1 1 bus drive x shared
8 3 1 bus bay SE
9 3 1 truck bay SE

@occupancy
5 1 entry NE 1 4
5 1 entry SW 2 4
8 3 bays 1 0

@vehicles
1 0 bus road 2 1 x_sw progress=3 order=station:1
2 0 bus road 2 1 x_sw progress=9 order=station:1 path=4,1,x_sw;5,1,x_sw
3 0 truck road 3 3 y_se order=depot:11,1 ordermax=20
`

func parseScenario(t *testing.T) *Map {
	t.Helper()
	m, err := Parse(scenarioText)
	if err != nil {
		t.Fatalf("could not parse scenario: %v", err)
	}
	return m
}

func TestParseScenario(t *testing.T) {
	m := parseScenario(t)
	g := m.Grid()
	if g.Width != 12 || g.Height != 6 {
		t.Fatalf("map is %vx%v", g.Width, g.Height)
	}
	if bits := m.Tile(g.XY(3, 1)).Road; bits != tile.RoadX|tile.RoadSE {
		t.Errorf("junction has road bits %v", bits)
	}
	if tl := m.Tile(g.XY(3, 4)); tl.CenterZ() != 12 {
		t.Errorf("inclined tile center is at %v", tl.CenterZ())
	}
	if !m.Tile(g.XY(6, 3)).IsLevelCrossing() {
		t.Errorf("(6, 3) is not a level crossing")
	}
	st := m.Station(1)
	if st == nil || st.Name != "Main Street" {
		t.Fatalf("station 1 is %+v", st)
	}
	if stops := st.Stops(StationBus); len(stops) != 2 || stops[0] != g.XY(5, 1) {
		t.Errorf("bus stops are %v", stops)
	}
	if a := st.Area(StationBus); a.X != 5 || a.Y != 1 || a.W != 4 || a.H != 3 {
		t.Errorf("bus area is %+v", a)
	}
	rs := m.RoadStop(g.XY(5, 1))
	if !rs.Shared || rs.Entry(tile.DiagDirSW).Occupied != 2 || rs.Entry(tile.DiagDirNE).Length != 4 {
		t.Errorf("unexpected road stop %+v", rs)
	}
	if m.RoadStop(g.XY(8, 3)).OccupiedBays() != 1 {
		t.Errorf("bay occupancy lost")
	}

	v := m.Vehicle(2)
	if v == nil || v.Path.Len() != 2 || v.Progress != 9 {
		t.Fatalf("vehicle 2 is %+v", v)
	}
	if v.DestTile != g.XY(5, 1) {
		t.Errorf("vehicle 2 heads to %v", g.String(v.DestTile))
	}
	if truck := m.Vehicle(3); truck.DestTile != g.XY(11, 1) || truck.Order.MaxSpeed != 20 {
		t.Errorf("truck order is %v to %v", truck.Order, g.String(truck.DestTile))
	}
	if n := len(m.VehiclesOnTile(g.XY(2, 1))); n != 2 {
		t.Errorf("%v vehicles on (2, 1), expected 2", n)
	}
}

func TestWriteScenario(t *testing.T) {
	m := parseScenario(t)
	written := Write(m)
	again, err := Parse(written)
	if err != nil {
		t.Fatalf("could not parse written scenario: %v\n%v", err, written)
	}
	if rewritten := Write(again); rewritten != written {
		t.Errorf("scenario changed after rewrite:\n%v\n---\n%v", written, rewritten)
	}
	if !strings.Contains(written, "tunnel 7 4 10 4 road") {
		t.Errorf("tunnel missing in\n%v", written)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"@tiles\nroad 0 0 1 0\n",
		"@map\n4 4\n@tiles\nroad 0 0 2 2\n",
		"@map\n4 4\n@tiles\nroad 0 0 9 0\n",
		"@map\n4 4\n@stops\n1 1 7 bus drive x\n",
		"@map\n4 4\n@vehicles\n1 0 bus road 1 1 sideways\n",
		"4 4\n",
	}
	for _, scenario := range tests {
		if _, err := Parse(scenario); err == nil {
			t.Errorf("no error for scenario %q", scenario)
		}
	}
}

func follow(t *testing.T, m *Map, v *Vehicle, x, y int, td tile.Trackdir) *RoadFollower {
	t.Helper()
	f := NewRoadFollower(m, v)
	if !f.Follow(m.Grid().XY(x, y), td) {
		t.Fatalf("could not follow (%v, %v) %v: error %v", x, y, td, f.Err)
	}
	return f
}

func TestFollowStraightAndJunction(t *testing.T) {
	m := parseScenario(t)
	g := m.Grid()
	v := m.Vehicle(1)

	f := follow(t, m, v, 1, 1, tile.TrackdirXSW)
	if f.NewTile != g.XY(2, 1) || f.NewTrackdirs != tile.TrackdirXSW.Bit() {
		t.Errorf("got %v %v", g.String(f.NewTile), f.NewTrackdirs)
	}
	if maxSpeed, _ := follow(t, m, v, 2, 1, tile.TrackdirXNE).SpeedLimit(); maxSpeed != 40 {
		t.Errorf("speed limit is %v", maxSpeed)
	}

	f = follow(t, m, v, 2, 1, tile.TrackdirXSW)
	expected := tile.TrackdirXSW.Bit() | tile.TrackdirRightS.Bit()
	if f.NewTile != g.XY(3, 1) || f.NewTrackdirs != expected {
		t.Errorf("junction: got %v %v, expected %v", g.String(f.NewTile), f.NewTrackdirs, expected)
	}
}

func TestFollowDeadEndReversal(t *testing.T) {
	m := NewMap(6, 3)
	if err := m.BuildRoad(0, 1, 4, 1, RoadTypeRoad); err != nil {
		t.Fatal(err)
	}
	if err := m.BuildRoad(0, 2, 4, 2, RoadTypeTram); err != nil {
		t.Fatal(err)
	}
	g := m.Grid()
	bus := &Vehicle{ID: 1, RoadType: RoadTypeRoad}
	f := follow(t, m, bus, 3, 1, tile.TrackdirXSW)
	if !f.Reversed || f.NewTile != g.XY(3, 1) || f.NewTrackdirs != tile.TrackdirXNE.Bit() {
		t.Errorf("road vehicle did not turn around: %+v", f)
	}

	tram := &Vehicle{ID: 2, RoadType: RoadTypeTram}
	f = NewRoadFollower(m, tram)
	if f.Follow(g.XY(3, 2), tile.TrackdirXSW) {
		t.Errorf("tram turned around at a dead end")
	}
	if f.Err != FollowNoWay {
		t.Errorf("unexpected error %v", f.Err)
	}
}

func TestFollowDepot(t *testing.T) {
	m := parseScenario(t)
	g := m.Grid()
	v := m.Vehicle(1)

	f := follow(t, m, v, 10, 1, tile.TrackdirXSW)
	if f.NewTile != g.XY(11, 1) || f.NewTrackdirs != tile.TrackdirXSW.Bit() {
		t.Errorf("could not enter depot: %v %v", g.String(f.NewTile), f.NewTrackdirs)
	}
	f = follow(t, m, v, 11, 1, tile.TrackdirXSW)
	if !f.Reversed || f.NewTile != g.XY(11, 1) || f.NewTrackdirs != tile.TrackdirXNE.Bit() {
		t.Errorf("vehicle did not turn around in the depot: %+v", f)
	}

	competitor := &Vehicle{ID: 9, Owner: 1}
	f = NewRoadFollower(m, competitor)
	if !f.Follow(g.XY(10, 1), tile.TrackdirXSW) || !f.Reversed || f.NewTile != g.XY(10, 1) {
		t.Errorf("competitor entered a foreign depot: %+v", f)
	}
}

func TestFollowBayStop(t *testing.T) {
	m := NewMap(4, 4)
	if _, err := m.AddStation(1, "bay", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := m.BuildBayStop(1, 2, 1, StationBus, tile.DiagDirNW); err != nil {
		t.Fatal(err)
	}
	if err := m.BuildRoad(0, 1, 3, 1, RoadTypeRoad); err != nil {
		t.Fatal(err)
	}
	g := m.Grid()
	if err := m.Connect(g.XY(1, 1), g.XY(1, 2), RoadTypeRoad); err != nil {
		t.Fatal(err)
	}

	bus := &Vehicle{ID: 1, Type: StationBus}
	f := follow(t, m, bus, 1, 1, tile.TrackdirRightS)
	if f.NewTile != g.XY(1, 2) || f.NewTrackdirs != tile.TrackdirYSE.Bit() {
		t.Errorf("bus could not enter the bay: %v %v", g.String(f.NewTile), f.NewTrackdirs)
	}
	f = follow(t, m, bus, 1, 2, tile.TrackdirYSE)
	if !f.Reversed || f.NewTrackdirs != tile.TrackdirYNW.Bit() {
		t.Errorf("bus did not turn around in the bay: %+v", f)
	}

	truck := &Vehicle{ID: 2, Type: StationTruck}
	f = NewRoadFollower(m, truck)
	if f.Follow(g.XY(1, 1), tile.TrackdirRightS) && f.NewTile == g.XY(1, 2) {
		t.Errorf("truck entered a bus bay")
	}
}

func TestFollowTunnel(t *testing.T) {
	m := parseScenario(t)
	g := m.Grid()
	v := m.Vehicle(1)

	f := follow(t, m, v, 7, 4, tile.TrackdirXSW)
	if !f.IsTunnel || f.NewTile != g.XY(10, 4) || f.TilesSkipped != 2 {
		t.Errorf("tunnel not followed: %+v", f)
	}
	if f.NewTrackdirs != tile.TrackdirXSW.Bit() {
		t.Errorf("trackdirs after the tunnel: %v", f.NewTrackdirs)
	}
	f = follow(t, m, v, 10, 4, tile.TrackdirXNE)
	if !f.IsTunnel || f.NewTile != g.XY(7, 4) {
		t.Errorf("tunnel not followed backwards: %+v", f)
	}
}

func TestDriveThroughRunSharesQueue(t *testing.T) {
	scenario := `
@map
10 3
@tiles
road 0 1 9 1
@stations
1 0 Terminal
@stops
2 1 1 bus drive x
3 1 1 bus drive x
6 1 1 bus drive x
@occupancy
3 1 entry NE 1 4
2 1 entry SW 2 4
`
	m, err := Parse(scenario)
	if err != nil {
		t.Fatal(err)
	}
	g := m.Grid()
	head, tail := m.RoadStop(g.XY(2, 1)), m.RoadStop(g.XY(3, 1))
	if !head.SharesEntries(tail) || m.RoadStop(g.XY(6, 1)).SharesEntries(head) {
		t.Fatalf("unexpected runs")
	}
	if e := head.Entry(tile.DiagDirNE); e != (RoadStopEntry{Occupied: 1, Length: 4}) {
		t.Errorf("north east queue on the head is %+v", e)
	}
	if e := tail.Entry(tile.DiagDirSW); e != (RoadStopEntry{Occupied: 2, Length: 4}) {
		t.Errorf("south west queue on the tail is %+v", e)
	}
	if !m.IsDriveThroughRunHead(g.XY(2, 1)) || m.IsDriveThroughRunHead(g.XY(3, 1)) {
		t.Errorf("wrong run head")
	}
	if n := strings.Count(Write(m), " entry "); n != 2 {
		t.Errorf("%v entry lines written, expected 2", n)
	}

	// closing the gap joins both runs and adds up their queues
	m.RoadStop(g.XY(6, 1)).SetEntry(tile.DiagDirNE, RoadStopEntry{Occupied: 1, Length: 2})
	for x := 4; x <= 5; x++ {
		if _, err := m.BuildDriveThroughStop(x, 1, 1, StationBus, tile.AxisX, RoadTypeRoad); err != nil {
			t.Fatal(err)
		}
	}
	joined := m.RoadStop(g.XY(6, 1))
	if !joined.SharesEntries(head) {
		t.Fatalf("runs not joined")
	}
	if e := joined.Entry(tile.DiagDirNE); e != (RoadStopEntry{Occupied: 2, Length: 6}) {
		t.Errorf("joined north east queue is %+v", e)
	}
}
