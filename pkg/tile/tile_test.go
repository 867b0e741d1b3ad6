package tile

import "testing"

func TestGridNeighbour(t *testing.T) {
	g := MakeGrid(4, 3)
	origin := g.XY(1, 1)
	expected := map[DiagDirection][2]int{
		DiagDirNE: {0, 1},
		DiagDirSE: {1, 2},
		DiagDirSW: {2, 1},
		DiagDirNW: {1, 0},
	}
	for dir, xy := range expected {
		n, ok := g.Neighbour(origin, dir)
		if !ok {
			t.Fatalf("no neighbour in direction %v", dir)
		}
		if g.X(n) != xy[0] || g.Y(n) != xy[1] {
			t.Errorf("neighbour %v: got %v, expected (%v, %v)", dir, g.String(n), xy[0], xy[1])
		}
	}
	if _, ok := g.Neighbour(g.XY(0, 0), DiagDirNE); ok {
		t.Errorf("stepped over the map border")
	}
	if _, ok := g.Neighbour(g.XY(3, 2), DiagDirSW); ok {
		t.Errorf("stepped over the map border")
	}
	if d := g.Distance(g.XY(0, 0), g.XY(3, 2)); d != 5 {
		t.Errorf("distance is %v, expected 5", d)
	}
}

func TestTrackdirTables(t *testing.T) {
	for td := Trackdir(0); td < TrackdirEnd; td++ {
		rev := td.Reverse()
		if rev.Reverse() != td {
			t.Errorf("reverse of reverse of %v is %v", td, rev.Reverse())
		}
		if rev.EnterDir() != td.ExitDir().Reverse() {
			t.Errorf("%v: reverse enters %v, expected %v", td, rev.EnterDir(), td.ExitDir().Reverse())
		}
		if rev.Track() != td.Track() {
			t.Errorf("%v and %v are on different tracks", td, rev)
		}
		if td.RoadBits() != rev.RoadBits() {
			t.Errorf("%v uses %v, reverse uses %v", td, td.RoadBits(), rev.RoadBits())
		}
		if td.IsDiagonal() != (td.EnterDir() == td.ExitDir()) {
			t.Errorf("%v diagonal flag does not match its directions", td)
		}
		parsed, err := ParseTrackdir(td.String())
		if err != nil || parsed != td {
			t.Errorf("could not parse %v back: %v %v", td, parsed, err)
		}
	}
	for d := DiagDirNE; d < DiagDirEnd; d++ {
		td := DiagDirToDiagTrackdir(d)
		if !td.IsDiagonal() || td.EnterDir() != d {
			t.Errorf("diagonal trackdir of %v is %v", d, td)
		}
		if n := TrackdirsEnteredBy(d).Count(); n != 3 {
			t.Errorf("%v trackdirs entered by %v, expected 3", n, d)
		}
	}
}

func TestRoadBitsTrackdirs(t *testing.T) {
	tests := []struct {
		bits     RoadBits
		expected TrackdirBits
	}{
		{RoadNone, 0},
		{RoadNE, 0},
		{RoadX, TrackdirXNE.Bit() | TrackdirXSW.Bit()},
		{RoadY, TrackdirYSE.Bit() | TrackdirYNW.Bit()},
		{RoadNE | RoadNW, TrackdirUpperE.Bit() | TrackdirUpperW.Bit()},
		{RoadSW | RoadSE, TrackdirLowerE.Bit() | TrackdirLowerW.Bit()},
	}
	for _, test := range tests {
		if got := test.bits.Trackdirs(); got != test.expected {
			t.Errorf("%v: got %v, expected %v", test.bits, got, test.expected)
		}
	}
	if n := RoadAll.Trackdirs().Count(); n != 12 {
		t.Errorf("crossroads has %v trackdirs, expected 12", n)
	}
	b, err := ParseRoadBits("NE+SE")
	if err != nil || b != RoadNE|RoadSE {
		t.Errorf("parsed %v (%v)", b, err)
	}
}

func TestTrackdirBitsOrder(t *testing.T) {
	b := TrackdirLeftN.Bit() | TrackdirXNE.Bit() | TrackdirLowerE.Bit()
	got := b.Slice()
	expected := []Trackdir{TrackdirXNE, TrackdirLowerE, TrackdirLeftN}
	if len(got) != len(expected) {
		t.Fatalf("got %v trackdirs, expected %v", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("position %v: got %v, expected %v", i, got[i], expected[i])
		}
	}
	if b.First() != TrackdirXNE {
		t.Errorf("first trackdir is %v", b.First())
	}
	if TrackdirBitsNone.First() != InvalidTrackdir {
		t.Errorf("empty set has a first trackdir")
	}
}

func TestAreaExpandAndClosest(t *testing.T) {
	g := MakeGrid(20, 20)
	a := Area{}.Add(5, 5).Add(6, 7)
	if a.X != 5 || a.Y != 5 || a.W != 2 || a.H != 3 {
		t.Fatalf("unexpected area %+v", a)
	}
	e := a.Expand(8, g)
	if e.X != 0 || e.Y != 0 || e.W != 15 || e.H != 16 {
		t.Errorf("unexpected expanded area %+v", e)
	}
	if x, y := a.ClosestTo(0, 10); x != 5 || y != 7 {
		t.Errorf("closest point is (%v, %v)", x, y)
	}
	if !a.ContainsTile(g, g.XY(6, 6)) || a.ContainsTile(g, g.XY(7, 6)) {
		t.Errorf("containment is wrong")
	}
}
