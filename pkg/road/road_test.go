package road

import (
	"testing"

	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
	"github.com/paulmach/orb"
)

func segment(id int64, highway string, points ...orb.Point) *Segment {
	s := NewSegment(id, map[string]string{"highway": highway})
	s.Line = append(s.Line, points...)
	return s
}

func TestParseMaxSpeed(t *testing.T) {
	tests := []struct {
		value string
		kmh   int
	}{
		{"50", 50},
		{"30 mph", 48},
		{"none", 0},
		{"", 0},
		{"-5", 0},
	}
	for _, test := range tests {
		if kmh := ParseMaxSpeed(test.value); kmh != test.kmh {
			t.Errorf("%q: got %v, expected %v", test.value, kmh, test.kmh)
		}
	}
}

func TestRoadType(t *testing.T) {
	s := NewSegment(1, map[string]string{"railway": "tram", "maxspeed": "40", "oneway": "yes"})
	if !s.IsTram() || s.MaxSpeed != 40 || !s.OneWay {
		t.Errorf("wrong segment %+v", s)
	}
	if ParseRoadType("footway", "") != Unknown {
		t.Errorf("footway is a road")
	}
}

func TestMerge(t *testing.T) {
	roads := []*Segment{
		segment(1, "primary", orb.Point{0, 0}, orb.Point{1, 0}),
		segment(2, "primary", orb.Point{1, 0}, orb.Point{2, 0}),
		// drawn the other way round
		segment(3, "primary", orb.Point{3, 0}, orb.Point{2, 0}),
		segment(4, "secondary", orb.Point{3, 0}, orb.Point{4, 0}),
		segment(5, "primary"),
	}
	merger := NewMerger(roads)
	merger.Merge()

	if merger.MergeCount() != 2 || merger.UnmergableRoadCount() != 1 {
		t.Errorf("%v merges, %v unmergable", merger.MergeCount(), merger.UnmergableRoadCount())
	}
	merged := merger.Roads()
	if len(merged) != 3 {
		t.Fatalf("%v roads after merge, expected 3", len(merged))
	}
	expected := orb.LineString{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	if !merged[0].Line.Equal(expected) {
		t.Errorf("merged line %v, expected %v", merged[0].Line, expected)
	}
}

func TestMergeKeepsOneWayDirection(t *testing.T) {
	a := segment(1, "primary", orb.Point{0, 0}, orb.Point{1, 0})
	b := segment(2, "primary", orb.Point{2, 0}, orb.Point{1, 0})
	a.OneWay, b.OneWay = true, true
	merger := NewMerger([]*Segment{a, b})
	merger.Merge()
	if merger.MergeCount() != 0 || len(merger.Roads()) != 2 {
		t.Errorf("merged opposing one way roads")
	}
}

func TestWalk(t *testing.T) {
	g := tile.MakeGrid(8, 8)
	tests := [][4]int{{0, 0, 3, 2}, {5, 1, 1, 6}, {2, 2, 2, 7}, {4, 4, 4, 4}}
	for _, test := range tests {
		x0, y0, x1, y1 := test[0], test[1], test[2], test[3]
		tiles := []tile.Index{g.XY(x0, y0)}
		walk(x0, y0, x1, y1, func(ax, ay, bx, by int) error {
			if g.Distance(g.XY(ax, ay), g.XY(bx, by)) != 1 {
				t.Errorf("(%v, %v) and (%v, %v) are not adjacent", ax, ay, bx, by)
			}
			tiles = append(tiles, g.XY(bx, by))
			return nil
		})
		if len(tiles) != abs(x1-x0)+abs(y1-y0)+1 {
			t.Errorf("%v: %v tiles", test, len(tiles))
		}
		if tiles[len(tiles)-1] != g.XY(x1, y1) {
			t.Errorf("%v: ends at %v", test, g.String(tiles[len(tiles)-1]))
		}
	}
}

func TestRasterize(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	r := NewRasterizer(bound, 10, 10)
	main := segment(1, "primary", orb.Point{0.01, 0.99}, orb.Point{0.55, 0.99}, orb.Point{0.99, 0.99})
	main.MaxSpeed = 50
	path := segment(2, "footway", orb.Point{0.01, 0.01}, orb.Point{0.99, 0.01})
	if err := r.Rasterize([]*Segment{main, path}); err != nil {
		t.Fatal(err)
	}
	m := r.Map()
	g := m.Grid()

	if r.Links() != 9 || r.Skipped() != 1 {
		t.Errorf("%v links, %v skipped", r.Links(), r.Skipped())
	}
	if r.Coverage() != 0.1 {
		t.Errorf("coverage %v", r.Coverage())
	}
	for x := 0; x < 10; x++ {
		tl := m.Tile(g.XY(x, 0))
		if tl.Type != world.TypeRoad || tl.MaxSpeed != 50*SpeedUnitsPerKmh {
			t.Errorf("tile (%v, 0) is %v with limit %v", x, tl.Type, tl.MaxSpeed)
		}
	}
	if !m.Tile(g.XY(5, 0)).Trackdirs(world.RoadTypeRoad).Has(tile.TrackdirXSW) {
		t.Errorf("road can not be driven along")
	}
	// road ends have a single piece
	if m.Tile(g.XY(0, 0)).Road != tile.RoadSW {
		t.Errorf("road end has %v", m.Tile(g.XY(0, 0)).Road)
	}
	if m.Tile(g.XY(5, 9)).Type != world.TypeClear {
		t.Errorf("footway was drawn")
	}
}
