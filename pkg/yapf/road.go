package yapf

import (
	"log"

	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
)

// RoadPathfinder answers the routing questions of road vehicles.
// Every call runs its own search; nothing is shared between calls.
type RoadPathfinder struct {
	m          world.Reader
	settings   Settings
	ctx        SimContext
	kpis       SearchKPIs // totals over all searches
	searches   int
	debugLevel int
}

func NewRoadPathfinder(m world.Reader, settings Settings, ctx SimContext) *RoadPathfinder {
	return &RoadPathfinder{m: m, settings: settings, ctx: ctx}
}

func (p *RoadPathfinder) SetContext(ctx SimContext)     { p.ctx = ctx }
func (p *RoadPathfinder) SetSettings(settings Settings) { p.settings = settings }
func (p *RoadPathfinder) SetDebugLevel(level int)       { p.debugLevel = level }
func (p *RoadPathfinder) Settings() Settings            { return p.settings }
func (p *RoadPathfinder) KPIs() SearchKPIs              { return p.kpis }
func (p *RoadPathfinder) Searches() int                 { return p.searches }

// ChooseTrack picks the trackdir a vehicle takes on tile t, which it enters moving in direction enterdir.
// It returns the choices of the path ahead for the path cache.
// If no path is found, the trackdir leads towards the most promising node and the error tells why.
func (p *RoadPathfinder) ChooseTrack(v *world.Vehicle, t tile.Index, enterdir tile.DiagDirection) (tile.Trackdir, world.PathCache, error) {
	var cache world.PathCache

	// arriving at the destination tile, no need to search
	if t == v.DestTile && v.Order.Type != world.OrderGotoStation {
		return tile.DiagDirToDiagTrackdir(enterdir), cache, nil
	}

	trackdirs := p.m.Tile(t).Trackdirs(v.RoadType) & tile.TrackdirsEnteredBy(enterdir)
	if trackdirs.IsEmpty() {
		return tile.InvalidTrackdir, cache, ErrInvalidOrigin
	}

	destination, destErr := p.destination(v)
	leaders := FindLeaderTargets(p.m, v, t)
	s := p.newSearch(v, destination, &leaders)
	s.AddOrigin(t, trackdirs)
	err := p.run(s)
	if destErr != nil {
		err = destErr
	}

	best := s.BestNode()
	if best == nil {
		return trackdirs.First(), cache, err
	}
	path := s.Path(best)
	if path[0].key.Tile != t {
		panic("path does not start at the origin tile")
	}
	for i, n := range path[1:] {
		if n.isChoice && i < p.settings.PathCacheSegments {
			cache.Push(n.key.Tile, n.key.Trackdir)
		}
	}
	if err == nil {
		p.trimPathCache(v, t, &cache)
	}

	if p.debugLevel >= 1 {
		log.Printf("Vehicle %v on %v chooses %v, %v cached choices\n", v.ID, t, path[0].key.Trackdir, cache.Len())
	}
	return path[0].key.Trackdir, cache, err
}

// trimPathCache drops choices the vehicle has to take again when it is close to its destination
func (p *RoadPathfinder) trimPathCache(v *world.Vehicle, t tile.Index, cache *world.PathCache) {
	if !cache.IsEmpty() && t == v.DestTile {
		cache.PopBack()
	}
	if v.Order.Type != world.OrderGotoStation && v.Order.Type != world.OrderGotoWaypoint {
		return
	}
	st := p.m.Station(v.Order.Station)
	if st == nil {
		return
	}
	stops := p.usableStops(v, st)
	if len(stops) == 0 {
		return
	}
	// the stop to use is picked when the vehicle gets there
	if !p.m.Tile(stops[0]).DriveThrough && len(stops) == 1 {
		return
	}
	zone := st.Area(v.StopType()).Expand(p.settings.PathCacheDestinationLimit, p.m.Grid())
	for !cache.IsEmpty() {
		back, _ := cache.Back()
		if !zone.ContainsTile(p.m.Grid(), back) {
			break
		}
		cache.PopBack()
	}
}

func (p *RoadPathfinder) usableStops(v *world.Vehicle, st *world.Station) []tile.Index {
	stops := make([]tile.Index, 0)
	for _, stop := range st.Stops(v.StopType()) {
		if !v.Articulated || p.m.Tile(stop).DriveThrough {
			stops = append(stops, stop)
		}
	}
	return stops
}

// FindNearestDepot searches the cheapest depot reachable from the vehicle's position.
// maxCost limits the search, 0 for no limit.
func (p *RoadPathfinder) FindNearestDepot(v *world.Vehicle, maxCost int) (tile.Index, int, error) {
	trackdirs, err := p.vehicleTrackdirs(v)
	if err != nil {
		return tile.Invalid, 0, err
	}
	s := p.newSearch(v, NewAnyDepot(p.m, p.ctx, v.RoadType), nil)
	s.SetMaxCost(maxCost)
	s.AddOrigin(v.Tile, trackdirs)
	if err := p.run(s); err != nil {
		return tile.Invalid, 0, err
	}
	best := s.BestNode()
	return best.segmentLastTile, best.cost, nil
}

// DistanceToTile returns the cost to reach dst from the vehicle's position
func (p *RoadPathfinder) DistanceToTile(v *world.Vehicle, dst tile.Index) (int, error) {
	if dst == v.Tile {
		return 0, nil
	}
	trackdirs, err := p.vehicleTrackdirs(v)
	if err != nil {
		return 0, err
	}
	destination := NewTileDestination(p.m.Grid(), dst, p.m.Tile(dst).Trackdirs(v.RoadType))
	s := p.newSearch(v, destination, nil)
	s.AddOrigin(v.Tile, trackdirs)
	if err := p.run(s); err != nil {
		return 0, err
	}
	return s.BestNode().cost, nil
}

// Route is a planned path, tile by tile
type Route struct {
	Tiles     []tile.Index
	Trackdirs []tile.Trackdir
	Cost      int
	Found     bool
}

// PlanRoute traces the path ChooseTrack would follow from tile t.
// When no path is found, the route leads to the most promising node.
func (p *RoadPathfinder) PlanRoute(v *world.Vehicle, t tile.Index, enterdir tile.DiagDirection) (Route, error) {
	var route Route
	trackdirs := p.m.Tile(t).Trackdirs(v.RoadType) & tile.TrackdirsEnteredBy(enterdir)
	if trackdirs.IsEmpty() {
		return route, ErrInvalidOrigin
	}
	destination, destErr := p.destination(v)
	leaders := FindLeaderTargets(p.m, v, t)
	s := p.newSearch(v, destination, &leaders)
	s.AddOrigin(t, trackdirs)
	err := p.run(s)
	if destErr != nil {
		err = destErr
	}
	best := s.BestNode()
	if best == nil {
		return route, err
	}

	route.Cost = best.cost
	route.Found = err == nil
	for _, n := range s.Path(best) {
		p.appendSegment(v, n, &route)
	}
	return route, err
}

// appendSegment walks the segment of n again, tile by tile
func (p *RoadPathfinder) appendSegment(v *world.Vehicle, n *Node, route *Route) {
	t, td := n.key.Tile, n.key.Trackdir
	route.Tiles = append(route.Tiles, t)
	route.Trackdirs = append(route.Trackdirs, td)
	for steps := 0; t != n.segmentLastTile || td != n.segmentLastTrackdir; steps++ {
		f := world.NewRoadFollower(p.m, v)
		if !f.Follow(t, td) || (p.settings.MaxSegmentTiles > 0 && steps > p.settings.MaxSegmentTiles) {
			panic("segment can not be followed again")
		}
		t, td = f.NewTile, f.NewTrackdirs.First()
		route.Tiles = append(route.Tiles, t)
		route.Trackdirs = append(route.Trackdirs, td)
	}
}

// destination resolves the order of the vehicle
func (p *RoadPathfinder) destination(v *world.Vehicle) (Destination, error) {
	switch v.Order.Type {
	case world.OrderGotoStation, world.OrderGotoWaypoint:
		st := p.m.Station(v.Order.Station)
		if st == nil || st.Area(v.StopType()).IsEmpty() {
			return unreachable{}, ErrMalformedDestination
		}
		return NewStationDestination(p.m, st, v.StopType(), !v.Articulated, v.Order.Trackdirs), nil
	}
	if !p.m.Grid().IsValid(v.DestTile) {
		return unreachable{}, ErrMalformedDestination
	}
	trackdirs := p.m.Tile(v.DestTile).Trackdirs(v.RoadType)
	if trackdirs.IsEmpty() {
		return unreachable{}, ErrMalformedDestination
	}
	return NewTileDestination(p.m.Grid(), v.DestTile, trackdirs), nil
}

func (p *RoadPathfinder) vehicleTrackdirs(v *world.Vehicle) (tile.TrackdirBits, error) {
	if !p.m.Tile(v.Tile).Trackdirs(v.RoadType).Has(v.Trackdir) {
		return tile.TrackdirBitsNone, ErrInvalidOrigin
	}
	return v.Trackdir.Bit(), nil
}

func (p *RoadPathfinder) newSearch(v *world.Vehicle, destination Destination, leaders *LeaderTargets) *Search {
	s := NewSearch(p.settings, destination, newRoadExpander(p.m, v, &p.settings, destination, leaders))
	s.SetDebugLevel(p.debugLevel)
	return s
}

func (p *RoadPathfinder) run(s *Search) error {
	err := s.Run()
	p.kpis.Add(s.KPIs())
	p.searches++
	if p.debugLevel >= 1 {
		log.Printf("[tick %v] search %v: %v, %v nodes closed\n", p.ctx.Tick, p.searches, s.State(), s.KPIs().ClosedNodes())
	}
	return err
}
