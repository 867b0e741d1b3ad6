package routing

import (
	"log"
	"sort"
	"sync"

	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
	"github.com/natevvv/yapf-routing/pkg/yapf"
	"github.com/pkg/errors"
)

var (
	ErrUnknownVehicle = errors.New("unknown vehicle")
	ErrStuck          = errors.New("vehicle can not move")
)

// Decision is the trackdir a vehicle takes on the next tile
type Decision struct {
	Vehicle  world.VehicleID
	Tile     tile.Index
	Trackdir tile.Trackdir
	Cache    world.PathCache
	Cached   bool // taken from the path cache, no search
	Leaders  int  // vehicles ahead the search expected on its way
	Err      error
}

// Stats are aggregated over the lifetime of a router
type Stats struct {
	Ticks     uint64
	Moves     int
	Decisions int
	CacheHits int
	Arrivals  int
	Stuck     int
	Lost      int // decisions without a path
	Searches  int
	KPIs      yapf.SearchKPIs
}

// Router drives the vehicles of a map with the road pathfinder.
// All methods are safe for concurrent use.
type Router struct {
	mutex      sync.Mutex
	m          *world.Map
	pathfinder *yapf.RoadPathfinder
	tick       uint64
	arrived    map[world.VehicleID]bool
	stats      Stats
	debugLevel int
}

func NewRouter(m *world.Map, settings yapf.Settings) *Router {
	return &Router{
		m:          m,
		pathfinder: yapf.NewRoadPathfinder(m, settings, yapf.SimContext{}),
		arrived:    make(map[world.VehicleID]bool),
	}
}

func (r *Router) Map() *world.Map { return r.m }

func (r *Router) Tick() uint64 {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.tick
}

func (r *Router) Settings() yapf.Settings {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.pathfinder.Settings()
}

func (r *Router) SetSettings(settings yapf.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.pathfinder.SetSettings(settings)
	return nil
}

func (r *Router) SetDebugLevel(level int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.debugLevel = level
	r.pathfinder.SetDebugLevel(level)
}

func (r *Router) Stats() Stats {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	stats := r.stats
	stats.Ticks = r.tick
	stats.Searches = r.pathfinder.Searches()
	stats.KPIs = r.pathfinder.KPIs()
	return stats
}

func (r *Router) vehicle(id world.VehicleID) (*world.Vehicle, error) {
	v := r.m.Vehicle(id)
	if v == nil {
		return nil, errors.Wrapf(ErrUnknownVehicle, "vehicle %v", id)
	}
	// searches run on behalf of the vehicle's company
	r.pathfinder.SetContext(yapf.SimContext{Tick: r.tick, Company: v.Owner})
	return v, nil
}

// next returns the tile the vehicle enters next and the direction it moves in
func (r *Router) next(v *world.Vehicle) (*world.RoadFollower, error) {
	f := world.NewRoadFollower(r.m, v)
	if !f.Follow(v.Tile, v.Trackdir) {
		return f, errors.Wrapf(ErrStuck, "vehicle %v on %v", v.ID, r.m.Grid().String(v.Tile))
	}
	return f, nil
}

// ChooseTrack searches the trackdir the vehicle takes on its next tile.
// The vehicle and its path cache are not changed.
func (r *Router) ChooseTrack(id world.VehicleID) (Decision, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	v, err := r.vehicle(id)
	if err != nil {
		return Decision{Vehicle: id}, err
	}
	f, err := r.next(v)
	if err != nil {
		return Decision{Vehicle: id}, err
	}
	leaders := yapf.FindLeaderTargets(r.m, v, f.NewTile)
	td, cache, err := r.pathfinder.ChooseTrack(v, f.NewTile, f.ExitDir)
	return Decision{Vehicle: id, Tile: f.NewTile, Trackdir: td, Cache: cache, Leaders: leaders.Len(), Err: err}, nil
}

// FindNearestDepot returns the closest depot of the vehicle's company.
// A maxCost of 0 uses the go to depot penalty of the settings, a negative one does not limit the search.
func (r *Router) FindNearestDepot(id world.VehicleID, maxCost int) (tile.Index, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	v, err := r.vehicle(id)
	if err != nil {
		return tile.Invalid, 0, err
	}
	switch {
	case maxCost == 0:
		maxCost = r.pathfinder.Settings().MaxGoToDepotPenalty
	case maxCost < 0:
		maxCost = 0
	}
	return r.pathfinder.FindNearestDepot(v, maxCost)
}

func (r *Router) DistanceToTile(id world.VehicleID, dst tile.Index) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	v, err := r.vehicle(id)
	if err != nil {
		return 0, err
	}
	if !r.m.Grid().IsValid(dst) {
		return 0, errors.Errorf("tile %v is outside of the map", dst)
	}
	return r.pathfinder.DistanceToTile(v, dst)
}

// Route traces the path the vehicle is going to drive, starting on its current tile
func (r *Router) Route(id world.VehicleID) (yapf.Route, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	v, err := r.vehicle(id)
	if err != nil {
		return yapf.Route{}, err
	}
	f, err := r.next(v)
	if err != nil {
		return yapf.Route{}, err
	}
	route, err := r.pathfinder.PlanRoute(v, f.NewTile, f.ExitDir)
	if len(route.Tiles) > 0 || route.Found {
		route.Tiles = append([]tile.Index{v.Tile}, route.Tiles...)
		route.Trackdirs = append([]tile.Trackdir{v.Trackdir}, route.Trackdirs...)
	}
	return route, err
}

// Step moves every vehicle with an order one tile ahead.
// All vehicles decide on the positions at the start of the tick, in vehicle id order, then move.
// Vehicles use their path cache and only search when the cache does not cover the next choice.
func (r *Router) Step() []Decision {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	decisions := make([]Decision, 0)
	moves := make([]move, 0)
	for _, v := range r.m.Vehicles() {
		if v.Order.Type == world.OrderNothing || r.arrived[v.ID] {
			continue
		}
		if r.hasArrived(v) {
			r.arrived[v.ID] = true
			r.stats.Arrivals++
			continue
		}
		mv, ok := r.decide(v)
		if !ok {
			continue
		}
		if mv.choice {
			decisions = append(decisions, mv.decision)
		}
		moves = append(moves, mv)
	}
	// vehicles in front enter the next tile first
	sort.SliceStable(moves, func(i, j int) bool { return moves[i].v.Progress > moves[j].v.Progress })
	for _, mv := range moves {
		r.apply(mv)
	}
	r.tick++
	return decisions
}

type move struct {
	v        *world.Vehicle
	decision Decision
	choice   bool
}

// decide picks the trackdir a vehicle takes on its next tile
func (r *Router) decide(v *world.Vehicle) (move, bool) {
	r.pathfinder.SetContext(yapf.SimContext{Tick: r.tick, Company: v.Owner})
	f, err := r.next(v)
	if err != nil {
		r.stats.Stuck++
		if r.debugLevel >= 1 {
			log.Printf("[tick %v] %v\n", r.tick, err)
		}
		return move{}, false
	}

	d := Decision{Vehicle: v.ID, Tile: f.NewTile}
	choice := f.NewTrackdirs.Count() > 1
	switch {
	case !choice:
		d.Trackdir = f.NewTrackdirs.First()
	case r.useCache(v, f):
		d.Trackdir = v.Path.Trackdirs[0]
		d.Cached = true
		v.Path.PopFront()
		r.stats.CacheHits++
	default:
		v.Path.Clear()
		leaders := yapf.FindLeaderTargets(r.m, v, f.NewTile)
		d.Leaders = leaders.Len()
		d.Trackdir, d.Cache, d.Err = r.pathfinder.ChooseTrack(v, f.NewTile, f.ExitDir)
		if d.Err != nil {
			r.stats.Lost++
		}
		v.Path = d.Cache
	}
	if choice {
		r.stats.Decisions++
	}
	return move{v: v, decision: d, choice: choice}, true
}

// apply moves the vehicle onto its next tile, behind the vehicles already there
func (r *Router) apply(mv move) {
	v, d := mv.v, mv.decision
	progress := 0
	for _, other := range r.m.VehiclesOnTile(d.Tile) {
		if other != v && other.Trackdir == d.Trackdir && other.Progress <= progress {
			progress = other.Progress - 1
		}
	}
	v.Tile, v.Trackdir, v.Progress = d.Tile, d.Trackdir, progress
	r.stats.Moves++
	if r.debugLevel >= 2 {
		log.Printf("[tick %v] vehicle %v moves to %v %v\n", r.tick, v.ID, r.m.Grid().String(v.Tile), v.Trackdir)
	}
}

// useCache tells whether the front of the path cache is the choice on the next tile
func (r *Router) useCache(v *world.Vehicle, f *world.RoadFollower) bool {
	if v.Path.IsEmpty() {
		return false
	}
	t, td := v.Path.Front()
	return t == f.NewTile && f.NewTrackdirs.Has(td)
}

func (r *Router) hasArrived(v *world.Vehicle) bool {
	switch v.Order.Type {
	case world.OrderGotoStation, world.OrderGotoWaypoint:
		tl := r.m.Tile(v.Tile)
		return tl.IsStation() && tl.Station == v.Order.Station && tl.StopType == v.StopType()
	}
	return v.Tile == v.DestTile
}

// Arrived reports whether the vehicle reached the destination of its order
func (r *Router) Arrived(id world.VehicleID) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.arrived[id]
}
