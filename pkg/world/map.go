package world

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/natevvv/yapf-routing/pkg/tile"
)

// Reader is the read-only view of the map the pathfinder works on
type Reader interface {
	Grid() tile.Grid
	Tile(t tile.Index) *Tile
	RoadStop(t tile.Index) *RoadStop
	Station(id StationID) *Station
	// vehicles on the tile, ordered by id
	VehiclesOnTile(t tile.Index) []*Vehicle
}

type Map struct {
	grid     tile.Grid
	tiles    []Tile
	stations map[StationID]*Station
	stops    map[tile.Index]*RoadStop
	vehicles []*Vehicle // ordered by id
}

func NewMap(width, height int) *Map {
	g := tile.MakeGrid(width, height)
	m := &Map{
		grid:     g,
		tiles:    make([]Tile, g.Size()),
		stations: make(map[StationID]*Station),
		stops:    make(map[tile.Index]*RoadStop),
		vehicles: make([]*Vehicle, 0),
	}
	for i := range m.tiles {
		m.tiles[i] = Tile{Owner: OwnerNone, Station: InvalidStation, Direction: tile.InvalidDiagDir, TunnelEnd: tile.Invalid}
	}
	return m
}

func (m *Map) Grid() tile.Grid { return m.grid }

func (m *Map) Tile(t tile.Index) *Tile { return &m.tiles[t] }

func (m *Map) RoadStop(t tile.Index) *RoadStop { return m.stops[t] }

func (m *Map) Station(id StationID) *Station { return m.stations[id] }

// Stations returns all stations ordered by id
func (m *Map) Stations() []*Station {
	stations := make([]*Station, 0, len(m.stations))
	for _, st := range m.stations {
		stations = append(stations, st)
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].ID < stations[j].ID })
	return stations
}

func (m *Map) Vehicles() []*Vehicle { return m.vehicles }

func (m *Map) Vehicle(id VehicleID) *Vehicle {
	i := sort.Search(len(m.vehicles), func(i int) bool { return m.vehicles[i].ID >= id })
	if i < len(m.vehicles) && m.vehicles[i].ID == id {
		return m.vehicles[i]
	}
	return nil
}

func (m *Map) VehiclesOnTile(t tile.Index) []*Vehicle {
	onTile := make([]*Vehicle, 0)
	for _, v := range m.vehicles {
		if v.Tile == t {
			onTile = append(onTile, v)
		}
	}
	return onTile
}

func (m *Map) checkTile(x, y int) (tile.Index, error) {
	if !m.grid.Contains(x, y) {
		return tile.Invalid, errors.Errorf("tile (%v, %v) is outside of the map", x, y)
	}
	return m.grid.XY(x, y), nil
}

func (m *Map) SetHeight(x, y, height int, inclined bool) error {
	t, err := m.checkTile(x, y)
	if err != nil {
		return err
	}
	m.tiles[t].Height = uint8(height)
	m.tiles[t].Inclined = inclined
	return nil
}

// AddRoadBits adds road or tram pieces to a clear or road tile
func (m *Map) AddRoadBits(x, y int, rtt RoadTramType, bits tile.RoadBits) error {
	t, err := m.checkTile(x, y)
	if err != nil {
		return err
	}
	tl := &m.tiles[t]
	switch tl.Type {
	case TypeClear:
		tl.Type = TypeRoad
	case TypeRoad:
	default:
		if tl.Bits(rtt)|bits != tl.Bits(rtt) {
			return errors.Errorf("can not add %v %v to %v tile (%v, %v)", rtt, bits, tl.Type, x, y)
		}
		return nil
	}
	if rtt == RoadTypeTram {
		tl.Tram |= bits
	} else {
		tl.Road |= bits
	}
	return nil
}

// Connect links two adjacent tiles with road pieces on both touching edges
func (m *Map) Connect(a, b tile.Index, rtt RoadTramType) error {
	for dir := tile.DiagDirNE; dir < tile.DiagDirEnd; dir++ {
		if n, ok := m.grid.Neighbour(a, dir); ok && n == b {
			if err := m.AddRoadBits(m.grid.X(a), m.grid.Y(a), rtt, tile.DiagDirToRoadBits(dir)); err != nil {
				return err
			}
			return m.AddRoadBits(m.grid.X(b), m.grid.Y(b), rtt, tile.DiagDirToRoadBits(dir.Reverse()))
		}
	}
	return errors.Errorf("tiles %v and %v are not adjacent", m.grid.String(a), m.grid.String(b))
}

// BuildRoad builds a straight, connected road between two tiles on the same row or column
func (m *Map) BuildRoad(x0, y0, x1, y1 int, rtt RoadTramType) error {
	if x0 != x1 && y0 != y1 {
		return errors.Errorf("road (%v, %v)-(%v, %v) is not straight", x0, y0, x1, y1)
	}
	if _, err := m.checkTile(x0, y0); err != nil {
		return err
	}
	if _, err := m.checkTile(x1, y1); err != nil {
		return err
	}
	dx, dy := sign(x1-x0), sign(y1-y0)
	for x, y := x0, y0; x != x1 || y != y1; x, y = x+dx, y+dy {
		if err := m.Connect(m.grid.XY(x, y), m.grid.XY(x+dx, y+dy), rtt); err != nil {
			return err
		}
	}
	return nil
}

// BuildCrossing turns a tile into a road along axis crossing a rail track
func (m *Map) BuildCrossing(x, y int, axis tile.Axis) error {
	t, err := m.checkTile(x, y)
	if err != nil {
		return err
	}
	tl := &m.tiles[t]
	if tl.Type != TypeClear && tl.Type != TypeRoad {
		return errors.Errorf("can not build a level crossing on %v tile (%v, %v)", tl.Type, x, y)
	}
	if tl.Road&^tile.AxisToRoadBits(axis) != 0 || tl.Tram&^tile.AxisToRoadBits(axis) != 0 {
		return errors.Errorf("level crossing at (%v, %v) must be straight", x, y)
	}
	tl.Type = TypeRoad
	tl.Road = tile.AxisToRoadBits(axis)
	tl.Crossing = true
	return nil
}

func (m *Map) SetSpeedLimit(x, y, maxSpeed, minSpeed int) error {
	t, err := m.checkTile(x, y)
	if err != nil {
		return err
	}
	m.tiles[t].MaxSpeed = maxSpeed
	m.tiles[t].MinSpeed = minSpeed
	return nil
}

// BuildDepot builds a road depot whose entrance faces dir
func (m *Map) BuildDepot(x, y int, dir tile.DiagDirection, owner Owner, rtt RoadTramType) error {
	t, err := m.checkTile(x, y)
	if err != nil {
		return err
	}
	if m.tiles[t].Type != TypeClear {
		return errors.Errorf("tile (%v, %v) is not clear", x, y)
	}
	tl := &m.tiles[t]
	tl.Type = TypeDepot
	tl.Direction = dir
	tl.Owner = owner
	// the follower keeps vehicles away from the back wall
	if rtt == RoadTypeTram {
		tl.Tram = tile.AxisToRoadBits(dir.Axis())
	} else {
		tl.Road = tile.AxisToRoadBits(dir.Axis())
	}
	return nil
}

func (m *Map) AddStation(id StationID, name string, owner Owner) (*Station, error) {
	if _, ok := m.stations[id]; ok {
		return nil, errors.Errorf("station %v already exists", id)
	}
	st := &Station{ID: id, Name: name, Owner: owner}
	m.stations[id] = st
	return st, nil
}

// BuildDriveThroughStop builds a stop vehicles drive through along axis
func (m *Map) BuildDriveThroughStop(x, y int, station StationID, stopType StationType, axis tile.Axis, rtt RoadTramType) (*RoadStop, error) {
	t, err := m.checkTile(x, y)
	if err != nil {
		return nil, err
	}
	// drive-through stops may be built on straight roads, keeping their road and tram pieces
	old := m.tiles[t]
	if old.Type == TypeRoad {
		if old.Crossing || (old.Road|old.Tram)&^tile.AxisToRoadBits(axis) != 0 {
			return nil, errors.Errorf("can not build a drive-through stop on road (%v, %v)", x, y)
		}
		m.tiles[t].Type = TypeClear
	}
	rs, err := m.buildStop(x, y, station, stopType)
	if err != nil {
		m.tiles[t] = old
		return nil, err
	}
	tl := &m.tiles[t]
	tl.DriveThrough = true
	if rtt == RoadTypeRoad || old.Road != tile.RoadNone {
		tl.Road = tile.AxisToRoadBits(axis)
	}
	if rtt == RoadTypeTram || old.Tram != tile.RoadNone {
		tl.Tram = tile.AxisToRoadBits(axis)
	}
	m.joinDriveThroughRun(rs, axis)
	return rs, nil
}

// joinDriveThroughRun makes rs share the queues of the drive-through stops next to it.
// Joining two runs adds up their queues.
func (m *Map) joinDriveThroughRun(rs *RoadStop, axis tile.Axis) {
	dirs := [2]tile.DiagDirection{tile.DiagDirNE, tile.DiagDirSW}
	if axis == tile.AxisY {
		dirs = [2]tile.DiagDirection{tile.DiagDirNW, tile.DiagDirSE}
	}
	joined := false
	for _, dir := range dirs {
		next, ok := m.grid.Neighbour(rs.Tile, dir)
		if !ok || !IsDriveThroughContinuation(m, rs.Tile, next) {
			continue
		}
		other := m.stops[next]
		if rs.SharesEntries(other) {
			continue
		}
		if !joined {
			rs.entries = other.entries
			joined = true
			continue
		}
		for i := range rs.entries {
			rs.entries[i].Occupied += other.entries[i].Occupied
			rs.entries[i].Length += other.entries[i].Length
		}
		for t, ok := next, true; ok && IsDriveThroughContinuation(m, rs.Tile, t); t, ok = m.grid.Neighbour(t, dir) {
			m.stops[t].entries = rs.entries
		}
	}
}

// IsDriveThroughRunHead reports whether t is the first tile of its drive-through run
// seen from the north end
func (m *Map) IsDriveThroughRunHead(t tile.Index) bool {
	tl := &m.tiles[t]
	if !tl.IsDriveThroughStop() {
		return false
	}
	dir := tile.DiagDirNE
	if axisOf(tl.Road|tl.Tram) == tile.AxisY {
		dir = tile.DiagDirNW
	}
	prev, ok := m.grid.Neighbour(t, dir)
	return !ok || !IsDriveThroughContinuation(m, t, prev)
}

// BuildBayStop builds a stop with an entrance facing dir that vehicles have to turn around in
func (m *Map) BuildBayStop(x, y int, station StationID, stopType StationType, dir tile.DiagDirection) (*RoadStop, error) {
	rs, err := m.buildStop(x, y, station, stopType)
	if err != nil {
		return nil, err
	}
	tl := &m.tiles[rs.Tile]
	tl.Direction = dir
	tl.Road = tile.AxisToRoadBits(dir.Axis())
	return rs, nil
}

func (m *Map) buildStop(x, y int, station StationID, stopType StationType) (*RoadStop, error) {
	t, err := m.checkTile(x, y)
	if err != nil {
		return nil, err
	}
	st, ok := m.stations[station]
	if !ok {
		return nil, errors.Errorf("unknown station %v", station)
	}
	if m.tiles[t].Type != TypeClear {
		return nil, errors.Errorf("tile (%v, %v) is not clear", x, y)
	}
	tl := &m.tiles[t]
	tl.Type = TypeStation
	tl.Station = station
	tl.StopType = stopType
	tl.Owner = st.Owner
	st.addStop(m.grid, t, stopType)
	rs := &RoadStop{Tile: t, Station: station, entries: new([2]RoadStopEntry)}
	m.stops[t] = rs
	return rs, nil
}

// BuildTunnel builds a tunnel between two tiles on the same row or column
func (m *Map) BuildTunnel(x0, y0, x1, y1 int, rtt RoadTramType) error {
	a, err := m.checkTile(x0, y0)
	if err != nil {
		return err
	}
	b, err := m.checkTile(x1, y1)
	if err != nil {
		return err
	}
	if (x0 != x1 && y0 != y1) || a == b {
		return errors.Errorf("tunnel (%v, %v)-(%v, %v) is not straight", x0, y0, x1, y1)
	}
	if m.tiles[a].Type != TypeClear || m.tiles[b].Type != TypeClear {
		return errors.Errorf("tunnel (%v, %v)-(%v, %v) needs clear heads", x0, y0, x1, y1)
	}
	dir := directionTowards(x0, y0, x1, y1)
	m.buildTunnelHead(a, b, dir, rtt)
	m.buildTunnelHead(b, a, dir.Reverse(), rtt)
	return nil
}

func (m *Map) buildTunnelHead(t, end tile.Index, dir tile.DiagDirection, rtt RoadTramType) {
	tl := &m.tiles[t]
	tl.Type = TypeTunnel
	tl.Direction = dir
	tl.TunnelEnd = end
	if rtt == RoadTypeTram {
		tl.Tram = tile.AxisToRoadBits(dir.Axis())
	} else {
		tl.Road = tile.AxisToRoadBits(dir.Axis())
	}
}

// AddVehicle places a vehicle on the map and resolves the destination tile of its order
func (m *Map) AddVehicle(v *Vehicle) error {
	if !m.grid.IsValid(v.Tile) {
		return errors.Errorf("vehicle %v is outside of the map", v.ID)
	}
	if m.Vehicle(v.ID) != nil {
		return errors.Errorf("vehicle %v already exists", v.ID)
	}
	m.vehicles = append(m.vehicles, v)
	sort.Slice(m.vehicles, func(i, j int) bool { return m.vehicles[i].ID < m.vehicles[j].ID })
	m.ResolveDestTile(v)
	return nil
}

// ResolveDestTile sets the tile the vehicle's order leads to.
// Station orders use the stop closest to the vehicle.
func (m *Map) ResolveDestTile(v *Vehicle) {
	v.DestTile = tile.Invalid
	switch v.Order.Type {
	case OrderGotoDepot, OrderGotoTile:
		if m.grid.IsValid(v.Order.Tile) {
			v.DestTile = v.Order.Tile
		}
	case OrderGotoStation, OrderGotoWaypoint:
		st := m.stations[v.Order.Station]
		if st == nil {
			return
		}
		best := -1
		for _, stop := range st.Stops(v.StopType()) {
			if d := m.grid.Distance(v.Tile, stop); best < 0 || d < best {
				best = d
				v.DestTile = stop
			}
		}
	}
}

// IsDriveThroughContinuation reports whether next continues the drive-through stop on t
func IsDriveThroughContinuation(r Reader, t, next tile.Index) bool {
	a, b := r.Tile(t), r.Tile(next)
	return a.IsDriveThroughStop() && b.IsDriveThroughStop() &&
		a.Station == b.Station && a.StopType == b.StopType &&
		a.Road|a.Tram == b.Road|b.Tram
}

func directionTowards(x0, y0, x1, y1 int) tile.DiagDirection {
	switch {
	case x1 < x0:
		return tile.DiagDirNE
	case x1 > x0:
		return tile.DiagDirSW
	case y1 > y0:
		return tile.DiagDirSE
	}
	return tile.DiagDirNW
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
