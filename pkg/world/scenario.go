package world

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/natevvv/yapf-routing/pkg/tile"
)

// scenario parse states
const (
	PARSE_HEADER = iota
	PARSE_MAP
	PARSE_TILES
	PARSE_STATIONS
	PARSE_STOPS
	PARSE_OCCUPANCY
	PARSE_VEHICLES
)

var sections = map[string]int{
	"@map":       PARSE_MAP,
	"@tiles":     PARSE_TILES,
	"@stations":  PARSE_STATIONS,
	"@stops":     PARSE_STOPS,
	"@occupancy": PARSE_OCCUPANCY,
	"@vehicles":  PARSE_VEHICLES,
}

type scenarioParser struct {
	m *Map
}

// Parse reads a scenario: the map size, tiles, stations, stop occupancy and vehicles.
// Lines starting with '#' are comments.
func Parse(scenario string) (*Map, error) {
	scanner := bufio.NewScanner(strings.NewReader(scenario))
	p := scenarioParser{}

	parseState := PARSE_HEADER
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 1 {
			// skip empty lines
			continue
		} else if line[0] == '#' {
			// skip comments
			continue
		}

		if state, ok := sections[line]; ok {
			if state != PARSE_MAP && p.m == nil {
				return nil, errors.Errorf("line %d: %v before @map", lineNumber, line)
			}
			parseState = state
			continue
		}

		fields := strings.Fields(line)
		var err error
		switch parseState {
		case PARSE_HEADER:
			err = errors.Errorf("expected a section, got %q", line)
		case PARSE_MAP:
			err = p.parseMap(fields)
		case PARSE_TILES:
			err = p.parseTile(fields)
		case PARSE_STATIONS:
			err = p.parseStation(fields)
		case PARSE_STOPS:
			err = p.parseStop(fields)
		case PARSE_OCCUPANCY:
			err = p.parseOccupancy(fields)
		case PARSE_VEHICLES:
			err = p.parseVehicle(fields)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	if p.m == nil {
		return nil, errors.New("scenario has no @map section")
	}
	return p.m, nil
}

func ReadFile(filename string) (*Map, error) {
	scenario, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read %v", filename)
	}
	m, err := Parse(string(scenario))
	return m, errors.Wrapf(err, "parse %v", filename)
}

func WriteFile(m *Map, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %v", filename)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(Write(m)); err != nil {
		return errors.Wrapf(err, "write %v", filename)
	}
	return errors.Wrapf(writer.Flush(), "write %v", filename)
}

func (p *scenarioParser) parseMap(fields []string) error {
	if p.m != nil {
		return errors.New("map size given twice")
	}
	values, err := atois(fields, 2)
	if err != nil {
		return err
	}
	if values[0] <= 0 || values[1] <= 0 {
		return errors.Errorf("invalid map size %vx%v", values[0], values[1])
	}
	p.m = NewMap(values[0], values[1])
	return nil
}

func (p *scenarioParser) parseTile(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "height":
		if len(args) < 3 {
			return errors.New("height needs x y level")
		}
		values, err := atois(args[:3], 3)
		if err != nil {
			return err
		}
		return p.m.SetHeight(values[0], values[1], values[2], len(args) > 3 && args[3] == "inclined")
	case "road", "tram":
		values, err := atois(args, 4)
		if err != nil {
			return err
		}
		return p.m.BuildRoad(values[0], values[1], values[2], values[3], parseRoadTramType(fields[0]))
	case "bits":
		if len(args) != 4 {
			return errors.New("bits needs x y road|tram pieces")
		}
		values, err := atois(args[:2], 2)
		if err != nil {
			return err
		}
		bits, err := tile.ParseRoadBits(args[3])
		if err != nil {
			return err
		}
		return p.m.AddRoadBits(values[0], values[1], parseRoadTramType(args[2]), bits)
	case "crossing":
		if len(args) != 3 {
			return errors.New("crossing needs x y axis")
		}
		values, err := atois(args[:2], 2)
		if err != nil {
			return err
		}
		axis, err := tile.ParseAxis(args[2])
		if err != nil {
			return err
		}
		return p.m.BuildCrossing(values[0], values[1], axis)
	case "speed":
		if len(args) == 3 {
			args = append(args, "0")
		}
		values, err := atois(args, 4)
		if err != nil {
			return err
		}
		return p.m.SetSpeedLimit(values[0], values[1], values[2], values[3])
	case "depot":
		if len(args) < 4 {
			return errors.New("depot needs x y direction owner")
		}
		values, err := atois(args[:2], 2)
		if err != nil {
			return err
		}
		dir, err := tile.ParseDiagDirection(args[2])
		if err != nil {
			return err
		}
		owner, err := strconv.Atoi(args[3])
		if err != nil {
			return err
		}
		rtt := RoadTypeRoad
		if len(args) > 4 {
			rtt = parseRoadTramType(args[4])
		}
		return p.m.BuildDepot(values[0], values[1], dir, Owner(owner), rtt)
	case "tunnel":
		if len(args) < 4 {
			return errors.New("tunnel needs x0 y0 x1 y1")
		}
		values, err := atois(args[:4], 4)
		if err != nil {
			return err
		}
		rtt := RoadTypeRoad
		if len(args) > 4 {
			rtt = parseRoadTramType(args[4])
		}
		return p.m.BuildTunnel(values[0], values[1], values[2], values[3], rtt)
	}
	return errors.Errorf("unknown tile command %q", fields[0])
}

func (p *scenarioParser) parseStation(fields []string) error {
	if len(fields) < 2 {
		return errors.New("station needs id owner [name]")
	}
	values, err := atois(fields[:2], 2)
	if err != nil {
		return err
	}
	_, err = p.m.AddStation(StationID(values[0]), strings.Join(fields[2:], " "), Owner(values[1]))
	return err
}

func (p *scenarioParser) parseStop(fields []string) error {
	if len(fields) < 6 {
		return errors.New("stop needs x y station type drive|bay axis|direction")
	}
	values, err := atois(fields[:3], 3)
	if err != nil {
		return err
	}
	stopType, err := ParseStationType(fields[3])
	if err != nil {
		return err
	}
	x, y, station := values[0], values[1], StationID(values[2])
	switch fields[4] {
	case "drive":
		axis, err := tile.ParseAxis(fields[5])
		if err != nil {
			return err
		}
		rtt := RoadTypeRoad
		shared := false
		for _, option := range fields[6:] {
			switch option {
			case "shared":
				shared = true
			default:
				rtt = parseRoadTramType(option)
			}
		}
		rs, err := p.m.BuildDriveThroughStop(x, y, station, stopType, axis, rtt)
		if err != nil {
			return err
		}
		rs.Shared = shared
		return nil
	case "bay":
		dir, err := tile.ParseDiagDirection(fields[5])
		if err != nil {
			return err
		}
		_, err = p.m.BuildBayStop(x, y, station, stopType, dir)
		return err
	}
	return errors.Errorf("unknown stop layout %q", fields[4])
}

func (p *scenarioParser) parseOccupancy(fields []string) error {
	if len(fields) < 3 {
		return errors.New("occupancy needs x y entry|bays")
	}
	values, err := atois(fields[:2], 2)
	if err != nil {
		return err
	}
	if !p.m.grid.Contains(values[0], values[1]) {
		return errors.Errorf("tile (%v, %v) is outside of the map", values[0], values[1])
	}
	rs := p.m.RoadStop(p.m.grid.XY(values[0], values[1]))
	if rs == nil {
		return errors.Errorf("no road stop at (%v, %v)", values[0], values[1])
	}
	switch fields[2] {
	case "entry":
		if len(fields) != 6 {
			return errors.New("entry needs direction occupied length")
		}
		dir, err := tile.ParseDiagDirection(fields[3])
		if err != nil {
			return err
		}
		entry, err := atois(fields[4:], 2)
		if err != nil {
			return err
		}
		rs.SetEntry(dir, RoadStopEntry{Occupied: entry[0], Length: entry[1]})
		return nil
	case "bays":
		bays, err := atois(fields[3:], 2)
		if err != nil {
			return err
		}
		rs.Bays = [2]bool{bays[0] != 0, bays[1] != 0}
		return nil
	}
	return errors.Errorf("unknown occupancy %q", fields[2])
}

func (p *scenarioParser) parseVehicle(fields []string) error {
	if len(fields) < 7 {
		return errors.New("vehicle needs id owner type road|tram x y trackdir")
	}
	values, err := atois(fields[:2], 2)
	if err != nil {
		return err
	}
	vehType, err := ParseStationType(fields[2])
	if err != nil {
		return err
	}
	xy, err := atois(fields[4:6], 2)
	if err != nil {
		return err
	}
	if !p.m.grid.Contains(xy[0], xy[1]) {
		return errors.Errorf("vehicle at (%v, %v) is outside of the map", xy[0], xy[1])
	}
	td, err := tile.ParseTrackdir(fields[6])
	if err != nil {
		return err
	}
	v := &Vehicle{
		ID:       VehicleID(values[0]),
		Owner:    Owner(values[1]),
		Type:     vehType,
		RoadType: parseRoadTramType(fields[3]),
		Tile:     p.m.grid.XY(xy[0], xy[1]),
		Trackdir: td,
		MaxSpeed: 100,
		Order:    Order{Type: OrderNothing, MaxSpeed: NoSpeedRestriction, Tile: tile.Invalid, Station: InvalidStation},
	}
	for _, option := range fields[7:] {
		if err := p.parseVehicleOption(v, option); err != nil {
			return err
		}
	}
	return p.m.AddVehicle(v)
}

func (p *scenarioParser) parseVehicleOption(v *Vehicle, option string) error {
	if option == "articulated" {
		v.Articulated = true
		return nil
	}
	key, value, found := strings.Cut(option, "=")
	if !found {
		return errors.Errorf("unknown vehicle option %q", option)
	}
	var err error
	switch key {
	case "progress":
		v.Progress, err = strconv.Atoi(value)
	case "speed":
		v.MaxSpeed, err = strconv.Atoi(value)
	case "ordermax":
		v.Order.MaxSpeed, err = strconv.Atoi(value)
	case "dirs":
		v.Order.Trackdirs, err = tile.ParseTrackdirBits(value)
	case "order":
		err = p.parseOrder(&v.Order, value)
	case "path":
		err = p.parsePath(&v.Path, value)
	default:
		err = errors.Errorf("unknown vehicle option %q", key)
	}
	return err
}

// order=station:ID, order=waypoint:ID, order=depot:X,Y or order=tile:X,Y
func (p *scenarioParser) parseOrder(o *Order, value string) error {
	kind, target, _ := strings.Cut(value, ":")
	switch kind {
	case "station", "waypoint":
		id, err := strconv.Atoi(target)
		if err != nil {
			return err
		}
		o.Type = OrderGotoStation
		if kind == "waypoint" {
			o.Type = OrderGotoWaypoint
		}
		o.Station = StationID(id)
	case "depot", "tile":
		t, err := p.parseTileRef(target)
		if err != nil {
			return err
		}
		o.Type = OrderGotoTile
		if kind == "depot" {
			o.Type = OrderGotoDepot
		}
		o.Tile = t
	default:
		return errors.Errorf("unknown order %q", value)
	}
	return nil
}

// path=X,Y,TRACKDIR;X,Y,TRACKDIR
func (p *scenarioParser) parsePath(c *PathCache, value string) error {
	for _, step := range strings.Split(value, ";") {
		parts := strings.Split(step, ",")
		if len(parts) != 3 {
			return errors.Errorf("invalid path step %q", step)
		}
		t, err := p.parseTileRef(parts[0] + "," + parts[1])
		if err != nil {
			return err
		}
		td, err := tile.ParseTrackdir(parts[2])
		if err != nil {
			return err
		}
		c.Push(t, td)
	}
	return nil
}

func (p *scenarioParser) parseTileRef(value string) (tile.Index, error) {
	values, err := atois(strings.Split(value, ","), 2)
	if err != nil {
		return tile.Invalid, err
	}
	if !p.m.grid.Contains(values[0], values[1]) {
		return tile.Invalid, errors.Errorf("tile (%v, %v) is outside of the map", values[0], values[1])
	}
	return p.m.grid.XY(values[0], values[1]), nil
}

func parseRoadTramType(s string) RoadTramType {
	if s == "tram" {
		return RoadTypeTram
	}
	return RoadTypeRoad
}

func atois(fields []string, n int) ([]int, error) {
	if len(fields) != n {
		return nil, errors.Errorf("expected %v numbers, got %v", n, len(fields))
	}
	values := make([]int, n)
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(err, "field %v", i+1)
		}
		values[i] = v
	}
	return values, nil
}

// Write serializes the map in the format read by Parse
func Write(m *Map) string {
	var sb strings.Builder
	g := m.grid
	fmt.Fprintf(&sb, "# yapf scenario\n@map\n%v %v\n\n@tiles\n", g.Width, g.Height)
	speeds := make([]string, 0)
	for i := range m.tiles {
		t := tile.Index(i)
		tl := &m.tiles[i]
		x, y := g.X(t), g.Y(t)
		if tl.Height != 0 || tl.Inclined {
			inclined := ""
			if tl.Inclined {
				inclined = " inclined"
			}
			fmt.Fprintf(&sb, "height %v %v %v%v\n", x, y, tl.Height, inclined)
		}
		switch tl.Type {
		case TypeRoad:
			if tl.Crossing {
				fmt.Fprintf(&sb, "crossing %v %v %v\n", x, y, axisOf(tl.Road))
			} else if tl.Road != tile.RoadNone {
				fmt.Fprintf(&sb, "bits %v %v road %v\n", x, y, tl.Road)
			}
			if tl.Tram != tile.RoadNone {
				fmt.Fprintf(&sb, "bits %v %v tram %v\n", x, y, tl.Tram)
			}
		case TypeDepot:
			fmt.Fprintf(&sb, "depot %v %v %v %v %v\n", x, y, tl.Direction, tl.Owner, rttOf(tl))
		case TypeTunnel:
			// each tunnel once, from its northern head
			if tl.TunnelEnd > t {
				fmt.Fprintf(&sb, "tunnel %v %v %v %v %v\n", x, y, g.X(tl.TunnelEnd), g.Y(tl.TunnelEnd), rttOf(tl))
			}
		}
		if tl.MaxSpeed != 0 || tl.MinSpeed != 0 {
			speeds = append(speeds, fmt.Sprintf("speed %v %v %v %v\n", x, y, tl.MaxSpeed, tl.MinSpeed))
		}
	}
	for _, s := range speeds {
		sb.WriteString(s)
	}

	sb.WriteString("\n@stations\n")
	for _, st := range m.Stations() {
		fmt.Fprintf(&sb, "%v %v %v\n", st.ID, st.Owner, st.Name)
	}

	sb.WriteString("\n@stops\n")
	var occupancy strings.Builder
	for i := range m.tiles {
		t := tile.Index(i)
		tl := &m.tiles[i]
		if !tl.IsStation() {
			continue
		}
		x, y := g.X(t), g.Y(t)
		rs := m.stops[t]
		if tl.DriveThrough {
			shared := ""
			if rs.Shared {
				shared = " shared"
			}
			fmt.Fprintf(&sb, "%v %v %v %v drive %v %v%v\n", x, y, tl.Station, tl.StopType, axisOf(tl.Road|tl.Tram), rttOf(tl), shared)
			dirs := []tile.DiagDirection{tile.DiagDirNE, tile.DiagDirSW}
			if axisOf(tl.Road|tl.Tram) == tile.AxisY {
				dirs = []tile.DiagDirection{tile.DiagDirNW, tile.DiagDirSE}
			}
			// the queues belong to the whole run, they are written once on its head
			for _, dir := range dirs {
				if !m.IsDriveThroughRunHead(t) {
					break
				}
				if e := rs.Entry(dir); e != (RoadStopEntry{}) {
					fmt.Fprintf(&occupancy, "%v %v entry %v %v %v\n", x, y, dir, e.Occupied, e.Length)
				}
			}
		} else {
			fmt.Fprintf(&sb, "%v %v %v %v bay %v\n", x, y, tl.Station, tl.StopType, tl.Direction)
			if rs.Bays[0] || rs.Bays[1] {
				fmt.Fprintf(&occupancy, "%v %v bays %v %v\n", x, y, btoi(rs.Bays[0]), btoi(rs.Bays[1]))
			}
		}
	}
	sb.WriteString("\n@occupancy\n")
	sb.WriteString(occupancy.String())

	sb.WriteString("\n@vehicles\n")
	for _, v := range m.vehicles {
		fmt.Fprintf(&sb, "%v %v %v %v %v %v %v progress=%v speed=%v",
			v.ID, v.Owner, v.Type, v.RoadType, g.X(v.Tile), g.Y(v.Tile), v.Trackdir, v.Progress, v.MaxSpeed)
		if v.Articulated {
			sb.WriteString(" articulated")
		}
		switch v.Order.Type {
		case OrderGotoStation, OrderGotoWaypoint:
			fmt.Fprintf(&sb, " order=%v:%v", v.Order.Type, v.Order.Station)
		case OrderGotoDepot, OrderGotoTile:
			fmt.Fprintf(&sb, " order=%v:%v,%v", v.Order.Type, g.X(v.Order.Tile), g.Y(v.Order.Tile))
		}
		if v.Order.Trackdirs != tile.TrackdirBitsNone {
			fmt.Fprintf(&sb, " dirs=%v", v.Order.Trackdirs)
		}
		if v.Order.MaxSpeed != NoSpeedRestriction {
			fmt.Fprintf(&sb, " ordermax=%v", v.Order.MaxSpeed)
		}
		if !v.Path.IsEmpty() {
			steps := make([]string, v.Path.Len())
			for i := range steps {
				steps[i] = fmt.Sprintf("%v,%v,%v", g.X(v.Path.Tiles[i]), g.Y(v.Path.Tiles[i]), v.Path.Trackdirs[i])
			}
			fmt.Fprintf(&sb, " path=%v", strings.Join(steps, ";"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func axisOf(bits tile.RoadBits) tile.Axis {
	if bits&tile.RoadX != 0 {
		return tile.AxisX
	}
	return tile.AxisY
}

func rttOf(tl *Tile) RoadTramType {
	if tl.Tram != tile.RoadNone && tl.Road == tile.RoadNone {
		return RoadTypeTram
	}
	return RoadTypeRoad
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
