package routing

import (
	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
	"github.com/natevvv/yapf-routing/pkg/yapf"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// tile centers in map coordinates, x to the right and y downwards
func center(g tile.Grid, t tile.Index) orb.Point {
	return orb.Point{float64(g.X(t)) + 0.5, float64(g.Y(t)) + 0.5}
}

// NetworkGeoJSON exports the road and tram network, the stops and the depots
func (r *Router) NetworkGeoJSON() *geojson.FeatureCollection {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	g := r.m.Grid()
	fc := geojson.NewFeatureCollection()
	for i := 0; i < g.Size(); i++ {
		t := tile.Index(i)
		tl := r.m.Tile(t)
		for _, rtt := range []world.RoadTramType{world.RoadTypeRoad, world.RoadTypeTram} {
			bits := tl.Bits(rtt)
			// each link once, from the tile with the smaller index
			for _, dir := range []tile.DiagDirection{tile.DiagDirSE, tile.DiagDirSW} {
				n, ok := g.Neighbour(t, dir)
				if !ok || !bits.Has(dir) || !r.m.Tile(n).Bits(rtt).Has(dir.Reverse()) {
					continue
				}
				f := geojson.NewFeature(orb.LineString{center(g, t), center(g, n)})
				f.Properties["kind"] = rtt.String()
				if tl.IsLevelCrossing() {
					f.Properties["crossing"] = true
				}
				fc.Append(f)
			}
			if tl.IsTunnelHead() && bits != tile.RoadNone && t < tl.TunnelEnd {
				f := geojson.NewFeature(orb.LineString{center(g, t), center(g, tl.TunnelEnd)})
				f.Properties["kind"] = "tunnel"
				fc.Append(f)
			}
		}
		switch {
		case tl.IsRoadDepot():
			f := geojson.NewFeature(center(g, t))
			f.Properties["kind"] = "depot"
			f.Properties["owner"] = int(tl.Owner)
			f.Properties["entrance"] = tl.Direction.String()
			fc.Append(f)
		case tl.IsStation():
			f := geojson.NewFeature(center(g, t))
			f.Properties["kind"] = tl.StopType.String()
			f.Properties["station"] = int(tl.Station)
			f.Properties["driveThrough"] = tl.DriveThrough
			fc.Append(f)
		}
	}
	return fc
}

// RouteGeoJSON exports a planned route as line string
func (r *Router) RouteGeoJSON(id world.VehicleID, route yapf.Route) *geojson.FeatureCollection {
	g := r.m.Grid()
	line := make(orb.LineString, 0, len(route.Tiles))
	for _, t := range route.Tiles {
		line = append(line, center(g, t))
	}
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(line)
	f.Properties["vehicle"] = int(id)
	f.Properties["cost"] = route.Cost
	f.Properties["found"] = route.Found
	fc.Append(f)
	return fc
}
