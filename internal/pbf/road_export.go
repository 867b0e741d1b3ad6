package pbf

import (
	"os"

	"github.com/natevvv/yapf-routing/pkg/road"
	"github.com/natevvv/yapf-routing/pkg/world"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// ExportRoadGeoJSON writes the segments as a feature collection of line strings
func ExportRoadGeoJSON(roads []*road.Segment, filename string) error {
	fc := geojson.NewFeatureCollection()
	for _, s := range roads {
		f := geojson.NewFeature(s.Line)
		f.ID = s.ID
		f.Properties["type"] = s.Type.String()
		f.Properties["oneway"] = s.OneWay
		if s.MaxSpeed > 0 {
			f.Properties["maxspeed"] = s.MaxSpeed
		}
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encode roads")
	}
	return errors.Wrap(os.WriteFile(filename, data, 0644), "write roads")
}

// ExportScenario rasterizes the segments onto a width x height map and writes it as scenario
func ExportScenario(roads []*road.Segment, width, height int, filename string) (*road.Rasterizer, error) {
	r := road.NewRasterizer(road.BoundOf(roads), width, height)
	if err := r.Rasterize(roads); err != nil {
		return r, err
	}
	return r, world.WriteFile(r.Map(), filename)
}
