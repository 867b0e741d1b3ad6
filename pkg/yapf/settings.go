package yapf

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	TileLength       = 100 // cost of a straight tile
	TileCornerLength = 71  // cost of a curved tile, without the curve penalty
)

// Settings hold all penalties and budgets of the road pathfinder
type Settings struct {
	SlopePenalty           int `yaml:"road_slope_penalty" json:"roadSlopePenalty"`
	CurvePenalty           int `yaml:"road_curve_penalty" json:"roadCurvePenalty"`
	CrossingPenalty        int `yaml:"road_crossing_penalty" json:"roadCrossingPenalty"`
	StopPenalty            int `yaml:"road_stop_penalty" json:"roadStopPenalty"`
	StopOccupiedPenalty    int `yaml:"road_stop_occupied_penalty" json:"roadStopOccupiedPenalty"`
	StopBayOccupiedPenalty int `yaml:"road_stop_bay_occupied_penalty" json:"roadStopBayOccupiedPenalty"`
	MaxGoToDepotPenalty    int `yaml:"maximum_go_to_depot_penalty" json:"maximumGoToDepotPenalty"`

	MaxSearchNodes  int `yaml:"max_search_nodes" json:"maxSearchNodes"`   // closed nodes before a search is aborted, 0 for no limit
	MaxSearchTiles  int `yaml:"max_search_tiles" json:"maxSearchTiles"`   // priced tiles before a search is aborted, 0 for no limit
	MaxSegmentTiles int `yaml:"max_segment_tiles" json:"maxSegmentTiles"` // tiles in a single segment, 0 for no limit

	PathCacheSegments         int `yaml:"path_cache_segments" json:"pathCacheSegments"`
	PathCacheDestinationLimit int `yaml:"path_cache_destination_limit" json:"pathCacheDestinationLimit"`
}

func DefaultSettings() Settings {
	return Settings{
		SlopePenalty:              2 * TileLength,
		CurvePenalty:              TileLength,
		CrossingPenalty:           3 * TileLength,
		StopPenalty:               8 * TileLength,
		StopOccupiedPenalty:       8 * TileLength,
		StopBayOccupiedPenalty:    15 * TileLength,
		MaxGoToDepotPenalty:       20 * TileLength,
		MaxSearchNodes:            10000,
		MaxSearchTiles:            1 << 18,
		MaxSegmentTiles:           1 << 12,
		PathCacheSegments:         8,
		PathCacheDestinationLimit: 8,
	}
}

// ParseSettings reads YAML settings. Missing keys keep their default value.
func ParseSettings(data []byte) (Settings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, errors.Wrap(err, "parse settings")
	}
	return settings, settings.Validate()
}

func LoadSettings(filename string) (Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return DefaultSettings(), errors.Wrapf(err, "read settings %v", filename)
	}
	settings, err := ParseSettings(data)
	return settings, errors.Wrapf(err, "load %v", filename)
}

func (s Settings) Validate() error {
	values := []struct {
		name  string
		value int
	}{
		{"road_slope_penalty", s.SlopePenalty},
		{"road_curve_penalty", s.CurvePenalty},
		{"road_crossing_penalty", s.CrossingPenalty},
		{"road_stop_penalty", s.StopPenalty},
		{"road_stop_occupied_penalty", s.StopOccupiedPenalty},
		{"road_stop_bay_occupied_penalty", s.StopBayOccupiedPenalty},
		{"maximum_go_to_depot_penalty", s.MaxGoToDepotPenalty},
		{"max_search_nodes", s.MaxSearchNodes},
		{"max_search_tiles", s.MaxSearchTiles},
		{"max_segment_tiles", s.MaxSegmentTiles},
		{"path_cache_segments", s.PathCacheSegments},
		{"path_cache_destination_limit", s.PathCacheDestinationLimit},
	}
	for _, v := range values {
		if v.value < 0 {
			return errors.Errorf("setting %v must not be negative, got %v", v.name, v.value)
		}
	}
	return nil
}

func (s Settings) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	return data, errors.Wrap(err, "marshal settings")
}
