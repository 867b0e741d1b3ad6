// SPDX-License-Identifier: MIT

package openapi_server

type TilePosition struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

type CachedChoice struct {
	Tile     TilePosition `json:"tile"`
	Trackdir string       `json:"trackdir"`
}

// TrackDecision is the trackdir a vehicle takes on its next tile
type TrackDecision struct {
	Vehicle  uint32         `json:"vehicle"`
	Tile     TilePosition   `json:"tile"`
	Trackdir string         `json:"trackdir"`
	Cached   bool           `json:"cached,omitempty"`
	Leaders  int            `json:"leaders,omitempty"`
	Found    bool           `json:"found"`
	Error    string         `json:"error,omitempty"`
	Cache    []CachedChoice `json:"cache"`
}

type DepotResult struct {
	Found bool          `json:"found"`
	Depot *TilePosition `json:"depot,omitempty"`
	Cost  int           `json:"cost,omitempty"`
	Error string        `json:"error,omitempty"`
}

type DistanceResult struct {
	Reachable bool   `json:"reachable"`
	Cost      int    `json:"cost,omitempty"`
	Error     string `json:"error,omitempty"`
}

type TickResult struct {
	Tick      uint64          `json:"tick"`
	Decisions []TrackDecision `json:"decisions"`
}

type StatsResult struct {
	Ticks               uint64 `json:"ticks"`
	Moves               int    `json:"moves"`
	Decisions           int    `json:"decisions"`
	CacheHits           int    `json:"cacheHits"`
	Arrivals            int    `json:"arrivals"`
	Stuck               int    `json:"stuck"`
	Lost                int    `json:"lost"`
	Searches            int    `json:"searches"`
	ClosedNodes         int    `json:"closedNodes"`
	CreatedNodes        int    `json:"createdNodes"`
	SearchedTiles       int    `json:"searchedTiles"`
	HeuristicViolations int    `json:"heuristicViolations"`
}
