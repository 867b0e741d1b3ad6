package openapi_server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/natevvv/yapf-routing/pkg/routing"
	"github.com/natevvv/yapf-routing/pkg/tile"
	"github.com/natevvv/yapf-routing/pkg/world"
	"github.com/natevvv/yapf-routing/pkg/yapf"
)

// DefaultApiService is a service that implements the logic for the DefaultApiServicer
// This service should implement the business logic for every endpoint for the DefaultApi API.
// Include any external packages or services that will be required by this service.
type DefaultApiService struct {
	router *routing.Router
}

// NewDefaultApiService creates a default api service
func NewDefaultApiService(router *routing.Router) DefaultApiServicer {
	return &DefaultApiService{
		router: router,
	}
}

func (s *DefaultApiService) position(t tile.Index) TilePosition {
	g := s.router.Map().Grid()
	return TilePosition{X: int32(g.X(t)), Y: int32(g.Y(t))}
}

func (s *DefaultApiService) decision(d routing.Decision) TrackDecision {
	decision := TrackDecision{
		Vehicle:  uint32(d.Vehicle),
		Tile:     s.position(d.Tile),
		Trackdir: d.Trackdir.String(),
		Cached:   d.Cached,
		Leaders:  d.Leaders,
		Found:    d.Err == nil,
		Cache:    make([]CachedChoice, 0, d.Cache.Len()),
	}
	if d.Err != nil {
		decision.Error = d.Err.Error()
	}
	for i, t := range d.Cache.Tiles {
		decision.Cache = append(decision.Cache, CachedChoice{Tile: s.position(t), Trackdir: d.Cache.Trackdirs[i].String()})
	}
	return decision
}

// ChooseTrack - Choose the trackdir of a vehicle on its next tile
func (s *DefaultApiService) ChooseTrack(ctx context.Context, vehicleId uint32) (ImplResponse, error) {
	d, err := s.router.ChooseTrack(world.VehicleID(vehicleId))
	if err != nil {
		return Response(http.StatusInternalServerError, nil), err
	}
	return Response(http.StatusOK, s.decision(d)), nil
}

func (s *DefaultApiService) FindNearestDepot(ctx context.Context, vehicleId uint32, maxCost int) (ImplResponse, error) {
	depot, cost, err := s.router.FindNearestDepot(world.VehicleID(vehicleId), maxCost)
	if err != nil {
		if isSearchError(err) {
			return Response(http.StatusOK, DepotResult{Found: false, Error: err.Error()}), nil
		}
		return Response(http.StatusInternalServerError, nil), err
	}
	position := s.position(depot)
	return Response(http.StatusOK, DepotResult{Found: true, Depot: &position, Cost: cost}), nil
}

func (s *DefaultApiService) DistanceToTile(ctx context.Context, vehicleId uint32, position TilePosition) (ImplResponse, error) {
	g := s.router.Map().Grid()
	if !g.Contains(int(position.X), int(position.Y)) {
		return Response(http.StatusBadRequest, nil), &ParsingError{Err: errOutsideOfMap}
	}
	cost, err := s.router.DistanceToTile(world.VehicleID(vehicleId), g.XY(int(position.X), int(position.Y)))
	if err != nil {
		if isSearchError(err) {
			return Response(http.StatusOK, DistanceResult{Reachable: false, Error: err.Error()}), nil
		}
		return Response(http.StatusInternalServerError, nil), err
	}
	return Response(http.StatusOK, DistanceResult{Reachable: true, Cost: cost}), nil
}

func (s *DefaultApiService) GetRoute(ctx context.Context, vehicleId uint32) (ImplResponse, error) {
	route, err := s.router.Route(world.VehicleID(vehicleId))
	if err != nil && !isSearchError(err) {
		return Response(http.StatusInternalServerError, nil), err
	}
	return Response(http.StatusOK, s.router.RouteGeoJSON(world.VehicleID(vehicleId), route)), nil
}

// Tick - Move all vehicles, one tile per tick
func (s *DefaultApiService) Tick(ctx context.Context, tickRequest TickRequest) (ImplResponse, error) {
	result := TickResult{Decisions: make([]TrackDecision, 0)}
	for i := int32(0); i < tickRequest.Ticks; i++ {
		for _, d := range s.router.Step() {
			result.Decisions = append(result.Decisions, s.decision(d))
		}
	}
	result.Tick = s.router.Tick()
	return Response(http.StatusOK, result), nil
}

func (s *DefaultApiService) GetSettings(ctx context.Context) (ImplResponse, error) {
	return Response(http.StatusOK, s.router.Settings()), nil
}

func (s *DefaultApiService) SetSettings(ctx context.Context, body []byte) (ImplResponse, error) {
	settings := s.router.Settings()
	if err := json.Unmarshal(body, &settings); err != nil {
		return Response(http.StatusBadRequest, nil), &ParsingError{Err: err}
	}
	if err := s.router.SetSettings(settings); err != nil {
		return Response(http.StatusBadRequest, nil), &ParsingError{Err: err}
	}
	return Response(http.StatusOK, settings), nil
}

func (s *DefaultApiService) GetMap(ctx context.Context) (ImplResponse, error) {
	return Response(http.StatusOK, s.router.NetworkGeoJSON()), nil
}

func (s *DefaultApiService) GetStats(ctx context.Context) (ImplResponse, error) {
	stats := s.router.Stats()
	return Response(http.StatusOK, StatsResult{
		Ticks:               stats.Ticks,
		Moves:               stats.Moves,
		Decisions:           stats.Decisions,
		CacheHits:           stats.CacheHits,
		Arrivals:            stats.Arrivals,
		Stuck:               stats.Stuck,
		Lost:                stats.Lost,
		Searches:            stats.Searches,
		ClosedNodes:         stats.KPIs.ClosedNodes(),
		CreatedNodes:        stats.KPIs.CreatedNodes(),
		SearchedTiles:       stats.KPIs.SearchedTiles(),
		HeuristicViolations: stats.KPIs.HeuristicViolations(),
	}), nil
}

var errOutsideOfMap = errors.New("tile is outside of the map")

// isSearchError tells whether the search ran but did not reach a destination
func isSearchError(err error) bool {
	return errors.Is(err, yapf.ErrNoPath) || errors.Is(err, yapf.ErrBudgetExceeded) || errors.Is(err, yapf.ErrMalformedDestination)
}
