package openapi_server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// DefaultApiController binds http requests to an api service and writes the service results to the http response
type DefaultApiController struct {
	service      DefaultApiServicer
	errorHandler ErrorHandler
}

// DefaultApiOption for how the controller is set up.
type DefaultApiOption func(*DefaultApiController)

// WithDefaultApiErrorHandler inject ErrorHandler into controller
func WithDefaultApiErrorHandler(h ErrorHandler) DefaultApiOption {
	return func(c *DefaultApiController) {
		c.errorHandler = h
	}
}

// NewDefaultApiController creates a default api controller
func NewDefaultApiController(s DefaultApiServicer, opts ...DefaultApiOption) Router {
	controller := &DefaultApiController{
		service:      s,
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// Routes returns all of the api route for the DefaultApiController
func (c *DefaultApiController) Routes() Routes {
	return Routes{
		{
			"ChooseTrack",
			strings.ToUpper("Get"),
			"/vehicles/{vehicleId}/track",
			c.ChooseTrack,
		},
		{
			"FindNearestDepot",
			strings.ToUpper("Get"),
			"/vehicles/{vehicleId}/depot",
			c.FindNearestDepot,
		},
		{
			"DistanceToTile",
			strings.ToUpper("Get"),
			"/vehicles/{vehicleId}/distance",
			c.DistanceToTile,
		},
		{
			"GetRoute",
			strings.ToUpper("Get"),
			"/vehicles/{vehicleId}/route",
			c.GetRoute,
		},
		{
			"Tick",
			strings.ToUpper("Post"),
			"/tick",
			c.Tick,
		},
		{
			"GetSettings",
			strings.ToUpper("Get"),
			"/settings",
			c.GetSettings,
		},
		{
			"SetSettings",
			strings.ToUpper("Post"),
			"/settings",
			c.SetSettings,
		},
		{
			"GetMap",
			strings.ToUpper("Get"),
			"/map",
			c.GetMap,
		},
		{
			"GetStats",
			strings.ToUpper("Get"),
			"/stats",
			c.GetStats,
		},
	}
}

// ChooseTrack - Choose the trackdir of a vehicle on its next tile
func (c *DefaultApiController) ChooseTrack(w http.ResponseWriter, r *http.Request) {
	vehicleIdParam, err := parseUint32Parameter(mux.Vars(r)["vehicleId"], true)
	if err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	result, err := c.service.ChooseTrack(r.Context(), vehicleIdParam)
	c.respond(w, r, "GET", result, err)
}

// FindNearestDepot - Find the closest depot of a vehicle's company
func (c *DefaultApiController) FindNearestDepot(w http.ResponseWriter, r *http.Request) {
	vehicleIdParam, err := parseUint32Parameter(mux.Vars(r)["vehicleId"], true)
	if err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	maxCostParam, err := parseIntParameter(r.URL.Query().Get("maxCost"))
	if err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	result, err := c.service.FindNearestDepot(r.Context(), vehicleIdParam, maxCostParam)
	c.respond(w, r, "GET", result, err)
}

// DistanceToTile - Cost of the path from a vehicle to a tile
func (c *DefaultApiController) DistanceToTile(w http.ResponseWriter, r *http.Request) {
	vehicleIdParam, err := parseUint32Parameter(mux.Vars(r)["vehicleId"], true)
	if err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	query := r.URL.Query()
	if query.Get("x") == "" || query.Get("y") == "" {
		c.errorHandler(w, r, &RequiredError{Field: "x, y"}, nil)
		return
	}
	x, err := parseIntParameter(query.Get("x"))
	if err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	y, err := parseIntParameter(query.Get("y"))
	if err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	result, err := c.service.DistanceToTile(r.Context(), vehicleIdParam, TilePosition{X: int32(x), Y: int32(y)})
	c.respond(w, r, "GET", result, err)
}

// GetRoute - Planned route of a vehicle as GeoJSON
func (c *DefaultApiController) GetRoute(w http.ResponseWriter, r *http.Request) {
	vehicleIdParam, err := parseUint32Parameter(mux.Vars(r)["vehicleId"], true)
	if err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	result, err := c.service.GetRoute(r.Context(), vehicleIdParam)
	c.respond(w, r, "GET", result, err)
}

// Tick - Move all vehicles
func (c *DefaultApiController) Tick(w http.ResponseWriter, r *http.Request) {
	tickRequestParam := TickRequest{}
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(&tickRequestParam); err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	if err := AssertTickRequestRequired(tickRequestParam); err != nil {
		c.errorHandler(w, r, err, nil)
		return
	}
	result, err := c.service.Tick(r.Context(), tickRequestParam)
	c.respond(w, r, "POST", result, err)
}

func (c *DefaultApiController) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.GetSettings(r.Context())
	c.respond(w, r, "GET", result, err)
}

// SetSettings - Change the pathfinder settings, missing fields keep their value
func (c *DefaultApiController) SetSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	result, err := c.service.SetSettings(r.Context(), body)
	c.respond(w, r, "POST", result, err)
}

func (c *DefaultApiController) GetMap(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.GetMap(r.Context())
	c.respond(w, r, "GET", result, err)
}

func (c *DefaultApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.GetStats(r.Context())
	c.respond(w, r, "GET", result, err)
}

func (c *DefaultApiController) respond(w http.ResponseWriter, r *http.Request, method string, result ImplResponse, err error) {
	// If an error occurred, encode the error with the status code
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	// If no error, encode the body and the result code
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", method)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	EncodeJSONResponse(result.Body, &result.Code, w)
}
