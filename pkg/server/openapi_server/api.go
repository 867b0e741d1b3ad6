// SPDX-License-Identifier: MIT

package openapi_server

import (
	"context"
	"net/http"
)

// DefaultApiRouter defines the required methods for binding the api requests to a responses for the DefaultApi
// The DefaultApiRouter implementation should parse necessary information from the http request,
// pass the data to a DefaultApiServicer to perform the required actions, then write the service results to the http response.
type DefaultApiRouter interface {
	ChooseTrack(http.ResponseWriter, *http.Request)
	FindNearestDepot(http.ResponseWriter, *http.Request)
	DistanceToTile(http.ResponseWriter, *http.Request)
	GetRoute(http.ResponseWriter, *http.Request)
	Tick(http.ResponseWriter, *http.Request)
	GetSettings(http.ResponseWriter, *http.Request)
	SetSettings(http.ResponseWriter, *http.Request)
	GetMap(http.ResponseWriter, *http.Request)
	GetStats(http.ResponseWriter, *http.Request)
}

// DefaultApiServicer defines the api actions for the DefaultApi service
// This interface intended to stay up to date with the openapi yaml used to generate it,
// while the service implementation can ignored with the .openapi-generator-ignore file
// and updated with the logic required for the API.
type DefaultApiServicer interface {
	ChooseTrack(context.Context, uint32) (ImplResponse, error)
	FindNearestDepot(context.Context, uint32, int) (ImplResponse, error)
	DistanceToTile(context.Context, uint32, TilePosition) (ImplResponse, error)
	GetRoute(context.Context, uint32) (ImplResponse, error)
	Tick(context.Context, TickRequest) (ImplResponse, error)
	GetSettings(context.Context) (ImplResponse, error)
	SetSettings(context.Context, []byte) (ImplResponse, error)
	GetMap(context.Context) (ImplResponse, error)
	GetStats(context.Context) (ImplResponse, error)
}
