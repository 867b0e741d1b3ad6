// SPDX-License-Identifier: MIT

package openapi_server

import (
	"encoding/json"
	"log"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gorilla/mux"
)

// A Route defines the parameters for an api endpoint
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// Routes are a collection of defined api endpoints
type Routes []Route

// Router defines the required methods for retrieving api routes
type Router interface {
	Routes() Routes
}

// NewRouter creates a new router for any number of api routers
func NewRouter(routers ...Router) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	for _, api := range routers {
		for _, route := range api.Routes() {
			var handler http.Handler
			handler = route.HandlerFunc
			handler = Logger(handler, route.Name)

			router.
				Methods(route.Method).
				Path(route.Pattern).
				Name(route.Name).
				Handler(handler)
		}
	}

	return router
}

// EncodeJSONResponse uses the json encoder to write an interface to the http response with an optional status code
func EncodeJSONResponse(i interface{}, status *int, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if status != nil {
		w.WriteHeader(*status)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	return json.NewEncoder(w).Encode(i)
}

// parseUint32Parameter parses a string parameter to an uint32
func parseUint32Parameter(param string, required bool) (uint32, error) {
	if param == "" {
		if required {
			return 0, &RequiredError{Field: "parameter"}
		}
		return 0, nil
	}
	val, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(val), nil
}

// parseIntParameter parses an optional string parameter to an int
func parseIntParameter(param string) (int, error) {
	if param == "" {
		return 0, nil
	}
	return strconv.Atoi(param)
}

// IsZeroValue checks if the val is the zero-ed value.
func IsZeroValue(val interface{}) bool {
	return val == nil || reflect.ValueOf(val).IsZero()
}

// Logger logs the requests when debugging is enabled
func Logger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if debugRequests {
			log.Printf("%s %s %s\n", r.Method, r.RequestURI, name)
		}
		inner.ServeHTTP(w, r)
	})
}

var debugRequests = false

// SetDebugRequests enables the request log
func SetDebugRequests(enabled bool) { debugRequests = enabled }
