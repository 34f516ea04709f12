// Package routes declares HTTP routes as data and registers them on a ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/certtrack/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI, when set,
// documents the route in the generated API document.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Key is the ServeMux pattern for the route under prefix.
func (r Route) Key(prefix string) string {
	return r.Method + " " + prefix + r.Pattern
}
