// Package httpmiddleware contains net/http middleware shared by the API
// server: panic recovery, CORS, rate limiting, request ids, logging and
// OpenTelemetry instrumentation.
package httpmiddleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Wrap applies middlewares to h. The first middleware is the outermost one,
// so it sees the request first.
func Wrap(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RouteFinder resolves the route pattern serving a request, or "" when no
// route matches.
type RouteFinder func(r *http.Request) string

// MakeRouteFinder returns a RouteFinder matching requests against the routes
// of a chi router without dispatching them.
func MakeRouteFinder(routes chi.Routes) RouteFinder {
	return func(r *http.Request) string {
		rctx := chi.NewRouteContext()
		if !routes.Match(rctx, r.Method, r.URL.Path) {
			return ""
		}
		return rctx.RoutePattern()
	}
}

// routeOrPath returns the matched route pattern, falling back to a constant
// for unmatched requests to keep label cardinality bounded.
func routeOrPath(find RouteFinder, r *http.Request) string {
	if find == nil {
		return "unknown"
	}
	if route := find(r); route != "" {
		return route
	}
	return "unknown"
}
