package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// unmatchedRoute labels requests no route claimed.
const unmatchedRoute = "unmatched"

type routeKey struct{}

// routeLabel is filled in by the handler once it knows the route.
type routeLabel struct {
	name string
}

// withRouteLabel returns a context carrying an empty route label.
func withRouteLabel(ctx context.Context) (context.Context, *routeLabel) {
	if l, ok := ctx.Value(routeKey{}).(*routeLabel); ok {
		return ctx, l
	}
	l := &routeLabel{}
	return context.WithValue(ctx, routeKey{}, l), l
}

// SetRoute records the route name serving the request. It is a no-op
// outside the middleware chain.
func SetRoute(ctx context.Context, name string) {
	if l, ok := ctx.Value(routeKey{}).(*routeLabel); ok {
		l.name = name
	}
}

// routeName resolves the label for a finished request.
func routeName(r *http.Request, l *routeLabel) string {
	if l != nil && l.name != "" {
		return l.name
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
