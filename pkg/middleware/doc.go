// Package middleware provides the HTTP middleware of the geo console.
//
// This package includes:
//   - Prometheus metrics labelled by route name
//   - OpenTelemetry request tracing
//   - Request ids and structured request logging
//
// # Route labels
//
// Metrics and spans are labelled with the route that served a request, not
// its raw path, to keep label cardinality bounded. Handlers that know the
// route name report it with SetRoute; otherwise the chi route pattern is used.
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID, middleware.Logger(logger))
//	r.Use(middleware.Tracing(), metrics.Handler)
//	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
//	    m, _ := table.Match(r.URL.Path)
//	    middleware.SetRoute(r.Context(), m.Entry.Name)
//	    ...
//	})
//
// # View loads
//
// Metrics implements view.Observer, so the same collector also records
// deferred view loads:
//
//	table.Observe(metrics)
package middleware
