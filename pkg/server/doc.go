// Package server runs the geo HTTP server and its live navigation endpoint.
//
// # Lifecycle
//
// Server wraps an http.Server. Run serves until its context ends and then
// shuts down gracefully within ShutdownTimeout.
//
// # Live navigation
//
// LiveHandler upgrades to a WebSocket and answers navigation requests from
// the thin client. Each request carries a sequence number; a newer request
// cancels the previous one, and a superseded result is never sent.
//
//	client: {"type":"navigate","seq":3,"href":"/console/articles/edit/42"}
//	server: {"type":"page","seq":3,"name":"article-edit","params":{"id":"42"},
//	         "href":"/console/articles/edit/42","title":"Edit article","html":"..."}
//
// Unknown paths yield an "error" message carrying the rendered not-found
// page, so the client can show it without a full reload.
package server
