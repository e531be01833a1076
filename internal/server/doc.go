// Package server exposes the recommender over HTTP.
//
// Routes:
//
//	GET /                     HTML page with a title selector and result cards
//	GET /api/titles           catalog titles, filtered by ?q= and ?limit=
//	GET /api/recommendations  ranked cards for ?title= with optional ?k=
//	GET /healthz              liveness plus loaded catalog size
//	GET /metrics              Prometheus exposition
//
// Every request passes through request id, access log, metrics, panic
// recovery and timeout middleware.
package server
