/*
Package httpserver serves fault-tolerant Shamir reconstruction over HTTP.

Routes:

	POST /api/reconstruct                 reconstruct the posted share payload
	GET  /api/reconstruct/{content_id}    reconstruct a payload from the archive
	GET  /livez                           liveness
	GET  /readyz                          readiness, false while draining or when the archive is down
	GET  /drain, /undrain                 toggle readiness for load balancer rotation
	     /debug/*                         pprof, when enabled

Results for archived payloads are cached in an LRU keyed by content id, since
a payload id always reconstructs to the same answer. Metrics are served on a
separate listener (see package metrics).
*/
package httpserver
