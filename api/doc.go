/*
Package api holds the wire types and configuration shared by the
reconstruction service and its clients.

# Endpoints

	POST /api/reconstruct                  body: share payload document
	GET  /api/reconstruct/{content_id}     payload fetched from the archive

Both accept an optional decimal_places query parameter and answer with a
ReconstructResponse, or an ErrorResponse with one of these statuses:

	400  payload is not a valid share document
	404  archived payload not found
	422  not enough shares, no consistent polynomial, or search too large
	503  archive backends unavailable

# Subpackages

  - clients: HTTP client for the service
*/
package api
