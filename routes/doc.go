// Package routes is the HTTP client for the traffic-aware route matrix
// endpoint (Google Routes API, computeRouteMatrix).
//
// One request is issued per batch of subsegments, with origins and
// destinations paired positionally. The response is newline-delimited
// JSON, one MatrixCell per line. Transport or HTTP failure is reported
// as a single error for the whole batch; the caller degrades those
// subsegments instead of retrying inline.
package routes
