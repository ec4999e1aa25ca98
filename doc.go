// Package movilidad estimates live travel speeds on a road network.
//
// It densifies each road polyline into subsegments of roughly equal
// length, queries a traffic-aware route matrix API for per-subsegment
// travel times, and emits an annotated GeoJSON snapshot where every
// subsegment carries a speed estimate and a display color.
//
// The pipeline is strictly forward: raw network -> subsegments ->
// batched matrix requests -> reconciled records -> annotated output.
// Upstream failures never drop subsegments from the output; failed
// cells degrade to null-speed records.
package movilidad
