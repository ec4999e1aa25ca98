package movilidad

import (
	"time"

	geojson "github.com/paulmach/go.geojson"
)

// AssembleNetwork stitches reconciled records into the annotated output
// feature collection, one feature per subsegment, in input traversal
// order. Each feature carries the parent segment's properties merged
// with speed_kmh, distance_m, duration, updated_at and color. The
// result fully replaces any previous snapshot.
func AssembleNetwork(records []Record, at time.Time) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	updatedAt := iso8601From(at)
	for _, rec := range records {
		coords := make([][]float64, len(rec.Sub.Chain))
		for i, p := range rec.Sub.Chain {
			coords[i] = []float64{p[0], p[1]}
		}
		feat := geojson.NewLineStringFeature(coords)
		for k, v := range rec.Sub.Props {
			feat.SetProperty(k, v)
		}
		if rec.SpeedKmh != nil {
			feat.SetProperty("speed_kmh", round1(*rec.SpeedKmh))
		} else {
			feat.SetProperty("speed_kmh", nil)
		}
		feat.SetProperty("distance_m", round1(rec.DistanceM))
		if rec.Duration != nil {
			feat.SetProperty("duration", *rec.Duration)
		} else {
			feat.SetProperty("duration", nil)
		}
		feat.SetProperty("updated_at", updatedAt)
		feat.SetProperty("color", rec.Color)
		fc.AddFeature(feat)
	}
	return fc
}
