package movilidad

import (
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// RoadSegment is one input road polyline: an ordered chain of at least
// two (lon, lat) vertices plus the caller's property bag. Input is
// immutable; densification copies what it needs.
type RoadSegment struct {
	Chain orb.LineString
	Props map[string]interface{}
}

// LoadNetwork reads a GeoJSON FeatureCollection from disk and extracts
// the road segments it contains.
func LoadNetwork(path string) ([]RoadSegment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read network file")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse network geojson")
	}
	return NetworkFromGeoJSON(fc), nil
}

// NetworkFromGeoJSON extracts RoadSegments from a feature collection.
// Non-LineString features and chains with fewer than 2 vertices are
// skipped; they produce zero segments, not an error.
func NetworkFromGeoJSON(fc *geojson.FeatureCollection) []RoadSegment {
	segments := make([]RoadSegment, 0, len(fc.Features))
	for _, feat := range fc.Features {
		if feat == nil || feat.Geometry == nil || feat.Geometry.Type != geojson.GeometryLineString {
			continue
		}
		coords := feat.Geometry.LineString
		if len(coords) < 2 {
			continue
		}
		chain := make(orb.LineString, 0, len(coords))
		for _, c := range coords {
			if len(c) < 2 {
				continue
			}
			chain = append(chain, orb.Point{c[0], c[1]})
		}
		if len(chain) < 2 {
			continue
		}
		segments = append(segments, RoadSegment{
			Chain: chain,
			Props: copyProps(feat.Properties),
		})
	}
	return segments
}

func copyProps(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
