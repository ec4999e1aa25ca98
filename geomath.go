package movilidad

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	// Mean Earth radius in meters (IUGG sphere approximation).
	earthRadiusM = 6371008.8
	pi180        = math.Pi / 180.0
)

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// HaversineM returns the distance in meters between two WGS84 points
// (longitude, latitude in degrees) on a sphere approximation of Earth.
// Subsegments are short enough that the spherical error is negligible.
func HaversineM(p, q orb.Point) float64 {
	lat1 := degreesToRadians(p[1])
	lat2 := degreesToRadians(q[1])
	dLat := degreesToRadians(q[1] - p[1])
	dLon := degreesToRadians(q[0] - p[0])
	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}

// ChainLengthM returns the length of a polyline in meters, summing the
// haversine distance of each consecutive-vertex leg.
func ChainLengthM(line orb.LineString) float64 {
	total := 0.0
	if len(line) < 2 {
		return total
	}
	for i := 1; i < len(line); i++ {
		total += HaversineM(line[i-1], line[i])
	}
	return total
}

// interpolatePoint returns the point at fraction t along the straight
// leg from p to q, interpolating longitude and latitude independently.
// Valid only for the short legs typical of urban road geometry.
func interpolatePoint(p, q orb.Point, t float64) orb.Point {
	return orb.Point{
		p[0] + (q[0]-p[0])*t,
		p[1] + (q[1]-p[1])*t,
	}
}
