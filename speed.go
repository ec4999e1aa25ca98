package movilidad

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Display colors for the five speed bands.
const (
	ColorFast      = "#2E7D32" // >= 45 km/h
	ColorModerate  = "#F9A825" // >= 30 km/h
	ColorSlow      = "#EF6C00" // >= 15 km/h
	ColorCongested = "#C62828" // < 15 km/h
	ColorNoData    = "#888888" // no usable speed
)

// Classification thresholds in km/h, inclusive at the lower bound.
const (
	fastThresholdKmh     = 45.0
	moderateThresholdKmh = 30.0
	slowThresholdKmh     = 15.0
)

// EstimateSpeedKmh converts a distance in meters and an upstream
// duration string of the form "<seconds>s" into a speed in km/h.
// A missing, malformed or non-positive duration is an error; the caller
// maps it to a null speed for that subsegment only.
func EstimateSpeedKmh(distanceM float64, duration string) (float64, error) {
	if duration == "" || !strings.HasSuffix(duration, "s") {
		return 0, errors.Errorf("malformed duration %q", duration)
	}
	sec, err := strconv.ParseFloat(strings.TrimSuffix(duration, "s"), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed duration %q", duration)
	}
	if sec <= 0 {
		return 0, errors.Errorf("non-positive duration %q", duration)
	}
	return distanceM / sec * 3.6, nil
}

// SpeedColor buckets a defined speed into its display color. Callers
// with no usable speed use ColorNoData directly.
func SpeedColor(kmh float64) string {
	switch {
	case math.IsNaN(kmh):
		return ColorNoData
	case kmh >= fastThresholdKmh:
		return ColorFast
	case kmh >= moderateThresholdKmh:
		return ColorModerate
	case kmh >= slowThresholdKmh:
		return ColorSlow
	default:
		return ColorCongested
	}
}

// round1 rounds half-up to one decimal place.
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
