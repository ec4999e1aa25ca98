package routes

// StatusOK is the upstream cell status value that marks a usable result.
const StatusOK = "OK"

// MatrixCell is one origin->destination result of a matrix query.
// Indices are batch-local. Cells live only for the reconciliation of
// their batch.
type MatrixCell struct {
	OriginIndex      int     `json:"originIndex"`
	DestinationIndex int     `json:"destinationIndex"`
	Status           string  `json:"status"`
	DistanceMeters   float64 `json:"distanceMeters"`
	Duration         string  `json:"duration"`
}

// OK reports whether the cell carries a usable estimate.
func (c MatrixCell) OK() bool {
	return c.Status == StatusOK
}

// Request payload types mirroring the computeRouteMatrix JSON shape.

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type location struct {
	LatLng latLng `json:"latLng"`
}

type waypoint struct {
	Location location `json:"location"`
}

type routeMatrixOrigin struct {
	Waypoint waypoint `json:"waypoint"`
}

type routeMatrixRequest struct {
	Origins           []routeMatrixOrigin `json:"origins"`
	Destinations      []routeMatrixOrigin `json:"destinations"`
	TravelMode        string              `json:"travelMode"`
	RoutingPreference string              `json:"routingPreference"`
	DepartureTime     string              `json:"departureTime"`
}
