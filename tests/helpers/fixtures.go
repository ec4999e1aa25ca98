// Package helpers provides shared fixtures for integration tests: a
// canned road network and a scriptable mock of the route matrix
// upstream.
package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	geojson "github.com/paulmach/go.geojson"
)

// metersPerDegreeLat on the reference sphere used by the pipeline.
const metersPerDegreeLat = 6371008.8 * math.Pi / 180.0

// StraightRoad builds a FeatureCollection holding one two-point
// LineString of the given length in meters, running due north.
func StraightRoad(name string, lengthM float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	feat := geojson.NewLineStringFeature([][]float64{
		{-74.0330, 4.9145},
		{-74.0330, 4.9145 + lengthM/metersPerDegreeLat},
	})
	feat.SetProperty("name", name)
	fc.AddFeature(feat)
	return fc
}

// CellScript decides the response line for one self-paired cell index.
type CellScript func(index int) string

// OKCell renders a successful cell with the given distance and duration.
func OKCell(index int, distanceM float64, duration string) string {
	return fmt.Sprintf(`{"originIndex":%d,"destinationIndex":%d,"status":"OK","distanceMeters":%g,"duration":"%s"}`,
		index, index, distanceM, duration)
}

// FailedCell renders a cell whose status is not OK.
func FailedCell(index int) string {
	return fmt.Sprintf(`{"originIndex":%d,"destinationIndex":%d,"status":"NOT_FOUND"}`, index, index)
}

// MatrixServer is a mock route matrix upstream. It inspects each
// request's origin count and emits one scripted cell per subsegment as
// newline-delimited JSON.
type MatrixServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests int
}

// NewMatrixServer starts a mock upstream driven by the given script.
func NewMatrixServer(script CellScript) *MatrixServer {
	ms := &MatrixServer{}
	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ms.mu.Lock()
		ms.requests++
		ms.mu.Unlock()

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Origins []json.RawMessage `json:"origins"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		lines := make([]string, 0, len(req.Origins))
		for i := range req.Origins {
			lines = append(lines, script(i))
		}
		_, _ = io.WriteString(w, strings.Join(lines, "\n")+"\n")
	}))
	return ms
}

// Requests reports how many matrix queries the mock has served.
func (ms *MatrixServer) Requests() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.requests
}

// NewFailingServer starts a mock upstream that rejects every batch.
func NewFailingServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
}
