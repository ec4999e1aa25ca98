package movilidad

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/ricardomozo1986/MOVILIDAD/routes"
)

func testBatch(t *testing.T, n int) Batch {
	t.Helper()
	legs := make([]float64, n)
	for i := range legs {
		legs[i] = 280
	}
	subs := DensifySegment(RoadSegment{Chain: vertical(legs...)}, 300)
	if len(subs) != n {
		t.Fatalf("fixture: expected %d subsegments, got %d", n, len(subs))
	}
	batches := MakeBatches(subs, 40)
	if len(batches) != 1 {
		t.Fatalf("fixture: expected 1 batch, got %d", len(batches))
	}
	return batches[0]
}

func cell(i int, status, duration string, distanceM float64) routes.MatrixCell {
	return routes.MatrixCell{
		OriginIndex:      i,
		DestinationIndex: i,
		Status:           status,
		Duration:         duration,
		DistanceMeters:   distanceM,
	}
}

func TestReconcileBatchSuccess(t *testing.T) {
	batch := testBatch(t, 3)
	cells := []routes.MatrixCell{
		cell(0, routes.StatusOK, "30s", 300),
		cell(1, routes.StatusOK, "40s", 300),
		cell(2, routes.StatusOK, "45s", 300),
	}
	records := ReconcileBatch(batch, cells, nil)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	expected := []struct {
		kmh   float64
		color string
	}{
		{36.0, ColorModerate},
		{27.0, ColorSlow},
		{24.0, ColorSlow},
	}
	for i, rec := range records {
		if rec.SpeedKmh == nil {
			t.Fatalf("record %d: expected speed, got null", i)
		}
		if math.Abs(*rec.SpeedKmh-expected[i].kmh) > 1e-9 {
			t.Errorf("record %d: expected %.1f km/h, got %f", i, expected[i].kmh, *rec.SpeedKmh)
		}
		if rec.Color != expected[i].color {
			t.Errorf("record %d: expected color %s, got %s", i, expected[i].color, rec.Color)
		}
		if rec.DistanceM != 300 {
			t.Errorf("record %d: expected upstream distance 300, got %f", i, rec.DistanceM)
		}
		if rec.Duration == nil {
			t.Errorf("record %d: expected duration, got null", i)
		}
	}
}

// One bad cell must never suppress data for its batch-mates.
func TestReconcileBatchPartialFailureIsolation(t *testing.T) {
	batch := testBatch(t, 3)
	cells := []routes.MatrixCell{
		cell(0, routes.StatusOK, "30s", 300),
		cell(1, "NOT_FOUND", "", 0),
		cell(2, routes.StatusOK, "45s", 300),
	}
	records := ReconcileBatch(batch, cells, nil)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].SpeedKmh == nil || records[2].SpeedKmh == nil {
		t.Error("healthy cells should keep their computed speeds")
	}
	bad := records[1]
	if bad.SpeedKmh != nil || bad.Duration != nil {
		t.Error("failed cell should degrade to null speed and duration")
	}
	if bad.Color != ColorNoData {
		t.Errorf("failed cell should get the neutral color, got %s", bad.Color)
	}
	if math.Abs(bad.DistanceM-bad.Sub.LengthM) > 1e-9 {
		t.Errorf("failed cell should fall back to the stored geometric length %f, got %f", bad.Sub.LengthM, bad.DistanceM)
	}
}

func TestReconcileBatchMissingCell(t *testing.T) {
	batch := testBatch(t, 2)
	cells := []routes.MatrixCell{cell(0, routes.StatusOK, "30s", 280)}
	records := ReconcileBatch(batch, cells, nil)
	if records[0].SpeedKmh == nil {
		t.Error("record 0 should have a speed")
	}
	if records[1].SpeedKmh != nil {
		t.Error("record with no matching cell should have null speed")
	}
}

// Off-diagonal cells do not satisfy the self-paired convention.
func TestReconcileBatchIgnoresOffDiagonalCells(t *testing.T) {
	batch := testBatch(t, 2)
	cells := []routes.MatrixCell{
		{OriginIndex: 0, DestinationIndex: 1, Status: routes.StatusOK, Duration: "30s", DistanceMeters: 280},
		{OriginIndex: 1, DestinationIndex: 0, Status: routes.StatusOK, Duration: "30s", DistanceMeters: 280},
	}
	records := ReconcileBatch(batch, cells, nil)
	for i, rec := range records {
		if rec.SpeedKmh != nil {
			t.Errorf("record %d: off-diagonal cell should not match", i)
		}
	}
}

func TestReconcileBatchWholeBatchFailure(t *testing.T) {
	batch := testBatch(t, 3)
	records := ReconcileBatch(batch, nil, errors.New("HTTP 503"))
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.SpeedKmh != nil || rec.Duration != nil {
			t.Errorf("record %d: batch failure should degrade to nulls", i)
		}
		if rec.Color != ColorNoData {
			t.Errorf("record %d: expected neutral color, got %s", i, rec.Color)
		}
		if math.Abs(rec.DistanceM-rec.Sub.LengthM) > 1e-9 {
			t.Errorf("record %d: expected geometric fallback distance", i)
		}
	}
}

func TestReconcileBatchZeroDistanceFallback(t *testing.T) {
	batch := testBatch(t, 1)
	cells := []routes.MatrixCell{cell(0, routes.StatusOK, "30s", 0)}
	records := ReconcileBatch(batch, cells, nil)
	rec := records[0]
	if math.Abs(rec.DistanceM-rec.Sub.LengthM) > 1e-9 {
		t.Errorf("zero upstream distance should fall back to geometric length %f, got %f", rec.Sub.LengthM, rec.DistanceM)
	}
	if rec.SpeedKmh == nil {
		t.Fatal("speed should still be computed from the fallback distance")
	}
}

func TestReconcileBatchMalformedDuration(t *testing.T) {
	batch := testBatch(t, 1)
	cells := []routes.MatrixCell{cell(0, routes.StatusOK, "soon", 280)}
	records := ReconcileBatch(batch, cells, nil)
	rec := records[0]
	if rec.SpeedKmh != nil {
		t.Error("malformed duration should yield null speed")
	}
	if rec.Duration == nil || *rec.Duration != "soon" {
		t.Error("raw duration string should be preserved on the record")
	}
	if rec.Color != ColorNoData {
		t.Errorf("expected neutral color, got %s", rec.Color)
	}
	if rec.DistanceM != 280 {
		t.Errorf("upstream distance should be kept, got %f", rec.DistanceM)
	}
}
