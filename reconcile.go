package movilidad

import (
	"github.com/ricardomozo1986/MOVILIDAD/routes"
)

// Record is the reconciled estimate for one subsegment. SpeedKmh and
// Duration are nil when no usable data came back; DistanceM always
// holds a value (upstream distance, or the subsegment's geometric
// length as fallback).
type Record struct {
	Sub       *Subsegment
	SpeedKmh  *float64
	DistanceM float64
	Duration  *string
	Color     string
}

// ReconcileBatch matches each subsegment of a batch to its result cell
// and produces exactly one record per subsegment, in batch order.
//
// If batchErr is non-nil the whole batch failed and every subsegment
// degrades to a null-speed record. Otherwise each subsegment at local
// index k looks for the cell with originIndex == k and
// destinationIndex == k (the self-paired convention of the batcher).
// A missing or non-OK cell degrades that one subsegment only; a bad
// cell never suppresses data for its batch-mates.
func ReconcileBatch(batch Batch, cells []routes.MatrixCell, batchErr error) []Record {
	records := make([]Record, 0, len(batch.Subsegments))
	for _, sub := range batch.Subsegments {
		if batchErr != nil {
			records = append(records, nullRecord(sub))
			continue
		}
		cell, found := findCell(cells, sub.Index)
		if !found || !cell.OK() {
			records = append(records, nullRecord(sub))
			continue
		}
		distanceM := cell.DistanceMeters
		if distanceM == 0 {
			distanceM = sub.LengthM
		}
		rec := Record{
			Sub:       sub,
			DistanceM: distanceM,
			Color:     ColorNoData,
		}
		duration := cell.Duration
		rec.Duration = &duration
		if speed, err := EstimateSpeedKmh(distanceM, cell.Duration); err == nil {
			rec.SpeedKmh = &speed
			rec.Color = SpeedColor(speed)
		}
		records = append(records, rec)
	}
	return records
}

// nullRecord is the degraded form: no speed, no duration, geometric
// length as distance.
func nullRecord(sub *Subsegment) Record {
	return Record{
		Sub:       sub,
		DistanceM: sub.LengthM,
		Color:     ColorNoData,
	}
}

func findCell(cells []routes.MatrixCell, index int) (routes.MatrixCell, bool) {
	for _, c := range cells {
		if c.OriginIndex == index && c.DestinationIndex == index {
			return c, true
		}
	}
	return routes.MatrixCell{}, false
}
