package movilidad

import "github.com/paulmach/orb"

// Batch groups consecutive subsegments for one matrix query.
//
// Origins and destinations are paired positionally: subsegment k of the
// batch is query origin k and query destination k, modelling one
// self-contained travel query per subsegment. This is NOT a full
// origin-destination cross product; only the diagonal cells
// (originIndex == destinationIndex) of the response are meaningful.
type Batch struct {
	Subsegments []*Subsegment
}

// Origins returns the batch's origin waypoints in index order.
func (b Batch) Origins() []orb.Point {
	pts := make([]orb.Point, len(b.Subsegments))
	for i, s := range b.Subsegments {
		pts[i] = s.Origin()
	}
	return pts
}

// Destinations returns the batch's destination waypoints in index order.
func (b Batch) Destinations() []orb.Point {
	pts := make([]orb.Point, len(b.Subsegments))
	for i, s := range b.Subsegments {
		pts[i] = s.Destination()
	}
	return pts
}

// MakeBatches partitions subsegments into consecutive batches of at
// most size entries, preserving order, and assigns each subsegment its
// batch-local index. A size <= 0 falls back to a single batch.
func MakeBatches(subs []*Subsegment, size int) []Batch {
	if len(subs) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(subs)
	}
	batches := make([]Batch, 0, (len(subs)+size-1)/size)
	for start := 0; start < len(subs); start += size {
		end := start + size
		if end > len(subs) {
			end = len(subs)
		}
		batch := Batch{Subsegments: subs[start:end]}
		for i, s := range batch.Subsegments {
			s.Index = i
		}
		batches = append(batches, batch)
	}
	return batches
}
