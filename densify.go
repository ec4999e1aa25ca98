package movilidad

import (
	"math"

	"github.com/paulmach/orb"
)

// cutEpsilonFrac is the tolerance for floating-point drift at cut
// boundaries during the densification walk, as a fraction of the
// current leg's length.
const cutEpsilonFrac = 1e-6

// Subsegment is a contiguous slice of one RoadSegment's chain, the
// atomic unit of speed estimation. Endpoints may be interpolated.
// It carries a copy of the parent's property bag, its geometric length
// in meters (canonical fallback distance during reconciliation), and a
// batch-local index assigned by the batcher.
type Subsegment struct {
	Chain   orb.LineString
	Props   map[string]interface{}
	LengthM float64

	// Index is the subsegment's position within its batch. The matrix
	// query pairs origins and destinations positionally, so Index is
	// both the originIndex and destinationIndex of this subsegment's
	// result cell.
	Index int
}

// Origin returns the subsegment's first vertex.
func (s *Subsegment) Origin() orb.Point {
	return s.Chain[0]
}

// Destination returns the subsegment's last vertex.
func (s *Subsegment) Destination() orb.Point {
	return s.Chain[len(s.Chain)-1]
}

// DensifyNetwork densifies every segment of the network in order and
// returns the concatenated subsegment list.
func DensifyNetwork(network []RoadSegment, targetLenM float64) []*Subsegment {
	var out []*Subsegment
	for _, seg := range network {
		out = append(out, DensifySegment(seg, targetLenM)...)
	}
	return out
}

// DensifySegment splits a road segment into n = ceil(T/L) subsegments
// of equal target length, walking the chain once and interpolating a
// new vertex wherever a cut position falls inside a leg. Concatenated
// subsegment chains reconstruct the original chain with no gap or
// overlap; the final subsegment always terminates at the original last
// vertex. A chain with fewer than 2 vertices or zero total length
// yields no subsegments.
func DensifySegment(seg RoadSegment, targetLenM float64) []*Subsegment {
	coords := seg.Chain
	if len(coords) < 2 || targetLenM <= 0 {
		return nil
	}
	legs := make([]float64, len(coords)-1)
	total := 0.0
	for i := range legs {
		legs[i] = HaversineM(coords[i], coords[i+1])
		total += legs[i]
	}
	if total == 0 {
		return nil
	}

	n := int(math.Ceil(total / targetLenM))
	if n < 1 {
		n = 1
	}

	out := make([]*Subsegment, 0, n)
	curLeg := 0
	distIntoLeg := 0.0
	lastCutAbs := 0.0
	chain := orb.LineString{coords[0]}

	for i := 1; i <= n; i++ {
		cutAbs := float64(i) * total / float64(n)
		cut := false
		for !cut && curLeg < len(legs) {
			legLen := legs[curLeg]
			eps := cutEpsilonFrac * legLen
			remaining := legLen - distIntoLeg
			needed := cutAbs - lastCutAbs
			if needed <= remaining+eps {
				// Cut falls inside the current leg: interpolate the
				// exact vertex and close the subsegment there.
				t := (distIntoLeg + needed) / legLen
				cutPt := interpolatePoint(coords[curLeg], coords[curLeg+1], t)
				chain = append(chain, cutPt)
				out = append(out, newSubsegment(chain, seg.Props))
				chain = orb.LineString{cutPt}
				lastCutAbs = cutAbs
				distIntoLeg += needed
				if math.Abs(distIntoLeg-legLen) <= eps {
					curLeg++
					distIntoLeg = 0
				}
				cut = true
			} else {
				// Cut lies beyond this leg: advance to the next one.
				lastCutAbs += remaining
				curLeg++
				distIntoLeg = 0
				chain = append(chain, coords[curLeg])
			}
		}
		if !cut {
			// Accumulated rounding exhausted the chain before the cut
			// position was reached. Close the trailing subsegment at
			// the original endpoint so coverage stays exact.
			end := coords[len(coords)-1]
			if chain[len(chain)-1] != end {
				chain = append(chain, end)
			}
			if len(chain) >= 2 {
				out = append(out, newSubsegment(chain, seg.Props))
			}
			break
		}
	}

	// Force the last emitted subsegment to terminate at the original
	// last vertex, absorbing interpolation error at t ~= 1.
	if len(out) > 0 {
		last := out[len(out)-1].Chain
		last[len(last)-1] = coords[len(coords)-1]
		out[len(out)-1].LengthM = ChainLengthM(last)
	}

	// Drop degenerate chains left by floating-point edge effects.
	filtered := out[:0]
	for _, s := range out {
		if len(s.Chain) >= 2 {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func newSubsegment(chain orb.LineString, props map[string]interface{}) *Subsegment {
	own := make(orb.LineString, len(chain))
	copy(own, chain)
	return &Subsegment{
		Chain:   own,
		Props:   copyProps(props),
		LengthM: ChainLengthM(own),
	}
}
