package movilidad

// RunStats summarises one ETL pass for logging and the health surface.
type RunStats struct {
	Subsegments int     `json:"subsegments"`
	WithData    int     `json:"with_data"`
	MeanKmh     float64 `json:"mean_kmh"`
	Below15     int     `json:"below_15_kmh"`
	Below10     int     `json:"below_10_kmh"`
}

// ComputeStats aggregates the reconciled records of one run. MeanKmh is
// zero when no subsegment produced a usable speed.
func ComputeStats(records []Record) RunStats {
	stats := RunStats{Subsegments: len(records)}
	sum := 0.0
	for _, rec := range records {
		if rec.SpeedKmh == nil {
			continue
		}
		v := *rec.SpeedKmh
		stats.WithData++
		sum += v
		if v < 15 {
			stats.Below15++
		}
		if v < 10 {
			stats.Below10++
		}
	}
	if stats.WithData > 0 {
		stats.MeanKmh = round1(sum / float64(stats.WithData))
	}
	return stats
}
