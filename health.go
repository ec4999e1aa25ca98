package movilidad

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status      string  `json:"status"`
	LastRunAt   string  `json:"last_run_at,omitempty"`
	Subsegments int     `json:"subsegments"`
	WithData    int     `json:"with_data"`
	MeanKmh     float64 `json:"mean_kmh"`
	Below15     int     `json:"below_15_kmh"`
	Below10     int     `json:"below_10_kmh"`
}

func handleHealth(snap *Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		stats, at := snap.Status()
		resp := healthResponse{
			Status:      "ok",
			Subsegments: stats.Subsegments,
			WithData:    stats.WithData,
			MeanKmh:     stats.MeanKmh,
			Below15:     stats.Below15,
			Below10:     stats.Below10,
		}
		if !at.IsZero() {
			resp.LastRunAt = iso8601From(at)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
