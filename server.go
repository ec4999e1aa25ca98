package movilidad

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var (
	server *http.Server
)

// Snapshot holds the latest annotated network for the external map UI
// to poll. It is replaced wholesale after each ETL pass; readers never
// see a partial run.
type Snapshot struct {
	mu        sync.RWMutex
	data      []byte
	stats     RunStats
	updatedAt time.Time
}

// Replace swaps in the annotated network produced by one run.
func (s *Snapshot) Replace(data []byte, stats RunStats, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.stats = stats
	s.updatedAt = at
}

// Latest returns the current snapshot bytes, or nil before the first run.
func (s *Snapshot) Latest() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Status reports the stats and timestamp of the latest run.
func (s *Snapshot) Status() (RunStats, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.updatedAt
}

// StartServer exposes the snapshot surface consumed by the external
// dashboard: the latest annotated network and a health endpoint.
func StartServer(port int, snap *Snapshot) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handleHealth(snap))
	mux.HandleFunc("/api/network.geojson", handleNetwork(snap))

	addr := fmt.Sprintf(":%d", port)
	server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

func handleNetwork(snap *Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := snap.Latest()
		if data == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write(data)
	}
}

func HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
}
