package main

import (
	"context"
	"flag"
	"log"
	"time"

	lib "github.com/ricardomozo1986/MOVILIDAD"
	"github.com/ricardomozo1986/MOVILIDAD/config"
	"github.com/ricardomozo1986/MOVILIDAD/routes"
)

func main() {
	mode := flag.String("mode", "oneshot", "oneshot|serve")
	input := flag.String("input", "", "road network GeoJSON (overrides config)")
	output := flag.String("output", "", "annotated output GeoJSON (overrides config)")
	subsegmentM := flag.Float64("subsegment", 0, "target subsegment length in meters (overrides config)")
	batchSize := flag.Int("batch", 0, "subsegments per matrix request (overrides config)")
	workers := flag.Int("workers", 0, "concurrent batch workers (overrides config)")
	interval := flag.Int("interval", 0, "serve mode refresh interval in seconds (overrides config)")
	flag.Parse()

	lib.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := config.Config
	if *input != "" {
		cfg.ETL.InputPath = *input
	}
	if *output != "" {
		cfg.ETL.OutputPath = *output
	}
	if *subsegmentM > 0 {
		cfg.ETL.SubsegmentMeters = *subsegmentM
	}
	if *batchSize > 0 {
		cfg.ETL.BatchSize = *batchSize
	}
	if *workers > 0 {
		cfg.ETL.Workers = *workers
	}
	if *interval > 0 {
		cfg.ETL.RefreshIntervalS = *interval
	}

	apiKey, err := cfg.Routes.APIKey()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	client := routes.NewClient(apiKey, time.Duration(cfg.Routes.TimeoutMS)*time.Millisecond).
		WithEndpoint(cfg.Routes.Endpoint).
		WithRetries(cfg.Routes.MaxRetries)
	etl := lib.NewETL(cfg.ETL, client)

	switch *mode {
	case "oneshot":
		if _, err := lib.RunOnce(context.Background(), etl, cfg.ETL.InputPath, cfg.ETL.OutputPath); err != nil {
			log.Fatalf("etl: %v", err)
		}
	case "serve":
		snap := &lib.Snapshot{}
		lib.StartServer(cfg.Server.Port, snap)
		go refreshLoop(etl, cfg, snap)
		lib.HandleGracefulShutdown()
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

// refreshLoop re-runs the ETL on an interval and publishes each
// finished snapshot. A failed pass keeps the previous snapshot.
func refreshLoop(etl *lib.ETL, cfg config.AppConfig, snap *lib.Snapshot) {
	interval := time.Duration(cfg.ETL.RefreshIntervalS) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}
	for {
		runAndPublish(etl, cfg, snap)
		time.Sleep(interval)
	}
}

func runAndPublish(etl *lib.ETL, cfg config.AppConfig, snap *lib.Snapshot) {
	network, err := lib.LoadNetwork(cfg.ETL.InputPath)
	if err != nil {
		log.Printf("load network: %v", err)
		return
	}
	fc, stats, err := etl.Run(context.Background(), network)
	if err != nil {
		log.Printf("etl run: %v", err)
		return
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		log.Printf("encode snapshot: %v", err)
		return
	}
	snap.Replace(data, stats, time.Now())
	log.Printf("snapshot refreshed: %d subsegments, %d with data, mean %.1f km/h",
		stats.Subsegments, stats.WithData, stats.MeanKmh)
}
