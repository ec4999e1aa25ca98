package movilidad

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/ricardomozo1986/MOVILIDAD/config"
	"github.com/ricardomozo1986/MOVILIDAD/routes"
)

// MatrixClient is the upstream contract the pipeline depends on.
// *routes.Client satisfies it.
type MatrixClient interface {
	ComputeRouteMatrix(ctx context.Context, origins, destinations []orb.Point, departure time.Time) ([]routes.MatrixCell, error)
}

// ETL runs the densify -> batch -> query -> reconcile -> assemble
// pipeline. A run always terminates with a complete annotated network
// covering every input subsegment; upstream failures degrade records,
// they never abort the run or drop output.
type ETL struct {
	cfg    config.ETLConfig
	client MatrixClient
}

// NewETL creates a pipeline over the given matrix client.
func NewETL(cfg config.ETLConfig, client MatrixClient) *ETL {
	return &ETL{cfg: cfg, client: client}
}

// Run executes one pass over the network and returns the annotated
// feature collection plus run statistics. Output order equals input
// traversal order regardless of batch completion order. The context
// aborts the run between batches; in-flight work is simply discarded.
func (e *ETL) Run(ctx context.Context, network []RoadSegment) (*geojson.FeatureCollection, RunStats, error) {
	subs := DensifyNetwork(network, e.cfg.SubsegmentMeters)
	batches := MakeBatches(subs, e.cfg.BatchSize)

	var records []Record
	var err error
	if e.cfg.Workers > 1 {
		records, err = e.runConcurrent(ctx, batches)
	} else {
		records, err = e.runSequential(ctx, batches)
	}
	if err != nil {
		return nil, RunStats{}, err
	}

	fc := AssembleNetwork(records, time.Now())
	return fc, ComputeStats(records), nil
}

func (e *ETL) runSequential(ctx context.Context, batches []Batch) ([]Record, error) {
	var records []Record
	for i, batch := range batches {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "run aborted")
		default:
		}
		records = append(records, e.processBatch(ctx, i, batch)...)
	}
	return records, nil
}

// runConcurrent dispatches batches to a bounded worker pool and
// restores input order afterwards. Batches are independent; the only
// shared resource is the HTTP connection pool.
func (e *ETL) runConcurrent(ctx context.Context, batches []Batch) ([]Record, error) {
	results := make([][]Record, len(batches))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.processBatch(ctx, i, batches[i])
			}
		}()
	}
	for i := range batches {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, errors.Wrap(ctx.Err(), "run aborted")
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var records []Record
	for _, rs := range results {
		records = append(records, rs...)
	}
	return records, nil
}

// processBatch issues one matrix query and reconciles its results.
// A failed batch is logged and degraded, never fatal.
func (e *ETL) processBatch(ctx context.Context, num int, batch Batch) []Record {
	cells, err := e.client.ComputeRouteMatrix(ctx, batch.Origins(), batch.Destinations(), time.Now())
	if err != nil {
		log.Printf("batch %d: matrix request failed, degrading %d subsegments: %v", num, len(batch.Subsegments), err)
	}
	return ReconcileBatch(batch, cells, err)
}

// RunOnce loads the input network, runs one ETL pass and writes the
// annotated snapshot, replacing any previous one.
func RunOnce(ctx context.Context, e *ETL, inputPath, outputPath string) (RunStats, error) {
	network, err := LoadNetwork(inputPath)
	if err != nil {
		return RunStats{}, err
	}
	fc, stats, err := e.Run(ctx, network)
	if err != nil {
		return RunStats{}, err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return RunStats{}, errors.Wrap(err, "encode annotated network")
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return RunStats{}, errors.Wrap(err, "write annotated network")
	}
	log.Printf("wrote %s: %d subsegments, %d with data, mean %.1f km/h",
		outputPath, stats.Subsegments, stats.WithData, stats.MeanKmh)
	return stats, nil
}
