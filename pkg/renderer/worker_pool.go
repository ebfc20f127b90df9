package renderer

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs row tasks on a fixed number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers,
// or one per CPU when numWorkers <= 0
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run calls renderRow once for every row in [0, rows), spreading the rows
// over the workers. Each row is handed to exactly one worker. When ctx is
// cancelled, workers stop after their current row and Run returns ctx.Err().
func (wp *WorkerPool) Run(ctx context.Context, rows int, renderRow func(y int)) ([]WorkerStats, error) {
	stats := make([]WorkerStats, wp.numWorkers)
	g, gctx := errgroup.WithContext(ctx)

	tasks := make(chan int, wp.numWorkers)
	g.Go(func() error {
		defer close(tasks)
		for y := 0; y < rows; y++ {
			select {
			case tasks <- y:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < wp.numWorkers; i++ {
		ws := &stats[i]
		ws.ID = i
		g.Go(func() error {
			for y := range tasks {
				if err := gctx.Err(); err != nil {
					return err
				}
				start := time.Now()
				renderRow(y)
				ws.Busy += time.Since(start)
				ws.Rows++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, ctxErr
		}
		return stats, err
	}
	return stats, nil
}
