package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrent bounds parallel pipeline runs in a batch.
const DefaultMaxConcurrent = 10

// BatchResult aggregates the outcomes of a batch upload.
type BatchResult struct {
	Total      int      `json:"total"`
	Completed  int      `json:"completed"`
	Duplicates int      `json:"duplicates"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// RunBatch processes uploads concurrently, bounded by maxConcurrent.
// Results keep the input order. Each upload runs in isolation: a failed
// sibling never aborts the rest of the batch. Cancellation of ctx stops
// launching new runs; uploads that never ran are reported as failed.
func (p *Pipeline) RunBatch(ctx context.Context, cmds []UploadCommand, maxConcurrent int64) BatchResult {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrent
	}

	sem := semaphore.NewWeighted(maxConcurrent)
	results := make([]Result, len(cmds))

	var wg sync.WaitGroup
	for i, cmd := range cmds {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = Result{
				Status: StatusFailed,
				Reason: "batch cancelled: " + err.Error(),
			}
			continue
		}

		wg.Add(1)
		go func(i int, cmd UploadCommand) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = p.Run(ctx, cmd)
		}(i, cmd)
	}
	wg.Wait()

	batch := BatchResult{
		Total:   len(cmds),
		Results: results,
	}
	for _, r := range results {
		switch r.Status {
		case StatusCompleted:
			batch.Completed++
		case StatusDuplicate:
			batch.Duplicates++
		default:
			batch.Failed++
		}
	}

	p.logger.Info(
		"batch finished",
		"total", batch.Total,
		"completed", batch.Completed,
		"duplicates", batch.Duplicates,
		"failed", batch.Failed,
	)
	return batch
}
