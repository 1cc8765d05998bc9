// Package batch runs item-level work over a fixed-size worker pool, batch
// by batch, retrying failed items and surfacing observable progress —
// generalized from a one-batch-per-zoom-level rendering loop into a
// reusable generic executor.
package batch

import (
	"sync"
	"sync/atomic"
)

const (
	// DefaultBatchSize matches the search engine's default fan-out.
	DefaultBatchSize = 4
	// DefaultRetryCount matches the search engine's default retry budget.
	DefaultRetryCount = 3
)

// ProgressFunc is called after each batch drains with the running totals.
// Drawing anything to a terminal is left to the caller.
type ProgressFunc func(processed, total int)

// Config controls Executor behavior.
type Config struct {
	MaxWorkers int
	BatchSize  int
	RetryCount int
	OnProgress ProgressFunc
}

func (c Config) withDefaults() Config {
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 1
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.RetryCount <= 0 {
		c.RetryCount = 1
	}
	if c.OnProgress == nil {
		c.OnProgress = func(int, int) {}
	}
	return c
}

// Work is the per-item function an Executor fans out. An item gets up to
// Config.RetryCount total attempts; if every attempt returns a non-nil
// error, the item is dropped from the batch's results and counted as
// failed.
type Work[T, R any] func(item T) (R, error)

// Executor fans T-typed items out to a worker pool, batch by batch, and
// returns R-typed results. Every batch fully drains (wg.Wait) before the
// next starts, so worker-local peak memory is bounded by MaxWorkers
// in-flight items at a time, never the whole item set.
type Executor[T, R any] struct {
	cfg Config

	Processed atomic.Int64
	Failed    atomic.Int64
	Batches   atomic.Int64
}

// New returns an Executor configured by cfg, with defaults applied for any
// zero-valued field.
func New[T, R any](cfg Config) *Executor[T, R] {
	return &Executor[T, R]{cfg: cfg.withDefaults()}
}

// Run processes every item in items through work, batch by batch, and
// returns every successfully produced result in submission order across
// batches (not necessarily within a batch, since workers race).
func (e *Executor[T, R]) Run(items []T, work Work[T, R]) []R {
	var results []R
	for _, b := range e.RunBatches(items, work) {
		results = append(results, b...)
	}
	return results
}

// RunBatches is Run's batch-preserving counterpart: each element of the
// returned slice is the result set of one submitted batch, in submission
// order. Callers that need to yield results as soon as a batch drains
// (rather than waiting for the whole item set) use this instead of Run.
func (e *Executor[T, R]) RunBatches(items []T, work Work[T, R]) [][]R {
	var batches [][]R
	total := len(items)

	for start := 0; start < len(items); start += e.cfg.BatchSize {
		end := start + e.cfg.BatchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		batches = append(batches, e.runBatch(batch, work))
		e.Batches.Add(1)
		e.cfg.OnProgress(int(e.Processed.Load()), total)
	}

	return batches
}

func (e *Executor[T, R]) runBatch(batch []T, work Work[T, R]) []R {
	jobs := make(chan T, len(batch))
	for _, item := range batch {
		jobs <- item
	}
	close(jobs)

	resultsCh := make(chan R, len(batch))
	var wg sync.WaitGroup

	workers := e.cfg.MaxWorkers
	if workers > len(batch) {
		workers = len(batch)
	}
	if workers < 1 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				result, err := e.runWithRetry(item, work)
				if err != nil {
					e.Failed.Add(1)
					continue
				}
				e.Processed.Add(1)
				resultsCh <- result
			}
		}()
	}

	wg.Wait()
	close(resultsCh)

	out := make([]R, 0, len(batch))
	for r := range resultsCh {
		out = append(out, r)
	}
	return out
}

func (e *Executor[T, R]) runWithRetry(item T, work Work[T, R]) (R, error) {
	var result R
	var err error
	for attempt := 0; attempt < e.cfg.RetryCount; attempt++ {
		result, err = work(item)
		if err == nil {
			return result, nil
		}
	}
	return result, err
}
