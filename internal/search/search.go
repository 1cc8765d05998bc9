// Package search drives the batch executor over a cell collection with a
// name query, in sequential or parallel mode, yielding hits batch by batch.
package search

import (
	"strings"

	"github.com/brindlerow/pzmap/internal/batch"
	"github.com/brindlerow/pzmap/internal/cellmodel"
	"github.com/brindlerow/pzmap/internal/coord"
	"github.com/brindlerow/pzmap/internal/mapproc"
)

// Hit is one matched tile, identified by the cell and local position it was
// found at.
type Hit struct {
	Cell  coord.CellCoord
	Local mapproc.SquareHit
}

// Option configures Engine.
type Option func(*options)

type options struct {
	maxWorkers int
	batchSize  int
	retryCount int
	warnf      func(format string, args ...any)
}

func noopWarnf(string, ...any) {}

// WithMaxWorkers sets the worker pool size for parallel mode.
func WithMaxWorkers(n int) Option {
	return func(o *options) { o.maxWorkers = n }
}

// WithWarnf installs a callback for non-fatal per-cell decode warnings.
func WithWarnf(f func(format string, args ...any)) Option {
	return func(o *options) { o.warnf = f }
}

// Engine drives searches over a fixed set of cells.
type Engine struct {
	cells []*cellmodel.MapCell
	o     options
}

// New returns an Engine over cells. Cells outside the caller's desired
// bounds should already be filtered out before construction; Engine itself
// has no notion of bounds.
func New(cells []*cellmodel.MapCell, opts ...Option) *Engine {
	o := options{
		maxWorkers: 1,
		batchSize:  batch.DefaultBatchSize,
		retryCount: batch.DefaultRetryCount,
		warnf:      noopWarnf,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{cells: cells, o: o}
}

// Search runs names (case-folded once, at this boundary) against every
// cell and returns hits grouped by executor batch, in submission order.
// parallel selects a MaxWorkers-sized pool; sequential runs with a single
// worker. Both modes produce the same set of hits grouped by cell — batch
// boundaries may differ, but no hit is dropped or duplicated.
func (e *Engine) Search(names []string, parallel bool) [][]Hit {
	queryLower := make(map[string]struct{}, len(names))
	for _, n := range names {
		queryLower[strings.ToLower(n)] = struct{}{}
	}

	workers := 1
	if parallel {
		workers = e.o.maxWorkers
		if workers < 1 {
			workers = 1
		}
	}

	exec := batch.New[*cellmodel.MapCell, []Hit](batch.Config{
		MaxWorkers: workers,
		BatchSize:  e.o.batchSize,
		RetryCount: e.o.retryCount,
	})

	work := func(cell *cellmodel.MapCell) ([]Hit, error) {
		squareHits, err := mapproc.ProcessCellForSearch(cell, queryLower, mapproc.WithWarnf(e.o.warnf))
		if err != nil {
			return nil, err
		}
		hits := make([]Hit, 0, len(squareHits))
		for _, sh := range squareHits {
			hits = append(hits, Hit{Cell: cell.Position, Local: sh})
		}
		return hits, nil
	}

	var out [][]Hit
	for _, perCellBatch := range exec.RunBatches(e.cells, work) {
		var batchHits []Hit
		for _, hits := range perCellBatch {
			batchHits = append(batchHits, hits...)
		}
		if len(batchHits) > 0 {
			out = append(out, batchHits)
		}
	}
	return out
}
