// Package stats holds the atomic counters the coordinator exposes through
// GetStatistics, generalized from the teacher's per-run tile/empty/byte
// counters into the domain's map_cells/processed/failed/batch counts.
package stats

import "sync/atomic"

// Counters are safe for concurrent use by every search and parse worker.
type Counters struct {
	MapCells       atomic.Int64
	ProcessedItems atomic.Int64
	FailedItems    atomic.Int64
	TotalBatches   atomic.Int64
}

// Snapshot is a point-in-time copy of Counters, safe to hand to a caller
// without exposing the atomics themselves.
type Snapshot struct {
	MapCells       int64
	ProcessedItems int64
	FailedItems    int64
	TotalBatches   int64
}

// Snapshot reads every counter's current value.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		MapCells:       c.MapCells.Load(),
		ProcessedItems: c.ProcessedItems.Load(),
		FailedItems:    c.FailedItems.Load(),
		TotalBatches:   c.TotalBatches.Load(),
	}
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	c.MapCells.Store(0)
	c.ProcessedItems.Store(0)
	c.FailedItems.Store(0)
	c.TotalBatches.Store(0)
}
