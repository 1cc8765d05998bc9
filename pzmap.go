// Package pzmap binds a root map directory to the decoder and search
// components and exposes the library's public surface: parse every cell,
// search by tile name, and look cells up by world position.
package pzmap

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/brindlerow/pzmap/internal/batch"
	"github.com/brindlerow/pzmap/internal/cellmodel"
	"github.com/brindlerow/pzmap/internal/coord"
	"github.com/brindlerow/pzmap/internal/filemanager"
	"github.com/brindlerow/pzmap/internal/lotheader"
	"github.com/brindlerow/pzmap/internal/mapproc"
	"github.com/brindlerow/pzmap/internal/search"
	"github.com/brindlerow/pzmap/internal/stats"
	"github.com/brindlerow/pzmap/internal/tiledef"
)

// Statistics is the public snapshot of a Coordinator's run, per
// GetStatistics.
type Statistics = stats.Snapshot

// Hit is one matched tile surfaced by SearchTiles, in world-ish terms a
// caller outside internal/ can consume without importing internal/coord.
type Hit struct {
	Cell     coord.CellCoord
	Local    coord.LocalCellCoord
	TileName string
}

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	maxWorkers   int
	maxTileCount int32
	legacyIDMode bool
	logger       *log.Logger
	cellFiles    []filemanager.CellFiles
	tdefPaths    []string
}

// WithMaxWorkers sets the parallel search worker pool size. Default 1.
func WithMaxWorkers(n int) Option {
	return func(o *options) { o.maxWorkers = n }
}

// WithMaxTileCount bounds a lot header's tile_count field.
func WithMaxTileCount(n int32) Option {
	return func(o *options) { o.maxTileCount = n }
}

// WithLegacyIDMode forces the legacy TDEF sprite ID formula on every file,
// regardless of filename prefix.
func WithLegacyIDMode(v bool) Option {
	return func(o *options) { o.legacyIDMode = v }
}

// WithLogger overrides the default logger. Warnings from every decoder are
// routed through it.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCellFiles bypasses filesystem discovery entirely, useful for tests
// or callers that already enumerate cell files some other way. TDEF files
// are still discovered under root unless WithTDEFPaths is also given.
func WithCellFiles(cells []filemanager.CellFiles) Option {
	return func(o *options) { o.cellFiles = cells }
}

// WithTDEFPaths supplies TDEF file paths directly, bypassing discovery for
// those files specifically.
func WithTDEFPaths(paths []string) Option {
	return func(o *options) { o.tdefPaths = paths }
}

// Coordinator binds a root directory to the decoder and search components.
// Construction is the only place a non-existent root is a fatal error;
// every later decode failure is demoted to a skipped-cell result.
type Coordinator struct {
	root string
	o    options

	tdefPaths []string

	mu    sync.RWMutex
	cells map[coord.CellCoord]*cellmodel.MapCell
	tdefs *tiledef.DefinitionStore
	stats stats.Counters
}

// New binds root and discovers its cell and TDEF files, unless
// WithCellFiles was supplied. A non-existent root is a construction-time
// error.
func New(root string, opts ...Option) (*Coordinator, error) {
	o := options{maxWorkers: 1, maxTileCount: lotheader.DefaultMaxTileCount, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Coordinator{
		root:  root,
		o:     o,
		cells: make(map[coord.CellCoord]*cellmodel.MapCell),
		tdefs: tiledef.NewDefinitionStore(o.logger.Printf),
	}

	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("pzmap: root %q: %w", root, err)
	}

	cellFiles, tdefPaths := o.cellFiles, o.tdefPaths
	if cellFiles == nil || tdefPaths == nil {
		result, err := filemanager.Discover(root, o.logger.Printf)
		if err != nil {
			return nil, fmt.Errorf("pzmap: discovering %q: %w", root, err)
		}
		if cellFiles == nil {
			cellFiles = result.Cells
		}
		if tdefPaths == nil {
			tdefPaths = result.TDEFPaths
		}
	}

	for _, cf := range cellFiles {
		c.cells[cf.Position] = &cellmodel.MapCell{
			Position:   cf.Position,
			HeaderPath: cf.HeaderPath,
			PackPath:   cf.PackPath,
		}
	}
	c.tdefPaths = tdefPaths

	return c, nil
}

func (c *Coordinator) warnf(format string, args ...any) {
	c.o.logger.Printf(format, args...)
}

// ParseAll decodes every TDEF file, then every cell within bounds. If
// skipTileParsing is true, TDEF decoding is skipped (useful when a caller
// only wants to search by name, since search only needs tile_names from
// lot headers, never TDEF definitions).
func (c *Coordinator) ParseAll(skipTileParsing bool, bounds coord.BoundsCoord) error {
	if !skipTileParsing {
		if err := c.parseTileDefinitions(); err != nil {
			return err
		}
	}

	var targets []*cellmodel.MapCell
	c.mu.RLock()
	for pos, cell := range c.cells {
		if bounds.Contains(pos) {
			targets = append(targets, cell)
		}
	}
	c.mu.RUnlock()

	exec := batch.New[*cellmodel.MapCell, struct{}](batch.Config{
		MaxWorkers: c.o.maxWorkers,
	})
	exec.Run(targets, func(cell *cellmodel.MapCell) (struct{}, error) {
		if err := mapproc.ParseCell(cell,
			mapproc.WithWarnf(c.warnf),
			mapproc.WithMaxTileCount(c.o.maxTileCount),
		); err != nil {
			c.warnf("pzmap: parsing cell %v: %v", cell.Position, err)
			c.stats.FailedItems.Add(1)
			return struct{}{}, err
		}
		c.stats.ProcessedItems.Add(1)
		return struct{}{}, nil
	})
	c.stats.MapCells.Store(int64(len(c.cells)))
	c.stats.TotalBatches.Add(exec.Batches.Load())

	return nil
}

func (c *Coordinator) parseTileDefinitions() error {
	for _, path := range c.tdefPaths {
		sheets, err := c.decodeTDEFFile(path)
		if err != nil {
			c.warnf("pzmap: parsing tdef %q: %v", path, err)
			continue
		}
		c.tdefs.Merge(sheets)
	}
	return nil
}

func (c *Coordinator) decodeTDEFFile(path string) ([]*tiledef.Tilesheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	var tdefOpts []tiledef.Option
	if c.o.legacyIDMode {
		tdefOpts = append(tdefOpts, tiledef.WithLegacyIDMode(true))
	}
	tdefOpts = append(tdefOpts, tiledef.WithWarnf(c.warnf))

	return tiledef.Decode(f, path, tdefOpts...)
}

// SearchTiles runs a name query over every cell within bounds and returns
// the matched hits. parallel selects the configured worker pool; sequential
// always uses one worker. Both modes return the same hit set.
func (c *Coordinator) SearchTiles(names []string, parallel bool, bounds coord.BoundsCoord) []Hit {
	var targets []*cellmodel.MapCell
	c.mu.RLock()
	for pos, cell := range c.cells {
		if bounds.Contains(pos) {
			targets = append(targets, cell)
		}
	}
	c.mu.RUnlock()

	engine := search.New(targets, search.WithMaxWorkers(c.o.maxWorkers), search.WithWarnf(c.warnf))
	batches := engine.Search(names, parallel)

	var hits []Hit
	for _, b := range batches {
		for _, h := range b {
			hits = append(hits, Hit{
				Cell:     h.Cell,
				Local:    coord.LocalCellCoord{X: h.Local.X, Y: h.Local.Y, Z: h.Local.Z},
				TileName: h.Local.Name,
			})
		}
	}
	c.stats.TotalBatches.Add(int64(len(batches)))
	return hits
}

// GetCellAtWorldPosition resolves world to a cell and returns it, or nil
// if no cell was discovered at that position.
func (c *Coordinator) GetCellAtWorldPosition(world coord.WorldCoord) *cellmodel.MapCell {
	cellPos, _ := coord.WorldToCell(world)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cells[cellPos]
}

// GetStatistics returns a point-in-time snapshot of this run's counters.
func (c *Coordinator) GetStatistics() Statistics {
	return c.stats.Snapshot()
}

// ClearData drops every decoded tile definition and resets per-cell
// decoded state. Discovered file paths are kept; a subsequent ParseAll
// starts cold.
func (c *Coordinator) ClearData() {
	c.tdefs.Clear()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cell := range c.cells {
		cell.Release()
	}
	c.stats.Reset()
}
