// Package mapproc orchestrates the two per-cell operations the rest of the
// module drives: fully materializing a cell, and the cheaper header-prune
// path the search engine uses.
package mapproc

import (
	"fmt"
	"os"
	"strings"

	"github.com/brindlerow/pzmap/internal/cellmodel"
	"github.com/brindlerow/pzmap/internal/lotheader"
	"github.com/brindlerow/pzmap/internal/lotpack"
)

// Option configures both ParseCell and ProcessCellForSearch.
type Option func(*options)

type options struct {
	warnf       func(format string, args ...any)
	headerOpts  []lotheader.Option
	lotpackOpts []lotpack.Option
}

func noopWarnf(string, ...any) {}

// WithWarnf installs a callback for non-fatal decode warnings forwarded
// from the header and pack decoders.
func WithWarnf(f func(format string, args ...any)) Option {
	return func(o *options) { o.warnf = f }
}

// WithMaxTileCount bounds the lot header's tile_count field.
func WithMaxTileCount(n int32) Option {
	return func(o *options) { o.headerOpts = append(o.headerOpts, lotheader.WithMaxTileCount(n)) }
}

func build(opts []Option) options {
	o := options{warnf: noopWarnf}
	for _, opt := range opts {
		opt(&o)
	}
	o.lotpackOpts = append(o.lotpackOpts, lotpack.WithWarnf(o.warnf))
	return o
}

// ParseCell decodes header then pack for cell and attaches both, leaving
// the cell untouched on any decode failure. The coordinator demotes that
// failure to a skipped-cell result; it is never fatal to a batch.
func ParseCell(cell *cellmodel.MapCell, opts ...Option) error {
	o := build(opts)

	headerFile, err := os.Open(cell.HeaderPath)
	if err != nil {
		return fmt.Errorf("mapproc: opening header %q: %w", cell.HeaderPath, err)
	}
	defer headerFile.Close()

	header, err := lotheader.Decode(headerFile, o.headerOpts...)
	if err != nil {
		return fmt.Errorf("mapproc: decoding header %q: %w", cell.HeaderPath, err)
	}

	packFile, err := os.Open(cell.PackPath)
	if err != nil {
		return fmt.Errorf("mapproc: opening pack %q: %w", cell.PackPath, err)
	}
	defer packFile.Close()

	data, err := lotpack.Decode(packFile, header, cell.Position, o.lotpackOpts...)
	if err != nil {
		return fmt.Errorf("mapproc: decoding pack %q: %w", cell.PackPath, err)
	}

	cell.Header = header
	cell.Data = data
	return nil
}

// SquareHit is one matched tile in a cell's search pass.
type SquareHit struct {
	X, Y, Z int
	Name    string
}

// ProcessCellForSearch decodes only what's needed to answer a name query
// against one cell: the header first, then the pack only if the header's
// name table intersects queryNamesLower. cell.Header and cell.Data are
// always cleared before returning, keeping per-worker peak memory bounded
// by however many cells are in flight, not how many were ever visited.
func ProcessCellForSearch(cell *cellmodel.MapCell, queryNamesLower map[string]struct{}, opts ...Option) ([]SquareHit, error) {
	o := build(opts)
	defer cell.Release()

	headerFile, err := os.Open(cell.HeaderPath)
	if err != nil {
		return nil, fmt.Errorf("mapproc: opening header %q: %w", cell.HeaderPath, err)
	}
	header, err := lotheader.Decode(headerFile, o.headerOpts...)
	headerFile.Close()
	if err != nil {
		return nil, fmt.Errorf("mapproc: decoding header %q: %w", cell.HeaderPath, err)
	}
	cell.Header = header

	if !namesIntersect(header.TileNames, queryNamesLower) {
		return nil, nil
	}

	packFile, err := os.Open(cell.PackPath)
	if err != nil {
		return nil, fmt.Errorf("mapproc: opening pack %q: %w", cell.PackPath, err)
	}
	data, err := lotpack.Decode(packFile, header, cell.Position, o.lotpackOpts...)
	packFile.Close()
	if err != nil {
		return nil, fmt.Errorf("mapproc: decoding pack %q: %w", cell.PackPath, err)
	}
	cell.Data = data

	var hits []SquareHit
	for pos, sq := range data.Squares() {
		for _, layer := range [][]cellmodel.Tile{sq.FloorTiles, sq.WallTiles, sq.ObjectTiles} {
			for _, tile := range layer {
				if _, ok := queryNamesLower[strings.ToLower(tile.TextureName)]; ok {
					hits = append(hits, SquareHit{X: pos.X, Y: pos.Y, Z: pos.Z, Name: tile.TextureName})
				}
			}
		}
	}
	return hits, nil
}

func namesIntersect(names []string, queryLower map[string]struct{}) bool {
	for _, n := range names {
		if _, ok := queryLower[strings.ToLower(n)]; ok {
			return true
		}
	}
	return false
}
