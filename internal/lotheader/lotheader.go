// Package lotheader decodes the ".lotheader" per-cell tile-name lookup
// table: the ID-to-name table that the companion ".lotpack" file's tile IDs
// reference.
package lotheader

import (
	"fmt"
	"io"

	"github.com/brindlerow/pzmap/internal/streamio"
)

// DefaultMaxTileCount bounds the tile_count field in strict mode. Real
// lot headers carry a few hundred names; this is generous headroom against
// a corrupt or hostile file claiming an absurd count and forcing a huge
// allocation.
const DefaultMaxTileCount = 100_000

// Header is the decoded name table for one cell. TileNames is ordered: its
// index is the ID that lotpack bodies reference.
type Header struct {
	Version   int32
	TileCount int32
	TileNames []string
}

// Option configures Decode.
type Option func(*options)

type options struct {
	maxTileCount int32
}

// WithMaxTileCount overrides DefaultMaxTileCount.
func WithMaxTileCount(n int32) Option {
	return func(o *options) { o.maxTileCount = n }
}

// Decode parses a ".lotheader" stream.
//
// Layout:
//
//	int32   version
//	int32   tile_count
//	tile_count x newline-terminated string   // the name table
func Decode(r io.ReadSeeker, opts ...Option) (*Header, error) {
	o := options{maxTileCount: DefaultMaxTileCount}
	for _, opt := range opts {
		opt(&o)
	}

	sr := streamio.NewReader(r)

	version, err := sr.ReadInt32(false)
	if err != nil {
		return nil, fmt.Errorf("lotheader: reading version: %w", err)
	}

	tileCount, err := sr.ReadInt32(false)
	if err != nil {
		return nil, fmt.Errorf("lotheader: reading tile count: %w", err)
	}
	if tileCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTileCount, tileCount)
	}
	if tileCount > o.maxTileCount {
		return nil, fmt.Errorf("%w: %d exceeds max %d", ErrInvalidTileCount, tileCount, o.maxTileCount)
	}

	names := make([]string, tileCount)
	for i := int32(0); i < tileCount; i++ {
		name, err := sr.ReadString()
		if err != nil {
			return nil, fmt.Errorf("lotheader: reading tile name %d: %w", i, err)
		}
		if name == "" {
			return nil, fmt.Errorf("%w: at index %d", ErrEmptyTileName, i)
		}
		names[i] = name
	}

	return &Header{Version: version, TileCount: tileCount, TileNames: names}, nil
}
