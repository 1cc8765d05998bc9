package lotheader

import "errors"

// ErrInvalidTileCount is returned when tile_count is negative or exceeds
// the configured maximum.
var ErrInvalidTileCount = errors.New("lotheader: invalid tile count")

// ErrEmptyTileName is returned when a name-table entry is an empty string.
var ErrEmptyTileName = errors.New("lotheader: empty tile name")
