// Package lotpack decodes the ".lotpack" sparse voxel grid: 900 chunks of
// 10x10 columns x 8 z-levels, fronted by a chunk offset index for random
// access.
package lotpack

import (
	"fmt"
	"io"

	"github.com/brindlerow/pzmap/internal/cellmodel"
	"github.com/brindlerow/pzmap/internal/coord"
	"github.com/brindlerow/pzmap/internal/lotheader"
	"github.com/brindlerow/pzmap/internal/streamio"
)

// expectedChunkCount is the number of (x,y) chunk slots in one cell's
// offset table: ChunksPerCell x ChunksPerCell.
const expectedChunkCount = coord.ChunksPerCell * coord.ChunksPerCell

// Option configures Decode.
type Option func(*options)

type options struct {
	warnf func(format string, args ...any)
}

func noopWarnf(string, ...any) {}

// WithWarnf installs a callback for non-fatal decode warnings (chunk_count
// mismatch, non-zero padding, tile IDs out of range). By default warnings
// are discarded; a caller that wants them surfaced (typically the
// coordinator, via its logger) supplies this.
func WithWarnf(f func(format string, args ...any)) Option {
	return func(o *options) { o.warnf = f }
}

// chunkOffset is one entry of the chunk offset table, in encounter order.
type chunkOffset struct {
	localX, localY int // chunk position within the cell, in [0, ChunksPerCell)
	offset         int32
}

// Decode parses a ".lotpack" stream into a sparse CellData. header supplies
// the ID-to-name lookup the tile sequence's integer IDs resolve against.
// cellPos identifies which cell this pack belongs to; it is used to express
// decode-error chunk coordinates in global chunk space, while decoded
// positions are cell-local.
func Decode(r io.ReadSeeker, header *lotheader.Header, cellPos coord.CellCoord, opts ...Option) (*cellmodel.CellData, error) {
	o := options{warnf: noopWarnf}
	for _, opt := range opts {
		opt(&o)
	}

	sr := streamio.NewReader(r)

	chunkCount, err := sr.ReadInt32(false)
	if err != nil {
		return nil, err
	}
	if chunkCount != expectedChunkCount {
		o.warnf("lotpack: chunk_count %d, expected %d", chunkCount, expectedChunkCount)
	}

	var offsets []chunkOffset
	for cx := 0; cx < coord.ChunksPerCell; cx++ {
		for cy := 0; cy < coord.ChunksPerCell; cy++ {
			off, err := sr.ReadInt32(false)
			if err != nil {
				return nil, err
			}
			padding, err := sr.ReadInt32(false)
			if err != nil {
				return nil, err
			}
			if padding != 0 {
				o.warnf("lotpack: non-zero padding %d at chunk (%d,%d)", padding, cx, cy)
			}
			if off != 0 {
				offsets = append(offsets, chunkOffset{localX: cx, localY: cy, offset: off})
			}
		}
	}

	data := cellmodel.NewCellData()

	for _, co := range offsets {
		chunkCoord := coord.CellChunkOrigin(cellPos, co.localX, co.localY)
		if err := decodeChunkBody(sr, data, header, co, &o); err != nil {
			return nil, &DecodeError{Chunk: chunkCoord, Err: fmt.Errorf("%w: %w", ErrShortRead, err)}
		}
	}

	return data, nil
}

// decodeChunkBody seeks to the chunk's offset and walks its positions in
// (z outer, x middle, y inner) order over (0..8, 0..10, 0..10).
func decodeChunkBody(sr *streamio.Reader, data *cellmodel.CellData, header *lotheader.Header, co chunkOffset, o *options) error {
	if _, err := sr.Seek(int64(co.offset), io.SeekStart); err != nil {
		return err
	}

	var skipRemaining int
	for z := 0; z < coord.ZLevels; z++ {
		for x := 0; x < coord.ChunkSize; x++ {
			for y := 0; y < coord.ChunkSize; y++ {
				if skipRemaining > 0 {
					skipRemaining--
					continue
				}

				count, err := sr.ReadInt32(false)
				if err != nil {
					return err
				}

				switch {
				case count == -1:
					skipCount, err := sr.ReadInt32(false)
					if err != nil {
						return err
					}
					// The marker's own position and the skipCount-2
					// positions after it are empty (skipCount-1 in total),
					// so the next real read happens at the skipCount-th
					// position counted from the marker (inclusive): with
					// skipCount=5 at y=0, y=1..3 are skipped and y=4 is read.
					skipRemaining = int(skipCount) - 2
					if skipRemaining < 0 {
						skipRemaining = 0
					}
				case count <= 0:
					// empty position, nothing further
				default:
					ids := make([]int32, count)
					for i := int32(0); i < count; i++ {
						v, err := sr.ReadInt32(false)
						if err != nil {
							return err
						}
						ids[i] = v
					}

					var roomID *int32
					tileIDs := ids
					if count > 1 {
						roomID = &ids[0]
						tileIDs = ids[1:]
					}

					localPos := coord.LocalCellCoord{
						X: co.localX*coord.ChunkSize + x,
						Y: co.localY*coord.ChunkSize + y,
						Z: z,
					}

					var tiles []cellmodel.Tile
					for _, id := range tileIDs {
						if id < 0 || int(id) >= len(header.TileNames) {
							o.warnf("lotpack: tile id %d out of range (have %d names)", id, len(header.TileNames))
							continue
						}
						name := header.TileNames[id]
						tiles = append(tiles, cellmodel.Tile{
							TileID:      id,
							TextureName: name,
							Layer:       classifyLayer(name),
						})
					}
					if roomID == nil && len(tiles) == 0 {
						continue
					}

					square := data.GetSquare(localPos, true)
					if roomID != nil {
						square.RoomID = roomID
					}
					for _, t := range tiles {
						square.Append(t)
					}
				}
			}
		}
	}

	return nil
}
