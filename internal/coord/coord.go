// Package coord implements the four related integer coordinate spaces a
// cell-based voxel world is addressed in — world, cell, chunk, and the two
// local (in-cell, in-chunk) spaces — and the exact conversions between them.
package coord

// Grid constants. Compile-time; never read from a file.
const (
	CellSize       = 300
	ChunkSize      = 10
	ChunksPerCell  = CellSize / ChunkSize // 30
	ZLevels        = 8
)

// WorldCoord is a global tile position.
type WorldCoord struct {
	X, Y, Z int
}

// CellCoord indexes a CellSize x CellSize tile square. Cell (0,0) covers
// world x,y in [0, CellSize).
type CellCoord struct {
	X, Y int
}

// ChunkCoord indexes a ChunkSize x ChunkSize tile square, numbered globally
// (not relative to a cell).
type ChunkCoord struct {
	X, Y int
}

// LocalCellCoord is a position within a cell: X,Y in [0, CellSize), Z in
// [0, ZLevels).
type LocalCellCoord struct {
	X, Y, Z int
}

// LocalChunkCoord is a position within a chunk: X,Y in [0, ChunkSize), Z in
// [0, ZLevels).
type LocalChunkCoord struct {
	X, Y, Z int
}

// floorDiv and floorMod implement floor-division semantics: the result
// rounds toward negative infinity, so negative world coordinates land in
// negatively-indexed cells/chunks rather than truncating toward zero.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// WorldToCell splits a world coordinate into the cell that contains it and
// the local-cell position within that cell.
func WorldToCell(w WorldCoord) (CellCoord, LocalCellCoord) {
	cx := floorDiv(w.X, CellSize)
	cy := floorDiv(w.Y, CellSize)
	lx := floorMod(w.X, CellSize)
	ly := floorMod(w.Y, CellSize)
	return CellCoord{X: cx, Y: cy}, LocalCellCoord{X: lx, Y: ly, Z: w.Z}
}

// CellToWorld combines a cell coordinate and a local-cell position back into
// a world coordinate. It is the exact inverse of WorldToCell for any local
// coordinate with X,Y in [0, CellSize).
func CellToWorld(c CellCoord, l LocalCellCoord) WorldCoord {
	return WorldCoord{
		X: c.X*CellSize + l.X,
		Y: c.Y*CellSize + l.Y,
		Z: l.Z,
	}
}

// WorldToChunk splits a world coordinate into the chunk that contains it and
// the local-chunk position within that chunk.
func WorldToChunk(w WorldCoord) (ChunkCoord, LocalChunkCoord) {
	cx := floorDiv(w.X, ChunkSize)
	cy := floorDiv(w.Y, ChunkSize)
	lx := floorMod(w.X, ChunkSize)
	ly := floorMod(w.Y, ChunkSize)
	return ChunkCoord{X: cx, Y: cy}, LocalChunkCoord{X: lx, Y: ly, Z: w.Z}
}

// ChunkToWorld combines a chunk coordinate and a local-chunk position back
// into a world coordinate. It is the exact inverse of WorldToChunk for any
// local coordinate with X,Y in [0, ChunkSize).
func ChunkToWorld(c ChunkCoord, l LocalChunkCoord) WorldCoord {
	return WorldCoord{
		X: c.X*ChunkSize + l.X,
		Y: c.Y*ChunkSize + l.Y,
		Z: l.Z,
	}
}

// CellChunkOrigin returns the ChunkCoord of the chunk at local-chunk-space
// offset (chunkX, chunkY) within cell c, where chunkX, chunkY are in
// [0, ChunksPerCell).
func CellChunkOrigin(c CellCoord, chunkX, chunkY int) ChunkCoord {
	return ChunkCoord{
		X: c.X*ChunksPerCell + chunkX,
		Y: c.Y*ChunksPerCell + chunkY,
	}
}

// LocalCellToLocalChunk converts a local-cell position to the (chunkX,
// chunkY) offset of its chunk within the cell (each in [0, ChunksPerCell))
// and the local-chunk position within that chunk.
func LocalCellToLocalChunk(l LocalCellCoord) (chunkX, chunkY int, lc LocalChunkCoord) {
	chunkX = l.X / ChunkSize
	chunkY = l.Y / ChunkSize
	lc = LocalChunkCoord{X: l.X % ChunkSize, Y: l.Y % ChunkSize, Z: l.Z}
	return
}

// BoundsCoord is an inclusive rectangle in cell space. Any side may be
// unbounded (nil). When both sides of a dimension are set, MinX <= MaxX and
// MinY <= MaxY must hold — violating this is a programmer error, checked at
// construction via NewBoundsCoord.
type BoundsCoord struct {
	MinX, MaxX *int
	MinY, MaxY *int
}

// Unbounded returns a BoundsCoord with no constraints on any side.
func Unbounded() BoundsCoord {
	return BoundsCoord{}
}

// NewBoundsCoord validates and returns a BoundsCoord. It returns an error if
// a bounded dimension has min > max.
func NewBoundsCoord(minX, maxX, minY, maxY *int) (BoundsCoord, error) {
	b := BoundsCoord{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
	if minX != nil && maxX != nil && *minX > *maxX {
		return BoundsCoord{}, errInvertedBounds("x", *minX, *maxX)
	}
	if minY != nil && maxY != nil && *minY > *maxY {
		return BoundsCoord{}, errInvertedBounds("y", *minY, *maxY)
	}
	return b, nil
}

// Contains reports whether c lies within b: each bounded dimension must
// contain c's corresponding coordinate; unbounded dimensions impose no
// constraint.
func (b BoundsCoord) Contains(c CellCoord) bool {
	if b.MinX != nil && c.X < *b.MinX {
		return false
	}
	if b.MaxX != nil && c.X > *b.MaxX {
		return false
	}
	if b.MinY != nil && c.Y < *b.MinY {
		return false
	}
	if b.MaxY != nil && c.Y > *b.MaxY {
		return false
	}
	return true
}
