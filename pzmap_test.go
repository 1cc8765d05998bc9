package pzmap

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/brindlerow/pzmap/internal/coord"
	"github.com/brindlerow/pzmap/internal/filemanager"
)

func putInt32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func buildHeader(names []string) []byte {
	var buf bytes.Buffer
	putInt32(&buf, 1)
	putInt32(&buf, int32(len(names)))
	for _, n := range names {
		buf.WriteString(n)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

const expectedChunkCount = coord.ChunksPerCell * coord.ChunksPerCell

func buildPackWithMatch(tileID int32) []byte {
	headerSize := int32(4 + expectedChunkCount*8)
	var buf bytes.Buffer
	putInt32(&buf, expectedChunkCount)

	first := true
	for i := 0; i < expectedChunkCount; i++ {
		if first {
			putInt32(&buf, headerSize)
			putInt32(&buf, 0)
			first = false
			continue
		}
		putInt32(&buf, 0)
		putInt32(&buf, 0)
	}

	putInt32(&buf, 1)
	putInt32(&buf, tileID)
	for i := 0; i < coord.ZLevels*coord.ChunkSize*coord.ChunkSize-1; i++ {
		putInt32(&buf, 0)
	}
	return buf.Bytes()
}

func setupCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	dir := t.TempDir()
	headerPath := writeFile(t, dir, "0_0.lotheader", buildHeader([]string{"floor_rug_01"}))
	packPath := writeFile(t, dir, "world_0_0.lotpack", buildPackWithMatch(0))

	c, err := New(dir, WithCellFiles([]filemanager.CellFiles{
		{Position: coord.CellCoord{X: 0, Y: 0}, HeaderPath: headerPath, PackPath: packPath},
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestSearchTilesFindsHit(t *testing.T) {
	c := setupCoordinator(t)
	hits := c.SearchTiles([]string{"floor_rug_01"}, false, coord.Unbounded())
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1: %v", len(hits), hits)
	}
	if hits[0].Cell != (coord.CellCoord{X: 0, Y: 0}) {
		t.Errorf("hit cell = %v, want (0,0)", hits[0].Cell)
	}
}

func TestParseAllAttachesCellDataAndStatistics(t *testing.T) {
	c := setupCoordinator(t)
	if err := c.ParseAll(true, coord.Unbounded()); err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	stats := c.GetStatistics()
	if stats.ProcessedItems != 1 {
		t.Errorf("ProcessedItems = %d, want 1", stats.ProcessedItems)
	}
	if stats.MapCells != 1 {
		t.Errorf("MapCells = %d, want 1", stats.MapCells)
	}

	cell := c.GetCellAtWorldPosition(coord.WorldCoord{X: 1, Y: 1, Z: 0})
	if cell == nil || !cell.IsLoaded() {
		t.Fatal("expected the cell at world (1,1,0) to be loaded")
	}
}

func TestClearDataReleasesCells(t *testing.T) {
	c := setupCoordinator(t)
	if err := c.ParseAll(true, coord.Unbounded()); err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	c.ClearData()

	cell := c.GetCellAtWorldPosition(coord.WorldCoord{X: 1, Y: 1, Z: 0})
	if cell == nil || cell.IsLoaded() {
		t.Fatal("expected cell to be released after ClearData")
	}
	if stats := c.GetStatistics(); stats.ProcessedItems != 0 {
		t.Errorf("ProcessedItems after ClearData = %d, want 0", stats.ProcessedItems)
	}
}

func TestGetCellAtWorldPositionUnknownReturnsNil(t *testing.T) {
	c := setupCoordinator(t)
	if cell := c.GetCellAtWorldPosition(coord.WorldCoord{X: 10000, Y: 10000, Z: 0}); cell != nil {
		t.Errorf("expected nil for an undiscovered cell, got %v", cell)
	}
}
