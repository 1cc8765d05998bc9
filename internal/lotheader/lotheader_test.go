package lotheader

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeRoundTrip(t *testing.T) {
	// Scenario 1: version=1, count=2, names "floor", "wall".
	data := []byte{
		0x01, 0x00, 0x00, 0x00, // version = 1
		0x02, 0x00, 0x00, 0x00, // tile_count = 2
	}
	data = append(data, []byte("floor\n")...)
	data = append(data, []byte("wall\n")...)

	h, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if h.Version != 1 {
		t.Errorf("Version = %d, want 1", h.Version)
	}
	if h.TileCount != 2 {
		t.Errorf("TileCount = %d, want 2", h.TileCount)
	}
	want := []string{"floor", "wall"}
	if len(h.TileNames) != len(want) {
		t.Fatalf("TileNames = %v, want %v", h.TileNames, want)
	}
	for i := range want {
		if h.TileNames[i] != want[i] {
			t.Errorf("TileNames[%d] = %q, want %q", i, h.TileNames[i], want[i])
		}
	}
}

func TestDecodeNegativeTileCount(t *testing.T) {
	// Scenario 2: version=1, count=-1.
	data := []byte{
		0x01, 0x00, 0x00, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF,
	}
	_, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, ErrInvalidTileCount) {
		t.Fatalf("Decode() error = %v, want ErrInvalidTileCount", err)
	}
}

func TestDecodeTileCountAboveMax(t *testing.T) {
	data := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, // count = 1, but we set max below 1
	}
	_, err := Decode(bytes.NewReader(data), WithMaxTileCount(0))
	if !errors.Is(err, ErrInvalidTileCount) {
		t.Fatalf("Decode() error = %v, want ErrInvalidTileCount", err)
	}
}

func TestDecodeEmptyTileName(t *testing.T) {
	data := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, // count = 1
		'\n',
	}
	_, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, ErrEmptyTileName) {
		t.Fatalf("Decode() error = %v, want ErrEmptyTileName", err)
	}
}

func TestDecodeShortRead(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x00}
	_, err := Decode(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected error for truncated tile_count field")
	}
}
