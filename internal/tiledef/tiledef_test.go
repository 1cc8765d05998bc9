package tiledef

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func putInt32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func putString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte('\n')
}

// tile bytes: property_count, properties...
type tileSpec struct {
	props map[string]string
}

type sheetSpec struct {
	name            string
	imageName       string
	tilesheetNumber int32
	tiles           []tileSpec
}

func writeSheet(buf *bytes.Buffer, s sheetSpec) {
	putString(buf, s.name)
	putString(buf, s.imageName)
	putInt32(buf, 1) // width_tiles
	putInt32(buf, 1) // height_tiles
	putInt32(buf, s.tilesheetNumber)
	putInt32(buf, int32(len(s.tiles)))
	for _, t := range s.tiles {
		putInt32(buf, int32(len(t.props)))
		for k, v := range t.props {
			putString(buf, k)
			putString(buf, v)
		}
	}
}

func buildTDEF(sheetName, imageName string, tilesheetNumber int32, tiles []tileSpec) []byte {
	return buildTDEFMulti([]sheetSpec{{name: sheetName, imageName: imageName, tilesheetNumber: tilesheetNumber, tiles: tiles}})
}

func buildTDEFMulti(sheets []sheetSpec) []byte {
	var buf bytes.Buffer
	buf.WriteString("tdef")
	putInt32(&buf, 1) // version
	putInt32(&buf, int32(len(sheets)))
	for _, s := range sheets {
		writeSheet(&buf, s)
	}
	return buf.Bytes()
}

func TestSpriteIDLegacyFormula(t *testing.T) {
	data := buildTDEF("sheet", "sheet.png", 2, []tileSpec{{}, {}, {}, {}})
	sheets, err := Decode(bytes.NewReader(data), "1_sheet.tiles")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	def := sheets[0].Tiles[3]
	if def == nil {
		t.Fatal("expected a definition at tile_index 3")
	}
	want := int32(1*100*1000 + 10000 + 2*1000 + 3)
	if def.SpriteID != want {
		t.Errorf("SpriteID = %d, want %d", def.SpriteID, want)
	}
}

func TestSpriteIDDenseFormula(t *testing.T) {
	data := buildTDEF("sheet", "sheet.png", 2, []tileSpec{{}, {}, {}, {}})
	sheets, err := Decode(bytes.NewReader(data), "3_sheet.tiles")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	def := sheets[0].Tiles[3]
	if def == nil {
		t.Fatal("expected a definition at tile_index 3")
	}
	want := int32(3*512*512 + 2*512 + 3)
	if def.SpriteID != want {
		t.Errorf("SpriteID = %d, want %d", def.SpriteID, want)
	}
}

func TestInvalidMagicRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("nope")
	_, err := Decode(bytes.NewReader(buf.Bytes()), "1_sheet.tiles")
	if err == nil {
		t.Fatal("expected an error for bad magic")
	}
}

// TestDuplicateSpriteIDStillConsumesProperties forces two tilesheets in one
// file to share a tilesheet_number, so their tile_index 0 entries collide
// on sprite ID. The duplicate at the start of the second sheet must still
// consume its property list, or the next tile's properties desync.
func TestDuplicateSpriteIDStillConsumesProperties(t *testing.T) {
	data := buildTDEFMulti([]sheetSpec{
		{
			name: "first", imageName: "first.png", tilesheetNumber: 2,
			tiles: []tileSpec{{props: map[string]string{"a": "1"}}},
		},
		{
			name: "second", imageName: "second.png", tilesheetNumber: 2,
			tiles: []tileSpec{
				{props: map[string]string{"dup": "yes"}},       // collides with first's tile 0
				{props: map[string]string{"b": "2", "c": "3"}}, // must still decode cleanly
			},
		},
	})

	var warnings int
	sheets, err := Decode(bytes.NewReader(data), "1_sheet.tiles",
		WithWarnf(func(string, ...any) { warnings++ }))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if warnings != 1 {
		t.Fatalf("warnings = %d, want 1", warnings)
	}

	second := sheets[1]
	if _, dropped := second.Tiles[0]; dropped {
		t.Fatal("duplicate sprite id entry should have been dropped")
	}
	survivor := second.Tiles[1]
	if survivor == nil || survivor.Properties["b"].Value != "2" || survivor.Properties["c"].Value != "3" {
		t.Fatalf("tile after the duplicate wasn't read correctly, cursor likely desynced: %+v", survivor)
	}
}

func TestStoreMergeKeepsFirstOnCrossFileCollision(t *testing.T) {
	tilesA := []tileSpec{{props: map[string]string{"src": "a"}}}
	tilesB := []tileSpec{{props: map[string]string{"src": "b"}}}

	dataA := buildTDEF("sheet", "a.png", 2, tilesA)
	dataB := buildTDEF("sheet", "b.png", 2, tilesB)

	sheetsA, err := Decode(bytes.NewReader(dataA), "1_a.tiles")
	if err != nil {
		t.Fatalf("Decode(a) error = %v", err)
	}
	sheetsB, err := Decode(bytes.NewReader(dataB), "1_b.tiles")
	if err != nil {
		t.Fatalf("Decode(b) error = %v", err)
	}

	var warnings int
	store := NewDefinitionStore(func(string, ...any) { warnings++ })
	store.Merge(sheetsA)
	store.Merge(sheetsB)

	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (same sprite id from both files)", store.Len())
	}
	if warnings != 1 {
		t.Errorf("warnings = %d, want 1", warnings)
	}

	id := sheetsA[0].Tiles[0].SpriteID
	got := store.Get(id)
	if got.Properties["src"].Value != "a" {
		t.Errorf("Get(%d).Properties[src] = %q, want %q (first file kept)", id, got.Properties["src"].Value, "a")
	}
}

func TestInferCategory(t *testing.T) {
	cases := map[string]Category{
		"floors_tilewoodfloor_01":  CategoryFloor,
		"walls_interior_01":        CategoryWall,
		"vegetation_tree_01":       CategoryVegetation,
		"roofs_shingle_01":         CategoryRoof,
		"furniture_chairs_01":      CategoryFurniture,
		"containers_crate_01":      CategoryObject,
		"something_unclassified_1": CategoryUnknown,
	}
	for name, want := range cases {
		if got := InferCategory(name); got != want {
			t.Errorf("InferCategory(%q) = %v, want %v", name, got, want)
		}
	}
}
