// Package tiledef decodes the global ".tiles" tile-definition (TDEF) format:
// one or more tilesheets, each a flat array of tile definitions with a
// synthesized, cross-file-stable sprite ID.
package tiledef

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brindlerow/pzmap/internal/cellmodel"
	"github.com/brindlerow/pzmap/internal/streamio"
)

var magic = [4]byte{'t', 'd', 'e', 'f'}

// Category classifies a TileDefinition's use. The decoder never sets it;
// InferCategory derives one from naming convention at use time.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryFloor
	CategoryWall
	CategoryObject
	CategoryVegetation
	CategoryRoof
	CategoryFurniture
)

func (c Category) String() string {
	switch c {
	case CategoryFloor:
		return "floor"
	case CategoryWall:
		return "wall"
	case CategoryObject:
		return "object"
	case CategoryVegetation:
		return "vegetation"
	case CategoryRoof:
		return "roof"
	case CategoryFurniture:
		return "furniture"
	default:
		return "unknown"
	}
}

// TileDefinition is a template a placed Tile instantiates: a sprite plus its
// free-form properties, never a grid position.
type TileDefinition struct {
	SpriteID      int32
	Name          string
	TilesheetName string
	Category      Category
	Properties    map[string]cellmodel.TileProperty
}

// Tilesheet groups the tile definitions decoded from one sheet entry of a
// TDEF file.
type Tilesheet struct {
	Name            string
	ImageName       string
	WidthTiles      int32
	HeightTiles     int32
	TilesheetNumber int32
	Tiles           map[int32]*TileDefinition // keyed by in-sheet tile_index
}

// Option configures Decode.
type Option func(*options)

type options struct {
	legacyIDMode bool
	warnf        func(format string, args ...any)
}

func noopWarnf(string, ...any) {}

// WithLegacyIDMode forces the legacy sprite ID formula regardless of the
// file's numeric prefix.
func WithLegacyIDMode(v bool) Option {
	return func(o *options) { o.legacyIDMode = v }
}

// WithWarnf installs a callback for non-fatal decode warnings (duplicate
// sprite IDs within the file).
func WithWarnf(f func(format string, args ...any)) Option {
	return func(o *options) { o.warnf = f }
}

// FileNumber extracts the leading numeric filename prefix used by the
// sprite ID formula: the basename split on "_", with the first segment
// parsed as an integer. A missing or non-numeric prefix defaults to 0.
func FileNumber(path string) int32 {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix, _, _ := strings.Cut(base, "_")
	n, err := strconv.ParseInt(prefix, 10, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}

// spriteID reproduces the two historical sprite ID formulas bit-exactly.
// Files with file_number < 2, or any file when legacy is forced, use the
// legacy formula; everything else uses the dense formula.
func spriteID(fileNumber, tilesheetNumber, tileIndex int32, legacy bool) int32 {
	if legacy || fileNumber < 2 {
		return fileNumber*100*1000 + 10000 + tilesheetNumber*1000 + tileIndex
	}
	return fileNumber*512*512 + tilesheetNumber*512 + tileIndex
}

// Decode parses a TDEF stream. path supplies the file-number prefix the
// sprite ID formula reads from; it need not be a real filesystem path in
// tests, only have the "<n>_..." shape.
//
// Layout:
//
//	4 bytes ASCII magic "tdef"
//	int32   version
//	int32   num_tilesheets
//	for each tilesheet:
//	    string  name
//	    string  image_name
//	    int32   width_tiles, height_tiles, tilesheet_number, num_tiles
//	    for tile_index in 0..num_tiles:
//	        int32 property_count
//	        property_count x (string name, string value)
func Decode(r io.ReadSeeker, path string, opts ...Option) ([]*Tilesheet, error) {
	o := options{warnf: noopWarnf}
	for _, opt := range opts {
		opt(&o)
	}

	sr := streamio.NewReader(r)

	magicBytes, err := sr.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("tiledef: reading magic: %w", err)
	}
	if [4]byte(magicBytes) != magic {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, magicBytes)
	}

	if _, err := sr.ReadInt32(false); err != nil { // version, read and discarded
		return nil, fmt.Errorf("tiledef: reading version: %w", err)
	}

	numTilesheets, err := sr.ReadInt32(false)
	if err != nil {
		return nil, fmt.Errorf("tiledef: reading num_tilesheets: %w", err)
	}

	fileNumber := FileNumber(path)
	sheets := make([]*Tilesheet, 0, numTilesheets)
	seen := make(map[int32]bool) // spans every tilesheet in this file

	for i := int32(0); i < numTilesheets; i++ {
		sheet, err := decodeTilesheet(sr, fileNumber, seen, &o)
		if err != nil {
			return nil, fmt.Errorf("tiledef: tilesheet %d: %w", i, err)
		}
		sheets = append(sheets, sheet)
	}

	return sheets, nil
}

func decodeTilesheet(sr *streamio.Reader, fileNumber int32, seen map[int32]bool, o *options) (*Tilesheet, error) {
	name, err := sr.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading name: %w", err)
	}
	imageName, err := sr.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading image_name: %w", err)
	}
	widthTiles, err := sr.ReadInt32(false)
	if err != nil {
		return nil, fmt.Errorf("reading width_tiles: %w", err)
	}
	heightTiles, err := sr.ReadInt32(false)
	if err != nil {
		return nil, fmt.Errorf("reading height_tiles: %w", err)
	}
	tilesheetNumber, err := sr.ReadInt32(false)
	if err != nil {
		return nil, fmt.Errorf("reading tilesheet_number: %w", err)
	}
	numTiles, err := sr.ReadInt32(false)
	if err != nil {
		return nil, fmt.Errorf("reading num_tiles: %w", err)
	}

	sheet := &Tilesheet{
		Name:            name,
		ImageName:       imageName,
		WidthTiles:      widthTiles,
		HeightTiles:     heightTiles,
		TilesheetNumber: tilesheetNumber,
		Tiles:           make(map[int32]*TileDefinition, numTiles),
	}

	for idx := int32(0); idx < numTiles; idx++ {
		props, err := decodeProperties(sr)
		if err != nil {
			return nil, fmt.Errorf("tile %d: properties: %w", idx, err)
		}

		id := spriteID(fileNumber, tilesheetNumber, idx, o.legacyIDMode)
		if seen[id] {
			// Property list is already consumed above; only the
			// definition itself is dropped.
			o.warnf("tiledef: duplicate sprite id %d in %q, tile_index %d", id, name, idx)
			continue
		}
		seen[id] = true

		tileName := fmt.Sprintf("%s_%d", name, idx)
		props["full_name"] = cellmodel.TileProperty{Name: "full_name", Value: name + "_" + tileName}

		sheet.Tiles[idx] = &TileDefinition{
			SpriteID:      id,
			Name:          tileName,
			TilesheetName: name,
			Properties:    props,
		}
	}

	return sheet, nil
}

func decodeProperties(sr *streamio.Reader) (map[string]cellmodel.TileProperty, error) {
	count, err := sr.ReadInt32(false)
	if err != nil {
		return nil, fmt.Errorf("reading property_count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: property_count %d", ErrMalformedPropertyBlock, count)
	}

	props := make(map[string]cellmodel.TileProperty, count)
	for i := int32(0); i < count; i++ {
		name, err := sr.ReadString()
		if err != nil {
			return nil, fmt.Errorf("reading property %d name: %w", i, err)
		}
		value, err := sr.ReadString()
		if err != nil {
			return nil, fmt.Errorf("reading property %d value: %w", i, err)
		}
		props[name] = cellmodel.TileProperty{Name: name, Value: value}
	}
	return props, nil
}
