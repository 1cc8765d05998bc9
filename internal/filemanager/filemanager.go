// Package filemanager implements the filesystem discovery policy: turning a
// root directory into the (header, pack) cell pairs and TDEF files the core
// decoders consume. This is deliberately outside the core — callers that
// already have a pre-built file list never need this package.
package filemanager

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brindlerow/pzmap/internal/coord"
)

// CellFiles pairs one cell's header and pack file paths.
type CellFiles struct {
	Position   coord.CellCoord
	HeaderPath string
	PackPath   string
}

// Result is everything Discover finds under a root.
type Result struct {
	Cells     []CellFiles
	TDEFPaths []string
}

// Discover walks root for "<x>_<y>.lotheader" / "world_<x>_<y>.lotpack"
// pairs and any "*.tiles" files. A header without a matching pack is
// skipped and reported through warnf rather than failing the whole walk.
func Discover(root string, warnf func(format string, args ...any)) (Result, error) {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}

	var result Result
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		switch {
		case strings.HasSuffix(name, ".tiles"):
			result.TDEFPaths = append(result.TDEFPaths, path)
		case strings.HasSuffix(name, ".lotheader"):
			pos, ok := parseCellCoord(strings.TrimSuffix(name, ".lotheader"))
			if !ok {
				warnf("filemanager: %q doesn't match <x>_<y>.lotheader, skipping", path)
				return nil
			}
			packPath := filepath.Join(filepath.Dir(path), fmt.Sprintf("world_%d_%d.lotpack", pos.X, pos.Y))
			if _, statErr := os.Stat(packPath); statErr != nil {
				warnf("filemanager: %q has no matching pack at %q, skipping", path, packPath)
				return nil
			}
			result.Cells = append(result.Cells, CellFiles{Position: pos, HeaderPath: path, PackPath: packPath})
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("filemanager: walking %q: %w", root, err)
	}

	return result, nil
}

// parseCellCoord parses "<x>_<y>" into a CellCoord.
func parseCellCoord(base string) (coord.CellCoord, bool) {
	xs, ys, ok := strings.Cut(base, "_")
	if !ok {
		return coord.CellCoord{}, false
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return coord.CellCoord{}, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return coord.CellCoord{}, false
	}
	return coord.CellCoord{X: x, Y: y}, true
}
