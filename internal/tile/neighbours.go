package tile

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/imageio"
	"github.com/disintegration/imaging"
)

// ExpandNeighbours densifies GT crops where adjacent GT context exists.
//
// For every tile the four axis-aligned neighbours at one tile distance are
// looked up in the same set. Isolated tiles are kept as-is. Tiles with
// neighbours additionally yield a crop shifted by half a tile toward each
// present neighbour (right, left, bottom, top), followed by the original.
// An origin reachable from two tiles is emitted once, at its first position.
func ExpandNeighbours(tiles []Tile) []Tile {
	present := make(map[string]map[Origin]bool)
	for _, t := range tiles {
		if present[t.ModelID] == nil {
			present[t.ModelID] = make(map[Origin]bool)
		}
		present[t.ModelID][t.Origin] = true
	}

	seen := make(map[string]map[Origin]bool)
	var out []Tile
	emit := func(t Tile, y, x int) {
		o := Origin{Y: y, X: x}
		if seen[t.ModelID] == nil {
			seen[t.ModelID] = make(map[Origin]bool)
		}
		if seen[t.ModelID][o] {
			return
		}
		seen[t.ModelID][o] = true
		out = append(out, Tile{ModelID: t.ModelID, Origin: o, Size: t.Size})
	}

	for _, t := range tiles {
		w, h := t.Size.X, t.Size.Y
		has := present[t.ModelID]
		right := has[Origin{Y: t.Y, X: t.X + w}]
		left := has[Origin{Y: t.Y, X: t.X - w}]
		bottom := has[Origin{Y: t.Y + h, X: t.X}]
		top := has[Origin{Y: t.Y - h, X: t.X}]

		if right {
			emit(t, t.Y, t.X+w/2)
		}
		if left {
			emit(t, t.Y, t.X-w/2)
		}
		if bottom {
			emit(t, t.Y+h/2, t.X)
		}
		if top {
			emit(t, t.Y-h/2, t.X)
		}
		emit(t, t.Y, t.X)
	}
	return out
}

// LoadTiles reads plain "<model>-<y>-<x>" tile names from dir as tiles of
// the given size, sorted by filename. Unparsable names are logged and
// skipped.
func LoadTiles(fsys fsutil.FileSystem, dir string, size image.Point, exts []string) ([]Tile, error) {
	names, err := fsutil.ListImages(fsys, dir, exts)
	if err != nil {
		return nil, err
	}

	var tiles []Tile
	for _, f := range names {
		n, err := ParseOriginName(f)
		if err != nil {
			logf("skipping %s: %v", filepath.Join(dir, f), err)
			continue
		}
		tiles = append(tiles, Tile{ModelID: n.ModelID, Origin: n.Origin(), Size: size})
	}
	return tiles, nil
}

// CropTiles cuts each tile out of "<imageDir>/<model><ext>" and writes it to
// outDir under its tile filename. Each full image is decoded once. Missing
// images and windows that leave the image are logged and skipped.
func CropTiles(fsys fsutil.FileSystem, imageDir, ext, outDir string, tiles []Tile) (CropStats, error) {
	var stats CropStats
	if err := fsys.MkdirAll(outDir, 0755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}

	byModel := make(map[string][]Tile)
	for _, t := range tiles {
		byModel[t.ModelID] = append(byModel[t.ModelID], t)
	}
	models := make([]string, 0, len(byModel))
	for m := range byModel {
		models = append(models, m)
	}
	sort.Strings(models)

	for _, model := range models {
		path := filepath.Join(imageDir, model+ext)
		img, err := imageio.Load(fsys, path)
		if err != nil {
			logf("file %s not found or unreadable, skipping: %v", path, err)
			stats.Failed += len(byModel[model])
			continue
		}
		stats.Images++

		b := img.Bounds()
		for _, t := range byModel[model] {
			r := t.Rect().Add(b.Min)
			if !r.In(b) {
				logf("skipping %s: window %v leaves image bounds %v", t.Filename(), t.Rect(), b.Size())
				continue
			}
			out := filepath.Join(outDir, t.Filename())
			if err := imageio.Save(fsys, out, imaging.Crop(img, r)); err != nil {
				logf("failed to write %s: %v", out, err)
				stats.Failed++
				continue
			}
			stats.Tiles++
		}
	}
	return stats, nil
}
