package tile

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/imageio"
	"github.com/disintegration/imaging"
)

// CropStats summarises a cropping pass.
type CropStats struct {
	Images   int // source images decoded
	Tiles    int // tiles written
	Excluded int // candidate windows rejected by the zone set
	Failed   int // files skipped because of an error
}

// GridCropper cuts full images into tiles on a regular grid. A Step equal to
// the tile size gives disjoint tiles; half the tile size gives 50% overlap.
type GridCropper struct {
	FS fsutil.FileSystem

	// TileSize is the crop window (X = width, Y = height).
	TileSize image.Point
	// Step is the grid pitch. A zero component defaults to TileSize.
	Step image.Point

	// Zones are the reserved GT zones to avoid; nil means no exclusion.
	Zones *ZoneSet
	Test  OverlapTest

	// MaxPerModel caps the tiles written per model; 0 means unlimited.
	MaxPerModel int
}

func (c *GridCropper) step() image.Point {
	s := c.Step
	if s.X <= 0 {
		s.X = c.TileSize.X
	}
	if s.Y <= 0 {
		s.Y = c.TileSize.Y
	}
	return s
}

// Plan enumerates the tiles to cut from a model image of the given size, in
// row-major order. The second result counts windows rejected by the zones.
func (c *GridCropper) Plan(model string, size image.Point) ([]Tile, int) {
	if c.TileSize.X <= 0 || c.TileSize.Y <= 0 {
		return nil, 0
	}
	step := c.step()

	var tiles []Tile
	excluded := 0
	for y := 0; y < size.Y; y += step.Y {
		for x := 0; x < size.X; x += step.X {
			if c.MaxPerModel > 0 && len(tiles) >= c.MaxPerModel {
				return tiles, excluded
			}

			t := Tile{ModelID: model, Origin: Origin{Y: y, X: x}, Size: c.TileSize}
			if c.Zones.Excludes(model, t.Box(), c.Test) {
				logf("skipping zone %s-%d-%d as it overlaps with GT zones", model, y, x)
				excluded++
				continue
			}

			if y+c.TileSize.Y > size.Y || x+c.TileSize.X > size.X {
				continue
			}
			tiles = append(tiles, t)
		}
	}
	return tiles, excluded
}

// CropImage writes the planned tiles of img into outDir and returns them.
func (c *GridCropper) CropImage(model string, img image.Image, outDir string) ([]Tile, int, error) {
	b := img.Bounds()
	tiles, excluded := c.Plan(model, b.Size())

	var written []Tile
	for _, t := range tiles {
		crop := imaging.Crop(img, t.Rect().Add(b.Min))
		path := filepath.Join(outDir, t.Filename())
		if err := imageio.Save(c.FS, path, crop); err != nil {
			return written, excluded, fmt.Errorf("write tile %s: %w", path, err)
		}
		written = append(written, t)
	}
	return written, excluded, nil
}

// CropDirectory crops every image in imageDir whose extension is in exts.
// The model id of each image is its basename up to the first dot. Images
// that fail to load or write are logged and skipped.
func (c *GridCropper) CropDirectory(imageDir, outDir string, exts []string) (CropStats, error) {
	var stats CropStats

	if err := c.FS.MkdirAll(outDir, 0755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}

	files, err := fsutil.ListImages(c.FS, imageDir, exts)
	if err != nil {
		return stats, fmt.Errorf("list %s: %w", imageDir, err)
	}
	logf("total files found: %d", len(files))

	for _, f := range files {
		path := filepath.Join(imageDir, f)
		img, err := imageio.Load(c.FS, path)
		if err != nil {
			logf("failed to load image %s: %v", path, err)
			stats.Failed++
			continue
		}
		stats.Images++

		tiles, excluded, err := c.CropImage(ModelFromFilename(f), img, outDir)
		stats.Tiles += len(tiles)
		stats.Excluded += excluded
		if err != nil {
			logf("failed to crop %s: %v", path, err)
			stats.Failed++
		}
	}
	return stats, nil
}
