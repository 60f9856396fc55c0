package tile

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/imageio"
	"github.com/disintegration/imaging"
)

// ErrGroupSize is returned when the tiles to reassemble cannot be split into
// complete groups of four.
var ErrGroupSize = errors.New("tile count is not a multiple of 4")

// Assemble pastes up to four unit tiles on a black crop x crop canvas.
// Tile j lands at ((j%2)*unit, (j/2)*unit): top-left, top-right,
// bottom-left, bottom-right.
func Assemble(tiles []image.Image, crop, unit int) (*image.NRGBA, error) {
	if len(tiles) > 4 {
		return nil, fmt.Errorf("assemble %d tiles: %w", len(tiles), ErrGroupSize)
	}
	canvas := imaging.New(crop, crop, color.Black)
	for j, t := range tiles {
		canvas = imaging.Paste(canvas, t, image.Pt((j%2)*unit, (j/2)*unit))
	}
	return canvas, nil
}

// Unifier reassembles sorted groups of four unit tiles into composites.
//
// Files are ordered by plain string sort, so the group members must differ
// only in the (dy, dx) suffix with dy, dx in {0, unit} for the quadrant order
// to hold.
type Unifier struct {
	FS fsutil.FileSystem

	CropSize int
	UnitSize int
	Exts     []string
}

// Run writes one composite per group of four files in inDir to outDir and
// returns the composite filenames. The group count is checked before any
// file is written.
func (u *Unifier) Run(inDir, outDir string) ([]string, error) {
	if u.CropSize <= 0 || u.UnitSize <= 0 {
		return nil, fmt.Errorf("invalid sizes crop=%d unit=%d", u.CropSize, u.UnitSize)
	}

	files, err := fsutil.ListImages(u.FS, inDir, u.Exts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", inDir, err)
	}
	if len(files)%4 != 0 {
		return nil, fmt.Errorf("%d files in %s: %w", len(files), inDir, ErrGroupSize)
	}
	if err := u.FS.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for i := 0; i < len(files); i += 4 {
		group := files[i : i+4]
		name, err := CompositeName(group[0])
		if err != nil {
			return written, err
		}

		tiles := make([]image.Image, 0, len(group))
		for _, f := range group {
			img, err := imageio.Load(u.FS, filepath.Join(inDir, f))
			if err != nil {
				return written, fmt.Errorf("load %s: %w", f, err)
			}
			tiles = append(tiles, img)
		}

		composite, err := Assemble(tiles, u.CropSize, u.UnitSize)
		if err != nil {
			return written, err
		}
		if err := imageio.Save(u.FS, filepath.Join(outDir, name), composite); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
	}
	logf("unified %d composites from %d tiles", len(written), len(files))
	return written, nil
}
