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

// ZoneCropper cuts unit-sized sub-tiles out of full grayscale micrographs.
// Each zone file "<model>-<y>-<x>-<dy>-<dx><ext>" names a sub-tile at
// (y+dy, x+dx); the crop is written under the zone file's basename.
type ZoneCropper struct {
	FS fsutil.FileSystem

	// Unit is the side of the square sub-tile.
	Unit int
	// FullImageExt is the extension of the full images, e.g. ".png".
	FullImageExt string
	// Exts filters the zone directory listing.
	Exts []string
}

// Run crops every zone file in zonesDir from the matching full image in
// fullDir. A missing full image skips all zones of that model; malformed
// names and sub-tiles leaving the image are skipped individually.
func (z *ZoneCropper) Run(fullDir, zonesDir, outDir string) (CropStats, error) {
	var stats CropStats
	if z.Unit <= 0 {
		return stats, fmt.Errorf("invalid unit size %d", z.Unit)
	}
	if err := z.FS.MkdirAll(outDir, 0755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}

	files, err := fsutil.ListImages(z.FS, zonesDir, z.Exts)
	if err != nil {
		return stats, fmt.Errorf("list %s: %w", zonesDir, err)
	}

	byModel := make(map[string][]Name)
	for _, f := range files {
		n, err := ParseZoneName(f)
		if err != nil {
			logf("skipping zone file %s: %v", f, err)
			stats.Failed++
			continue
		}
		byModel[n.ModelID] = append(byModel[n.ModelID], n)
	}

	models := make([]string, 0, len(byModel))
	for m := range byModel {
		models = append(models, m)
	}
	sort.Strings(models)

	size := image.Pt(z.Unit, z.Unit)
	for _, model := range models {
		path := filepath.Join(fullDir, model+z.FullImageExt)
		img, err := imageio.Load(z.FS, path)
		if err != nil {
			logf("full image %s not found or unreadable, skipping %d zones: %v", path, len(byModel[model]), err)
			stats.Failed += len(byModel[model])
			continue
		}
		gray := imageio.ToGray(img)
		stats.Images++

		b := gray.Bounds()
		for _, n := range byModel[model] {
			p := n.Pixel()
			r := image.Rectangle{Min: image.Pt(p.X, p.Y), Max: image.Pt(p.X, p.Y).Add(size)}.Add(b.Min)
			if !r.In(b) {
				logf("skipping %s: sub-tile %v leaves image bounds %v", n, r, b.Size())
				continue
			}
			out := filepath.Join(outDir, n.String())
			if err := imageio.Save(z.FS, out, imageio.ToGray(imaging.Crop(gray, r))); err != nil {
				logf("failed to write %s: %v", out, err)
				stats.Failed++
				continue
			}
			stats.Tiles++
		}
	}
	return stats, nil
}
