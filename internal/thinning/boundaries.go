package thinning

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/imageio"
)

// NoThreshold disables binarisation before thinning.
const NoThreshold = -1

// ThinBoundaries thins dark boundary lines on a light background: the image
// is optionally binarised at threshold, inverted so boundaries become
// foreground, thinned and inverted back. The result has black one-pixel
// boundaries on white.
func ThinBoundaries(t Thinner, gray *image.Gray, threshold int) *image.Gray {
	src := gray
	if threshold >= 0 {
		src = Binarize(gray, uint8(min(threshold, 255)))
	}
	return Invert(t.Thin(Invert(src)))
}

// OverlayBoundaries keeps the original colour wherever thinned is 0 and
// paints every other pixel with the thinned grey value.
func OverlayBoundaries(thinned *image.Gray, original image.Image) *image.NRGBA {
	orig := imageio.ToNRGBA(original)
	tb := thinned.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, tb.Dx(), tb.Dy()))
	for y := 0; y < tb.Dy(); y++ {
		for x := 0; x < tb.Dx(); x++ {
			v := thinned.GrayAt(tb.Min.X+x, tb.Min.Y+y).Y
			if v == 0 && image.Pt(x, y).In(orig.Rect) {
				dst.SetNRGBA(x, y, orig.NRGBAAt(x, y))
				continue
			}
			dst.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return dst
}

// Options control ThinDirectory.
type Options struct {
	Thinner Thinner
	// Threshold binarises the grey image first; NoThreshold skips it.
	Threshold int
	// Overlay writes OverlayBoundaries output instead of the bare skeleton.
	Overlay bool
	Exts    []string
}

// ThinDirectory thins every image in inDir and writes the result under the
// same name in outDir, which may equal inDir. Unreadable images are logged
// and skipped. It returns the number of images written.
func ThinDirectory(fsys fsutil.FileSystem, inDir, outDir string, opts Options) (int, error) {
	if opts.Thinner == nil {
		opts.Thinner = GuoHall{}
	}
	if err := fsys.MkdirAll(outDir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	names, err := fsutil.ListImages(fsys, inDir, opts.Exts)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", inDir, err)
	}

	n := 0
	for _, name := range names {
		in := filepath.Join(inDir, name)
		logf("processing image: %s", in)
		img, err := imageio.Load(fsys, in)
		if err != nil {
			logf("skipping %s: %v", in, err)
			continue
		}

		thinned := ThinBoundaries(opts.Thinner, imageio.ToGray(img), opts.Threshold)
		var out image.Image = thinned
		if opts.Overlay {
			out = OverlayBoundaries(thinned, img)
		}

		path := filepath.Join(outDir, name)
		if err := imageio.Save(fsys, path, out); err != nil {
			return n, fmt.Errorf("write %s: %w", path, err)
		}
		logf("saved processed image: %s", path)
		n++
	}
	return n, nil
}
