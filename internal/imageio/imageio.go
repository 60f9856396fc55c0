// Package imageio loads and saves micrograph images through an
// fsutil.FileSystem, picking the codec from the file extension.
package imageio

import (
	"fmt"
	"image"
	"image/color"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/disintegration/imaging"
)

// Load decodes the image stored at path. PNG, JPEG, TIFF, BMP and GIF are
// supported.
func Load(fsys fsutil.FileSystem, path string) (image.Image, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path using the format implied by its extension.
func Save(fsys fsutil.FileSystem, path string, img image.Image) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	w, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, format); err != nil {
		w.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return w.Close()
}

// ToNRGBA returns img as an *image.NRGBA anchored at the origin. Images that
// already are zero-origin NRGBA are returned as-is.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// ToGray converts img to an 8-bit grayscale image anchored at the origin.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return out
}
