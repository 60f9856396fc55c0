// Package thinning reduces binary boundary maps to one-pixel-wide skeletons
// and applies the post-processing used on reassembled composites.
//
// Images are *image.Gray; any non-zero pixel is foreground. A Thinner
// returns a new image with foreground 255 and background 0.
package thinning

import (
	"fmt"
	"image"
	"sort"

	"github.com/banshee-data/mlography/internal/monitoring"
)

var logf = monitoring.Prefixed("thinning")

// Thinner skeletonises the foreground of a binary image.
type Thinner interface {
	Thin(src *image.Gray) *image.Gray
}

// DefaultThinner is the name of the pure-Go Guo-Hall implementation.
const DefaultThinner = "guohall"

var thinners = map[string]func() Thinner{
	DefaultThinner: func() Thinner { return GuoHall{} },
}

// New returns the thinner registered under name. An empty name selects
// DefaultThinner.
func New(name string) (Thinner, error) {
	if name == "" {
		name = DefaultThinner
	}
	f, ok := thinners[name]
	if !ok {
		return nil, fmt.Errorf("unknown thinner %q (available: %v)", name, Available())
	}
	return f(), nil
}

// Available lists the registered thinner names.
func Available() []string {
	names := make([]string, 0, len(thinners))
	for n := range thinners {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Binarize maps pixels above threshold to 255 and the rest to 0.
func Binarize(src *image.Gray, threshold uint8) *image.Gray {
	dst := image.NewGray(src.Rect)
	for i, v := range src.Pix {
		if v > threshold {
			dst.Pix[i] = 255
		}
	}
	return dst
}

// Invert returns the bitwise complement of src.
func Invert(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Rect)
	for i, v := range src.Pix {
		dst.Pix[i] = ^v
	}
	return dst
}
