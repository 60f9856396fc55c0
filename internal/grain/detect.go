package grain

import (
	"image"
	"image/color"

	"github.com/banshee-data/mlography/internal/imageio"
)

// lineColor is the sentinel colour measurement lines are drawn in.
var lineColor = color.NRGBA{R: 255, A: 255}

// Crossings returns, in row-major order, every pixel whose composite of the
// source and a red line canvas is exactly (255, 0, 0).
//
// The line is drawn in pure red on a black canvas and added channel-wise to
// the RGB source with 8-bit wrap-around. A line pixel therefore matches only
// where the source is black (0, 0, 0); any non-zero source channel shifts the
// composite away from pure red. Pixels off the line match only if the source
// itself is pure red. Alpha is ignored.
func Crossings(img image.Image, l Line) []image.Point {
	src := imageio.ToNRGBA(img)
	b := src.Rect
	w := b.Dx()

	onLine := make([]bool, w*b.Dy())
	for _, p := range Rasterize(l, b) {
		onLine[p.Y*w+p.X] = true
	}

	var pts []image.Point
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			r, g, bl := row[4*x], row[4*x+1], row[4*x+2]
			if onLine[y*w+x] {
				r += lineColor.R
			}
			if r == 255 && g == 0 && bl == 0 {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}
