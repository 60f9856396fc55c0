package grain

import (
	"image"
	"image/color"

	"git.sr.ht/~sbinet/gg"
)

var crossingColor = color.NRGBA{B: 255, A: 255}

// Annotate draws the measurement lines of m in red over a copy of img and
// circles each detected crossing pixel in blue.
func Annotate(img image.Image, m *Measurement) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(1)

	dc.SetColor(lineColor)
	for _, l := range m.Lines {
		dc.DrawLine(
			float64(l.Line.Start.X), float64(l.Line.Start.Y)+0.5,
			float64(l.Line.End.X), float64(l.Line.End.Y)+0.5,
		)
		dc.Stroke()
	}

	dc.SetColor(crossingColor)
	for _, l := range m.Lines {
		for _, p := range l.Crossings {
			dc.DrawCircle(float64(p.X)+0.5, float64(p.Y)+0.5, 1)
			dc.Stroke()
		}
	}
	return dc.Image()
}
