package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultHistogramBins is the bin count used for grain-size histograms.
const DefaultHistogramBins = 20

// WriteBoxPlot renders one box per series as a PNG.
func WriteBoxPlot(w io.Writer, title string, series []Series) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Grain size (px)"

	colors := generateColors(len(series))
	names := make([]string, 0, len(series))
	for i, s := range series {
		names = append(names, s.Name)
		if len(s.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(s.Values))
		if err != nil {
			return fmt.Errorf("box for %s: %w", s.Name, err)
		}
		box.FillColor = colors[i]
		p.Add(box)
	}
	p.NominalX(names...)

	return writePNG(p, w, 10*vg.Inch, 6*vg.Inch)
}

// WriteHistogram renders the distribution of values as a PNG.
func WriteHistogram(w io.Writer, title string, values []float64, bins int) error {
	if len(values) == 0 {
		return fmt.Errorf("histogram %q: no values", title)
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Grain size (px)"
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("histogram %q: %w", title, err)
	}
	h.FillColor = generateColors(1)[0]
	p.Add(h)

	return writePNG(p, w, 8*vg.Inch, 5*vg.Inch)
}

func writePNG(p *plot.Plot, w io.Writer, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

// generateColors creates a palette of n distinct colours.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.6, 0.6)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
