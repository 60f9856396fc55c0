package grain

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCrossingsExactColourMatch(t *testing.T) {
	img := filled(5, 5, color.Black)
	img.Set(4, 0, color.NRGBA{R: 255, A: 255}) // pure red off the line
	img.Set(2, 2, color.White)                 // boundary pixel on the line
	img.Set(1, 2, color.NRGBA{R: 1, A: 255})   // near-black still shifts the sum

	got := Crossings(img, Line{Start: image.Pt(0, 2), End: image.Pt(5, 2), Length: 5})
	want := []image.Point{{4, 0}, {0, 2}, {3, 2}, {4, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Crossings mismatch (-want +got):\n%s", diff)
	}
}

func TestCrossingsGrayAndOffsetImages(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range gray.Pix {
		gray.Pix[i] = 255
	}
	gray.SetGray(1, 1, color.Gray{})

	got := Crossings(gray, Line{Start: image.Pt(0, 1), End: image.Pt(4, 1), Length: 4})
	assert.Equal(t, []image.Point{{1, 1}}, got)

	sub := filled(10, 10, color.White)
	sub.Set(6, 6, color.Black)
	got = Crossings(sub.SubImage(image.Rect(5, 5, 10, 10)), Line{Start: image.Pt(0, 1), End: image.Pt(5, 1), Length: 5})
	assert.Equal(t, []image.Point{{1, 1}}, got, "coordinates are relative to the image origin")
}

func TestClusterPixels(t *testing.T) {
	cutoff := 2*1.4142135623730951 + 0.001

	testCases := []struct {
		name string
		pts  []image.Point
		want int
	}{
		{name: "none", pts: nil, want: 0},
		{name: "single", pts: []image.Point{{3, 3}}, want: 1},
		{name: "diagonal then jump", pts: []image.Point{{0, 0}, {1, 1}, {10, 10}}, want: 2},
		{name: "two diagonal steps stay", pts: []image.Point{{0, 0}, {2, 2}}, want: 1},
		{name: "three apart splits", pts: []image.Point{{0, 0}, {3, 0}}, want: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, ClusterPixels(tc.pts, cutoff), tc.want)
		})
	}

	clusters := ClusterPixels([]image.Point{{0, 0}, {1, 1}, {10, 10}}, cutoff)
	require.Len(t, clusters, 2)
	assert.Equal(t, Cluster{{0, 0}, {1, 1}}, clusters[0])
	assert.Equal(t, Cluster{{10, 10}}, clusters[1])
}
