package grain

import (
	"errors"
	"image"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystematicLines(t *testing.T) {
	lines, err := SystematicLines(64, 100, 2, 9)
	require.NoError(t, err)
	require.Len(t, lines, 9)

	var ys []int
	for _, l := range lines {
		assert.Equal(t, 0, l.Start.X)
		assert.Equal(t, 64, l.End.X)
		assert.Equal(t, l.Start.Y, l.End.Y)
		assert.Equal(t, 64.0, l.Length)
		ys = append(ys, l.Start.Y)
	}
	// interval = (100 - 4) / 10 = 9
	want := []int{11, 20, 29, 38, 47, 56, 65, 74, 83}
	if diff := cmp.Diff(want, ys); diff != "" {
		t.Errorf("line rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSystematicLinesErrors(t *testing.T) {
	testCases := []struct {
		name       string
		w, h, m, n int
		degenerate bool
	}{
		{name: "zero lines", w: 10, h: 10, m: 2, n: 0},
		{name: "empty image", w: 0, h: 10, m: 2, n: 3, degenerate: true},
		{name: "no room", w: 10, h: 10, m: 2, n: 20, degenerate: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SystematicLines(tc.w, tc.h, tc.m, tc.n)
			require.Error(t, err)
			assert.Equal(t, tc.degenerate, errors.Is(err, ErrDegenerateImage))
		})
	}
}

func TestRandomLineAccepted(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		l, err := RandomLine(rng, 100, 80, 1000)
		require.NoError(t, err)
		assert.Greater(t, l.Length*l.Length, 100.0*100.0)
		assert.Greater(t, l.Length*l.Length, 80.0*80.0)
		for _, p := range []image.Point{l.Start, l.End} {
			assert.True(t, p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 80, "endpoint %v outside image", p)
		}
	}
}

// constSource makes every Float64 draw return 0.5, which yields a
// horizontal line through the centre: never longer than the width.
type constSource struct{}

func (constSource) Uint64() uint64 { return 1 << 52 }

func TestRandomLineBoundedRetries(t *testing.T) {
	_, err := RandomLine(rand.New(constSource{}), 100, 80, 25)
	require.ErrorIs(t, err, ErrDegenerateImage)

	_, err = RandomLine(rand.New(rand.NewPCG(1, 1)), 0, 80, 25)
	require.ErrorIs(t, err, ErrDegenerateImage)
}

func TestParseLineMode(t *testing.T) {
	for _, m := range []LineMode{Systematic, Random} {
		got, err := ParseLineMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseLineMode("diagonal")
	assert.Error(t, err)
}

func TestRasterize(t *testing.T) {
	bounds := image.Rect(0, 0, 10, 10)

	h := Rasterize(Line{Start: image.Pt(0, 5), End: image.Pt(10, 5)}, bounds)
	require.Len(t, h, 10, "far-edge endpoint is clipped")
	assert.Equal(t, image.Pt(0, 5), h[0])
	assert.Equal(t, image.Pt(9, 5), h[9])

	d := Rasterize(Line{Start: image.Pt(0, 0), End: image.Pt(3, 3)}, bounds)
	assert.Equal(t, []image.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}, d)

	v := Rasterize(Line{Start: image.Pt(4, 9), End: image.Pt(4, 7)}, bounds)
	assert.Equal(t, []image.Point{{4, 9}, {4, 8}, {4, 7}}, v)
}
