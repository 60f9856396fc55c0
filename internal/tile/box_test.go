package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxIntersection(t *testing.T) {
	testCases := []struct {
		name string
		a, b Box
		area int
	}{
		{"identical", Box{0, 0, 256, 256}, Box{0, 0, 256, 256}, 256 * 256},
		{"half overlap", Box{0, 0, 256, 256}, Box{128, 0, 384, 256}, 128 * 256},
		{"touching edge", Box{0, 0, 256, 256}, Box{256, 0, 512, 256}, 0},
		{"disjoint", Box{0, 0, 10, 10}, Box{100, 100, 110, 110}, 0},
		{"one axis negative", Box{0, 0, 10, 10}, Box{5, 20, 15, 30}, 0},
		{"contained", Box{0, 0, 100, 100}, Box{10, 10, 20, 30}, 200},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.area, tc.a.IntersectionArea(tc.b))
			assert.Equal(t, tc.a.Intersects(tc.b), tc.b.Intersects(tc.a), "intersection must be symmetric")
			assert.Equal(t, tc.area > 0, tc.a.Intersects(tc.b))
		})
	}
}

func TestBoxSelfIntersects(t *testing.T) {
	for _, b := range []Box{{0, 0, 1, 1}, {5, 7, 300, 900}} {
		assert.True(t, b.Intersects(b))
	}
	assert.False(t, Box{3, 3, 3, 3}.Intersects(Box{3, 3, 3, 3}), "empty box has no area")
}

func TestContainsPointClosed(t *testing.T) {
	b := BoxAt(Origin{Y: 0, X: 0}, 256, 256)
	assert.True(t, b.ContainsPoint(0, 0))
	assert.True(t, b.ContainsPoint(256, 256))
	assert.False(t, b.ContainsPoint(257, 0))
	assert.False(t, b.ContainsPoint(-1, 10))
}

func TestParseOverlapTest(t *testing.T) {
	for _, s := range []string{"rect_intersection", "point_in_box"} {
		got, err := ParseOverlapTest(s)
		require.NoError(t, err)
		assert.Equal(t, s, got.String())
	}
	got, err := ParseOverlapTest("")
	require.NoError(t, err)
	assert.Equal(t, RectIntersection, got)

	_, err = ParseOverlapTest("iou")
	assert.Error(t, err)
}

func TestOverlapTestCollides(t *testing.T) {
	candidate := BoxAt(Origin{Y: 256, X: 256}, 256, 256)
	above := BoxAt(Origin{Y: 128, X: 256}, 256, 256)

	assert.True(t, RectIntersection.Collides(candidate, above))
	assert.False(t, PointInBox.Collides(candidate, above), "zone origin above the candidate is missed")

	inside := BoxAt(Origin{Y: 300, X: 300}, 256, 256)
	assert.True(t, PointInBox.Collides(candidate, inside))
}
