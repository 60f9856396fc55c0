package imageio

import (
	"image"
	"image/color"
	"testing"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	return img
}

func TestSaveLoadRoundTrip(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	src := checker(8, 6)

	require.NoError(t, Save(mfs, "/out/board.png", src))

	got, err := Load(mfs, "/out/board.png")
	require.NoError(t, err)

	n := ToNRGBA(got)
	assert.Equal(t, src.Bounds(), n.Bounds())
	assert.Equal(t, src.Pix, n.Pix)
}

func TestSave_UnknownExtension(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	err := Save(mfs, "/out/board.xyz", checker(2, 2))
	assert.Error(t, err)
	assert.False(t, mfs.Exists("/out/board.xyz"))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(fsutil.NewMemoryFileSystem(), "/missing.png")
	assert.Error(t, err)
}

func TestLoad_Garbage(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/bad.png", []byte("not a png"))
	_, err := Load(mfs, "/bad.png")
	assert.Error(t, err)
}

func TestToNRGBA_RebasesOrigin(t *testing.T) {
	src := checker(4, 4).SubImage(image.Rect(1, 1, 3, 3))
	n := ToNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 2), n.Bounds())
	assert.Equal(t, uint8(255), n.NRGBAAt(0, 0).R) // (1,1) in the source is white
}

func TestToGray(t *testing.T) {
	g := ToGray(checker(2, 2))
	assert.Equal(t, uint8(255), g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), g.GrayAt(1, 0).Y)
}
