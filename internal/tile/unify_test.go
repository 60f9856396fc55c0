package tile

import (
	"image"
	"image/color"
	"testing"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/imageio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCropUnifyRoundTrip(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	src := gradient(256, 256)
	require.NoError(t, imageio.Save(fsys, "/full/m.png", src))

	c := GridCropper{FS: fsys, TileSize: image.Pt(128, 128), Step: image.Pt(128, 128)}
	stats, err := c.CropDirectory("/full", "/tiles", []string{".png"})
	require.NoError(t, err)
	require.Equal(t, 4, stats.Tiles)

	u := Unifier{FS: fsys, CropSize: 256, UnitSize: 128, Exts: []string{".png"}}
	names, err := u.Run("/tiles", "/unified")
	require.NoError(t, err)
	require.Equal(t, []string{"m-0-0.png"}, names)

	got, err := imageio.Load(fsys, "/unified/m-0-0.png")
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), got.Bounds())
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			if px := color.NRGBAModel.Convert(got.At(x, y)); px != src.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, px, src.NRGBAAt(x, y))
			}
		}
	}
}

func TestUnifierRejectsIncompleteGroups(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	for _, f := range []string{"m-0-0-0-0.png", "m-0-0-0-128.png", "m-0-0-128-0.png", "m-0-0-128-128.png", "n-0-0-0-0.png"} {
		require.NoError(t, imageio.Save(fsys, "/tiles/"+f, gradient(128, 128)))
	}

	u := Unifier{FS: fsys, CropSize: 256, UnitSize: 128, Exts: []string{".png"}}
	_, err := u.Run("/tiles", "/unified")
	require.ErrorIs(t, err, ErrGroupSize)
	assert.False(t, fsys.Exists("/unified"), "nothing may be written")
}

func TestUnifierNamesFromFirstMember(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	for _, f := range []string{"m-256-0-0-0.png", "m-256-0-0-128.png", "m-256-0-128-0.png", "m-256-0-128-128.png"} {
		require.NoError(t, imageio.Save(fsys, "/tiles/"+f, gradient(128, 128)))
	}

	u := Unifier{FS: fsys, CropSize: 256, UnitSize: 128, Exts: []string{".png"}}
	names, err := u.Run("/tiles", "/unified")
	require.NoError(t, err)
	assert.Equal(t, []string{"m-256-0.png"}, names)
}

func TestAssemble(t *testing.T) {
	white := image.NewUniform(color.White)
	tile := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			tile.Set(x, y, white)
		}
	}

	out, err := Assemble([]image.Image{tile}, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(3, 3), "missing quadrants stay black")

	_, err = Assemble(make([]image.Image, 5), 4, 2)
	assert.ErrorIs(t, err, ErrGroupSize)
}

func TestZoneCropper(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	full := image.NewGray(image.Rect(0, 0, 512, 512))
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			full.SetGray(x, y, color.Gray{Y: uint8(x + 2*y)})
		}
	}
	require.NoError(t, imageio.Save(fsys, "/full/m.png", full))
	for _, f := range []string{"m-0-0-0-128.png", "m-256-256-128-128.png", "m-0-0.png", "q-0-0-0-0.png", "m-450-0-0-0.png"} {
		fsys.WriteFile("/zones/"+f, []byte{})
	}

	z := ZoneCropper{FS: fsys, Unit: 128, FullImageExt: ".png", Exts: []string{".png"}}
	stats, err := z.Run("/full", "/zones", "/out")
	require.NoError(t, err)
	// m-0-0.png is malformed, q has no full image, m-450-0 leaves the image.
	assert.Equal(t, CropStats{Images: 1, Tiles: 2, Failed: 2}, stats)

	tl, err := imageio.Load(fsys, "/out/m-0-0-0-128.png")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(128, 128), tl.Bounds().Size())
	assert.Equal(t, color.Gray{Y: 128}, color.GrayModel.Convert(tl.At(0, 0)))

	tl, err = imageio.Load(fsys, "/out/m-256-256-128-128.png")
	require.NoError(t, err)
	// (385, 384) wraps to 1153 mod 256.
	assert.Equal(t, color.Gray{Y: 129}, color.GrayModel.Convert(tl.At(1, 0)))
}
