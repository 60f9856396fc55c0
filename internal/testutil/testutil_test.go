package testutil

import (
	"image"
	"testing"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/monitoring"
	"github.com/stretchr/testify/assert"
)

func TestGrayRectRender(t *testing.T) {
	img := GrayRect(4, 2, image.Rect(1, 0, 3, 1), 255, 0)
	assert.Equal(t, ".##.\n....\n", Render(img, 255))
	assert.Equal(t, "#..#\n####\n", Render(img, 0))
}

func TestSaveLoadGray(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	img := GrayRect(3, 3, image.Rect(1, 1, 2, 2), 200, 10)
	SaveImage(t, fsys, "/x/a.png", img)
	assert.Equal(t, img.Pix, LoadGray(t, fsys, "/x/a.png").Pix)
}

func TestCaptureLogs(t *testing.T) {
	logs := CaptureLogs(t)
	monitoring.Prefixed("tile")("cropped %d", 3)
	assert.Equal(t, []string{"[tile] cropped 3"}, *logs)
}
