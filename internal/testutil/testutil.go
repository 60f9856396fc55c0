// Package testutil provides shared test fixtures for the image packages.
package testutil

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/imageio"
	"github.com/banshee-data/mlography/internal/monitoring"
)

// GrayRect returns a w×h grey image with value fg inside r and bg elsewhere.
func GrayRect(w, h int, r image.Rectangle, fg, bg uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := bg
			if image.Pt(x, y).In(r) {
				v = fg
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

// Render draws pixels equal to fg as '#' and the rest as '.', one line per
// row. It makes skeleton mismatches readable in failure output.
func Render(img *image.Gray, fg uint8) string {
	var sb strings.Builder
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y == fg {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// SaveImage writes img to path on fsys and fails the test on error.
func SaveImage(t testing.TB, fsys fsutil.FileSystem, path string, img image.Image) {
	t.Helper()
	if err := imageio.Save(fsys, path, img); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

// LoadGray reads path from fsys as a grey image and fails the test on error.
func LoadGray(t testing.TB, fsys fsutil.FileSystem, path string) *image.Gray {
	t.Helper()
	img, err := imageio.Load(fsys, path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	return imageio.ToGray(img)
}

// CaptureLogs routes the monitoring logger into the returned slice for the
// duration of the test. Read the slice only after the code under test has
// returned.
func CaptureLogs(t testing.TB) *[]string {
	t.Helper()
	var mu sync.Mutex
	var lines []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, strings.TrimSpace(fmt.Sprintf(format, v...)))
	})
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })
	return &lines
}
