package main

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/banshee-data/mlography/internal/db"
	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/grain"
	"github.com/banshee-data/mlography/internal/imageio"
	"github.com/banshee-data/mlography/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		in      string
		want    grain.Source
		wantErr bool
	}{
		{in: "Ground Truth=/data/gt", want: grain.Source{Folder: "/data/gt", Model: "Ground Truth"}},
		{in: " P = rel/dir ", want: grain.Source{Folder: "rel/dir", Model: "P"}},
		{in: "no-equals", wantErr: true},
		{in: "=dir", wantErr: true},
		{in: "Model=", wantErr: true},
		{in: "../up=dir", wantErr: true},
		{in: "..=dir", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSource(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func boundaryImage(w, h, x int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if px == x {
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(px, py, c)
		}
	}
	return img
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	fsys := fsutil.OSFileSystem{}
	gt := filepath.Join(dir, "gt")
	require.NoError(t, fsys.MkdirAll(gt, 0755))
	require.NoError(t, imageio.Save(fsys, filepath.Join(gt, "ab12-0-0.png"), boundaryImage(64, 64, 20)))

	out := filepath.Join(dir, "results")
	dbPath := filepath.Join(dir, "runs.db")
	err := run([]string{
		"-quiet",
		"-source", "Ground Truth=" + gt,
		"-out", out,
		"-db", dbPath,
		"-lines", "3",
		"-plots=false",
		"-html=false",
	})
	require.NoError(t, err)

	for _, name := range []string{report.RecordsFile, report.ImageSummaryFile, report.GroupStatsFile} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.FileExists(t, filepath.Join(out, "Ground_Truth", "heyn_ab12-0-0.png"))

	store, err := db.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, db.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, 1, runs[0].Images)

	records, err := store.RecordsForRun(runs[0].RunID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.InDelta(t, 1.13*64, r.GrainSize, 1e-9)
		assert.Equal(t, "12", r.Identifier)
	}
}

func TestRun_RequiresSource(t *testing.T) {
	assert.ErrorContains(t, run([]string{"-quiet"}), "-source")
}
