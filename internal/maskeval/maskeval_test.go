package maskeval

import (
	"image"
		"testing"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/testutil"
	"github.com/banshee-data/mlography/internal/thinning"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gray(w, h int, pix ...uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img
}

func TestOtsuThreshold(t *testing.T) {
	tests := []struct {
		name string
		img  *image.Gray
		want uint8
	}{
		{"two levels", gray(4, 1, 50, 50, 200, 200), 50},
		{"binary", gray(4, 1, 0, 255, 0, 255), 0},
		{"uniform", gray(3, 1, 90, 90, 90), 0},
		{"empty", gray(0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OtsuThreshold(tt.img))
		})
	}
}

func TestApplyOtsu(t *testing.T) {
	out := ApplyOtsu(gray(4, 1, 50, 200, 50, 200))
	assert.Equal(t, []uint8{0, 255, 0, 255}, out.Pix)
}

func TestBinarizeProbabilities(t *testing.T) {
	// 127/255 < 0.5 < 128/255
	out := BinarizeProbabilities(gray(4, 1, 0, 127, 128, 255), DefaultProbabilityCut)
	assert.Equal(t, []uint8{0, 0, 255, 255}, out.Pix)
}

func TestDiceJaccard(t *testing.T) {
	tests := []struct {
		name     string
		pred, gt *image.Gray
		dice     float64
		iou      float64
	}{
		{"identical", gray(2, 1, 255, 0), gray(2, 1, 255, 0), 1, 1},
		{"partial", gray(4, 1, 255, 255, 0, 0), gray(4, 1, 255, 0, 255, 0), 0.5, 1.0 / 3},
		{"disjoint", gray(2, 1, 255, 0), gray(2, 1, 0, 255), 0, 0},
		{"both empty", gray(2, 1), gray(2, 1), 0, 0},
		{"non-zero is foreground", gray(2, 1, 1, 0), gray(2, 1, 255, 0), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dice, iou, err := DiceJaccard(tt.pred, tt.gt)
			require.NoError(t, err)
			assert.InDelta(t, tt.dice, dice, 1e-12)
			assert.InDelta(t, tt.iou, iou, 1e-12)
		})
	}
}

func TestDiceJaccard_SizeMismatch(t *testing.T) {
	_, _, err := DiceJaccard(gray(2, 1), gray(1, 2))
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestSummarise(t *testing.T) {
	assert.Equal(t, Summary{}, Summarise(nil))
	got := Summarise([]Score{{Dice: 1, IoU: 0.5}, {Dice: 0, IoU: 0.25}})
	assert.Equal(t, Summary{Count: 2, MeanDice: 0.5, MeanIoU: 0.375}, got)
}

func TestEvaluator_Run(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	band := image.Rect(2, 3, 18, 8)
	save := func(path string, img image.Image) {
		testutil.SaveImage(t, fsys, path, img)
	}
	save("/pred/a.png", testutil.GrayRect(20, 11, band, 200, 30))
	save("/gt/a.png", testutil.GrayRect(20, 11, band, 255, 0))
	save("/pred/b.png", testutil.GrayRect(20, 11, band, 255, 0))
	save("/pred/c.png", gray(20, 11))
	save("/gt/c.png", testutil.GrayRect(20, 11, band, 255, 0))

	logs := testutil.CaptureLogs(t)
	ev := &Evaluator{FS: fsys, Thinner: thinning.GuoHall{}, Exts: []string{".png"}}
	scores, sum, err := ev.Run("/pred", "/gt", "/vis")
	require.NoError(t, err)
	assert.Contains(t, *logs, "[maskeval] no ground truth for b.png, skipping")
	assert.Contains(t, *logs, "[maskeval] Final Mean Dice: 0.5000")

	want := []Score{
		{Filename: "a.png", Dice: 1, IoU: 1},
		{Filename: "c.png", Dice: 0, IoU: 0},
	}
	if diff := cmp.Diff(want, scores, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Summary{Count: 2, MeanDice: 0.5, MeanIoU: 0.5}, sum)

	for _, p := range []string{
		"/vis/predicted_masks/thinned_a.png",
		"/vis/ground_truth_masks/thinned_a.png",
		"/vis/predicted_masks/thinned_c.png",
		"/vis/ground_truth_masks/thinned_c.png",
	} {
		assert.True(t, fsys.Exists(p), p)
	}
	assert.False(t, fsys.Exists("/vis/predicted_masks/thinned_b.png"))

	g := testutil.LoadGray(t, fsys, "/vis/ground_truth_masks/thinned_a.png")
	assert.Equal(t, uint8(255), g.GrayAt(8, 5).Y)
	assert.Equal(t, uint8(0), g.GrayAt(8, 4).Y)
}

func TestEvaluator_MissingPredictions(t *testing.T) {
	ev := &Evaluator{FS: fsutil.NewMemoryFileSystem(), Exts: []string{".png"}}
	_, _, err := ev.Run("/nope", "/gt", "/vis")
	assert.Error(t, err)
}
