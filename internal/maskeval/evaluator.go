package maskeval

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/imageio"
	"github.com/banshee-data/mlography/internal/thinning"
)

// Output subdirectories for thinned masks.
const (
	PredictedDir   = "predicted_masks"
	GroundTruthDir = "ground_truth_masks"
	ThinnedPrefix  = "thinned_"
)

// Evaluator pairs predicted masks with ground-truth masks of the same file
// name and scores them after Otsu binarisation and thinning.
type Evaluator struct {
	FS      fsutil.FileSystem
	Thinner thinning.Thinner
	Exts    []string
	// Cut is the probability cut applied to predictions; zero means
	// DefaultProbabilityCut.
	Cut float64
}

// Run evaluates every prediction in predDir that has a ground-truth mask in
// gtDir. Thinned masks are written to outDir/predicted_masks and
// outDir/ground_truth_masks as thinned_<name>. Predictions without a
// matching ground truth, or that fail to decode, are logged and skipped.
func (e *Evaluator) Run(predDir, gtDir, outDir string) ([]Score, Summary, error) {
	th := e.Thinner
	if th == nil {
		th = thinning.GuoHall{}
	}
	cut := e.Cut
	if cut == 0 {
		cut = DefaultProbabilityCut
	}

	names, err := fsutil.ListImages(e.FS, predDir, e.Exts)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("list predictions: %w", err)
	}

	predOut := filepath.Join(outDir, PredictedDir)
	gtOut := filepath.Join(outDir, GroundTruthDir)
	for _, d := range []string{predOut, gtOut} {
		if err := e.FS.MkdirAll(d, 0755); err != nil {
			return nil, Summary{}, fmt.Errorf("create %s: %w", d, err)
		}
	}

	var scores []Score
	for _, name := range names {
		gtPath := filepath.Join(gtDir, name)
		if !e.FS.Exists(gtPath) {
			logf("no ground truth for %s, skipping", name)
			continue
		}
		pred, err := e.loadGray(filepath.Join(predDir, name))
		if err != nil {
			logf("skipping %s: %v", name, err)
			continue
		}
		gt, err := e.loadGray(gtPath)
		if err != nil {
			logf("skipping %s: %v", name, err)
			continue
		}

		predMask := th.Thin(ApplyOtsu(BinarizeProbabilities(pred, cut)))
		gtMask := th.Thin(ApplyOtsu(gt))

		if err := imageio.Save(e.FS, filepath.Join(predOut, ThinnedPrefix+name), predMask); err != nil {
			return scores, Summarise(scores), err
		}
		if err := imageio.Save(e.FS, filepath.Join(gtOut, ThinnedPrefix+name), gtMask); err != nil {
			return scores, Summarise(scores), err
		}

		dice, iou, err := DiceJaccard(predMask, gtMask)
		if err != nil {
			logf("skipping %s: %v", name, err)
			continue
		}
		logf("Image: %s, Post-thinning Dice: %.4f, Post-thinning IoU: %.4f", name, dice, iou)
		scores = append(scores, Score{Filename: name, Dice: dice, IoU: iou})
	}

	sum := Summarise(scores)
	logf("Final Mean Dice: %.4f", sum.MeanDice)
	logf("Final Mean IoU: %.4f", sum.MeanIoU)
	return scores, sum, nil
}

func (e *Evaluator) loadGray(path string) (*image.Gray, error) {
	img, err := imageio.Load(e.FS, path)
	if err != nil {
		return nil, err
	}
	return imageio.ToGray(img), nil
}
