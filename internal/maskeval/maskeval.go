// Package maskeval scores predicted boundary masks against ground truth.
// Both masks are binarised with Otsu's method and thinned to one-pixel
// boundaries before the Dice and Jaccard overlap is computed.
package maskeval

import (
	"errors"
	"fmt"
	"image"

	"github.com/banshee-data/mlography/internal/monitoring"
	"gonum.org/v1/gonum/stat"
)

var logf = monitoring.Prefixed("maskeval")

// DefaultProbabilityCut is the probability above which a predicted pixel is
// foreground.
const DefaultProbabilityCut = 0.5

// ErrSizeMismatch is returned when two masks do not have the same dimensions.
var ErrSizeMismatch = errors.New("mask sizes differ")

// OtsuThreshold returns the grey level that maximises the between-class
// variance of img's histogram. Pixels strictly above it are foreground. An
// image with a single grey level yields 0.
func OtsuThreshold(img *image.Gray) uint8 {
	var hist [256]float64
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[img.GrayAt(x, y).Y]++
		}
	}
	total := float64(b.Dx() * b.Dy())
	if total == 0 {
		return 0
	}

	var mu float64
	for i, h := range hist {
		mu += float64(i) * h
	}
	mu /= total

	const eps = 1.1920929e-07
	var q1, mu1, maxSigma float64
	var best int
	for i, h := range hist {
		p := h / total
		mu1 *= q1
		q1 += p
		q2 := 1 - q1
		if min(q1, q2) < eps || max(q1, q2) > 1-eps {
			continue
		}
		mu1 = (mu1 + float64(i)*p) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			best = i
		}
	}
	return uint8(best)
}

// ApplyOtsu binarises img at its Otsu threshold to 0/255.
func ApplyOtsu(img *image.Gray) *image.Gray {
	t := OtsuThreshold(img)
	return threshold(img, func(v uint8) bool { return v > t })
}

// BinarizeProbabilities treats each grey value as a probability v/255 and
// maps values above cut to 255, the rest to 0.
func BinarizeProbabilities(img *image.Gray, cut float64) *image.Gray {
	return threshold(img, func(v uint8) bool { return float64(v)/255 > cut })
}

func threshold(img *image.Gray, fg func(uint8) bool) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if fg(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y) {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// DiceJaccard returns the Dice coefficient and Jaccard index (IoU) of two
// binary masks, non-zero meaning foreground. When both masks are empty the
// ratios are undefined and both scores are 0.
func DiceJaccard(pred, gt *image.Gray) (dice, iou float64, err error) {
	pb, gb := pred.Bounds(), gt.Bounds()
	if pb.Size() != gb.Size() {
		return 0, 0, fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, pb.Size(), gb.Size())
	}

	var tp, fp, fn float64
	for y := 0; y < pb.Dy(); y++ {
		for x := 0; x < pb.Dx(); x++ {
			p := pred.GrayAt(pb.Min.X+x, pb.Min.Y+y).Y != 0
			g := gt.GrayAt(gb.Min.X+x, gb.Min.Y+y).Y != 0
			switch {
			case p && g:
				tp++
			case p:
				fp++
			case g:
				fn++
			}
		}
	}
	if tp+fp+fn == 0 {
		return 0, 0, nil
	}
	return 2 * tp / (2*tp + fp + fn), tp / (tp + fp + fn), nil
}

// Score is the post-thinning overlap of one mask pair.
type Score struct {
	Filename string
	Dice     float64
	IoU      float64
}

// Summary aggregates Scores.
type Summary struct {
	Count    int
	MeanDice float64
	MeanIoU  float64
}

// Summarise returns the mean Dice and IoU over scores.
func Summarise(scores []Score) Summary {
	if len(scores) == 0 {
		return Summary{}
	}
	dice := make([]float64, len(scores))
	iou := make([]float64, len(scores))
	for i, s := range scores {
		dice[i] = s.Dice
		iou[i] = s.IoU
	}
	return Summary{
		Count:    len(scores),
		MeanDice: stat.Mean(dice, nil),
		MeanIoU:  stat.Mean(iou, nil),
	}
}
