package grain

import (
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/banshee-data/mlography/internal/config"
)

// SizePolicy selects how a line's crossings become a grain-size value.
type SizePolicy int

const (
	// Intercept is the Heyn estimate L_CONST * length / max(1, clusters).
	Intercept SizePolicy = iota
	// PixelSpacing is the mean distance between consecutive crossing pixels.
	// Lines with fewer than two crossing pixels yield no value.
	PixelSpacing
)

func (p SizePolicy) String() string {
	switch p {
	case Intercept:
		return "intercept"
	case PixelSpacing:
		return "pixel_spacing"
	default:
		return fmt.Sprintf("SizePolicy(%d)", int(p))
	}
}

// ParseSizePolicy maps the configuration spelling to a SizePolicy.
func ParseSizePolicy(s string) (SizePolicy, error) {
	switch s {
	case "", "intercept":
		return Intercept, nil
	case "pixel_spacing":
		return PixelSpacing, nil
	default:
		return 0, fmt.Errorf("unknown size policy %q", s)
	}
}

// InterceptSize is the line-intercept grain size for a line of the given
// length crossing clusters boundaries.
func InterceptSize(lConst, length float64, clusters int) float64 {
	return lConst * length / float64(max(1, clusters))
}

// MeanSpacing returns the mean distance between consecutive pixels and
// false when there are fewer than two.
func MeanSpacing(pts []image.Point) (float64, bool) {
	if len(pts) < 2 {
		return 0, false
	}
	sum := 0.0
	for i := 1; i < len(pts); i++ {
		sum += distance(pts[i-1], pts[i])
	}
	return sum / float64(len(pts)-1), true
}

// LineResult is the measurement of one line.
type LineResult struct {
	Index     int
	Line      Line
	Crossings []image.Point
	Clusters  int
	GrainSize float64
	// Valid is false when the policy produced no value for this line.
	Valid bool
}

// Measurement holds the per-line results for one image.
type Measurement struct {
	Lines []LineResult
	// Average is the sum of valid values divided by the number of lines
	// drawn, valid or not.
	Average float64
}

// Sizes returns the grain sizes of the valid lines in line order.
func (m *Measurement) Sizes() []float64 {
	var out []float64
	for _, l := range m.Lines {
		if l.Valid {
			out = append(out, l.GrainSize)
		}
	}
	return out
}

// Estimator measures grain size on segmentation images.
type Estimator struct {
	Mode        LineMode
	Policy      SizePolicy
	LineCount   int
	Margin      int
	Cutoff      float64
	LConst      float64
	MaxAttempts int
}

// NewEstimator builds an Estimator from the pipeline configuration.
func NewEstimator(cfg *config.PipelineConfig) (*Estimator, error) {
	mode, err := ParseLineMode(cfg.GetLineMode())
	if err != nil {
		return nil, err
	}
	policy, err := ParseSizePolicy(cfg.GetSizePolicy())
	if err != nil {
		return nil, err
	}
	return &Estimator{
		Mode:        mode,
		Policy:      policy,
		LineCount:   cfg.GetLineCount(),
		Margin:      cfg.GetMargin(),
		Cutoff:      cfg.GetCutoff(),
		LConst:      cfg.GetLConst(),
		MaxAttempts: cfg.GetMaxLineAttempts(),
	}, nil
}

// Lines returns the measurement lines for a w x h image. rng is only used in
// Random mode.
func (e *Estimator) Lines(rng *rand.Rand, w, h int) ([]Line, error) {
	if e.Mode == Systematic {
		return SystematicLines(w, h, e.Margin, e.LineCount)
	}
	if e.LineCount <= 0 {
		return nil, fmt.Errorf("line count must be positive, got %d", e.LineCount)
	}
	lines := make([]Line, e.LineCount)
	for i := range lines {
		l, err := RandomLine(rng, w, h, e.MaxAttempts)
		if err != nil {
			return nil, err
		}
		lines[i] = l
	}
	return lines, nil
}

// MeasureLine detects the crossings of l on img and applies the size policy.
func (e *Estimator) MeasureLine(img image.Image, l Line) LineResult {
	pts := Crossings(img, l)
	res := LineResult{
		Line:      l,
		Crossings: pts,
		Clusters:  len(ClusterPixels(pts, e.Cutoff)),
	}

	switch e.Policy {
	case PixelSpacing:
		res.GrainSize, res.Valid = MeanSpacing(pts)
	default:
		res.GrainSize = InterceptSize(e.LConst, l.Length, res.Clusters)
		res.Valid = true
	}
	return res
}

// Measure lays the measurement lines over img and measures each of them.
// Every valid value is logged as D_horiz_<l>, followed by D_ave.
func (e *Estimator) Measure(img image.Image, rng *rand.Rand) (*Measurement, error) {
	b := img.Bounds()
	lines, err := e.Lines(rng, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	m := &Measurement{Lines: make([]LineResult, 0, len(lines))}
	sum := 0.0
	for i, l := range lines {
		res := e.MeasureLine(img, l)
		res.Index = i
		if res.Valid {
			sum += res.GrainSize
			logf("D_horiz_%d = %v [px]", i, res.GrainSize)
		}
		m.Lines = append(m.Lines, res)
	}
	m.Average = sum / float64(len(lines))
	logf("D_ave = %v [px]", m.Average)
	return m, nil
}
