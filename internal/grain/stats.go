package grain

import (
	"cmp"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Record is one grain-size value: a single line of a single image.
type Record struct {
	Model      string
	Identifier string
	Filename   string
	Line       int
	GrainSize  float64
}

// SortRecords orders records by model, identifier, grain size, then
// filename and line for a stable tie-break.
func SortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		return cmp.Or(
			cmp.Compare(a.Model, b.Model),
			cmp.Compare(a.Identifier, b.Identifier),
			cmp.Compare(a.GrainSize, b.GrainSize),
			cmp.Compare(a.Filename, b.Filename),
			cmp.Compare(a.Line, b.Line),
		)
	})
}

// Summary holds descriptive statistics of a sample. Variance and Std are
// population values (divisor n).
type Summary struct {
	Count    int
	Mean     float64
	Median   float64
	Variance float64
	Std      float64
	Min      float64
	Max      float64
}

// Summarise computes the summary of values. An empty sample gives the zero
// Summary.
func Summarise(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, variance := stat.PopMeanVariance(sorted, nil)
	return Summary{
		Count:    len(sorted),
		Mean:     mean,
		Median:   median(sorted),
		Variance: variance,
		Std:      math.Sqrt(variance),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
	}
}

// median of an already sorted, non-empty sample, averaging the two middle
// values for even sizes.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// GroupKey identifies an aggregation group.
type GroupKey struct {
	Model      string
	Identifier string
}

// GroupSummary is the summary of one (model, identifier) group.
type GroupSummary struct {
	GroupKey
	Summary
}

// GroupStats summarises records per (model, identifier), sorted by key.
func GroupStats(records []Record) []GroupSummary {
	groups := make(map[GroupKey][]float64)
	for _, r := range records {
		k := GroupKey{Model: r.Model, Identifier: r.Identifier}
		groups[k] = append(groups[k], r.GrainSize)
	}
	return summariseGroups(groups)
}

// ModelStats summarises records per model; Identifier is left empty.
func ModelStats(records []Record) []GroupSummary {
	groups := make(map[GroupKey][]float64)
	for _, r := range records {
		k := GroupKey{Model: r.Model}
		groups[k] = append(groups[k], r.GrainSize)
	}
	return summariseGroups(groups)
}

func summariseGroups(groups map[GroupKey][]float64) []GroupSummary {
	out := make([]GroupSummary, 0, len(groups))
	for k, v := range groups {
		out = append(out, GroupSummary{GroupKey: k, Summary: Summarise(v)})
	}
	slices.SortFunc(out, func(a, b GroupSummary) int {
		return cmp.Or(cmp.Compare(a.Model, b.Model), cmp.Compare(a.Identifier, b.Identifier))
	})
	return out
}

// ImageSummary is the per-image summary row.
type ImageSummary struct {
	Model    string
	Filename string
	Summary
}

// ImageStats summarises each image result, sorted by model then filename.
// Images without any value are omitted.
func ImageStats(results []ImageResult) []ImageSummary {
	var out []ImageSummary
	for _, r := range results {
		sizes := r.Measurement.Sizes()
		if len(sizes) == 0 {
			continue
		}
		out = append(out, ImageSummary{Model: r.Model, Filename: r.Filename, Summary: Summarise(sizes)})
	}
	slices.SortFunc(out, func(a, b ImageSummary) int {
		return cmp.Or(cmp.Compare(a.Model, b.Model), cmp.Compare(a.Filename, b.Filename))
	})
	return out
}
