package report

import (
	"sort"

	"github.com/banshee-data/mlography/internal/grain"
	"gonum.org/v1/gonum/stat"
)

// Series is a named sample of grain sizes.
type Series struct {
	Name   string
	Values []float64
}

// SeriesByModel groups record values per model, sorted by model name.
func SeriesByModel(records []grain.Record) []Series {
	byModel := make(map[string][]float64)
	for _, r := range records {
		byModel[r.Model] = append(byModel[r.Model], r.GrainSize)
	}

	names := make([]string, 0, len(byModel))
	for m := range byModel {
		names = append(names, m)
	}
	sort.Strings(names)

	out := make([]Series, len(names))
	for i, n := range names {
		out[i] = Series{Name: n, Values: byModel[n]}
	}
	return out
}

// FiveNumber returns min, lower quartile, median, upper quartile and max of
// values. Quartiles interpolate linearly on the empirical CDF. An empty
// sample yields zeros.
func FiveNumber(values []float64) [5]float64 {
	if len(values) == 0 {
		return [5]float64{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	s := grain.Summarise(sorted)
	return [5]float64{
		s.Min,
		stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		s.Median,
		stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		s.Max,
	}
}
