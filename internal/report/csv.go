// Package report writes grain-size results as CSV tables, PNG plots and an
// HTML chart page.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/banshee-data/mlography/internal/grain"
	"github.com/banshee-data/mlography/internal/maskeval"
)

// RecordHeader is the header of the per-line record table.
var RecordHeader = []string{"Model", "Degem", "Grain Size"}

// ImageSummaryHeader is the header of the per-image summary table.
var ImageSummaryHeader = []string{"Model", "Filename", "Mean", "Median", "Std"}

// GroupStatsHeader is the header of the per (model, degem) statistics table.
var GroupStatsHeader = []string{"Model", "Degem", "Count", "Mean", "Median", "Variance", "Std", "Min", "Max"}

// WriteRecords writes one row per record in the given order.
func WriteRecords(w io.Writer, records []grain.Record) error {
	cw := csv.NewWriter(w)
	cw.Write(RecordHeader)
	for _, r := range records {
		cw.Write([]string{r.Model, r.Identifier, formatFloat(r.GrainSize)})
	}
	cw.Flush()
	return cw.Error()
}

// WriteImageSummaries writes the per-image mean, median and standard
// deviation table.
func WriteImageSummaries(w io.Writer, rows []grain.ImageSummary) error {
	cw := csv.NewWriter(w)
	cw.Write(ImageSummaryHeader)
	for _, r := range rows {
		cw.Write([]string{r.Model, r.Filename, formatFloat(r.Mean), formatFloat(r.Median), formatFloat(r.Std)})
	}
	cw.Flush()
	return cw.Error()
}

// WriteGroupStats writes one row of descriptive statistics per group.
func WriteGroupStats(w io.Writer, groups []grain.GroupSummary) error {
	cw := csv.NewWriter(w)
	cw.Write(GroupStatsHeader)
	for _, g := range groups {
		cw.Write([]string{
			g.Model,
			g.Identifier,
			fmt.Sprintf("%d", g.Count),
			formatFloat(g.Mean),
			formatFloat(g.Median),
			formatFloat(g.Variance),
			formatFloat(g.Std),
			formatFloat(g.Min),
			formatFloat(g.Max),
		})
	}
	cw.Flush()
	return cw.Error()
}

// MaskScoreHeader is the header of the mask evaluation table.
var MaskScoreHeader = []string{"Filename", "Dice", "IoU"}

// WriteMaskScores writes one row per score followed by a mean row.
func WriteMaskScores(w io.Writer, scores []maskeval.Score) error {
	cw := csv.NewWriter(w)
	cw.Write(MaskScoreHeader)
	for _, s := range scores {
		cw.Write([]string{s.Filename, formatFloat(s.Dice), formatFloat(s.IoU)})
	}
	sum := maskeval.Summarise(scores)
	cw.Write([]string{"mean", formatFloat(sum.MeanDice), formatFloat(sum.MeanIoU)})
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
