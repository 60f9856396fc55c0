package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/grain"
	"github.com/banshee-data/mlography/internal/monitoring"
)

var logf = monitoring.Prefixed("report")

// Output file names written by Writer.
const (
	RecordsFile      = "all_models_grain_sizes.csv"
	ImageSummaryFile = "image_summary.csv"
	GroupStatsFile   = "group_stats.csv"
	BoxPlotFile      = "grain_size_boxplot.png"
	HTMLFile         = "grain_size.html"
)

// Writer writes the full set of reports for a batch result into Dir.
type Writer struct {
	FS  fsutil.FileSystem
	Dir string

	// Plots enables the PNG box plot and per-model histograms.
	Plots bool
	// HTML enables the echarts page.
	HTML bool
	// AssetsHost is passed to the echarts page.
	AssetsHost string
}

// WriteAll writes every enabled report and returns the paths written.
func (rw *Writer) WriteAll(res *grain.BatchResult) ([]string, error) {
	if err := rw.FS.MkdirAll(rw.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	var written []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(rw.Dir, name)
		f, err := rw.FS.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		written = append(written, path)
		logf("saved %s", path)
		return nil
	}

	if err := write(RecordsFile, func(w io.Writer) error { return WriteRecords(w, res.Records) }); err != nil {
		return written, err
	}
	if err := write(ImageSummaryFile, func(w io.Writer) error {
		return WriteImageSummaries(w, grain.ImageStats(res.Images))
	}); err != nil {
		return written, err
	}
	if err := write(GroupStatsFile, func(w io.Writer) error {
		return WriteGroupStats(w, grain.GroupStats(res.Records))
	}); err != nil {
		return written, err
	}

	if rw.Plots && len(res.Records) > 0 {
		series := SeriesByModel(res.Records)
		if err := write(BoxPlotFile, func(w io.Writer) error {
			return WriteBoxPlot(w, "Grain size by model", series)
		}); err != nil {
			return written, err
		}
		for _, s := range series {
			name := fmt.Sprintf("hist_%s.png", grain.ModelDirName(s.Name))
			if err := write(name, func(w io.Writer) error {
				return WriteHistogram(w, s.Name+" grain size", s.Values, DefaultHistogramBins)
			}); err != nil {
				return written, err
			}
		}
	}

	if rw.HTML {
		if err := write(HTMLFile, func(w io.Writer) error {
			return WriteHTML(w, res.Records, rw.AssetsHost)
		}); err != nil {
			return written, err
		}
	}
	return written, nil
}
