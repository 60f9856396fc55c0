package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/grain"
	"github.com/banshee-data/mlography/internal/maskeval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleRecords() []grain.Record {
	return []grain.Record{
		{Model: "Ground_Truth", Identifier: "12", Filename: "ab12-0-0.png", Line: 0, GrainSize: 10},
		{Model: "Ground_Truth", Identifier: "12", Filename: "ab12-0-0.png", Line: 1, GrainSize: 14},
		{Model: "Ground_Truth", Identifier: "34", Filename: "ab34-0-0.png", Line: 0, GrainSize: 20.5},
		{Model: "Predictions", Identifier: "12", Filename: "cd12-0-0.png", Line: 0, GrainSize: 11.25},
	}
}

func sampleResult() *grain.BatchResult {
	return &grain.BatchResult{
		Records: sampleRecords(),
		Images: []grain.ImageResult{
			{Model: "Ground_Truth", Identifier: "12", Filename: "ab12-0-0.png", Measurement: &grain.Measurement{
				Lines: []grain.LineResult{{GrainSize: 10, Valid: true}, {Index: 1, GrainSize: 14, Valid: true}},
			}},
		},
	}
}

func TestWriteRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, sampleRecords()[:2]))
	assert.Equal(t, "Model,Degem,Grain Size\nGround_Truth,12,10.000000\nGround_Truth,12,14.000000\n", buf.String())
}

func TestWriteImageSummaries(t *testing.T) {
	var buf bytes.Buffer
	rows := grain.ImageStats(sampleResult().Images)
	require.NoError(t, WriteImageSummaries(&buf, rows))
	assert.Equal(t, "Model,Filename,Mean,Median,Std\nGround_Truth,ab12-0-0.png,12.000000,12.000000,2.000000\n", buf.String())
}

func TestWriteGroupStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGroupStats(&buf, grain.GroupStats(sampleRecords())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(GroupStatsHeader, ","), lines[0])
	assert.Equal(t, "Ground_Truth,12,2,12.000000,12.000000,4.000000,2.000000,10.000000,14.000000", lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "Predictions,12,1,"))
}

func TestWriteMaskScores(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMaskScores(&buf, []maskeval.Score{
		{Filename: "a.png", Dice: 1, IoU: 1},
		{Filename: "b.png", Dice: 0.5, IoU: 0.25},
	}))
	assert.Equal(t, "Filename,Dice,IoU\na.png,1.000000,1.000000\nb.png,0.500000,0.250000\nmean,0.750000,0.625000\n", buf.String())
}

func TestSeriesByModel(t *testing.T) {
	series := SeriesByModel(sampleRecords())
	require.Len(t, series, 2)
	assert.Equal(t, "Ground_Truth", series[0].Name)
	assert.Equal(t, []float64{10, 14, 20.5}, series[0].Values)
	assert.Equal(t, "Predictions", series[1].Name)
}

func TestFiveNumber(t *testing.T) {
	assert.Equal(t, [5]float64{}, FiveNumber(nil))
	assert.Equal(t, [5]float64{1, 1, 2.5, 3, 4}, FiveNumber([]float64{4, 3, 2, 1}))
	assert.Equal(t, [5]float64{7, 7, 7, 7, 7}, FiveNumber([]float64{7}))
}

func TestWriteBoxPlotAndHistogram(t *testing.T) {
	var box bytes.Buffer
	require.NoError(t, WriteBoxPlot(&box, "test", SeriesByModel(sampleRecords())))
	assert.True(t, bytes.HasPrefix(box.Bytes(), pngMagic))

	var hist bytes.Buffer
	require.NoError(t, WriteHistogram(&hist, "test", []float64{1, 2, 2, 3, 5, 8}, 0))
	assert.True(t, bytes.HasPrefix(hist.Bytes(), pngMagic))

	assert.Error(t, WriteHistogram(&hist, "empty", nil, 10))
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleRecords(), ""))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Grain size by model")
	assert.Contains(t, html, "Predictions")
	assert.Contains(t, html, "Ground_Truth")
}

func TestWriterWriteAll(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	rw := &Writer{FS: fsys, Dir: "/results", Plots: true, HTML: true}

	written, err := rw.WriteAll(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/results/all_models_grain_sizes.csv",
		"/results/image_summary.csv",
		"/results/group_stats.csv",
		"/results/grain_size_boxplot.png",
		"/results/hist_Ground_Truth.png",
		"/results/hist_Predictions.png",
		"/results/grain_size.html",
	}, written)

	data, err := fsys.ReadFile("/results/all_models_grain_sizes.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Model,Degem,Grain Size\n"))
}

func TestWriterSkipsPlotsWithoutRecords(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	rw := &Writer{FS: fsys, Dir: "/r", Plots: true}

	written, err := rw.WriteAll(&grain.BatchResult{})
	require.NoError(t, err)
	assert.Len(t, written, 3)
}
