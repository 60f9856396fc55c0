// Command maskeval scores predicted boundary masks against ground truth
// after Otsu binarisation and thinning, and reports Dice and IoU.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/mlography/internal/cli"
	"github.com/banshee-data/mlography/internal/db"
	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/maskeval"
	"github.com/banshee-data/mlography/internal/report"
	"github.com/banshee-data/mlography/internal/thinning"
)

// ScoresFile is the per-mask table written to the output directory.
const ScoresFile = "mask_scores.csv"

func main() {
	cli.Main("maskeval", run)
}

func run(args []string) error {
	fs := flag.NewFlagSet("maskeval", flag.ContinueOnError)
	common := cli.Register(fs)
	predDir := fs.String("pred", "", "Directory of predicted probability masks (required)")
	gtDir := fs.String("gt", "", "Directory of ground-truth masks with matching names (required)")
	outDir := fs.String("out", "", "Output directory for thinned masks and scores (required)")
	cut := fs.Float64("cut", maskeval.DefaultProbabilityCut, "Probability above which a predicted pixel is foreground")
	thinner := fs.String("thinner", thinning.DefaultThinner, fmt.Sprintf("Thinning implementation %v", thinning.Available()))
	dbPath := fs.String("db", "", "SQLite database to record the run in (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.PrintVersion(os.Stdout, "maskeval") {
		return nil
	}
	if err := cli.Require("pred", *predDir, "gt", *gtDir, "out", *outDir); err != nil {
		return err
	}

	cfg, err := common.Load(nil)
	if err != nil {
		return err
	}
	th, err := thinning.New(*thinner)
	if err != nil {
		return err
	}

	fsys := fsutil.OSFileSystem{}
	ev := &maskeval.Evaluator{FS: fsys, Thinner: th, Exts: cfg.GetImageExtensions(), Cut: *cut}
	scores, sum, err := ev.Run(*predDir, *gtDir, *outDir)
	if err != nil {
		return err
	}

	path := filepath.Join(*outDir, ScoresFile)
	f, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteMaskScores(f, scores); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("masks=%d mean_dice=%.4f mean_iou=%.4f\n", sum.Count, sum.MeanDice, sum.MeanIoU)

	if *dbPath == "" {
		return nil
	}
	store, err := db.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	dbRun, err := store.StartRun("maskeval", map[string]any{
		"pred": *predDir, "gt": *gtDir, "cut": *cut, "thinner": *thinner,
	})
	if err != nil {
		return err
	}
	runErr := store.InsertMaskScores(dbRun.RunID, scores)
	if err := store.FinishRun(dbRun.RunID, sum.Count, 0, runErr); err != nil {
		return err
	}
	fmt.Printf("run %s\n", dbRun.RunID)
	return runErr
}
