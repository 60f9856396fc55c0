// Command grainsize measures Heyn line-intercept grain size over folders of
// segmentation images and writes CSV tables, plots and an HTML page.
//
// Each source is given as -source "Model Name=/path/to/images" and may be
// repeated. Results can also be stored in a SQLite database with -db.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/banshee-data/mlography/internal/cli"
	"github.com/banshee-data/mlography/internal/config"
	"github.com/banshee-data/mlography/internal/db"
	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/grain"
	"github.com/banshee-data/mlography/internal/report"
)

func main() {
	cli.Main("grainsize", run)
}

// parseSource splits a "Model=dir" flag value.
func parseSource(s string) (grain.Source, error) {
	model, dir, ok := strings.Cut(s, "=")
	model, dir = strings.TrimSpace(model), strings.TrimSpace(dir)
	if !ok || model == "" || dir == "" {
		return grain.Source{}, fmt.Errorf("source %q must be Model=dir", s)
	}
	// The model label names the annotation subdirectory.
	if strings.ContainsAny(model, `/\`) || model == "." || model == ".." {
		return grain.Source{}, fmt.Errorf("model %q must not contain path separators", model)
	}
	return grain.Source{Folder: dir, Model: model}, nil
}

func run(args []string) error {
	fs := flag.NewFlagSet("grainsize", flag.ContinueOnError)
	common := cli.Register(fs)

	var sources []grain.Source
	fs.Func("source", "Model=dir pair to measure (repeatable, required)", func(s string) error {
		src, err := parseSource(s)
		if err != nil {
			return err
		}
		sources = append(sources, src)
		return nil
	})
	outDir := fs.String("out", "results", "Output directory for tables, plots and annotations")
	dbPath := fs.String("db", "", "SQLite database to record the run in (optional)")
	annotate := fs.Bool("annotate", true, "Write heyn_<name> overlays per model")
	plots := fs.Bool("plots", true, "Write PNG box plot and histograms")
	html := fs.Bool("html", true, "Write the HTML chart page")
	assetsHost := fs.String("assets-host", "", "Override the echarts assets host")

	lineMode := fs.String("line-mode", "systematic", "Measurement lines: systematic or random")
	lines := fs.Int("lines", 20, "Measurement lines per image")
	margin := fs.Int("margin", 2, "Top and bottom margin for systematic lines")
	lConst := fs.Float64("l-const", 1.13, "Heyn intercept constant")
	cutoff := fs.Float64("cutoff", config.DefaultCutoff, "Maximum distance between pixels of one boundary")
	sizePolicy := fs.String("size-policy", "intercept", "Per-line value: intercept or pixel_spacing")
	seed := fs.Uint64("seed", 1, "Seed for random lines")
	workers := fs.Int("workers", 0, "Concurrent images (0 = number of CPUs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.PrintVersion(os.Stdout, "grainsize") {
		return nil
	}
	if len(sources) == 0 {
		return fmt.Errorf("at least one -source is required")
	}

	cfg, err := common.Load(func(cfg *config.PipelineConfig, set map[string]bool) {
		config.SetString(&cfg.LineMode, *lineMode, set["line-mode"])
		config.SetInt(&cfg.LineCount, *lines, set["lines"])
		config.SetInt(&cfg.Margin, *margin, set["margin"])
		config.SetFloat64(&cfg.LConst, *lConst, set["l-const"])
		config.SetFloat64(&cfg.Cutoff, *cutoff, set["cutoff"])
		config.SetString(&cfg.SizePolicy, *sizePolicy, set["size-policy"])
		config.SetUint64(&cfg.Seed, *seed, set["seed"])
		config.SetInt(&cfg.Workers, *workers, set["workers"])
	})
	if err != nil {
		return err
	}

	est, err := grain.NewEstimator(cfg)
	if err != nil {
		return err
	}

	var store *db.DB
	var dbRun *db.Run
	if *dbPath != "" {
		store, err = db.Open(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		dbRun, err = store.StartRun("grainsize", cfg)
		if err != nil {
			return err
		}
	}

	fsys := fsutil.OSFileSystem{}
	batch := &grain.Batch{
		FS:        fsys,
		Estimator: est,
		Workers:   cfg.GetWorkers(),
		Exts:      cfg.GetImageExtensions(),
		Seed:      cfg.GetSeed(),
	}
	if *annotate {
		batch.AnnotateDir = *outDir
	}

	ctx, cancel := cli.SignalContext()
	defer cancel()

	res, runErr := batch.Run(ctx, sources)
	if runErr == nil {
		w := &report.Writer{FS: fsys, Dir: *outDir, Plots: *plots, HTML: *html, AssetsHost: *assetsHost}
		var written []string
		written, runErr = w.WriteAll(res)
		for _, p := range written {
			fmt.Println(p)
		}
	}

	if store != nil {
		if runErr == nil {
			runErr = store.InsertRecords(dbRun.RunID, res.Records)
		}
		if err := store.FinishRun(dbRun.RunID, len(res.Images), res.Skipped, runErr); err != nil {
			return err
		}
		fmt.Printf("run %s\n", dbRun.RunID)
	}
	return runErr
}
