// Command crop-grid cuts full-resolution micrographs into tiles on a
// disjoint or 50% overlapping grid, optionally avoiding ground-truth zones.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/banshee-data/mlography/internal/cli"
	"github.com/banshee-data/mlography/internal/config"
	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/tile"
)

func main() {
	cli.Main("crop-grid", run)
}

func run(args []string) error {
	fs := flag.NewFlagSet("crop-grid", flag.ContinueOnError)
	common := cli.Register(fs)
	imagesDir := fs.String("images", "", "Directory of full-resolution images (required)")
	outDir := fs.String("out", "", "Output directory for tiles (required)")
	gtDir := fs.String("gt", "", "Directory of ground-truth tiles whose zones are excluded (optional)")
	overlap := fs.Bool("overlap", false, "Use a half-tile step (50% overlap) instead of disjoint tiles")
	tileSize := fs.Int("tile-size", 256, "Tile edge length in pixels")
	maxPerModel := fs.Int("max-per-model", 0, "Maximum tiles per model (0 = unlimited)")
	overlapTest := fs.String("overlap-test", "rect_intersection", "Zone test: rect_intersection or point_in_box")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.PrintVersion(os.Stdout, "crop-grid") {
		return nil
	}
	if err := cli.Require("images", *imagesDir, "out", *outDir); err != nil {
		return err
	}

	cfg, err := common.Load(func(cfg *config.PipelineConfig, set map[string]bool) {
		config.SetInt(&cfg.TileSize, *tileSize, set["tile-size"])
		config.SetInt(&cfg.MaxCropsPerModel, *maxPerModel, set["max-per-model"])
		config.SetString(&cfg.OverlapTest, *overlapTest, set["overlap-test"])
	})
	if err != nil {
		return err
	}

	test, err := tile.ParseOverlapTest(cfg.GetOverlapTest())
	if err != nil {
		return err
	}

	fsys := fsutil.OSFileSystem{}
	size := cfg.GetTileSize()
	step := size
	if *overlap {
		step = cfg.GetOverlapStep()
	}

	cropper := &tile.GridCropper{
		FS:          fsys,
		TileSize:    image.Pt(size, size),
		Step:        image.Pt(step, step),
		Test:        test,
		MaxPerModel: cfg.GetMaxCropsPerModel(),
	}
	if *gtDir != "" {
		zones, err := tile.LoadZones(fsys, *gtDir, cfg.GetGTZoneSize(), cfg.GetImageExtensions())
		if err != nil {
			return fmt.Errorf("load zones: %w", err)
		}
		cropper.Zones = zones
	}

	stats, err := cropper.CropDirectory(*imagesDir, *outDir, cfg.GetImageExtensions())
	if err != nil {
		return err
	}
	fmt.Printf("images=%d tiles=%d excluded=%d failed=%d\n", stats.Images, stats.Tiles, stats.Excluded, stats.Failed)
	return nil
}
