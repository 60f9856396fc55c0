// Command crop-zones crops unit sub-tiles named <model>-<y>-<x>-<dy>-<dx>
// from the full images, optionally reassembles them into composites and
// overlays thinned boundaries on the composites.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/banshee-data/mlography/internal/cli"
	"github.com/banshee-data/mlography/internal/config"
	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/thinning"
	"github.com/banshee-data/mlography/internal/tile"
)

func main() {
	cli.Main("crop-zones", run)
}

func run(args []string) error {
	fs := flag.NewFlagSet("crop-zones", flag.ContinueOnError)
	common := cli.Register(fs)
	imagesDir := fs.String("images", "", "Directory of full-resolution images (required)")
	zonesDir := fs.String("zones", "", "Directory of zone-suffixed tile names (required)")
	outDir := fs.String("out", "", "Output directory for cropped sub-tiles (required)")
	unifyDir := fs.String("unify-out", "", "Reassemble the sub-tiles into composites in this directory (optional)")
	thin := fs.Bool("thin", false, "Overlay thinned boundaries on the composites (requires -unify-out)")
	thinner := fs.String("thinner", thinning.DefaultThinner, fmt.Sprintf("Thinning implementation %v", thinning.Available()))
	fullExt := fs.String("full-ext", ".png", "Extension of the full-resolution images")
	unit := fs.Int("unit", 128, "Sub-tile edge length in pixels")
	crop := fs.Int("crop", 256, "Composite edge length in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.PrintVersion(os.Stdout, "crop-zones") {
		return nil
	}
	if err := cli.Require("images", *imagesDir, "zones", *zonesDir, "out", *outDir); err != nil {
		return err
	}
	if *thin && *unifyDir == "" {
		return fmt.Errorf("-thin requires -unify-out")
	}

	cfg, err := common.Load(func(cfg *config.PipelineConfig, set map[string]bool) {
		config.SetInt(&cfg.UnitSize, *unit, set["unit"])
		config.SetInt(&cfg.TileSize, *crop, set["crop"])
	})
	if err != nil {
		return err
	}

	fsys := fsutil.OSFileSystem{}
	zc := &tile.ZoneCropper{
		FS:           fsys,
		Unit:         cfg.GetUnitSize(),
		FullImageExt: *fullExt,
		Exts:         cfg.GetImageExtensions(),
	}
	stats, err := zc.Run(*imagesDir, *zonesDir, *outDir)
	if err != nil {
		return err
	}
	fmt.Printf("images=%d sub-tiles=%d failed=%d\n", stats.Images, stats.Tiles, stats.Failed)

	if *unifyDir == "" {
		return nil
	}
	u := &tile.Unifier{
		FS:       fsys,
		CropSize: cfg.GetTileSize(),
		UnitSize: cfg.GetUnitSize(),
		Exts:     cfg.GetImageExtensions(),
	}
	names, err := u.Run(*outDir, *unifyDir)
	if err != nil {
		return err
	}
	fmt.Printf("composites=%d\n", len(names))

	if !*thin {
		return nil
	}
	th, err := thinning.New(*thinner)
	if err != nil {
		return err
	}
	n, err := thinning.ThinDirectory(fsys, *unifyDir, *unifyDir, thinning.Options{
		Thinner:   th,
		Threshold: 128,
		Overlay:   true,
		Exts:      cfg.GetImageExtensions(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("thinned=%d\n", n)
	return nil
}
