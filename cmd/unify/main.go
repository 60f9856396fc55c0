// Command unify reassembles groups of four unit tiles into composites and
// optionally thins the boundaries of the result.
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
	cli.Main("unify", run)
}

func run(args []string) error {
	fs := flag.NewFlagSet("unify", flag.ContinueOnError)
	common := cli.Register(fs)
	inDir := fs.String("in", "", "Directory of unit tiles (required)")
	outDir := fs.String("out", "", "Output directory for composites (required)")
	unit := fs.Int("unit", 128, "Unit tile edge length in pixels")
	crop := fs.Int("crop", 256, "Composite edge length in pixels")
	thin := fs.Bool("thin", false, "Thin the boundaries of every composite")
	thinner := fs.String("thinner", thinning.DefaultThinner, fmt.Sprintf("Thinning implementation %v", thinning.Available()))
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.PrintVersion(os.Stdout, "unify") {
		return nil
	}
	if err := cli.Require("in", *inDir, "out", *outDir); err != nil {
		return err
	}

	cfg, err := common.Load(func(cfg *config.PipelineConfig, set map[string]bool) {
		config.SetInt(&cfg.UnitSize, *unit, set["unit"])
		config.SetInt(&cfg.TileSize, *crop, set["crop"])
	})
	if err != nil {
		return err
	}

	fsys := fsutil.OSFileSystem{}
	u := &tile.Unifier{
		FS:       fsys,
		CropSize: cfg.GetTileSize(),
		UnitSize: cfg.GetUnitSize(),
		Exts:     cfg.GetImageExtensions(),
	}
	names, err := u.Run(*inDir, *outDir)
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
	n, err := thinning.ThinDirectory(fsys, *outDir, *outDir, thinning.Options{
		Thinner:   th,
		Threshold: thinning.NoThreshold,
		Exts:      cfg.GetImageExtensions(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("thinned=%d\n", n)
	return nil
}
