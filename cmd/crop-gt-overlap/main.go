// Command crop-gt-overlap re-crops ground-truth tiles from the full images,
// adding a half-tile shifted crop toward every neighbouring GT tile.
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
	cli.Main("crop-gt-overlap", run)
}

func run(args []string) error {
	fs := flag.NewFlagSet("crop-gt-overlap", flag.ContinueOnError)
	common := cli.Register(fs)
	gtDir := fs.String("gt", "", "Directory of ground-truth tiles named <model>-<y>-<x> (required)")
	imagesDir := fs.String("images", "", "Directory of full-resolution images (required)")
	outDir := fs.String("out", "", "Output directory (required)")
	fullExt := fs.String("full-ext", ".png", "Extension of the full-resolution images")
	tileSize := fs.Int("tile-size", 256, "Tile edge length in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.PrintVersion(os.Stdout, "crop-gt-overlap") {
		return nil
	}
	if err := cli.Require("gt", *gtDir, "images", *imagesDir, "out", *outDir); err != nil {
		return err
	}

	cfg, err := common.Load(func(cfg *config.PipelineConfig, set map[string]bool) {
		config.SetInt(&cfg.TileSize, *tileSize, set["tile-size"])
	})
	if err != nil {
		return err
	}

	fsys := fsutil.OSFileSystem{}
	size := cfg.GetTileSize()
	tiles, err := tile.LoadTiles(fsys, *gtDir, image.Pt(size, size), cfg.GetImageExtensions())
	if err != nil {
		return fmt.Errorf("load GT tiles: %w", err)
	}
	expanded := tile.ExpandNeighbours(tiles)

	stats, err := tile.CropTiles(fsys, *imagesDir, *fullExt, *outDir, expanded)
	if err != nil {
		return err
	}
	fmt.Printf("gt=%d expanded=%d images=%d tiles=%d failed=%d\n",
		len(tiles), len(expanded), stats.Images, stats.Tiles, stats.Failed)
	return nil
}
