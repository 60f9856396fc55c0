// Package tile owns the tiling geometry of the metallography pipeline.
//
// Responsibilities: the hyphen-delimited tile filename codec, bounding-box
// overlap tests against ground-truth (GT) zones, grid cropping of full
// micrographs, neighbour-aware expansion of GT crops, zone sub-tile cropping
// and 2x2 reassembly of sub-tiles into composites.
//
// Coordinates follow image convention: origins are (y, x) top-left corners,
// boxes are half-open [min, max) in pixels. Partial windows at the image edge
// are discarded, never padded.
package tile

import "github.com/banshee-data/mlography/internal/monitoring"

var logf = monitoring.Prefixed("tile")
