// Package grain estimates metallographic grain size with the Heyn
// line-intercept method.
//
// Measurement lines are laid over a segmentation image, boundary-crossing
// pixels are found by an exact colour match against the drawn line, adjacent
// crossings are clustered and each line yields one grain-size value. Batch
// runs fan images out over a bounded worker pool and aggregate the values per
// model and identifier.
package grain

import "github.com/banshee-data/mlography/internal/monitoring"

var logf = monitoring.Prefixed("grain")
