package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultConfigPath is the path to the checked-in pipeline defaults file.
const DefaultConfigPath = "config/pipeline.defaults.json"

// DefaultCutoff is slightly more than one diagonal step of two pixels, so
// pixels up to two diagonal steps apart stay in the same boundary cluster.
var DefaultCutoff = 2*math.Sqrt2 + 0.001

// PipelineConfig holds the tunables shared by the cropping, reassembly and
// grain-size tools. Every field is optional; the Get* accessors supply the
// defaults for anything the JSON file leaves out, so partial files are safe.
type PipelineConfig struct {
	// Tiling
	TileSize         *int    `json:"tile_size,omitempty"`
	OverlapStep      *int    `json:"overlap_step,omitempty"`
	GTZoneSize       *int    `json:"gt_zone_size,omitempty"`
	UnitSize         *int    `json:"unit_size,omitempty"`
	MaxCropsPerModel *int    `json:"max_crops_per_model,omitempty"`
	OverlapTest      *string `json:"overlap_test,omitempty"` // "rect_intersection" or "point_in_box"

	// Grain size
	LineMode        *string  `json:"line_mode,omitempty"` // "systematic" or "random"
	LineCount       *int     `json:"line_count,omitempty"`
	Margin          *int     `json:"margin,omitempty"`
	Cutoff          *float64 `json:"cutoff,omitempty"`
	LConst          *float64 `json:"l_const,omitempty"`
	SizePolicy      *string  `json:"size_policy,omitempty"` // "intercept" or "pixel_spacing"
	MaxLineAttempts *int     `json:"max_line_attempts,omitempty"`
	Seed            *uint64  `json:"seed,omitempty"`

	// Batch
	Workers         *int     `json:"workers,omitempty"`
	ImageExtensions []string `json:"image_extensions,omitempty"`
}

// EmptyPipelineConfig returns a PipelineConfig with all fields unset.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadOrEmpty loads path when it is non-empty and returns an empty config
// otherwise. CLIs use it so that -config stays optional.
func LoadOrEmpty(path string) (*PipelineConfig, error) {
	if path == "" {
		return EmptyPipelineConfig(), nil
	}
	return LoadPipelineConfig(path)
}

// Validate checks that the configuration values are valid.
func (c *PipelineConfig) Validate() error {
	positive := map[string]*int{
		"tile_size":         c.TileSize,
		"overlap_step":      c.OverlapStep,
		"gt_zone_size":      c.GTZoneSize,
		"unit_size":         c.UnitSize,
		"line_count":        c.LineCount,
		"max_line_attempts": c.MaxLineAttempts,
	}
	for name, v := range positive {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, *v)
		}
	}

	if c.MaxCropsPerModel != nil && *c.MaxCropsPerModel < 0 {
		return fmt.Errorf("max_crops_per_model must be non-negative, got %d", *c.MaxCropsPerModel)
	}
	if c.Margin != nil && *c.Margin < 0 {
		return fmt.Errorf("margin must be non-negative, got %d", *c.Margin)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.Cutoff != nil && *c.Cutoff <= 0 {
		return fmt.Errorf("cutoff must be positive, got %f", *c.Cutoff)
	}
	if c.LConst != nil && *c.LConst <= 0 {
		return fmt.Errorf("l_const must be positive, got %f", *c.LConst)
	}

	if err := oneOf("overlap_test", c.OverlapTest, "rect_intersection", "point_in_box"); err != nil {
		return err
	}
	if err := oneOf("line_mode", c.LineMode, "systematic", "random"); err != nil {
		return err
	}
	if err := oneOf("size_policy", c.SizePolicy, "intercept", "pixel_spacing"); err != nil {
		return err
	}

	for _, ext := range c.ImageExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("image extension %q must start with '.'", ext)
		}
	}

	return nil
}

func oneOf(name string, v *string, allowed ...string) error {
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if *v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", name, allowed, *v)
}

// GetTileSize returns the tile_size value or the default.
func (c *PipelineConfig) GetTileSize() int {
	if c.TileSize == nil {
		return 256
	}
	return *c.TileSize
}

// GetOverlapStep returns the overlap_step value or half the tile size.
func (c *PipelineConfig) GetOverlapStep() int {
	if c.OverlapStep == nil {
		return c.GetTileSize() / 2
	}
	return *c.OverlapStep
}

// GetGTZoneSize returns the gt_zone_size value or the default.
func (c *PipelineConfig) GetGTZoneSize() int {
	if c.GTZoneSize == nil {
		return 256
	}
	return *c.GTZoneSize
}

// GetUnitSize returns the unit_size value or the default.
func (c *PipelineConfig) GetUnitSize() int {
	if c.UnitSize == nil {
		return 128
	}
	return *c.UnitSize
}

// GetMaxCropsPerModel returns the max_crops_per_model value or 0 (no cap).
func (c *PipelineConfig) GetMaxCropsPerModel() int {
	if c.MaxCropsPerModel == nil {
		return 0
	}
	return *c.MaxCropsPerModel
}

// GetOverlapTest returns the overlap_test value or the default.
func (c *PipelineConfig) GetOverlapTest() string {
	if c.OverlapTest == nil {
		return "rect_intersection"
	}
	return *c.OverlapTest
}

// GetLineMode returns the line_mode value or the default.
func (c *PipelineConfig) GetLineMode() string {
	if c.LineMode == nil {
		return "systematic"
	}
	return *c.LineMode
}

// GetLineCount returns the line_count value or the default.
func (c *PipelineConfig) GetLineCount() int {
	if c.LineCount == nil {
		return 20
	}
	return *c.LineCount
}

// GetMargin returns the margin value or the default.
func (c *PipelineConfig) GetMargin() int {
	if c.Margin == nil {
		return 2
	}
	return *c.Margin
}

// GetCutoff returns the cutoff value or DefaultCutoff.
func (c *PipelineConfig) GetCutoff() float64 {
	if c.Cutoff == nil {
		return DefaultCutoff
	}
	return *c.Cutoff
}

// GetLConst returns the l_const value or the default.
func (c *PipelineConfig) GetLConst() float64 {
	if c.LConst == nil {
		return 1.13
	}
	return *c.LConst
}

// GetSizePolicy returns the size_policy value or the default.
func (c *PipelineConfig) GetSizePolicy() string {
	if c.SizePolicy == nil {
		return "intercept"
	}
	return *c.SizePolicy
}

// GetMaxLineAttempts returns the max_line_attempts value or the default.
func (c *PipelineConfig) GetMaxLineAttempts() int {
	if c.MaxLineAttempts == nil {
		return 1000
	}
	return *c.MaxLineAttempts
}

// GetSeed returns the seed value or the default.
func (c *PipelineConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 1
	}
	return *c.Seed
}

// GetWorkers returns the workers value, falling back to the CPU count when
// unset or zero.
func (c *PipelineConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return runtime.NumCPU()
	}
	return *c.Workers
}

// GetImageExtensions returns the image_extensions value or the default.
func (c *PipelineConfig) GetImageExtensions() []string {
	if len(c.ImageExtensions) == 0 {
		return []string{".tif", ".jpg", ".png"}
	}
	return c.ImageExtensions
}

// Helper functions to create pointers
func ptrInt(v int) *int             { return &v }
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// SetInt assigns *dst from a flag value when the flag was given explicitly.
// CLIs call it after flag.Parse with the set of visited flag names.
func SetInt(dst **int, v int, set bool) {
	if set {
		*dst = ptrInt(v)
	}
}

// SetFloat64 is SetInt for float64 fields.
func SetFloat64(dst **float64, v float64, set bool) {
	if set {
		*dst = ptrFloat64(v)
	}
}

// SetString is SetInt for string fields.
func SetString(dst **string, v string, set bool) {
	if set {
		*dst = ptrString(v)
	}
}

// SetUint64 is SetInt for uint64 fields.
func SetUint64(dst **uint64, v uint64, set bool) {
	if set {
		*dst = &v
	}
}
