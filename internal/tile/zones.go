package tile

import (
	"path/filepath"
	"sort"

	"github.com/banshee-data/mlography/internal/fsutil"
)

// ZoneSet holds, per model, the origins of reserved ground-truth zones. It is
// built once per run and only read while cropping.
type ZoneSet struct {
	// Size is the extent (dy, dx) of every reserved zone.
	Size  Origin
	zones map[string]map[Origin]struct{}
}

// NewZoneSet returns an empty set whose zones are size x size pixels.
func NewZoneSet(size int) *ZoneSet {
	return &ZoneSet{
		Size:  Origin{Y: size, X: size},
		zones: make(map[string]map[Origin]struct{}),
	}
}

// Add reserves the zone at o for model.
func (z *ZoneSet) Add(model string, o Origin) {
	m, ok := z.zones[model]
	if !ok {
		m = make(map[Origin]struct{})
		z.zones[model] = m
	}
	m[o] = struct{}{}
}

// Has reports whether o is a reserved origin for model.
func (z *ZoneSet) Has(model string, o Origin) bool {
	if z == nil {
		return false
	}
	_, ok := z.zones[model][o]
	return ok
}

// Len returns the number of reserved origins for model.
func (z *ZoneSet) Len(model string) int {
	if z == nil {
		return 0
	}
	return len(z.zones[model])
}

// Models returns the sorted model ids with at least one zone.
func (z *ZoneSet) Models() []string {
	if z == nil {
		return nil
	}
	out := make([]string, 0, len(z.zones))
	for m := range z.zones {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Origins returns the reserved origins of model in row-major order.
func (z *ZoneSet) Origins(model string) []Origin {
	if z == nil {
		return nil
	}
	out := make([]Origin, 0, len(z.zones[model]))
	for o := range z.zones[model] {
		out = append(out, o)
	}
	sortOrigins(out)
	return out
}

// Excludes reports whether candidate collides with any reserved zone of the
// same model under test. A nil set excludes nothing.
func (z *ZoneSet) Excludes(model string, candidate Box, test OverlapTest) bool {
	if z == nil {
		return false
	}
	for o := range z.zones[model] {
		if test.Collides(candidate, BoxAt(o, z.Size.Y, z.Size.X)) {
			return true
		}
	}
	return false
}

// LoadZones builds a ZoneSet from the tile filenames in dir. Names with two
// or four coordinate fields are accepted and only their (y, x) origin is
// kept. Unparsable names are logged and skipped.
func LoadZones(fsys fsutil.FileSystem, dir string, size int, exts []string) (*ZoneSet, error) {
	names, err := fsutil.ListImages(fsys, dir, exts)
	if err != nil {
		return nil, err
	}

	zs := NewZoneSet(size)
	for _, f := range names {
		n, err := ParseName(f)
		if err != nil {
			logf("skipping GT file %s: %v", filepath.Join(dir, f), err)
			continue
		}
		zs.Add(n.ModelID, n.Origin())
	}
	return zs, nil
}

func sortOrigins(origins []Origin) {
	sort.Slice(origins, func(i, j int) bool {
		if origins[i].Y != origins[j].Y {
			return origins[i].Y < origins[j].Y
		}
		return origins[i].X < origins[j].X
	})
}
