package tile

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformedName is wrapped by every filename parse failure.
var ErrMalformedName = errors.New("malformed tile filename")

// ParseError describes why a tile filename could not be decoded.
type ParseError struct {
	Filename string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedName, e.Filename, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformedName }

// Origin is the top-left corner of a tile.
type Origin struct {
	Y, X int
}

// Tile is a rectangular region of a model's full image. Size.X is the width
// and Size.Y the height.
type Tile struct {
	ModelID string
	Origin
	Size image.Point
}

// Box returns the tile's bounding box.
func (t Tile) Box() Box {
	return BoxAt(t.Origin, t.Size.Y, t.Size.X)
}

// Rect returns the tile as an image rectangle.
func (t Tile) Rect() image.Rectangle {
	return image.Rect(t.X, t.Y, t.X+t.Size.X, t.Y+t.Size.Y)
}

// Filename returns the "<model>-<y>-<x>.png" name of the tile.
func (t Tile) Filename() string {
	return Name{ModelID: t.ModelID, Y: t.Y, X: t.X, Ext: ".png"}.String()
}

// Name is a decoded tile filename: "<model>-<y>-<x><ext>" or, for zone
// sub-tiles, "<model>-<y>-<x>-<dy>-<dx><ext>".
type Name struct {
	ModelID string
	Y, X    int
	DY, DX  int
	Shifted bool // true when DY/DX were present
	Ext     string
}

// ParseName decodes a tile filename with either two or four coordinate
// fields after the model id.
func ParseName(filename string) (Name, error) {
	return parseName(filename, 2, 4)
}

// ParseZoneName decodes a zone sub-tile filename; exactly four coordinate
// fields are required.
func ParseZoneName(filename string) (Name, error) {
	return parseName(filename, 4)
}

// ParseOriginName decodes a plain tile filename; exactly two coordinate
// fields are required.
func ParseOriginName(filename string) (Name, error) {
	return parseName(filename, 2)
}

func parseName(filename string, allowed ...int) (Name, error) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	parts := strings.Split(stem, "-")
	if parts[0] == "" {
		return Name{}, &ParseError{Filename: base, Reason: "empty model id"}
	}

	coords := parts[1:]
	ok := false
	for _, n := range allowed {
		if len(coords) == n {
			ok = true
			break
		}
	}
	if !ok {
		return Name{}, &ParseError{
			Filename: base,
			Reason:   fmt.Sprintf("expected %v coordinate fields, got %d", allowed, len(coords)),
		}
	}

	vals := make([]int, len(coords))
	for i, c := range coords {
		v, err := strconv.Atoi(c)
		if err != nil {
			return Name{}, &ParseError{Filename: base, Reason: fmt.Sprintf("field %d %q is not an integer", i+1, c)}
		}
		vals[i] = v
	}

	n := Name{ModelID: parts[0], Y: vals[0], X: vals[1], Ext: ext}
	if len(vals) == 4 {
		n.DY, n.DX = vals[2], vals[3]
		n.Shifted = true
	}
	return n, nil
}

// Origin returns the zone origin encoded in the name.
func (n Name) Origin() Origin {
	return Origin{Y: n.Y, X: n.X}
}

// Pixel returns the absolute top-left pixel of the named tile, i.e. the
// origin plus the sub-tile shift.
func (n Name) Pixel() Origin {
	return Origin{Y: n.Y + n.DY, X: n.X + n.DX}
}

// Stem returns the filename without extension.
func (n Name) Stem() string {
	if n.Shifted {
		return fmt.Sprintf("%s-%d-%d-%d-%d", n.ModelID, n.Y, n.X, n.DY, n.DX)
	}
	return fmt.Sprintf("%s-%d-%d", n.ModelID, n.Y, n.X)
}

// String returns the full filename.
func (n Name) String() string {
	return n.Stem() + n.Ext
}

// CompositeName derives the reassembled composite name from a member file:
// the first three hyphen fields of its stem plus ".png".
func CompositeName(filename string) (string, error) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(stem, "-")
	if len(parts) < 3 {
		return "", &ParseError{Filename: base, Reason: "composite name needs at least three fields"}
	}
	return strings.Join(parts[:3], "-") + ".png", nil
}

// ModelFromFilename returns the model id of a full image, which is its
// basename up to the first dot.
func ModelFromFilename(filename string) string {
	base := filepath.Base(filename)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}
