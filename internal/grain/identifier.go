package grain

import "strings"

// UnknownIdentifier is used when no identifier can be read from a filename.
const UnknownIdentifier = "unknown"

// ExtractDegem returns the two characters immediately before the first
// hyphen of filename, or UnknownIdentifier when there are fewer than two.
func ExtractDegem(filename string) string {
	i := strings.Index(filename, "-")
	if i < 2 {
		logf("could not extract degem from %s", filename)
		return UnknownIdentifier
	}
	return filename[i-2 : i]
}
