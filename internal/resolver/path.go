package resolver

import (
	"fmt"
	"slices"
	"strings"
)

// Path is a parsed dotted attribute path. The zero value is not a valid path.
type Path struct {
	segments []string
}

// ParsePath splits s on "." and rejects empty paths and empty segments.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrMalformedPath)
	}

	segments := strings.Split(s, ".")
	for i, seg := range segments {
		if seg == "" {
			return Path{}, fmt.Errorf("%w: empty segment at position %d in %q", ErrMalformedPath, i, s)
		}
	}

	return Path{segments: segments}, nil
}

// MustParsePath is like ParsePath but panics on a malformed path.
// Use it for paths that are compile-time constants.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Segments returns a copy of the path segments
func (p Path) Segments() []string {
	return slices.Clone(p.segments)
}

// Len returns the number of segments
func (p Path) Len() int {
	return len(p.segments)
}

// Last returns the final segment, or "" for the zero Path.
func (p Path) Last() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

func (p Path) String() string {
	return strings.Join(p.segments, ".")
}
