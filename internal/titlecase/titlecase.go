// Package titlecase turns camelCase identifiers into display titles.
package titlecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"bitbucket.org/creachadair/stringset"
)

// ToTitleCase inserts a space at every lower-to-upper letter boundary and
// upper-cases the first character, leaving the rest as-is:
//
//	ToTitleCase("orderDate", nil)                        // "Order Date"
//	ToTitleCase("orderDate", stringset.New("orderDate")) // "Date"
//
// When identifier is in stripFirstWordFor, everything up to and including the
// first space of the result is dropped; a result without a space becomes "".
// Empty input is returned unchanged.
func ToTitleCase(identifier string, stripFirstWordFor stringset.Set) string {
	if identifier == "" {
		return identifier
	}

	title := strings.TrimSpace(splitCamel(identifier))
	if title == "" {
		return title
	}
	title = upperFirst(title)

	if stripFirstWordFor.Contains(identifier) {
		_, rest, found := strings.Cut(title, " ")
		if !found {
			return ""
		}
		title = rest
	}

	return title
}

func splitCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	var prev rune
	for i, r := range s {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Caser applies ToTitleCase with a fixed strip set. It is read-only after
// NewCaser and safe for concurrent use.
type Caser struct {
	strip stringset.Set
}

// NewCaser creates a Caser that strips the first word for the given identifiers
func NewCaser(stripFirstWordFor ...string) *Caser {
	return &Caser{strip: stringset.New(stripFirstWordFor...)}
}

// Title returns the display title of identifier
func (c *Caser) Title(identifier string) string {
	if c == nil {
		return ToTitleCase(identifier, nil)
	}
	return ToTitleCase(identifier, c.strip)
}

// Strips reports whether identifier loses its first word
func (c *Caser) Strips(identifier string) bool {
	return c != nil && c.strip.Contains(identifier)
}
