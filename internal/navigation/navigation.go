// Package navigation builds breadcrumb links from configured navigation names.
package navigation

import (
	"context"
	"log/slog"
	"maps"

	"commonui/internal/titlecase"
)

// Breadcrumb is one navigation link
type Breadcrumb struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Links returns one breadcrumb per name, in input order. Titles come from
// caser and URLs from urls[name]; a name without a URL gets an empty URL.
// When two names produce the same title only the first is kept.
func Links(names []string, urls map[string]string, caser *titlecase.Caser) []Breadcrumb {
	links := make([]Breadcrumb, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		title := caser.Title(name)
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		links = append(links, Breadcrumb{Title: title, URL: urls[name]})
	}

	return links
}

// WithDynamicLink returns a copy of urls where urls[key] has partialPath
// appended. The input map is left untouched.
func WithDynamicLink(ctx context.Context, urls map[string]string, key, partialPath string) map[string]string {
	out := maps.Clone(urls)
	if out == nil {
		out = make(map[string]string, 1)
	}

	link := out[key] + partialPath
	out[key] = link

	slog.DebugContext(ctx, "dynamic link generated",
		slog.String("key", key),
		slog.String("link", link))

	return out
}
