package grid

import (
	"context"

	"commonui/internal/resolver"
	"commonui/internal/titlecase"
)

// Column describes one table column built from row objects
type Column struct {
	// Path is the dotted attribute path resolved on each row object.
	Path string
	// Header is the column title. Empty means the title-cased last path
	// segment; when the caser strips that segment to nothing, the segment is
	// title-cased without the strip rule.
	Header string
}

// Build resolves every (object, column) pair with r and returns the grid of
// display strings. Paths are parsed up front, so a malformed path fails the
// whole call before any object is touched; after that a cell that cannot be
// resolved is rendered as "" and never fails the grid.
func Build[T any](ctx context.Context, objects []T, columns []Column, r *resolver.Resolver, caser *titlecase.Caser) (*Grid, error) {
	paths := make([]resolver.Path, len(columns))
	headers := make([]string, len(columns))
	for i, col := range columns {
		p, err := resolver.ParsePath(col.Path)
		if err != nil {
			return nil, err
		}
		paths[i] = p

		headers[i] = col.Header
		if headers[i] == "" {
			headers[i] = defaultHeader(p, caser)
		}
	}

	if err := checkColumns(headers); err != nil {
		return nil, err
	}

	rows := make([]Row, len(objects))
	for i, obj := range objects {
		row := make(Row, len(columns))
		for j, p := range paths {
			row[headers[j]] = r.DisplayPath(ctx, obj, p)
		}
		rows[i] = row
	}

	return &Grid{Columns: headers, Rows: rows}, nil
}

// Headers returns the display titles Build would use for columns
func Headers(columns []Column, caser *titlecase.Caser) ([]string, error) {
	headers := make([]string, len(columns))
	for i, col := range columns {
		if col.Header != "" {
			headers[i] = col.Header
			continue
		}
		p, err := resolver.ParsePath(col.Path)
		if err != nil {
			return nil, err
		}
		headers[i] = defaultHeader(p, caser)
	}
	return headers, nil
}

func defaultHeader(p resolver.Path, caser *titlecase.Caser) string {
	if title := caser.Title(p.Last()); title != "" {
		return title
	}
	return titlecase.ToTitleCase(p.Last(), nil)
}
