// Package grid holds the rectangular column/row model handed to exporters.
//
// Column order is fixed once, when the grid is created: either from an explicit
// column list or from the key order of the first row. Later rows never reorder
// columns, and a row missing a column renders that cell as "".
package grid

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrDuplicateColumn is returned when a column name appears twice
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrEmptyColumn is returned for a column with an empty name
	ErrEmptyColumn = errors.New("empty column name")
)

// Row maps column names to display strings
type Row map[string]string

// OrderedRow is a row that remembers the order its keys appeared in the source
// document. Keys holds each key once, in first-seen order.
type OrderedRow struct {
	Keys   []string
	Values Row
}

// Set appends key to Keys on first use and stores value
func (r *OrderedRow) Set(key, value string) {
	if r.Values == nil {
		r.Values = make(Row)
	}
	if _, exists := r.Values[key]; !exists {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = value
}

// Grid is an ordered column list plus rows of display strings
type Grid struct {
	Columns []string
	Rows    []Row
}

// New creates a grid with the given columns. With no explicit columns the
// first row's keys are used in sorted order, since a Go map carries no key
// order; use FromOrdered to keep the source order instead.
func New(columns []string, rows []Row) (*Grid, error) {
	if len(columns) == 0 && len(rows) > 0 {
		columns = make([]string, 0, len(rows[0]))
		for key := range rows[0] {
			columns = append(columns, key)
		}
		sort.Strings(columns)
	}

	if err := checkColumns(columns); err != nil {
		return nil, err
	}

	return &Grid{
		Columns: slices.Clone(columns),
		Rows:    rows,
	}, nil
}

// FromOrdered creates a grid from rows that carry key order. With no explicit
// columns the first row's key order becomes the column order.
func FromOrdered(rows []OrderedRow, columns []string) (*Grid, error) {
	if len(columns) == 0 && len(rows) > 0 {
		columns = rows[0].Keys
	}

	plain := make([]Row, len(rows))
	for i, r := range rows {
		plain[i] = r.Values
	}

	return New(columns, plain)
}

func checkColumns(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for i, col := range columns {
		if col == "" {
			return fmt.Errorf("%w at position %d", ErrEmptyColumn, i)
		}
		if _, dup := seen[col]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, col)
		}
		seen[col] = struct{}{}
	}
	return nil
}

// Width returns the number of columns
func (g *Grid) Width() int {
	return len(g.Columns)
}

// Len returns the number of data rows, not counting the header
func (g *Grid) Len() int {
	return len(g.Rows)
}

// Empty reports whether the grid has neither rows nor columns
func (g *Grid) Empty() bool {
	return len(g.Columns) == 0 && len(g.Rows) == 0
}

// Cell returns the display string of row i in column col, or "" when the row
// has no such key.
func (g *Grid) Cell(i int, col string) string {
	return g.Rows[i][col]
}

// Record returns row i as cells in column order. The result always has
// Width() cells.
func (g *Grid) Record(i int) []string {
	record := make([]string, len(g.Columns))
	for j, col := range g.Columns {
		record[j] = g.Rows[i][col]
	}
	return record
}

// Records returns every row in column order, header excluded
func (g *Grid) Records() [][]string {
	records := make([][]string, len(g.Rows))
	for i := range g.Rows {
		records[i] = g.Record(i)
	}
	return records
}
