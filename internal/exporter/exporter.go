package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"commonui/internal/grid"
)

// Supported export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Content types written to the Content-Type header
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// DefaultSheetName is the worksheet name used when Options.SheetName is empty
const DefaultSheetName = "Data"

var (
	// ErrEmptyDataset is returned for a grid with no columns, whatever its
	// row count
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrMissingFilename is returned when no filename is given
	ErrMissingFilename = errors.New("missing filename")

	// ErrUnsupportedFormat is returned by ForFormat for an unknown format
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrTooManyRows is returned when the grid exceeds Options.MaxRows
	ErrTooManyRows = errors.New("too many rows")
)

// Artifact is a serialized document ready to be sent to a client
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// Size returns the document size in bytes
func (a *Artifact) Size() int {
	return len(a.Data)
}

// Exporter turns a grid into a downloadable document
type Exporter interface {
	Export(ctx context.Context, g *grid.Grid, filename string) (*Artifact, error)
	Format() string
}

// Options configures both exporters
type Options struct {
	// SheetName is the XLSX worksheet name. Defaults to DefaultSheetName.
	SheetName string
	// MaxRows caps the number of data rows. Zero means no limit.
	MaxRows int
	// BoldHeader styles the XLSX header row in bold.
	BoldHeader bool
	// FreezeHeader keeps the XLSX header row visible while scrolling.
	FreezeHeader bool
}

func (o Options) sheetName() string {
	if o.SheetName == "" {
		return DefaultSheetName
	}
	return o.SheetName
}

// ForFormat returns the exporter for format. An empty format selects XLSX.
func ForFormat(format string, opts Options, logger *slog.Logger) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatXLSX:
		return NewXLSXExporter(opts, logger), nil
	case FormatCSV:
		return NewCSVExporter(opts, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// checkInput applies the rules shared by every exporter
func checkInput(g *grid.Grid, filename string, opts Options) error {
	if strings.TrimSpace(filename) == "" {
		return ErrMissingFilename
	}
	if g == nil || g.Width() == 0 {
		return ErrEmptyDataset
	}
	if opts.MaxRows > 0 && g.Len() > opts.MaxRows {
		return fmt.Errorf("%w: %d rows, limit is %d", ErrTooManyRows, g.Len(), opts.MaxRows)
	}
	return nil
}

func componentLogger(logger *slog.Logger, format string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", "exporter"), slog.String("format", format))
}
