package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"commonui/internal/grid"
)

// XLSXExporter writes grids as single-sheet workbooks
type XLSXExporter struct {
	opts   Options
	logger *slog.Logger
}

// NewXLSXExporter creates a new XLSX exporter
func NewXLSXExporter(opts Options, logger *slog.Logger) *XLSXExporter {
	return &XLSXExporter{
		opts:   opts,
		logger: componentLogger(logger, FormatXLSX),
	}
}

// Format returns "xlsx"
func (x *XLSXExporter) Format() string {
	return FormatXLSX
}

// Export writes the header row followed by one row per grid row. A grid with
// columns but no rows yields a header-only workbook.
func (x *XLSXExporter) Export(ctx context.Context, g *grid.Grid, filename string) (*Artifact, error) {
	if err := checkInput(g, filename, x.opts); err != nil {
		return nil, err
	}

	sheet := x.opts.sheetName()
	x.logger.DebugContext(ctx, "Writing XLSX workbook",
		slog.String("filename", filename),
		slog.String("sheet", sheet),
		slog.Int("column_count", g.Width()),
		slog.Int("record_count", g.Len()))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	if x.opts.FreezeHeader {
		if err := sw.SetPanes(&excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("failed to freeze header: %w", err)
		}
	}

	var headerOpts []excelize.RowOpts
	if x.opts.BoldHeader {
		styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
		headerOpts = append(headerOpts, excelize.RowOpts{StyleID: styleID})
	}

	if g.Width() > 0 {
		if err := sw.SetRow("A1", toCells(g.Columns), headerOpts...); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}

		for i := 0; i < g.Len(); i++ {
			if i%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}

			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address record %d: %w", i, err)
			}
			if err := sw.SetRow(cell, toCells(g.Record(i))); err != nil {
				return nil, fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &Artifact{
		Filename:    filename,
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
		Rows:        g.Len(),
	}, nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
