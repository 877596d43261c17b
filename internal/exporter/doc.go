// Package exporter serializes table grids into downloadable spreadsheet documents.
//
// This package contains two exporters behind the Exporter interface:
//
// XLSXExporter: Writes an Office Open XML workbook with a single sheet (named
// "Data" by default). Row 1 holds the column names, each following row maps 1:1
// to a grid row, and missing keys become empty cells.
//
// CSVExporter: Writes the same grid as UTF-8 CSV with a BOM prefix so Excel
// recognizes the encoding.
//
// Both exporters work in memory and return an Artifact holding the filename,
// content type and bytes. Nothing is written to disk unless the caller uses
// SaveArtifact.
//
// Example usage:
//
//	g, _ := grid.New([]string{"Name", "Age"}, []grid.Row{{"Name": "Ann", "Age": "30"}})
//
//	xlsx := exporter.NewXLSXExporter(exporter.Options{}, logger)
//	artifact, err := xlsx.Export(ctx, g, "people.xlsx")
//
//	// Pick an exporter by format name
//	exp, err := exporter.ForFormat("csv", exporter.Options{}, logger)
package exporter
