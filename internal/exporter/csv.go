package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"commonui/internal/grid"
)

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes grids as comma separated text
type CSVExporter struct {
	opts   Options
	logger *slog.Logger
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(opts Options, logger *slog.Logger) *CSVExporter {
	return &CSVExporter{
		opts:   opts,
		logger: componentLogger(logger, FormatCSV),
	}
}

// Format returns "csv"
func (c *CSVExporter) Format() string {
	return FormatCSV
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Export writes the header line followed by one line per grid row
func (c *CSVExporter) Export(ctx context.Context, g *grid.Grid, filename string) (*Artifact, error) {
	if err := checkInput(g, filename, c.opts); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "Writing CSV document",
		slog.String("filename", filename),
		slog.Int("column_count", g.Width()),
		slog.Int("record_count", g.Len()))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, WriteOptions{
		Headers:   g.Columns,
		Records:   g.Records(),
		BOMPrefix: true,
	}); err != nil {
		return nil, err
	}

	return &Artifact{
		Filename:    filename,
		ContentType: ContentTypeCSV,
		Data:        buf.Bytes(),
		Rows:        g.Len(),
	}, nil
}

// WriteCSV writes headers and records to w with the given options
func WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveArtifact writes the artifact to path, creating parent directories as
// needed. When path is a directory the artifact's filename is appended.
func SaveArtifact(path string, artifact *Artifact) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, filepath.Base(artifact.Filename))
	}

	slog.Info("Saving export artifact",
		slog.String("file_path", path),
		slog.String("content_type", artifact.ContentType),
		slog.Int("size", artifact.Size()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}
