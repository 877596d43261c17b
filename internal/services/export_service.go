package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"commonui/internal/config"
	apierrors "commonui/internal/errors"
	"commonui/internal/exporter"
	"commonui/internal/grid"
	"commonui/internal/infrastructure"
	"commonui/internal/resolver"
	"commonui/internal/titlecase"
	api "commonui/pkg/contracts/api/v1"
)

// ExportService turns table payloads and object lists into downloadable
// documents. It holds only immutable configuration and is safe for
// concurrent use.
type ExportService struct {
	options       exporter.Options
	defaultFormat string
	resolver      *resolver.Resolver
	caser         *titlecase.Caser
	metrics       *infrastructure.BusinessMetrics
	tracer        trace.Tracer
	logger        *slog.Logger
}

// ExportServiceOption configures an ExportService
type ExportServiceOption func(*ExportService)

// WithMetrics records export metrics into m
func WithMetrics(m *infrastructure.BusinessMetrics) ExportServiceOption {
	return func(s *ExportService) {
		s.metrics = m
	}
}

// WithTracer wraps every export in a span from t
func WithTracer(t trace.Tracer) ExportServiceOption {
	return func(s *ExportService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewExportService creates the service from the export section of the config
func NewExportService(cfg config.ExportConfig, r *resolver.Resolver, caser *titlecase.Caser, logger *slog.Logger, opts ...ExportServiceOption) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = resolver.New(resolver.WithLogger(logger))
	}

	s := &ExportService{
		options: exporter.Options{
			SheetName:    cfg.SheetName,
			MaxRows:      cfg.MaxRows,
			BoldHeader:   cfg.BoldHeader,
			FreezeHeader: cfg.FreezeHeader,
		},
		defaultFormat: cfg.DefaultFormat,
		resolver:      r,
		caser:         caser,
		tracer:        tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName),
		logger:        logger.With(slog.String("service", "export")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Options returns the exporter options derived from the export config
func (s *ExportService) Options() exporter.Options {
	return s.options
}

// Export builds a grid from the request rows, keeping the key order of the
// JSON document, and serializes it in the requested format.
func (s *ExportService) Export(ctx context.Context, req api.ExportRequest) (*exporter.Artifact, error) {
	rows := make([]grid.OrderedRow, len(req.TableData))
	for i, row := range req.TableData {
		rows[i] = grid.OrderedRow{Keys: row.Keys, Values: grid.Row(row.Values)}
	}

	g, err := grid.FromOrdered(rows, req.Columns)
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}
	return s.ExportGrid(ctx, g, req.Filename, req.Format)
}

// ExportObjects resolves columns on every object and exports the resulting
// grid. Headers default to the title-cased last segment of each path.
func ExportObjects[T any](ctx context.Context, s *ExportService, objects []T, columns []grid.Column, filename, format string) (*exporter.Artifact, error) {
	for _, col := range columns {
		if _, err := resolver.ParsePath(col.Path); err != nil {
			return nil, apierrors.NewPathError(col.Path, err)
		}
	}

	g, err := grid.Build(ctx, objects, columns, s.resolver, s.caser)
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}
	return s.ExportGrid(ctx, g, filename, format)
}

// ExportGrid serializes g. An empty format selects the configured default.
func (s *ExportService) ExportGrid(ctx context.Context, g *grid.Grid, filename, format string) (*exporter.Artifact, error) {
	format = s.ResolveFormat(format)

	ctx, span := s.tracer.Start(ctx, "export",
		trace.WithAttributes(
			attribute.String("export.format", format),
			attribute.String("export.filename", filename),
			attribute.Int("export.rows", gridLen(g)),
		))
	defer span.End()

	logger := s.logger.With(
		slog.String("format", format),
		slog.String("filename", filename),
	)
	logger.InfoContext(ctx, "export started",
		slog.Int("rows", gridLen(g)),
		slog.Int("columns", gridWidth(g)))

	start := time.Now()
	artifact, err := s.export(ctx, g, filename, format)
	duration := time.Since(start)

	if err != nil {
		infrastructure.RecordExportMetrics(ctx, s.metrics, format, 0, 0, duration, err)
		infrastructure.RecordError(ctx, err)
		logger.WarnContext(ctx, "export failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return nil, err
	}

	infrastructure.RecordExportMetrics(ctx, s.metrics, format, artifact.Rows, artifact.Size(), duration, nil)
	span.SetAttributes(attribute.Int("export.bytes", artifact.Size()))
	logger.InfoContext(ctx, "export completed",
		slog.Int("rows", artifact.Rows),
		slog.Int("bytes", artifact.Size()),
		slog.Duration("duration", duration))

	return artifact, nil
}

func (s *ExportService) export(ctx context.Context, g *grid.Grid, filename, format string) (*exporter.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	exp, err := exporter.ForFormat(format, s.options, s.logger)
	if err != nil {
		return nil, err
	}
	artifact, err := exp.Export(ctx, g, filename)
	if err != nil {
		return nil, apierrors.NewExportError("write "+format+" document", err).
			WithContext("filename", filename)
	}
	return artifact, nil
}

// ResolveFormat returns the format an export request would use
func (s *ExportService) ResolveFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = s.defaultFormat
	}
	if format == "" {
		format = exporter.FormatXLSX
	}
	return format
}

// Summary describes a finished export
func Summary(artifact *exporter.Artifact, format string, columns int) api.ExportSummary {
	return api.ExportSummary{
		Filename:    artifact.Filename,
		Format:      format,
		ContentType: artifact.ContentType,
		Rows:        artifact.Rows,
		Columns:     columns,
		Bytes:       artifact.Size(),
	}
}

func gridLen(g *grid.Grid) int {
	if g == nil {
		return 0
	}
	return g.Len()
}

func gridWidth(g *grid.Grid) int {
	if g == nil {
		return 0
	}
	return g.Width()
}
