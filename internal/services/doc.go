// Package services implements the business logic between the HTTP handlers
// and the export pipeline.
//
// ExportService turns an export request into a document: it builds a grid
// from the request rows (or from Go objects through the attribute resolver),
// picks the exporter for the requested format and records metrics, spans and
// logs for every export. HealthService answers the liveness, readiness and
// version endpoints.
//
// Services take their dependencies through constructors and log through an
// injected *slog.Logger:
//
//	svc := services.NewExportService(cfg.Export, resolver.New(), caser, logger,
//	    services.WithMetrics(metrics),
//	    services.WithTracer(providers.Tracer),
//	)
//	artifact, err := svc.Export(ctx, req)
//
// Errors from the grid and exporter packages are returned unchanged (wrapped
// with %w) so the HTTP layer can map them to problem details with errors.Is.
package services
