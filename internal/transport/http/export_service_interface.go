package http

import (
	"context"

	"commonui/internal/exporter"
	api "commonui/pkg/contracts/api/v1"
)

// ExportServiceInterface is the part of services.ExportService the export
// handler depends on
type ExportServiceInterface interface {
	Export(ctx context.Context, req api.ExportRequest) (*exporter.Artifact, error)
	ResolveFormat(format string) string
}
