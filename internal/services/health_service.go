package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"commonui/internal/exporter"
	"commonui/internal/grid"
	"commonui/pkg/contracts"
	api "commonui/pkg/contracts/api/v1"
)

// Health statuses
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// HealthCheck is one named readiness probe
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthService reports liveness, readiness and version information
type HealthService struct {
	build     contracts.VersionInfo
	version   string
	checks    []HealthCheck
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service running checks on readiness
func NewHealthService(build contracts.VersionInfo, logger *slog.Logger, checks ...HealthCheck) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("health service initialized",
		slog.String("version", build.Version),
		slog.String("commit", build.ShortCommit()),
		slog.Int("checks", len(checks)))

	return &HealthService{
		build:     build,
		version:   build.Version,
		checks:    checks,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	return api.HealthResponse{
		Status:    StatusOK,
		Version:   hs.version,
		Timestamp: time.Now(),
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
	}
}

// ReadinessCheck runs every check. Any failure makes the service not ready.
func (hs *HealthService) ReadinessCheck(ctx context.Context) api.HealthResponse {
	status := api.HealthResponse{
		Status:    StatusReady,
		Version:   hs.version,
		Timestamp: time.Now(),
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
		Checks:    make(map[string]string, len(hs.checks)),
	}

	for _, check := range hs.checks {
		if err := check.Check(ctx); err != nil {
			hs.logger.WarnContext(ctx, "readiness check failed",
				slog.String("check", check.Name),
				slog.String("error", err.Error()))
			status.Checks[check.Name] = err.Error()
			status.Status = StatusNotReady
			continue
		}
		status.Checks[check.Name] = StatusOK
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) api.HealthResponse {
	return api.HealthResponse{
		Status:    StatusAlive,
		Version:   hs.version,
		Timestamp: time.Now(),
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
	}
}

// VersionResponse is the body of GET /api/version
type VersionResponse struct {
	contracts.VersionInfo
	StartTime time.Time `json:"start_time"`
	Uptime    float64   `json:"uptime_seconds"`
}

// Version returns the build metadata and process uptime
func (hs *HealthService) Version() VersionResponse {
	return VersionResponse{
		VersionInfo: hs.build,
		StartTime:   hs.startTime.UTC(),
		Uptime:      time.Since(hs.startTime).Seconds(),
	}
}

// ExporterCheck renders a one-cell table in format to prove the exporter works
func ExporterCheck(format string, opts exporter.Options) HealthCheck {
	return HealthCheck{
		Name: "exporter_" + format,
		Check: func(ctx context.Context) error {
			exp, err := exporter.ForFormat(format, opts, slog.New(slog.NewJSONHandler(io.Discard, nil)))
			if err != nil {
				return err
			}
			g, err := grid.New([]string{"Status"}, []grid.Row{{"Status": StatusOK}})
			if err != nil {
				return err
			}
			_, err = exp.Export(ctx, g, "health."+format)
			return err
		},
	}
}

// WritableDirCheck verifies dir exists and accepts new files
func WritableDirCheck(name, dir string) HealthCheck {
	return HealthCheck{
		Name: name,
		Check: func(ctx context.Context) error {
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("directory %s: %w", dir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			f, err := os.CreateTemp(dir, ".health-*")
			if err != nil {
				return fmt.Errorf("directory %s is not writable: %w", dir, err)
			}
			name := f.Name()
			_ = f.Close()
			return os.Remove(filepath.Clean(name))
		},
	}
}
