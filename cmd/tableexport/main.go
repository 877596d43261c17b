package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"commonui/internal/config"
	"commonui/internal/exporter"
	"commonui/internal/infrastructure"
	"commonui/internal/middleware"
	"commonui/internal/resolver"
	"commonui/internal/services"
	"commonui/internal/titlecase"
	"commonui/internal/validation"
	"commonui/pkg/contracts"
	api "commonui/pkg/contracts/api/v1"
)

type options struct {
	in         string
	out        string
	format     string
	configFile string
	version    bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("Invalid arguments", slog.String("error", err.Error()))
		os.Exit(2)
	}
	if opts.version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.LoadFile(opts.configFile)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())

	summary, err := run(ctx, cfg, opts, logger)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Export failed")
		os.Exit(1)
	}

	if err := json.NewEncoder(os.Stdout).Encode(summary); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to write summary")
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("tableexport", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.in, "in", "", "JSON payload with tableData, filename and optional columns")
	fs.StringVar(&opts.out, "out", "", "output file or directory")
	fs.StringVar(&opts.format, "format", "", "xlsx | csv (defaults to the payload, then the -out extension)")
	fs.StringVar(&opts.configFile, "config", "", "optional YAML config file")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.version {
		return opts, nil
	}
	if opts.in == "" {
		return nil, fmt.Errorf("-in is required")
	}
	if opts.out == "" {
		return nil, fmt.Errorf("-out is required")
	}
	return opts, nil
}

// run reads the payload, exports it and writes the document to opts.out
func run(ctx context.Context, cfg *config.Config, opts *options, logger *slog.Logger) (*api.ExportSummary, error) {
	files := validation.NewFileValidator(logger)
	if err := files.ValidatePayloadFile(opts.in, cfg.Server.MaxBodyBytes); err != nil {
		return nil, err
	}
	if err := files.ValidateOutputPath(opts.out); err != nil {
		return nil, err
	}

	req, err := readRequest(opts)
	if err != nil {
		return nil, err
	}

	if err := middleware.NewValidator().ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	r := resolver.New(
		resolver.WithDateLayout(cfg.Resolver.DateLayout),
		resolver.WithLogger(logger),
	)
	service := services.NewExportService(cfg.Export, r, titlecase.NewCaser(cfg.UI.StripFirstWord...), logger)

	logger.InfoContext(ctx, "Starting table export",
		slog.String("input_file", opts.in),
		slog.String("output", opts.out),
		slog.Int("rows", req.RowCount()))

	artifact, err := service.Export(ctx, *req)
	if err != nil {
		return nil, err
	}

	path, err := exporter.SaveArtifact(opts.out, artifact)
	if err != nil {
		return nil, err
	}

	summary := services.Summary(artifact, service.ResolveFormat(req.Format), columnCount(req))
	logger.InfoContext(ctx, "Table export complete",
		slog.String("file_path", path),
		slog.String("format", summary.Format),
		slog.Int("rows", summary.Rows),
		slog.Int("columns", summary.Columns),
		slog.Int("bytes", summary.Bytes))

	return &summary, nil
}

// readRequest decodes the payload file. The filename defaults to the base
// name of -out unless -out is a directory. -format wins over the payload's
// format, and the -out extension fills in when neither is set.
func readRequest(opts *options) (*api.ExportRequest, error) {
	data, err := os.ReadFile(opts.in)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	var req api.ExportRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode payload %s: %w", opts.in, err)
	}

	if req.Filename == "" && !isDir(opts.out) {
		req.Filename = filepath.Base(opts.out)
	}

	switch {
	case opts.format != "":
		req.Format = strings.ToLower(opts.format)
	case req.Format == "":
		switch ext := strings.ToLower(filepath.Ext(opts.out)); ext {
		case ".csv", ".xlsx":
			req.Format = ext[1:]
		}
	}

	return &req, nil
}

func columnCount(req *api.ExportRequest) int {
	if len(req.Columns) > 0 {
		return len(req.Columns)
	}
	if len(req.TableData) > 0 {
		return len(req.TableData[0].Keys)
	}
	return 0
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
