package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "commonui/internal/errors"
	"commonui/internal/exporter"
	"commonui/internal/middleware"
	api "commonui/pkg/contracts/api/v1"
)

// ExportHandler serves table downloads
type ExportHandler struct {
	service      ExportServiceInterface
	validator    *middleware.Validator
	query        *middleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewExportHandler creates a new export handler. Routes caps request bodies
// at maxBodyBytes; <= 0 leaves them unbounded.
func NewExportHandler(service ExportServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, maxBodyBytes int64, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service:      service,
		validator:    validator,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With(slog.String("handler", "export")),
	}
}

// Routes sets up the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.ContentTypeValidator(h.errorHandler, "application/json"))
	r.Use(middleware.MaxBodySize(h.maxBodyBytes))
	r.Post("/", h.Export)
	return r
}

// Export handles POST /export. The body is an ExportRequest; a ?format=
// query parameter overrides the body's format. The response is the document
// itself, sent as an attachment named after the request's filename.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ExportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, decodeError(err))
		return
	}

	format, ok := h.query.ValidateEnum(w, r, "format", []string{exporter.FormatXLSX, exporter.FormatCSV}, req.Format)
	if !ok {
		return
	}
	req.Format = format

	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(ctx, "export request accepted",
		slog.String("filename", req.Filename),
		slog.String("format", h.service.ResolveFormat(req.Format)),
		slog.Int("rows", req.RowCount()),
		slog.Int("columns", len(req.Columns)))

	artifact, err := h.service.Export(ctx, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", ContentDisposition(artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(artifact.Size()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(artifact.Data); err != nil {
		h.logger.WarnContext(ctx, "failed to write export response",
			slog.String("filename", artifact.Filename),
			slog.String("error", err.Error()))
	}
}

// ContentDisposition returns the attachment header for filename, which is
// used verbatim
func ContentDisposition(filename string) string {
	return fmt.Sprintf(`attachment; filename="%s"`, filename)
}

// decodeError keeps errors the error handler maps itself and turns anything
// else into a 400 invalid request
func decodeError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) || errors.Is(err, api.ErrInvalidRow) {
		return err
	}
	return apierrors.InvalidRequestWithError(err)
}
