package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"commonui/internal/exporter"
	"commonui/internal/grid"
	"commonui/internal/resolver"
	api "commonui/pkg/contracts/api/v1"
)

// Common error types following RFC 7807
const (
	TypeValidation      = "/errors/validation"
	TypeNotFound        = "/errors/not-found"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeTimeout         = "/errors/timeout"
	TypeMethod          = "/errors/method-not-allowed"
	TypePayloadTooLarge = "/errors/payload-too-large"
	TypeMediaType       = "/errors/unsupported-media-type"
)

// Domain-specific error types
const (
	TypeEmptyDataset      = "/errors/export/empty-dataset"
	TypeUnsupportedFormat = "/errors/export/unsupported-format"
	TypeTooManyRows       = "/errors/export/too-many-rows"
	TypeExportFailed      = "/errors/export/failed"
	TypeInvalidColumns    = "/errors/table/invalid-columns"
	TypeInvalidRow        = "/errors/table/invalid-row"
	TypeMalformedPath     = "/errors/path/malformed"
	TypeAccessDenied      = "/errors/path/access-denied"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	// Get request ID for tracing
	reqID := middleware.GetReqID(r.Context())

	// Convert to problem details
	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	// Add stack trace in development
	if h.includeStack {
		problem.WithExtension("stack", getStackTrace())
	}

	// Render the error response
	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	// Check for context errors first
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	// Check for our custom API errors
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			TypePayloadTooLarge,
			"Payload Too Large",
			fmt.Sprintf("The request body exceeds the maximum allowed size of %d bytes", maxBytesErr.Limit),
			r.URL.Path,
		)
	}

	// Domain sentinels
	if problem := domainProblem(err, r); problem != nil {
		return problem
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return h.appErrorToProblem(appErr, r)
	}

	// Generic internal error
	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

// domainProblem maps sentinel errors from the export pipeline. It returns nil
// when err carries none of them.
func domainProblem(err error, r *http.Request) *ProblemDetails {
	var (
		status int
		typ    string
		title  string
	)

	switch {
	case errors.Is(err, exporter.ErrEmptyDataset):
		status, typ, title = http.StatusUnprocessableEntity, TypeEmptyDataset, "Empty Dataset"
	case errors.Is(err, exporter.ErrUnsupportedFormat):
		status, typ, title = http.StatusBadRequest, TypeUnsupportedFormat, "Unsupported Format"
	case errors.Is(err, exporter.ErrMissingFilename):
		status, typ, title = http.StatusBadRequest, TypeValidation, "Validation Failed"
	case errors.Is(err, exporter.ErrTooManyRows):
		status, typ, title = http.StatusRequestEntityTooLarge, TypeTooManyRows, "Too Many Rows"
	case errors.Is(err, grid.ErrDuplicateColumn), errors.Is(err, grid.ErrEmptyColumn):
		status, typ, title = http.StatusBadRequest, TypeInvalidColumns, "Invalid Columns"
	case errors.Is(err, api.ErrInvalidRow):
		status, typ, title = http.StatusBadRequest, TypeInvalidRow, "Invalid Table Row"
	case errors.Is(err, resolver.ErrMalformedPath):
		status, typ, title = http.StatusBadRequest, TypeMalformedPath, "Malformed Attribute Path"
	case errors.Is(err, resolver.ErrAccessDenied):
		status, typ, title = http.StatusInternalServerError, TypeAccessDenied, "Attribute Access Denied"
	default:
		return nil
	}

	return NewProblemDetails(status, typ, title, err.Error(), r.URL.Path)
}

// appErrorToProblem maps AppError kinds that carry no domain sentinel
func (h *ErrorHandler) appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	status, typ := http.StatusInternalServerError, TypeInternal
	switch appErr.Type {
	case ErrTypeValidation, ErrTypePath:
		status, typ = http.StatusBadRequest, TypeValidation
	case ErrTypeNotFound:
		status, typ = http.StatusNotFound, TypeNotFound
	case ErrTypeExport:
		typ = TypeExportFailed
	}

	problem := NewProblemDetails(status, typ, http.StatusText(status), appErr.Message, r.URL.Path)
	if len(appErr.Context) > 0 {
		problem.WithExtension("context", appErr.Context)
	}
	return problem
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeValidationFailed, CodeInvalidRequest:
		problemType = TypeValidation
	case CodeUnsupportedFormat:
		problemType = TypeUnsupportedFormat
	case CodeInvalidColumns:
		problemType = TypeInvalidColumns
	case CodeMalformedPath:
		problemType = TypeMalformedPath
	case CodeEmptyDataset:
		problemType = TypeEmptyDataset
	case CodeExportFailed:
		problemType = TypeExportFailed
	case CodeNotFound:
		problemType = TypeNotFound
	case CodePayloadTooLarge:
		problemType = TypePayloadTooLarge
	case CodeUnsupportedMediaType:
		problemType = TypeMediaType
	case CodeRateLimitExceeded:
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	// Add details if present
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())

	// Log the panic
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	// Create problem details
	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", reqID)

	// Add panic details in development
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// NotFound answers requests no route matched
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.HandleError(w, r, NewNotFoundError("route "+r.URL.Path))
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethod,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", middleware.GetReqID(r.Context()))

	render.Render(w, r, problem)
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
