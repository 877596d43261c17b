package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/tidwall/gjson"
)

// maxLoggedBody bounds how much of a request body is kept for the access log
const maxLoggedBody = 64 << 10

var redactedFields = []string{"password", "token", "secret", "api_key", "apiKey", "authorization"}

// ErrorMiddleware recovers panics into problem responses and writes one
// access log line per request. Failed requests carry a summary of their body.
type ErrorMiddleware struct {
	handler *ErrorHandler
	logger  *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(handler *ErrorHandler, logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		handler: handler,
		logger:  logger.With(slog.String("component", "error_middleware")),
	}
}

// Handler returns the middleware handler function
func (m *ErrorMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		var tap *bodyTap
		if r.Body != nil && r.Body != http.NoBody {
			tap = &bodyTap{ReadCloser: r.Body}
			r.Body = tap
		}

		defer func() {
			if rec := recover(); rec != nil {
				m.handler.HandlePanic(ww, r, rec)
			}
			m.log(r, ww, time.Since(start), tap)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (m *ErrorMiddleware) log(r *http.Request, ww middleware.WrapResponseWriter, elapsed time.Duration, tap *bodyTap) {
	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}

	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Duration("duration", elapsed),
		slog.Int("bytes", ww.BytesWritten()),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	}
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, slog.String("user_agent", ua))
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String("query", r.URL.RawQuery))
	}
	if status >= http.StatusBadRequest && tap != nil {
		if body := tap.summary(); body != "" {
			attrs = append(attrs, slog.String("request_body", body))
		}
	}

	m.logger.LogAttrs(r.Context(), levelForStatus(status), "http request", attrs...)
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// bodyTap keeps the first maxLoggedBody bytes the handler reads
type bodyTap struct {
	io.ReadCloser
	buf       bytes.Buffer
	truncated bool
}

func (b *bodyTap) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.keep(p[:n])
	return n, err
}

func (b *bodyTap) keep(p []byte) {
	room := maxLoggedBody - b.buf.Len()
	if len(p) > room {
		p = p[:room]
		b.truncated = true
	}
	b.buf.Write(p)
}

// summary reads whatever the handler left unread, up to the cap, and returns
// the sanitized body
func (b *bodyTap) summary() string {
	if !b.truncated && b.buf.Len() < maxLoggedBody {
		rest, _ := io.ReadAll(io.LimitReader(b.ReadCloser, int64(maxLoggedBody-b.buf.Len()+1)))
		b.keep(rest)
	}
	if b.truncated {
		return fmt.Sprintf("[body over %d bytes]", maxLoggedBody)
	}
	return sanitizeRequestBody(b.buf.String())
}

// sanitizeRequestBody summarizes a request body for logging. Export payloads
// are reduced to their row count and metadata, other JSON objects have
// credential fields redacted, and long bodies are cut at 500 bytes.
func sanitizeRequestBody(body string) string {
	parsed := gjson.Parse(body)
	if !gjson.Valid(body) || !parsed.IsObject() {
		return clip(body)
	}

	var out map[string]interface{}
	if rows := parsed.Get("tableData"); rows.Exists() {
		out = map[string]interface{}{
			"tableData": fmt.Sprintf("[%d rows]", len(rows.Array())),
		}
		for _, field := range []string{"filename", "format", "columns"} {
			if v := parsed.Get(field); v.Exists() {
				out[field] = v.Value()
			}
		}
	} else {
		out, _ = parsed.Value().(map[string]interface{})
		for _, field := range redactedFields {
			if _, ok := out[field]; ok {
				out[field] = "[REDACTED]"
			}
		}
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return clip(body)
	}
	return clip(string(encoded))
}

func clip(s string) string {
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}
