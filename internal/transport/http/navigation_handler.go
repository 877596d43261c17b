package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"commonui/internal/navigation"
	"commonui/internal/titlecase"
)

// NavigationHandler serves the breadcrumb links built from the UI config
type NavigationHandler struct {
	names  []string
	urls   map[string]string
	caser  *titlecase.Caser
	logger *slog.Logger
}

// NewNavigationHandler creates a navigation handler
func NewNavigationHandler(names []string, urls map[string]string, caser *titlecase.Caser, logger *slog.Logger) *NavigationHandler {
	return &NavigationHandler{
		names:  names,
		urls:   urls,
		caser:  caser,
		logger: logger.With(slog.String("handler", "navigation")),
	}
}

// Links handles GET /api/navigation.
//
// The optional active and path query parameters append path to the URL of
// the active entry, e.g. ?active=orders&path=/42.
func (h *NavigationHandler) Links(w http.ResponseWriter, r *http.Request) {
	urls := h.urls
	if active := r.URL.Query().Get("active"); active != "" {
		urls = navigation.WithDynamicLink(r.Context(), urls, active, r.URL.Query().Get("path"))
	}

	links := navigation.Links(h.names, urls, h.caser)
	h.logger.DebugContext(r.Context(), "navigation links built",
		slog.Int("count", len(links)))

	render.JSON(w, r, links)
}
