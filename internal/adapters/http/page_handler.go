package http

import (
	"bytes"
	"html"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/usecase"
)

// PortfolioSource returns the portfolio to render for a request. Serve
// reloads the config through it in dev mode.
type PortfolioSource func() (core.Portfolio, error)

type PageHandler struct {
	service   *usecase.PageService
	portfolio PortfolioSource
	assets    *AssetHandler
	public    *PublicHandler
	isDev     bool
	logger    *slog.Logger
}

func NewPageHandler(
	service *usecase.PageService,
	portfolio PortfolioSource,
	assets *AssetHandler,
	public *PublicHandler,
	isDev bool,
	logger *slog.Logger,
) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{
		service:   service,
		portfolio: portfolio,
		assets:    assets,
		public:    public,
		isDev:     isDev,
		logger:    logger,
	}
}

// allowedMethods is sent in the Allow header of 405 responses.
const allowedMethods = "GET, HEAD"

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", allowedMethods)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	decision := core.DecideRequest(core.RequestInput{
		Path:         req.URL.Path,
		PublicExists: h.public.Exists,
	})

	switch decision.Action {
	case core.ActionRenderPage:
		h.servePage(w, req)
	case core.ActionServeAsset:
		h.assets.ServeAsset(w, req, decision.AssetName)
	case core.ActionServePublic:
		h.public.ServeFile(w, req, decision.PublicPath)
	default:
		http.NotFound(w, req)
	}
}

func (h *PageHandler) servePage(w http.ResponseWriter, req *http.Request) {
	p, err := h.portfolio()
	if err != nil {
		h.serveError(w, req, err)
		return
	}

	output := h.service.ServePage(req.Context(), usecase.ServePageInput{Portfolio: p})
	if output.Error != nil {
		h.serveError(w, req, output.Error)
		return
	}

	if n := output.Gallery.FallbackCount(); n > 0 {
		h.logger.Debug("gallery has fallback tiles", "fallback", n, "tiles", output.Gallery.Len())
	}

	body := []byte(output.HTML)
	etag := core.ETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := req.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func (h *PageHandler) serveError(w http.ResponseWriter, req *http.Request, err error) {
	reqID := middleware.GetReqID(req.Context())
	h.logger.Error("page render failed", "error", err, "request_id", reqID)

	data := core.ErrorData{
		Message:   err.Error(),
		IsDev:     h.isDev,
		RequestID: reqID,
	}

	var buf bytes.Buffer
	if err := core.ErrorTemplate.Execute(&buf, data); err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<!doctype html><html><body><pre>" + html.EscapeString(data.Message) + "</pre></body></html>"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}
