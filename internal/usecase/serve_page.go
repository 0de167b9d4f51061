package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/render"
)

type ServePageInput struct {
	Portfolio core.Portfolio
}

type ServePageOutput struct {
	HTML    string
	Gallery core.Gallery
	Error   error
}

type PageService struct {
	renderer PageRenderer
	resolver Resolver
	now      func() time.Time
	logger   *slog.Logger
}

// NewPageService builds the page service. A nil resolver leaves every tile
// Displaying and lets the browser decide.
func NewPageService(renderer PageRenderer, resolver Resolver, now func() time.Time, logger *slog.Logger) *PageService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PageService{
		renderer: renderer,
		resolver: resolver,
		now:      now,
		logger:   logger,
	}
}

func (s *PageService) ServePage(ctx context.Context, input ServePageInput) ServePageOutput {
	if s.renderer == nil {
		return ServePageOutput{Error: fmt.Errorf("renderer not available")}
	}

	gallery, err := s.BuildGallery(ctx, input.Portfolio)
	if err != nil {
		return ServePageOutput{Error: err}
	}

	renderStart := time.Now()
	html, err := s.renderer.RenderPage(render.PageData{
		Portfolio: input.Portfolio,
		Gallery:   gallery,
		Now:       s.now(),
	})
	if err != nil {
		return ServePageOutput{Gallery: gallery, Error: err}
	}
	s.logger.Debug("page render timing", "duration", time.Since(renderStart), "tiles", gallery.Len())

	return ServePageOutput{
		HTML:    html,
		Gallery: gallery,
	}
}

// BuildGallery resolves tile states and assembles the gallery. The caption
// year is taken from the clock on every call.
func (s *PageService) BuildGallery(ctx context.Context, p core.Portfolio) (core.Gallery, error) {
	refs := p.Images()

	var states []core.TileState
	if s.resolver != nil {
		var err error
		states, err = s.resolver.Resolve(ctx, refs)
		if err != nil {
			return core.Gallery{}, fmt.Errorf("failed to resolve gallery images: %w", err)
		}
	}

	return core.AssembleGallery(refs, states, s.now(), p.Profile().Signature()), nil
}
