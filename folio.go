// Package folio serves and exports a single-page artist portfolio.
//
// The page is rendered on the server from a portfolio.yaml description.
// Every gallery image is probed first; tiles whose image cannot be loaded
// are rendered as a placeholder, and the page script performs the same
// one-way swap for images that fail in the browser.
package folio

import (
	"context"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/3-lines-studio/folio/internal/adapters/env"
	"github.com/3-lines-studio/folio/internal/adapters/fs"
	folioHTTP "github.com/3-lines-studio/folio/internal/adapters/http"
	"github.com/3-lines-studio/folio/internal/config"
	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/probe"
	"github.com/3-lines-studio/folio/internal/render"
	"github.com/3-lines-studio/folio/internal/usecase"
)

type Config = config.Config

type Mode = core.Mode

const (
	ModeDev    = core.ModeDev
	ModeProd   = core.ModeProd
	ModeExport = core.ModeExport
)

func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

type Option func(*App)

// WithPublicFS overrides the public directory named in the config.
func WithPublicFS(public iofs.FS) Option {
	return func(a *App) { a.publicOverride = public }
}

func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

func WithMode(mode Mode) Option {
	return func(a *App) { a.mode = mode }
}

// WithRemoteProbe turns on probing of http(s) refs regardless of the config.
func WithRemoteProbe(timeout time.Duration) Option {
	return func(a *App) {
		a.remoteOverride = true
		a.remoteTimeout = timeout
	}
}

// WithoutProbe leaves every tile Displaying and lets the browser decide.
func WithoutProbe() Option {
	return func(a *App) { a.noProbe = true }
}

// WithReload re-reads the config on every page request. Serve enables it in
// dev mode. A reload that changes public_dir or the image check settings
// rebuilds the public file system and the resolver, dropping cached outcomes.
func WithReload(path string) Option {
	return func(a *App) { a.reloadPath = path }
}

type App struct {
	now        func() time.Time
	logger     *slog.Logger
	mode       Mode
	reloadPath string

	publicOverride iofs.FS
	remoteOverride bool
	remoteTimeout  time.Duration
	noProbe        bool

	pages *usecase.PageService

	mu           sync.RWMutex
	cfg          *Config
	public       iofs.FS
	wiring       checkWiring
	wired        bool
	remoteProber *probe.RemoteProber
	resolver     *probe.Resolver
}

// checkWiring is the part of the config the public fs and resolver are
// built from.
type checkWiring struct {
	publicDir   string
	enabled     bool
	remote      bool
	timeout     time.Duration
	ttl         time.Duration
	concurrency int
}

type router interface {
	http.Handler
	Handle(pattern string, handler http.Handler)
}

func New(cfg *Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("folio: config is required")
	}

	app := &App{
		now:  time.Now,
		mode: env.DetectMode(),
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = slog.Default()
	}

	app.mu.Lock()
	app.apply(cfg)
	app.mu.Unlock()

	app.pages = usecase.NewPageService(render.New(), liveResolver{app: app}, app.now, app.logger)

	app.logger.Debug("folio app created",
		"mode", app.mode.String(),
		"works", len(cfg.ImageRefs()),
		"probe", app.wiring.enabled,
		"remote_probe", app.wiring.remote,
	)

	return app, nil
}

func (a *App) wiringFor(cfg *Config) checkWiring {
	w := checkWiring{
		enabled:     !a.noProbe && cfg.ProbeEnabled(),
		remote:      a.remoteOverride || cfg.Probe.Remote,
		timeout:     cfg.ProbeTimeout(),
		ttl:         cfg.ProbeTTL(),
		concurrency: cfg.Probe.Concurrency,
	}
	if a.publicOverride == nil {
		w.publicDir = cfg.PublicPath()
	}
	if a.remoteOverride && a.remoteTimeout > 0 {
		w.timeout = a.remoteTimeout
	}
	if a.mode == core.ModeDev {
		w.ttl = 0
	}
	return w
}

// apply installs cfg and rebuilds the public fs and resolver when their
// settings changed. Callers hold a.mu.
func (a *App) apply(cfg *Config) {
	a.cfg = cfg

	w := a.wiringFor(cfg)
	if a.wired && w == a.wiring {
		return
	}
	if a.wired {
		a.logger.Debug("image check settings reloaded", "public_dir", w.publicDir, "checks", w.enabled, "remote_checks", w.remote)
	}

	if a.remoteProber != nil {
		a.remoteProber.CloseIdleConnections()
	}
	a.remoteProber = nil
	a.resolver = nil

	a.public = a.publicOverride
	if a.public == nil {
		a.public = fs.DirFS(w.publicDir)
	}

	if w.enabled {
		prober := probe.Router{Local: probe.NewLocalProber(a.public)}
		if w.remote {
			a.remoteProber = probe.NewRemoteProber(w.timeout)
			prober.Remote = a.remoteProber
		}
		a.resolver = probe.NewResolver(prober,
			probe.WithConcurrency(w.concurrency),
			probe.WithTTL(w.ttl),
			probe.WithLogger(a.logger),
		)
	}

	a.wiring = w
	a.wired = true
}

func (a *App) Portfolio() (core.Portfolio, error) {
	if a.reloadPath != "" {
		cfg, err := config.Load(a.reloadPath)
		if err != nil {
			return core.Portfolio{}, err
		}
		a.mu.Lock()
		a.apply(cfg)
		a.mu.Unlock()
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg.Portfolio(), nil
}

func (a *App) currentPublic() iofs.FS {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.public
}

// liveResolver resolves through whatever resolver the app holds at call
// time. Without one every tile stays Displaying.
type liveResolver struct {
	app *App
}

func (l liveResolver) Resolve(ctx context.Context, refs []core.ImageRef) ([]core.TileState, error) {
	l.app.mu.RLock()
	r := l.app.resolver
	l.app.mu.RUnlock()

	if r == nil {
		return nil, nil
	}
	return r.Resolve(ctx, refs)
}

// livePublic reads from the app's current public fs.
type livePublic struct {
	app *App
}

func (l livePublic) Open(name string) (iofs.File, error) {
	public := l.app.currentPublic()
	if public == nil {
		return nil, &iofs.PathError{Op: "open", Path: name, Err: iofs.ErrNotExist}
	}
	return public.Open(name)
}

// Wrap mounts the portfolio on api. Routes registered on api before Wrap
// keep precedence.
func (a *App) Wrap(api router) http.Handler {
	if api == nil {
		panic("folio: nil router passed to Wrap; use app.Handler()")
	}

	isDev := a.mode == core.ModeDev
	handler := folioHTTP.NewPageHandler(
		a.pages,
		a.Portfolio,
		folioHTTP.NewAssetHandler(render.Asset, isDev),
		folioHTTP.NewPublicHandler(livePublic{app: a}),
		isDev,
		a.logger,
	)

	api.Handle(catchAllPattern(api), handler)
	return api
}

func (a *App) Handler() http.Handler {
	return a.Wrap(folioHTTP.NewRouter(a.logger))
}

func catchAllPattern(api router) string {
	if _, ok := api.(*http.ServeMux); ok {
		return "/"
	}
	return "/*"
}

// Stop drops cached probe outcomes and idle outbound connections.
func (a *App) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resolver != nil {
		a.resolver.Reset()
	}
	if a.remoteProber != nil {
		a.remoteProber.CloseIdleConnections()
	}
	return nil
}
