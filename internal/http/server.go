package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"immichart/internal/cache"
	"immichart/internal/chart"
	"immichart/internal/core"
	"immichart/internal/events"
	applog "immichart/internal/log"
	"immichart/internal/middleware/ratelimit"
	"immichart/internal/middleware/security"
	"immichart/internal/middleware/trace"
	"immichart/internal/render"
	appweb "immichart/web"
)

// Config wires a Server. Records are the loaded dataset; LoadErr, when set,
// makes the page render empty and readiness fail.
type Config struct {
	Addr      string
	Records   []core.Record
	LoadErr   error
	Chart     chart.Options
	Publisher events.Publisher
	Logger    *applog.Logger

	SessionTTL         time.Duration
	SessionMax         int
	RateLimitPerMinute int
}

const eventBuffer = 256

type Server struct {
	http.Server

	templates *template.Template
	records   []core.Record
	loadErr   error
	chartOpts chart.Options
	publisher *events.AsyncPublisher
	logger    *applog.Logger
	events    *applog.StructuredLogger

	sessions   *cache.LRUCache[*session]
	sessionTTL time.Duration
	janitor    *cache.Janitor
	limiter    *ratelimit.Limiter
	detector   *security.Detector
	tracer     *trace.Middleware

	shutdownOnce sync.Once
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = applog.New(applog.DefaultConfig())
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.NopPublisher{}
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.SessionMax <= 0 {
		cfg.SessionMax = 1000
	}
	if cfg.Chart.YearLabel == "" {
		cfg.Chart.YearLabel = chart.DefaultYearLabel
	}
	if cfg.Chart.Layout == (render.Layout{}) {
		cfg.Chart.Layout = render.DefaultLayout()
	}
	if cfg.Chart.Palette == nil {
		cfg.Chart.Palette = core.DefaultPalette()
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := cfg.Logger.WithComponent(applog.ComponentHTTP)
	mux := http.NewServeMux()
	s := &Server{
		Server:     http.Server{Addr: cfg.Addr, ReadHeaderTimeout: 10 * time.Second},
		templates:  t,
		records:    cfg.Records,
		loadErr:    cfg.LoadErr,
		chartOpts:  cfg.Chart,
		publisher:  events.NewAsyncPublisher(cfg.Publisher, eventBuffer, cfg.Logger.WithComponent(applog.ComponentEvents).Logger),
		logger:     logger,
		events:     applog.NewStructuredLogger(cfg.Logger.WithComponent(applog.ComponentChart)),
		sessions:   cache.NewLRUCache[*session](cfg.SessionMax, cfg.SessionTTL),
		sessionTTL: cfg.SessionTTL,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			Methods:           []string{http.MethodPost},
		}),
		detector: security.NewDetector(),
	}
	sessionLog := cfg.Logger.WithComponent(applog.ComponentSession)
	s.sessions.OnEvict(func(id string, _ *session) {
		sessionLog.Debug("Chart session dropped", applog.FieldSession, id)
	})
	s.janitor = cache.NewJanitor(time.Minute, sessionLog.Logger, s.sessions)
	s.tracer = trace.NewMiddleware(cfg.Logger, s.detector.ClientIP)

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticCache(3600)(http.StripPrefix("/static/", http.FileServer(http.FS(sub)))))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /ui/legend/toggle", s.handleToggle)
	mux.HandleFunc("GET /ui/tooltip", s.handleTooltip)
	mux.HandleFunc("GET /ui/export.png", s.handleExportPNG)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "Too many requests, slow down.").Write(w)
	})(h)
	h = s.detector.Middleware(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = s.tracer.Middleware(h)
	s.Handler = h

	return s, nil
}

// Background runs session expiry, rate limiter cleanup and event forwarding
// until ctx ends. Events are only delivered while it runs.
func (s *Server) Background(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.janitor.Run(ctx) })
	g.Go(func() error { return s.limiter.Run(ctx) })
	g.Go(func() error { return s.publisher.Run(ctx) })
	return g.Wait()
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	})
	return err
}

// Sessions reports the number of live chart views.
func (s *Server) Sessions() int {
	return s.sessions.Size()
}

func (s *Server) render(buf *bytes.Buffer, name string, data any) error {
	if err := s.templates.ExecuteTemplate(buf, name, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	return nil
}

// publish hands e to the background forwarder; it never waits on the broker.
func (s *Server) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.With(applog.FieldOperation, applog.OpPublish).WarnContext(ctx, "Event dropped",
			"kind", e.Kind, applog.FieldError, err)
	}
}

var templateFuncs = template.FuncMap{
	"px": func(v float64) string {
		return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "px"
	},
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}
