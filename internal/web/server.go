// Package web builds the fiber app every DMS service runs on.
//
// New assembles the middleware chain (recover, request id, access log,
// metrics, CORS and bearer authentication on /api), the health, metrics and
// OpenAPI routes and the JSON error handler. Module handlers then register
// their routes on Service.API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/config"
	fiberlog "github.com/apota/mydms-sub010/internal/logger/adapter/fiber"
	"github.com/apota/mydms-sub010/internal/metrics"
	"github.com/apota/mydms-sub010/internal/service"
	"github.com/apota/mydms-sub010/internal/web/openapi"
)

// Routes served by every service.
const (
	HealthPath  = "/health"
	MetricsPath = "/metrics"
	DocPath     = "/swagger/doc.json"
	SearchPath  = "/search"
	APIPrefix   = "/api"
)

// Options of one service.
type Options struct {
	// Name is the key of the service in config.Services, e.g. "settings".
	Name string
	// Title is reported by the health endpoint and the OpenAPI document.
	Title string

	// Verifier enables bearer authentication on /api, nil disables it.
	Verifier auth.Verifier
	// Module enforces module.read / module.write on /api, empty skips the check.
	Module string
	// PublicPaths below /api are served without a token.
	PublicPaths []string

	// Views renders server side templates, optional.
	Views fiber.Views

	// Middleware runs after CORS and before every route.
	Middleware []fiber.Handler
	// Health replaces the default health handler.
	Health fiber.Handler
}

// Service represents the web service of one DMS service.
type Service struct {
	App  *fiber.App
	API  fiber.Router
	Doc  *openapi.Doc
	Name string

	cfg          *config.Config
	guards       []fiber.Handler
	title        string
	fastShutDown bool
	alive        atomic.Bool
	started      time.Time
}

// New creates the fiber app of a service.
func New(cfg *config.Config, opts Options) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	title := opts.Title
	if title == "" {
		title = "DMS " + opts.Name
	}

	fcfg := fiber.Config{
		ReadBufferSize: 8192, //nolint:mnd
		AppName:        title,
		CaseSensitive:  true,
		Prefork:        false,
		Immutable:      true,
		ErrorHandler:   ErrorHandler,
		Views:          opts.Views,
	}

	if cfg.Webserver.BodyLimit > 0 {
		fcfg.BodyLimit = cfg.Webserver.BodyLimit
	}

	app := fiber.New(fcfg)

	s := &Service{
		App:     app,
		Doc:     openapi.New(title, "1.0.0"),
		Name:    opts.Name,
		cfg:     cfg,
		title:   title,
		started: time.Now(),
	}
	s.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	if cfg.Webserver.CleanPath {
		app.Use(CleanPath)
	}

	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: fiberlog.LocalsRequestID,
	}))
	app.Use(fiberlog.New(fiberlog.Config{Config: cfg.Log, Service: opts.Name, CheckAliveURI: HealthPath}))
	app.Use(metrics.Middleware(opts.Name))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
	}))

	for _, mw := range opts.Middleware {
		app.Use(mw)
	}

	health := opts.Health
	if health == nil {
		health = s.Health
	}

	app.Get(HealthPath, health)
	app.Get(MetricsPath, metrics.Handler())
	app.Get(DocPath, s.OpenAPI)

	if opts.Verifier != nil {
		s.guards = append(s.guards, Authenticate(opts.Verifier, opts.PublicPaths...))

		if opts.Module != "" {
			s.guards = append(s.guards, Authorize(opts.Module, opts.PublicPaths...))
		}
	}

	s.API = app.Group(APIPrefix, s.guards...)

	return s
}

// SearchFunc searches a module for q, typ optionally restricts the result type.
type SearchFunc func(ctx context.Context, q, typ string) ([]service.SearchHit, error)

// Search registers GET /search, the endpoint the gateway fans out to. It is
// guarded like /api.
func (s *Service) Search(fn SearchFunc) {
	handlers := append(append([]fiber.Handler{}, s.guards...), func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			return BadRequest(c, MsgSearchQueryRequired)
		}

		hits, err := fn(c.UserContext(), q, c.Query("type"))
		if err != nil {
			return err
		}

		if hits == nil {
			hits = []service.SearchHit{}
		}

		return c.JSON(hits)
	})

	s.App.Get(SearchPath, handlers...)
	s.Doc.Add(openapi.Operation{
		Method: fiber.MethodGet, Path: SearchPath, Tag: "search", Summary: "Search",
		Response: new([]service.SearchHit), Query: []string{"q", "type"},
	})
}

// Title returns the service title.
func (s *Service) Title() string {
	return s.title
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// Uptime since New.
func (s *Service) Uptime() time.Duration {
	return time.Since(s.started)
}

// HealthBody is returned by the health endpoints.
type HealthBody struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// Health answers 200 while running and 503 while shutting down.
func (s *Service) Health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(HealthBody{
			Status: "shutting down", Timestamp: time.Now().UTC(), Service: s.title,
		})
	}

	return c.JSON(HealthBody{Status: "healthy", Timestamp: time.Now().UTC(), Service: s.title})
}

// OpenAPI serves the generated document.
func (s *Service) OpenAPI(c *fiber.Ctx) error {
	raw, err := s.Doc.JSON()
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(raw)
}

// Addr returns the listen address configured for the service.
func (s *Service) Addr() (string, error) {
	sc, ok := s.cfg.Services[s.Name]
	if !ok || sc.Port == 0 {
		return "", fmt.Errorf("%w: %s", config.ErrWebServerPortCanNotBeZero, s.Name)
	}

	return net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port)), nil
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		log.Info().Str("service", s.Name).Str("addr", addr).Msg("listening")

		err := s.App.Listen(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			doneFiber <- err

			return
		}

		doneFiber <- nil
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the given services down.
func WaitShutdown(services ...*Service) {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	Shutdown(services...)
}

// Shutdown stops services. Unless fast shutdown is set every health check
// answers 503 for webserver.shutDownTime seconds first so load balancers
// can remove the instance.
func Shutdown(services ...*Service) {
	var wait time.Duration

	for _, s := range services {
		s.Drain()

		if !s.fastShutDown {
			wait = time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second
		}
	}

	if wait > 0 {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %v to let LB to remove this pod from active targets", wait,
		)
		time.Sleep(wait)
	}

	for _, s := range services {
		log.Info().Str("service", s.Name).Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Str("service", s.Name).Msg("")
		}
	}

	log.Info().Msg("http servers were stopped ... good bye...")
}

// Drain makes the health check answer 503.
func (s *Service) Drain() {
	s.alive.Store(false)
}

// SetFastShutdown skips the 503 grace period.
func (s *Service) SetFastShutdown(fast bool) {
	s.fastShutDown = fast
}

// CleanPath collapses repeated slashes so //api//settings routes like /api/settings.
func CleanPath(c *fiber.Ctx) error {
	p := c.Path()
	if strings.Contains(p, "//") {
		for strings.Contains(p, "//") {
			p = strings.ReplaceAll(p, "//", "/")
		}

		c.Path(p)
	}

	return c.Next()
}
