// Package gateway is the single entry point of the DMS services: it routes
// /<service>/* to the configured backend, guards the routes with the shared
// JWT key, rate limits clients and fans searches out to every service.
package gateway

import (
	"net/url"
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/web"
	authmw "github.com/apota/mydms-sub010/internal/web/middleware/auth"
	"github.com/apota/mydms-sub010/internal/web/session"
)

// Name of the gateway in config.Services.
const Name = "gateway"

// Defaults applied when the config leaves them empty.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultSearchTimeout  = 5 * time.Second
	DefaultRateLimit      = 1000
	DefaultRateExpiration = 15 * time.Minute
)

// Client facing messages.
const (
	MsgNotFound        = "Endpoint not found"
	MsgTooManyRequests = "Too many requests from this IP, please try again later."
)

// LimiterPrefix namespaces the rate limit counters in redis.
const LimiterPrefix = "ratelimit:"

// Options of New.
type Options struct {
	// Verifier checks bearer tokens, required.
	Verifier auth.Verifier
	// Redis backs the rate limiter when cfg.Gateway.RateLimit.UseRedis is set.
	Redis redis.UniversalClient
	// SearchTimeout bounds every backend search, default 5s.
	SearchTimeout time.Duration
}

// Gateway routes requests to the DMS services.
type Gateway struct {
	*web.Service

	backends      map[string]*backend
	names         []string
	searchTimeout time.Duration
}

type backend struct {
	name string
	// url prefixes forwarded paths, origin is its scheme and host where
	// the service answers /search.
	url    string
	origin string
	client *fasthttp.Client
}

// New creates the gateway service for cfg.Gateway.Services.
func New(cfg *config.Config, opts Options) *Gateway {
	gcfg := cfg.Gateway

	timeout := gcfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	g := &Gateway{
		backends:      make(map[string]*backend, len(gcfg.Services)),
		searchTimeout: opts.SearchTimeout,
	}

	if g.searchTimeout == 0 {
		g.searchTimeout = DefaultSearchTimeout
	}

	for name, base := range gcfg.Services {
		g.backends[name] = &backend{
			name:   name,
			url:    trimSlash(base),
			origin: originOf(base),
			client: &fasthttp.Client{
				Name:                     "dms-gateway",
				ReadTimeout:              timeout,
				WriteTimeout:             timeout,
				MaxIdleConnDuration:      time.Minute,
				NoDefaultUserAgentHeader: true,
				DisablePathNormalizing:   true,
			},
		}
		g.names = append(g.names, name)
	}

	slices.Sort(g.names)

	var mw []fiber.Handler
	if gcfg.RateLimit.Enabled {
		mw = append(mw, rateLimiter(gcfg.RateLimit, opts.Redis))
	}

	g.Service = web.New(cfg, web.Options{
		Name:       Name,
		Title:      titleOf(cfg),
		Views:      web.Views(cfg.DevMode),
		Middleware: mw,
		Health:     g.Health,
	})

	public := gcfg.PublicPaths
	if len(public) == 0 {
		public = authmw.DefaultPublicPaths
	}

	guard := authmw.Middleware(opts.Verifier, public)

	g.App.Get("/", g.Index)
	g.App.Get(web.SearchPath, guard, g.Search)
	g.App.All("/:service/*", guard, g.Forward)
	g.App.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(web.ErrorBody{Error: MsgNotFound})
	})

	log.Info().Strs("services", g.names).Msg("gateway routes configured")

	return g
}

// Services returns the routed service names, sorted.
func (g *Gateway) Services() []string {
	return slices.Clone(g.names)
}

func rateLimiter(cfg config.RateLimit, rdb redis.UniversalClient) fiber.Handler {
	limit := cfg.Max
	if limit == 0 {
		limit = DefaultRateLimit
	}

	exp := cfg.Expiration
	if exp == 0 {
		exp = DefaultRateExpiration
	}

	lcfg := limiter.Config{
		Max:        limit,
		Expiration: exp,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(web.ErrorBody{Error: MsgTooManyRequests})
		},
	}

	if cfg.UseRedis {
		if rdb == nil {
			log.Warn().Msg("rate limit redis storage requested without redis, counting in memory")
		} else {
			lcfg.Storage = session.NewRedisStorage(rdb, LimiterPrefix)
		}
	}

	return limiter.New(lcfg)
}

func titleOf(cfg *config.Config) string {
	if cfg.Title != "" {
		return cfg.Title + " API Gateway"
	}

	return "DMS API Gateway"
}

// originOf returns scheme://host of raw, raw itself when it does not parse.
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return trimSlash(raw)
	}

	return u.Scheme + "://" + u.Host
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}

	return s
}
