package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"golang.org/x/time/rate"

	"rewrite-proxy-go/internal/config"
	"rewrite-proxy-go/internal/handler"
	"rewrite-proxy-go/internal/metrics"
	"rewrite-proxy-go/internal/middleware"
	"rewrite-proxy-go/internal/proxy"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var cli config.CLI
	kong.Parse(&cli,
		kong.Name("rewrite-proxy"),
		kong.Description("Reverse proxy with configurable path rewriting rules."),
		kong.Vars{"version": fmt.Sprintf("%s (%s, %s)", version, commit, date)},
	)

	fx.New(
		fx.Provide(
			func() *config.CLI { return &cli },
			func() handler.Version { return handler.Version(version) },
			config.Load,
			newLogger,
			newMetrics,
			newEcho,
			newRoutes,
			handler.NewHealthHandler,
		),
		fx.Invoke(handler.RegisterRoutes, registerMetricsEndpoint, startServer),
	).Run()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "text":
		h = slog.NewTextHandler(os.Stdout, opts)
	default:
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(h)
}

// newMetrics returns the Prometheus collectors, or nil when metrics are
// disabled; downstream consumers are nil-safe.
func newMetrics(cfg *config.Config) *metrics.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New()
}

func newEcho(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Inbound timeouts to mitigate slow-client attacks.
	e.Server.ReadTimeout = 30 * time.Second
	// WriteTimeout is disabled (0) to avoid cutting off valid long-running streamed
	// responses. Protection is provided by the upstream client timeout, ReadTimeout,
	// and IdleTimeout.
	e.Server.WriteTimeout = 0
	e.Server.IdleTimeout = 120 * time.Second
	e.Server.ReadHeaderTimeout = 10 * time.Second

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	if m != nil {
		e.Use(middleware.MetricsMiddleware(m))
	}
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dB", cfg.Server.BodyMaxBytes)))
	e.Use(middleware.SecurityHeaders())

	if cfg.Server.RateLimit.Enabled {
		store := echomw.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimit.RequestsPerSecond))
		e.Use(echomw.RateLimiter(store))
		logger.Info("rate limiter enabled", "rps", cfg.Server.RateLimit.RequestsPerSecond)
	}

	return e
}

// newRoutes builds one proxy instance per configured route. Routes pointing
// at the same upstream share one builder and therefore one connection pool,
// unless the route asks for a dedicated transport.
func newRoutes(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) ([]handler.ProxyRoute, error) {
	builders := make(map[string]*proxy.Builder)
	routes := make([]handler.ProxyRoute, 0, len(cfg.Routes))

	for _, rc := range cfg.Routes {
		rule, err := rc.Rule.Compile()
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", rc.Pattern, err)
		}
		target, err := proxy.ParseTarget(rc.Upstream)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", rc.Pattern, err)
		}

		var p *proxy.Proxy
		if rc.DedicatedTransport {
			p = proxy.NewOneshot(target, cfg.Upstream.ClientConfig(), rule, logger, m)
		} else {
			b, ok := builders[target.String()]
			if !ok {
				b = proxy.NewBuilder(target, cfg.Upstream.ClientConfig(), logger, m)
				builders[target.String()] = b
			}
			p = b.Build(rule)
		}

		logger.Info("route configured",
			"pattern", rc.Pattern,
			"upstream", target.String(),
			"rule", rule.String(),
			"dedicated_transport", rc.DedicatedTransport,
		)

		routes = append(routes, handler.ProxyRoute{
			Pattern: rc.Pattern,
			Handler: handler.NewProxyHandler(p, logger, m),
		})
	}

	return routes, nil
}

func registerMetricsEndpoint(e *echo.Echo, cfg *config.Config, m *metrics.Metrics) {
	if m == nil {
		return
	}
	e.GET(cfg.Metrics.Path, echo.WrapHandler(
		promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
	))
}

func startServer(lc fx.Lifecycle, e *echo.Echo, cfg *config.Config, routes []handler.ProxyRoute, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			addr := cfg.Server.Addr()
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("bind %s: %w", addr, err)
			}
			logger.Info("starting server", "addr", addr)
			go func() {
				if err := e.Server.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			err := e.Shutdown(ctx)
			for _, r := range routes {
				r.Handler.Close()
			}
			return err
		},
	})
}
