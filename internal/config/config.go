// Package config handles TOML configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"rewrite-proxy-go/internal/client"
	"rewrite-proxy-go/internal/proxy"
	"rewrite-proxy-go/internal/rewrite"
)

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/rewrite-proxy/config.toml",
	"configs/config.toml",
}

// CLI holds command-line arguments parsed by Kong.
type CLI struct {
	Config   string `kong:"short='c',help='Path to TOML config file.',env='CONFIG_PATH'"`
	Host     string `kong:"help='Listen host (overrides config).',env='HOST'"`
	Port     int    `kong:"short='p',help='Listen port (overrides config).',env='PORT'"`
	LogLevel string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Routes   []RouteConfig  `toml:"routes"`
	Log      LogConfig      `toml:"log"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string          `toml:"host"`
	Port         int             `toml:"port"` // 0 means "use default" (8000); TOML cannot distinguish 0 from unset
	BodyMaxBytes int64           `toml:"body_max_bytes"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig controls per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// UpstreamConfig holds upstream connection settings shared by all routes.
type UpstreamConfig struct {
	TimeoutSeconds  int `toml:"timeout_seconds"`
	IdleConnections int `toml:"idle_connections"`
}

// ClientConfig converts the upstream settings into a client configuration.
func (u UpstreamConfig) ClientConfig() client.Config {
	return client.Config{
		TimeoutSeconds:  u.TimeoutSeconds,
		IdleConnections: u.IdleConnections,
	}
}

// RouteConfig declares one proxied route: an Echo path pattern, the upstream
// base URL to forward to, and the rewrite rule to apply. Routes sharing an
// upstream share one connection pool unless dedicated_transport is set.
type RouteConfig struct {
	Pattern            string     `toml:"pattern"`
	Upstream           string     `toml:"upstream"`
	DedicatedTransport bool       `toml:"dedicated_transport"`
	Rule               RuleConfig `toml:"rule"`
}

// Rule kinds accepted in route configuration.
const (
	RuleReplaceAll   = "replace_all"
	RuleReplaceN     = "replace_n"
	RuleTrimPrefix   = "trim_prefix"
	RuleAppendSuffix = "append_suffix"
	RuleStatic       = "static"
)

// RuleConfig is the declarative form of a rewrite rule. Which fields are
// required depends on Kind; Compile enforces that.
type RuleConfig struct {
	Kind   string `toml:"kind"`
	From   string `toml:"from"`
	To     string `toml:"to"`
	N      int    `toml:"n"`
	Prefix string `toml:"prefix"`
	Suffix string `toml:"suffix"`
	Path   string `toml:"path"`
}

// Compile validates the declared rule and turns it into a rewrite.Rule.
func (rc RuleConfig) Compile() (rewrite.Rule, error) {
	switch rc.Kind {
	case RuleReplaceAll:
		if rc.From == "" {
			return rewrite.Rule{}, fmt.Errorf("rule %s: from must not be empty", rc.Kind)
		}
		return rewrite.ReplaceAll(rc.From, rc.To), nil
	case RuleReplaceN:
		if rc.From == "" {
			return rewrite.Rule{}, fmt.Errorf("rule %s: from must not be empty", rc.Kind)
		}
		if rc.N < 0 {
			return rewrite.Rule{}, fmt.Errorf("rule %s: n must be non-negative; got %d", rc.Kind, rc.N)
		}
		return rewrite.ReplaceN(rc.From, rc.To, rc.N), nil
	case RuleTrimPrefix:
		if rc.Prefix == "" {
			return rewrite.Rule{}, fmt.Errorf("rule %s: prefix must not be empty", rc.Kind)
		}
		return rewrite.TrimPrefix(rc.Prefix), nil
	case RuleAppendSuffix:
		if rc.Suffix == "" {
			return rewrite.Rule{}, fmt.Errorf("rule %s: suffix must not be empty", rc.Kind)
		}
		return rewrite.AppendSuffix(rc.Suffix), nil
	case RuleStatic:
		if !strings.HasPrefix(rc.Path, "/") {
			return rewrite.Rule{}, fmt.Errorf("rule %s: path must start with '/'; got %q", rc.Kind, rc.Path)
		}
		return rewrite.Static(rc.Path), nil
	case "":
		return rewrite.Rule{}, fmt.Errorf("rule kind is required")
	}
	return rewrite.Rule{}, fmt.Errorf("unknown rule kind %q", rc.Kind)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Load reads the TOML config file and applies CLI overrides.
// When no explicit path is given (via --config or CONFIG_PATH), it searches
// /etc/rewrite-proxy/config.toml then configs/config.toml.
func Load(cli *CLI) (*Config, error) {
	path := cli.Config
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return nil, fmt.Errorf("config: no config file found (searched %v)", configSearchPaths)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyCLI(cli)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.Host != "" {
		c.Server.Host = cli.Host
	}
	if cli.Port != 0 {
		c.Server.Port = cli.Port
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
}

// reservedRoutes are patterns the proxy claims for itself.
var reservedRoutes = []string{"/healthz", "/proxy/status"}

func (c *Config) validate() error {
	// Route table: required, each route complete and well-formed.
	if len(c.Routes) == 0 {
		return fmt.Errorf("at least one [[routes]] entry is required")
	}
	seen := make(map[string]bool, len(c.Routes))
	for i, r := range c.Routes {
		if r.Pattern == "" || r.Pattern[0] != '/' {
			return fmt.Errorf("routes[%d].pattern must start with '/'; got %q", i, r.Pattern)
		}
		for _, reserved := range reservedRoutes {
			if r.Pattern == reserved {
				return fmt.Errorf("routes[%d].pattern %q conflicts with reserved route", i, r.Pattern)
			}
		}
		if seen[r.Pattern] {
			return fmt.Errorf("routes[%d].pattern %q is declared twice", i, r.Pattern)
		}
		seen[r.Pattern] = true

		if r.Upstream == "" {
			return fmt.Errorf("routes[%d].upstream is required", i)
		}
		if _, err := proxy.ParseTarget(r.Upstream); err != nil {
			return fmt.Errorf("routes[%d].upstream: %w", i, err)
		}
		if _, err := r.Rule.Compile(); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
	}

	// Numeric bounds.
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 0–65535; got %d", c.Server.Port)
	}
	if c.Server.BodyMaxBytes < 0 {
		return fmt.Errorf("server.body_max_bytes must be non-negative; got %d", c.Server.BodyMaxBytes)
	}
	if c.Upstream.TimeoutSeconds < 0 {
		return fmt.Errorf("upstream.timeout_seconds must be non-negative; got %d", c.Upstream.TimeoutSeconds)
	}
	if c.Upstream.IdleConnections < 0 {
		return fmt.Errorf("upstream.idle_connections must be non-negative; got %d", c.Upstream.IdleConnections)
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("server.rate_limit.requests_per_second must be > 0 when rate limiting is enabled; got %v", c.Server.RateLimit.RequestsPerSecond)
	}

	// Log fields.
	level := strings.ToLower(c.Log.Level)
	switch level {
	case "debug", "info", "warn", "error", "":
		// valid
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	format := strings.ToLower(c.Log.Format)
	switch format {
	case "json", "text", "":
		// valid
	default:
		return fmt.Errorf("log.format must be one of: json, text; got %q", c.Log.Format)
	}

	// Metrics path validation (only when metrics are enabled).
	if c.Metrics.Enabled && c.Metrics.Path != "" {
		p := c.Metrics.Path
		if p[0] != '/' {
			return fmt.Errorf("metrics.path must start with '/'; got %q", p)
		}
		for _, reserved := range reservedRoutes {
			if p == reserved || strings.HasPrefix(p, reserved+"/") {
				return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, reserved)
			}
		}
		for _, r := range c.Routes {
			if p == r.Pattern {
				return fmt.Errorf("metrics.path %q conflicts with routes pattern %q", p, r.Pattern)
			}
		}
	}

	return nil
}

// setDefaults fills zero-valued fields with sensible defaults.
// For integer fields (Port, BodyMaxBytes, etc.), zero means "unset" because TOML
// cannot distinguish between an explicit 0 and an omitted key. Setting port=0 in
// the config file therefore results in the default port (8000).
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 10 * 1024 * 1024 // 10 MB
	}
	if c.Upstream.TimeoutSeconds == 0 {
		c.Upstream.TimeoutSeconds = 120
	}
	if c.Upstream.IdleConnections == 0 {
		c.Upstream.IdleConnections = 100
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// findConfig returns the first config path that exists, or empty string.
func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the server listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
