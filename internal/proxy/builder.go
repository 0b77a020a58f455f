package proxy

import (
	"log/slog"

	"rewrite-proxy-go/internal/client"
	"rewrite-proxy-go/internal/metrics"
	"rewrite-proxy-go/internal/rewrite"
)

// Builder binds one upstream target and one shared UpstreamClient, and mints
// proxy instances that differ only in their rewrite rule. All instances
// built from the same Builder share the same client and its connection pool.
type Builder struct {
	target Target
	client *client.UpstreamClient
	logger *slog.Logger
}

// NewBuilder creates a Builder with its own shared upstream client.
// The metrics parameter is optional; pass nil to disable upstream metrics.
func NewBuilder(target Target, cfg client.Config, logger *slog.Logger, m *metrics.Metrics) *Builder {
	return &Builder{
		target: target,
		client: client.NewUpstreamClient(cfg, logger, m),
		logger: logger.With("component", "proxy"),
	}
}

// NewBuilderHTTP creates a plain-HTTP Builder from an authority like
// "example.com:1234".
func NewBuilderHTTP(authority string, cfg client.Config, logger *slog.Logger, m *metrics.Metrics) (*Builder, error) {
	target, err := NewTarget("http", authority)
	if err != nil {
		return nil, err
	}
	return NewBuilder(target, cfg, logger, m), nil
}

// NewBuilderHTTPS creates an HTTPS Builder from an authority.
func NewBuilderHTTPS(authority string, cfg client.Config, logger *slog.Logger, m *metrics.Metrics) (*Builder, error) {
	target, err := NewTarget("https", authority)
	if err != nil {
		return nil, err
	}
	return NewBuilder(target, cfg, logger, m), nil
}

// Target returns the upstream target bound to this builder.
func (b *Builder) Target() Target { return b.target }

// Build mints a proxy instance sharing the builder's client. Building is
// cheap and side-effect-free; it may be called repeatedly.
func (b *Builder) Build(rule rewrite.Rule) *Proxy {
	return &Proxy{
		rule:   rule,
		target: b.target,
		client: b.client,
		logger: b.logger,
	}
}

// NewOneshot mints a proxy instance that exclusively owns its upstream
// client. Closing the instance tears the client's connection pool down.
func NewOneshot(target Target, cfg client.Config, rule rewrite.Rule, logger *slog.Logger, m *metrics.Metrics) *Proxy {
	return &Proxy{
		rule:   rule,
		target: target,
		client: client.NewUpstreamClient(cfg, logger, m),
		owned:  true,
		logger: logger.With("component", "proxy"),
	}
}
