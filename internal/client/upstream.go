// Package client provides the upstream HTTP client used to forward requests.
package client

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"rewrite-proxy-go/internal/metrics"
	"rewrite-proxy-go/internal/model"
)

// Config holds upstream connection settings for a single client. The zero
// value means "no client timeout" and default pooling.
type Config struct {
	TimeoutSeconds  int
	IdleConnections int
}

// UpstreamClient sends requests to an upstream server. It wraps an
// *http.Client with connection pooling and is safe for concurrent use by any
// number of proxy instances sharing it.
type UpstreamClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewUpstreamClient creates an UpstreamClient with connection pooling and timeouts.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func NewUpstreamClient(cfg Config, logger *slog.Logger, m *metrics.Metrics) *UpstreamClient {
	transport := &http.Transport{
		MaxIdleConns:        cfg.IdleConnections,
		MaxIdleConnsPerHost: cfg.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &UpstreamClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			// Redirects are passed through to the caller, never chased:
			// the proxy forwards to exactly one configured upstream and
			// returns that upstream's response as-is.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger:  logger.With("component", "upstream_client"),
		metrics: m,
	}
}

// Do executes an HTTP request against the upstream and returns the response.
// The caller is responsible for closing the response body. The request's
// context controls the lifetime of the call: when it is canceled (e.g. the
// client disconnects), the upstream request is canceled with it.
func (c *UpstreamClient) Do(req *http.Request) (*model.UpstreamResponse, error) {
	c.logger.Debug("upstream request",
		"method", req.Method,
		"url", req.URL.String(),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:bodyclose // body ownership transfers to caller via UpstreamResponse
	duration := time.Since(start).Seconds()

	method := metrics.NormalizeMethod(req.Method)

	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamDuration.WithLabelValues(method).Observe(duration)
		}
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	if c.metrics != nil {
		status := strconv.Itoa(resp.StatusCode)
		c.metrics.UpstreamDuration.WithLabelValues(method).Observe(duration)
		c.metrics.UpstreamResponses.WithLabelValues(method, status).Inc()
	}

	return &model.UpstreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}

// CloseIdleConnections tears down pooled connections. Used when a proxy
// instance exclusively owns its client and is being shut down.
func (c *UpstreamClient) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
