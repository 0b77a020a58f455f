package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"rewrite-proxy-go/internal/metrics"
	"rewrite-proxy-go/internal/model"
	"rewrite-proxy-go/internal/proxy"
)

// hopByHopResponseHeaders are upstream response headers that describe the
// proxy-to-upstream connection and must not be relayed to the client.
var hopByHopResponseHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// ProxyHandler adapts one proxy instance to an Echo route, streaming
// upstream responses back and rendering proxy errors as a fixed
// internal-error response with an empty body.
type ProxyHandler struct {
	proxy   *proxy.Proxy
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewProxyHandler creates a ProxyHandler. The metrics parameter is optional;
// pass nil to disable rewrite-failure counting.
func NewProxyHandler(p *proxy.Proxy, logger *slog.Logger, m *metrics.Metrics) *ProxyHandler {
	return &ProxyHandler{
		proxy:   p,
		logger:  logger.With("component", "proxy_handler"),
		metrics: m,
	}
}

// Handle forwards the request through the proxy instance and streams the
// upstream response back. The proxy call itself cannot fail; an Outcome
// carrying an error becomes a 500 with an empty body, and the error's
// descriptive text goes to the log only.
func (h *ProxyHandler) Handle(c echo.Context) error {
	req := c.Request()

	out := h.proxy.Call(model.NewProxyRequest(req))
	if out.Err != nil {
		h.logger.Error("proxy error",
			"kind", out.Err.Kind.String(),
			"err", out.Err.Error(),
			"path", req.URL.Path,
		)
		if h.metrics != nil && out.Err.Kind == proxy.KindRewrite {
			h.metrics.RewriteFailures.WithLabelValues(metrics.NormalizeRoute(c.Path())).Inc()
		}
		return c.NoContent(http.StatusInternalServerError)
	}

	resp := out.Resp
	defer func() { _ = resp.Body.Close() }()

	for key, vals := range resp.Header {
		if hopByHopResponseHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		for _, v := range vals {
			c.Response().Header().Add(key, v)
		}
	}

	c.Response().WriteHeader(resp.StatusCode)

	// Stream the upstream body directly to the client. If io.Copy fails
	// mid-stream (e.g. client disconnect, network error), the HTTP status
	// code has already been sent, so the client receives a truncated
	// response with the original status. This is an inherent trade-off of
	// streaming proxies — we log the error for observability.
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		h.logger.Error("streaming response body",
			"err", err,
			"path", req.URL.Path,
		)
	}

	return nil
}

// Close releases the underlying proxy instance's transport if it owns one
// exclusively.
func (h *ProxyHandler) Close() {
	h.proxy.Close()
}
