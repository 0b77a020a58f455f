// Package proxy implements the request-forwarding core: it applies a rewrite
// rule to an inbound request's path+query, reconstructs the request against a
// fixed upstream target, sends it through an upstream client, and folds the
// result into an Outcome that never fails at the call level.
package proxy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"rewrite-proxy-go/internal/client"
	"rewrite-proxy-go/internal/model"
	"rewrite-proxy-go/internal/rewrite"
)

// Outcome is the terminal result of a proxy call. Exactly one of Resp and
// Err is set. The call operation itself never fails; failure only appears
// here, so the proxy composes as an infallible handler inside a router.
type Outcome struct {
	Resp *model.UpstreamResponse
	Err  *Error
}

// Ok reports whether the call reached the upstream and got a response.
func (o *Outcome) Ok() bool { return o.Err == nil }

// Proxy forwards requests to one upstream target after rewriting the
// path+query with one rule. Instances are immutable after construction and
// safe for concurrent use; independent calls share nothing but the
// (possibly shared) upstream client.
type Proxy struct {
	rule   rewrite.Rule
	target Target
	client *client.UpstreamClient
	owned  bool
	logger *slog.Logger
}

// Rule returns the rewrite rule this instance applies.
func (p *Proxy) Rule() rewrite.Rule { return p.rule }

// Target returns the upstream target this instance forwards to.
func (p *Proxy) Target() Target { return p.target }

// Call rewrites and forwards one request. It never returns a Go error:
// rewrite and transport failures are folded into the Outcome. There are no
// retries; a transport failure is surfaced once and the call terminates.
// Cancellation of pr.Ctx propagates to the in-flight upstream request.
func (p *Proxy) Call(pr *model.ProxyRequest) *Outcome {
	req, err := p.rebuild(pr)
	if err != nil {
		return &Outcome{Err: rewriteError(err)}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &Outcome{Err: transportError(err)}
	}

	return &Outcome{Resp: resp}
}

// rebuild applies the rewrite rule and reconstructs the outbound request:
// scheme://authority plus the rewritten path+query, with method, headers and
// body copied verbatim from the inbound request.
func (p *Proxy) rebuild(pr *model.ProxyRequest) (*http.Request, error) {
	pq := p.rule.Apply(pr.PathAndQuery())
	if pq == "" {
		// A rule may strip the entire path (e.g. trim_prefix of the whole
		// input); upstream still needs an origin-form target.
		pq = "/"
	}
	if pq[0] != '/' {
		return nil, fmt.Errorf("rewritten path %q does not start with '/'", pq)
	}

	ctx := pr.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var body io.Reader
	if pr.Body != nil {
		body = pr.Body
	}

	req, err := http.NewRequestWithContext(ctx, pr.Method, p.target.String()+pq, body)
	if err != nil {
		return nil, fmt.Errorf("compose upstream url: %w", err)
	}
	if req.URL.Host != p.target.Authority() {
		return nil, fmt.Errorf("rewritten path %q escapes the target authority", pq)
	}

	if pr.Header != nil {
		req.Header = pr.Header.Clone()
	}
	// Keep the inbound framing: a known body length must not be re-framed
	// as chunked upstream.
	if body != nil && pr.ContentLength > 0 {
		req.ContentLength = pr.ContentLength
	}

	p.logger.Debug("forwarding request",
		"method", pr.Method,
		"path", pr.PathAndQuery(),
		"rewritten", pq,
	)

	return req, nil
}

// Close releases the upstream client's pooled connections when this instance
// owns its client exclusively. For instances minted by a Builder the client
// is shared and Close is a no-op; the shared client stays usable as long as
// any holder remains.
func (p *Proxy) Close() {
	if p.owned {
		p.client.CloseIdleConnections()
	}
}
