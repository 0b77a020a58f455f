// Package model defines shared types for the proxy.
package model

import (
	"context"
	"io"
	"net/http"
)

// ProxyRequest represents a client request to be forwarded upstream.
// ContentLength follows http.Request semantics: >= 0 is a known body length,
// -1 means unknown.
type ProxyRequest struct {
	Ctx           context.Context
	Method        string
	Path          string
	RawQuery      string
	Header        http.Header
	Body          io.ReadCloser
	ContentLength int64
}

// NewProxyRequest builds a ProxyRequest from an inbound HTTP request. The
// body is taken over as-is; it is not buffered or re-encoded.
func NewProxyRequest(r *http.Request) *ProxyRequest {
	return &ProxyRequest{
		Ctx:           r.Context(),
		Method:        r.Method,
		Path:          r.URL.EscapedPath(),
		RawQuery:      r.URL.RawQuery,
		Header:        r.Header,
		Body:          r.Body,
		ContentLength: r.ContentLength,
	}
}

// PathAndQuery returns the combined path+query string that rewrite rules
// operate on, e.g. "/foo/bar?x=1".
func (p *ProxyRequest) PathAndQuery() string {
	if p.RawQuery == "" {
		return p.Path
	}
	return p.Path + "?" + p.RawQuery
}

// UpstreamResponse represents the upstream response to be streamed back.
type UpstreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}
