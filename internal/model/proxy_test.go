package model

import (
	"net/http/httptest"
	"testing"
)

func TestPathAndQuery(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"path only", "/foo/bar", "/foo/bar"},
		{"path with query", "/foo?x=1&y=2", "/foo?x=1&y=2"},
		{"encoded query preserved", "/foo?greeting=good%20day", "/foo?greeting=good%20day"},
		{"encoded path preserved", "/a%2Fb", "/a%2Fb"},
		{"root", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			pr := NewProxyRequest(req)
			if got := pr.PathAndQuery(); got != tt.want {
				t.Errorf("PathAndQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewProxyRequest_CopiesParts(t *testing.T) {
	req := httptest.NewRequest("POST", "/a/b?x=1", nil)
	req.Header.Set("X-Trace", "abc")

	pr := NewProxyRequest(req)

	if pr.Method != "POST" {
		t.Errorf("Method = %q, want POST", pr.Method)
	}
	if pr.Path != "/a/b" {
		t.Errorf("Path = %q, want /a/b", pr.Path)
	}
	if pr.RawQuery != "x=1" {
		t.Errorf("RawQuery = %q, want x=1", pr.RawQuery)
	}
	if pr.Header.Get("X-Trace") != "abc" {
		t.Errorf("Header X-Trace = %q, want abc", pr.Header.Get("X-Trace"))
	}
	if pr.Ctx == nil {
		t.Error("Ctx must not be nil")
	}
}
