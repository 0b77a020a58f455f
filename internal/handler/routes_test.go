package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"rewrite-proxy-go/internal/rewrite"
)

func TestRegisterRoutes_WiresProxyRoutes(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
	}))
	defer upstream.Close()

	routes := []ProxyRoute{
		{
			Pattern: "/users/*",
			Handler: NewProxyHandler(newTestProxy(t, upstream.URL, rewrite.TrimPrefix("/users")), discardLogger(), nil),
		},
	}
	health := NewHealthHandler("test", routes)

	e := echo.New()
	RegisterRoutes(e, routes, health)

	req := httptest.NewRequest(http.MethodGet, "/users/42", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotPath != "/42" {
		t.Errorf("upstream path = %q, want %q", gotPath, "/42")
	}
}

func TestRegisterRoutes_MethodAgnostic(t *testing.T) {
	var gotMethod string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer upstream.Close()

	routes := []ProxyRoute{
		{
			Pattern: "/api/*",
			Handler: NewProxyHandler(newTestProxy(t, upstream.URL, rewrite.AppendSuffix("/")), discardLogger(), nil),
		},
	}
	health := NewHealthHandler("test", routes)

	e := echo.New()
	RegisterRoutes(e, routes, health)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/things", http.NoBody)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want %d", method, rec.Code, http.StatusOK)
		}
		if gotMethod != method {
			t.Errorf("upstream method = %q, want %q", gotMethod, method)
		}
	}
}

func TestHealthz(t *testing.T) {
	health := NewHealthHandler("1.2.3", nil)

	e := echo.New()
	RegisterRoutes(e, nil, health)

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestStatus_ListsRoutes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer upstream.Close()

	routes := []ProxyRoute{
		{
			Pattern: "/users/*",
			Handler: NewProxyHandler(newTestProxy(t, upstream.URL, rewrite.TrimPrefix("/users")), discardLogger(), nil),
		},
	}
	health := NewHealthHandler("1.2.3", routes)

	e := echo.New()
	RegisterRoutes(e, routes, health)

	req := httptest.NewRequest(http.MethodGet, "/proxy/status", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Status  string        `json:"status"`
		Version string        `json:"version"`
		Routes  []routeStatus `json:"routes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}

	if body.Version != "1.2.3" {
		t.Errorf("version = %q, want 1.2.3", body.Version)
	}
	if len(body.Routes) != 1 {
		t.Fatalf("len(routes) = %d, want 1", len(body.Routes))
	}
	if body.Routes[0].Pattern != "/users/*" {
		t.Errorf("pattern = %q, want /users/*", body.Routes[0].Pattern)
	}
	if body.Routes[0].Rule != `trim_prefix("/users")` {
		t.Errorf("rule = %q, want trim_prefix(\"/users\")", body.Routes[0].Rule)
	}
}
