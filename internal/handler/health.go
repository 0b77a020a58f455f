package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	version Version
	routes  []ProxyRoute
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(v Version, routes []ProxyRoute) *HealthHandler {
	return &HealthHandler{version: v, routes: routes}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// routeStatus describes one configured route in the status response.
type routeStatus struct {
	Pattern  string `json:"pattern"`
	Upstream string `json:"upstream"`
	Rule     string `json:"rule"`
}

// Status returns proxy status information, including the route table.
func (h *HealthHandler) Status(c echo.Context) error {
	routes := make([]routeStatus, 0, len(h.routes))
	for _, r := range h.routes {
		routes = append(routes, routeStatus{
			Pattern:  r.Pattern,
			Upstream: r.Handler.proxy.Target().String(),
			Rule:     r.Handler.proxy.Rule().String(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": string(h.version),
		"routes":  routes,
	})
}
