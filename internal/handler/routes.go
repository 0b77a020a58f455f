package handler

import (
	"github.com/labstack/echo/v4"
)

// ProxyRoute pairs a registered path pattern with its proxy handler.
type ProxyRoute struct {
	Pattern string
	Handler *ProxyHandler
}

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, routes []ProxyRoute, health *HealthHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/proxy/status", health.Status)

	for _, r := range routes {
		e.Any(r.Pattern, r.Handler.Handle)
	}
}
