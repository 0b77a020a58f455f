package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// hopByHopHeaders are headers that must not travel through a proxy hop.
// The forwarding core copies headers verbatim, so stripping these before it
// runs is this middleware's job.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// SecurityHeaders returns an Echo middleware that strips hop-by-hop headers
// from incoming requests and adds security headers to responses.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header

			// Headers named by Connection are hop-by-hop too (RFC 9110 §7.6.1).
			for _, name := range header.Values("Connection") {
				for _, h := range strings.Split(name, ",") {
					if h = strings.TrimSpace(h); h != "" {
						header.Del(h)
					}
				}
			}
			for _, h := range hopByHopHeaders {
				header.Del(h)
			}

			err := next(c)

			c.Response().Header().Set("X-Content-Type-Options", "nosniff")
			c.Response().Header().Set("X-Frame-Options", "DENY")

			return err
		}
	}
}
