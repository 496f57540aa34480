package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminAuth guards the management routes with a static token from config.
// Later this can grow into proper user sessions; the admin panel only
// needs one operator credential today.
func AdminAuth(adminToken string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get("X-Admin-Token")
			if adminToken == "" ||
				subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "admin token required")
			}
			return next(c)
		}
	}
}
