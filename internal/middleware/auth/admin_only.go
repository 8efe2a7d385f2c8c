package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminOnly must run after RequireLogin; it only checks the role of the
// already-authenticated identity.
func (g *Gate) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}
		if user.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "Admin privileges required")
		}
		return next(c)
	}
}
