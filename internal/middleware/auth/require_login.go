package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authsvc "github.com/harishn/shopapi/internal/service/auth"
)

// Gate authenticates bearer tokens and enforces role checks on protected
// route groups.
type Gate struct {
	Svc *authsvc.Service
}

func (g *Gate) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := BearerToken(c)
		if err != nil {
			return err
		}
		user, err := g.Svc.Authenticate(c.Request().Context(), token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}
		setCurrentUser(c, user)
		return next(c)
	}
}
