package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/harishn/shopapi/internal/models"
)

const userContextKey = "user"

func BearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
	return parts[1], nil
}

func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(userContextKey).(*models.User)
	return user, ok
}

func setCurrentUser(c echo.Context, user *models.User) {
	c.Set(userContextKey, user)
}
