package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/harishn/shopapi/internal/middleware/auth"
)

func Me(c echo.Context) error {
	user, ok := mwauth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"email":   user.Email,
		"message": "You are authenticated.",
	})
}
