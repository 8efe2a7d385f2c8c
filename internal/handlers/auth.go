package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harishn/shopapi/internal/logging"
	mwauth "github.com/harishn/shopapi/internal/middleware/auth"
	"github.com/harishn/shopapi/internal/mykafka"
	authsvc "github.com/harishn/shopapi/internal/service/auth"
)

type AuthHandler struct {
	Svc      *authsvc.Service
	Producer *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Register(ctx, req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
		case errors.Is(err, authsvc.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("signup_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
		}
	}

	h.publish(c, req.Email, map[string]interface{}{
		"type":     "user_registered",
		"email":    req.Email,
		"username": req.Username,
	})

	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

// Login accepts the OAuth2 password form shape: the "username" field carries
// the account email.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	email := c.FormValue("username")
	password := c.FormValue("password")

	pair, err := h.Svc.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		l.Error("login_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, email, map[string]interface{}{
		"type":  "user_logged_in",
		"email": email,
	})

	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
		}
		l.Error("refresh_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, pair)
}

// Logout always reports success: an invalid or expired token is already
// logged out, and internal failures are swallowed by the service.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := mwauth.BearerToken(c)
	if err != nil {
		return err
	}
	h.Svc.Logout(c.Request().Context(), token)
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}
