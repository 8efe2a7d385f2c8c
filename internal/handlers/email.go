package handlers

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"github.com/harishn/shopapi/internal/email"
)

type EmailHandler struct {
	Notifier *email.Notifier
}

// SendEmailBackground queues the message and returns immediately; delivery
// happens on the notifier's worker.
func (h *EmailHandler) SendEmailBackground(c echo.Context) error {
	var msg email.Message
	if err := c.Bind(&msg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if _, err := mail.ParseAddress(msg.To); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to_email address")
	}
	if msg.Subject == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "subject is required")
	}

	if err := h.Notifier.Enqueue(msg); err != nil {
		if errors.Is(err, email.ErrQueueFull) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "email queue full, try again later")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "Email task scheduled", "to": msg.To})
}
