package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/harishn/shopapi/internal/logging"
	mwauth "github.com/harishn/shopapi/internal/middleware/auth"
	"github.com/harishn/shopapi/internal/models"
	"github.com/harishn/shopapi/internal/mykafka"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *CartHandler) publish(c echo.Context, userID uint, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(userID), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	user, ok := mwauth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	var items []models.CartItem
	if err := h.DB.WithContext(ctx).Where("user_id = ?", user.ID).Find(&items).Error; err != nil {
		logging.FromContext(ctx).Error("cart_list_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, items)
}

// AddToCart adds the product or bumps the quantity of an existing line.
func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_add")

	user, ok := mwauth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var item models.CartItem
	err := h.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).
		First(&item).Error
	switch {
	case err == nil:
		item.Quantity += req.Quantity
		if err := h.DB.WithContext(ctx).Save(&item).Error; err != nil {
			l.Error("cart_add_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{UserID: user.ID, ProductID: req.ProductID, Quantity: req.Quantity}
		if err := h.DB.WithContext(ctx).Create(&item).Error; err != nil {
			l.Error("cart_add_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
		}
	default:
		l.Error("cart_add_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, user.ID, map[string]interface{}{
		"type":       "cart_item_added",
		"user_id":    user.ID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Cart updated"})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_remove")

	user, ok := mwauth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID format")
	}

	result := h.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", user.ID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		l.Error("cart_remove_failed", "error", result.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found in cart")
	}

	h.publish(c, user.ID, map[string]interface{}{
		"type":       "cart_item_removed",
		"user_id":    user.ID,
		"product_id": productID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Item removed from cart"})
}
