package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/harishn/shopapi/internal/logging"
	mwauth "github.com/harishn/shopapi/internal/middleware/auth"
	"github.com/harishn/shopapi/internal/models"
)

type FavoriteHandler struct {
	DB *gorm.DB
}

func (h *FavoriteHandler) GetFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	user, ok := mwauth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	var ids []uint
	if err := h.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ?", user.ID).
		Pluck("product_id", &ids).Error; err != nil {
		logging.FromContext(ctx).Error("favorites_list_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, ids)
}

// ToggleFavorite adds the product if missing and removes it otherwise,
// reporting the resulting state.
func (h *FavoriteHandler) ToggleFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite_toggle")

	user, ok := mwauth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	var fav models.Favorite
	err := h.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).
		First(&fav).Error
	switch {
	case err == nil:
		if err := h.DB.WithContext(ctx).Delete(&fav).Error; err != nil {
			l.Error("favorite_toggle_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Removed from favorites", "is_favorite": false})
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav = models.Favorite{UserID: user.ID, ProductID: req.ProductID}
		if err := h.DB.WithContext(ctx).Create(&fav).Error; err != nil {
			l.Error("favorite_toggle_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Added to favorites", "is_favorite": true})
	default:
		l.Error("favorite_toggle_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
