package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/harishn/shopapi/internal/logging"
	"github.com/harishn/shopapi/internal/models"
)

type ProductHandler struct {
	DB *gorm.DB
}

var sortFields = map[string]string{
	"price":          "price",
	"name":           "name",
	"likes":          "likes",
	"created_at":     "created_at",
	"stock_quantity": "stock_quantity",
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products_list")

	q := h.DB.WithContext(ctx).Model(&models.Product{})

	if category := c.QueryParam("category"); category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", category)
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q = q.Where("price >= ?", v)
		}
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q = q.Where("price <= ?", v)
		}
	}

	sortBy, ok := sortFields[c.QueryParam("sort_by")]
	if !ok {
		sortBy = "price"
	}
	order := sortBy + " ASC"
	if c.QueryParam("sort_order") == "-1" {
		order = sortBy + " DESC"
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := parseIntDefault(c.QueryParam("limit"), 30)
	if limit < 1 || limit > 100 {
		limit = 30
	}
	offset := (page - 1) * limit

	var items []models.Product
	if err := q.Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		l.Error("products_list_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID format")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		logging.FromContext(ctx).Error("product_get_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, product)
}
