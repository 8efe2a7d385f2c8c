package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/harishn/shopapi/internal/logging"
	"github.com/harishn/shopapi/internal/models"
	"github.com/harishn/shopapi/internal/mykafka"
	"github.com/harishn/shopapi/internal/service/search"
)

// AdminProductHandler owns the catalog mutations; every route it serves is
// behind the admin gate.
type AdminProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

type productRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	URL           string  `json:"url"`
	StockQuantity uint    `json:"stock_quantity"`
}

func (h *AdminProductHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["product_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *AdminProductHandler) index(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexProduct(ctx, h.ES, h.Index, p); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index failed", "product_id", p.ID, "error", err)
	}
}

func (h *AdminProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_product_create")

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and category are required")
	}

	prod := models.Product{
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		Price:         req.Price,
		URL:           req.URL,
		StockQuantity: req.StockQuantity,
	}
	if err := h.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		l.Error("product_create_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.index(c, &prod)
	h.publish(c, map[string]interface{}{
		"type":       "product_created",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	return c.JSON(http.StatusCreated, prod)
}

// ReplaceProduct is the full-document PUT.
func (h *AdminProductHandler) ReplaceProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_product_replace")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID format")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("product_replace_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	prod.Name = req.Name
	prod.Category = req.Category
	prod.Description = req.Description
	prod.Price = req.Price
	prod.URL = req.URL
	prod.StockQuantity = req.StockQuantity

	if err := h.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		l.Error("product_replace_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.index(c, &prod)
	h.publish(c, map[string]interface{}{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product updated successfully",
		"product": prod,
	})
}

// UpdateProduct is the partial PATCH; only provided fields change.
func (h *AdminProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_product_update")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID format")
	}

	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	allowed := map[string]bool{
		"name": true, "category": true, "description": true,
		"price": true, "url": true, "stock_quantity": true,
	}
	updates := map[string]interface{}{}
	for k, v := range body {
		if allowed[k] && v != nil {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields provided for update")
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		l.Error("product_update_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	if err := h.DB.WithContext(ctx).Model(&prod).Updates(updates).Error; err != nil {
		l.Error("product_update_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.index(c, &prod)
	h.publish(c, map[string]interface{}{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Product updated successfully"})
}

func (h *AdminProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_product_delete")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID format")
	}

	result := h.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		l.Error("product_delete_failed", "error", result.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	if h.ES != nil {
		ctxES, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := search.DeleteProduct(ctxES, h.ES, h.Index, uint(id)); err != nil {
			l.Error("es delete failed", "product_id", id, "error", err)
		}
		cancel()
	}
	h.publish(c, map[string]interface{}{
		"type":       "product_deleted",
		"product_id": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
