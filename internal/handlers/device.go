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

	"github.com/phuwanat/devicehub/internal/logging"
	"github.com/phuwanat/devicehub/internal/models"
	"github.com/phuwanat/devicehub/internal/mykafka"
	"github.com/phuwanat/devicehub/internal/service/search"
	"github.com/phuwanat/devicehub/internal/util"
)

type DeviceHandler struct {
	DB       *gorm.DB
	Producer mykafka.Publisher
	Search   search.Indexer
}

type deviceRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

func (r *deviceRequest) validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
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

func (h *DeviceHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "device_events", fmt.Sprint(event["deviceID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "err", err)
	}
}

func (h *DeviceHandler) index(c echo.Context, d models.Device) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Search.IndexDevice(ctx, d); err != nil {
		logging.FromContext(ctx).Error("search index error", "err", err)
	}
}

func (h *DeviceHandler) ListDevices(c echo.Context) error {
	query := h.DB.Model(&models.Device{})
	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	// new session so the count and the page query don't share a statement
	query = query.Session(&gorm.Session{})

	// Without paging params the full list comes back, the way the
	// public catalog page consumes it.
	if c.QueryParam("page") == "" && c.QueryParam("size") == "" {
		var devices []models.Device
		if err := query.Order("id ASC").Find(&devices).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, devices)
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Device
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *DeviceHandler) GetDevice(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid device id")
	}

	var device models.Device
	if err := h.DB.First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "device not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, device)
}

func (h *DeviceHandler) CreateDevice(c echo.Context) error {
	var req deviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	device := models.Device{
		Name:        req.Name,
		Category:    req.Category,
		Brand:       req.Brand,
		Model:       req.Model,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}
	if err := h.DB.Create(&device).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "device_created",
		"deviceID": device.ID,
		"name":     device.Name,
	})
	h.index(c, device)

	return c.JSON(http.StatusCreated, device)
}

func (h *DeviceHandler) UpdateDevice(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid device id")
	}

	var req deviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var device models.Device
	if err := h.DB.First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "device not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	device.Name = req.Name
	device.Category = req.Category
	device.Brand = req.Brand
	device.Model = req.Model
	device.Description = req.Description
	device.Price = req.Price
	device.ImageURL = req.ImageURL

	if err := h.DB.Save(&device).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "device_updated",
		"deviceID": device.ID,
		"name":     device.Name,
	})
	h.index(c, device)

	return c.JSON(http.StatusOK, device)
}

func (h *DeviceHandler) DeleteDevice(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid device id")
	}

	var device models.Device
	if err := h.DB.First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "device not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Delete(&models.Device{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "device_deleted",
		"deviceID": device.ID,
	})

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Search.DeleteDevice(ctx, device.ID); err != nil {
		logging.FromContext(ctx).Error("search index error", "err", err)
	}

	return c.NoContent(http.StatusNoContent)
}
