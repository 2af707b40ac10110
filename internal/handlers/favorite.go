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
	authmw "github.com/phuwanat/devicehub/internal/middleware/auth"
	"github.com/phuwanat/devicehub/internal/models"
	"github.com/phuwanat/devicehub/internal/mykafka"
)

type FavoriteHandler struct {
	DB       *gorm.DB
	Producer mykafka.Publisher
}

func (h *FavoriteHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "favorite_events", fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "err", err)
	}
}

func (h *FavoriteHandler) AddFavorite(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req struct {
		DeviceID uint `json:"deviceId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.DeviceID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "deviceId is required")
	}

	var device models.Device
	if err := h.DB.First(&device, req.DeviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "device not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var existing models.Favorite
	result := h.DB.Where("user_id = ? AND device_id = ?", userID, req.DeviceID).First(&existing)
	if result.Error == nil {
		return echo.NewHTTPError(http.StatusConflict, "device is already a favorite")
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, result.Error.Error())
	}

	favorite := models.Favorite{UserID: userID, DeviceID: req.DeviceID}
	if err := h.DB.Create(&favorite).Error; err != nil {
		// Concurrent duplicate adds land here via the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "device is already a favorite")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "favorite_added",
		"userID":   userID,
		"deviceID": req.DeviceID,
	})

	return c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var devices []models.Device
	if err := h.DB.Model(&models.Device{}).
		Joins("JOIN favorites ON favorites.device_id = devices.id").
		Where("favorites.user_id = ?", userID).
		Order("devices.id ASC").
		Find(&devices).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, devices)
}

func (h *FavoriteHandler) RemoveFavorite(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	deviceID, err := strconv.Atoi(c.Param("deviceId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid device id")
	}

	var favorite models.Favorite
	if err := h.DB.Where("user_id = ? AND device_id = ?", userID, deviceID).First(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "device is not in favorites")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Delete(&favorite).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]interface{}{
		"type":     "favorite_removed",
		"userID":   userID,
		"deviceID": deviceID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "removed from favorites"})
}
