package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/phuwanat/devicehub/internal/models"
)

type StatsHandler struct {
	DB *gorm.DB
}

func (h *StatsHandler) UserStats(c echo.Context) error {
	var total, admins, users int64

	if err := h.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&models.User{}).Where("role = ?", "admin").Count(&admins).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&models.User{}).Where("role = ?", "user").Count(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total":  total,
		"admins": admins,
		"users":  users,
	})
}
