package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/phuwanat/devicehub/internal/handlers"
	authmw "github.com/phuwanat/devicehub/internal/middleware/auth"
)

type Deps struct {
	DB              *gorm.DB
	JWTSecret       []byte
	AuthHandler     *handlers.AuthHandler
	DeviceHandler   *handlers.DeviceHandler
	FavoriteHandler *handlers.FavoriteHandler
	ProfileHandler  *handlers.ProfileHandler
	StatsHandler    *handlers.StatsHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)

	e.GET("/devices", d.DeviceHandler.ListDevices)
	e.GET("/devices/search", d.SearchHandler.Handler)
	e.GET("/devices/:id", d.DeviceHandler.GetDevice)

	logged := authmw.RequireLogin(d.JWTSecret)

	user := e.Group("", logged)
	user.GET("/profile", d.ProfileHandler.GetProfile)
	user.PUT("/profile", d.ProfileHandler.ChangePassword)
	user.POST("/favorites", d.FavoriteHandler.AddFavorite)
	user.GET("/favorites", d.FavoriteHandler.ListFavorites)
	user.DELETE("/favorites/:deviceId", d.FavoriteHandler.RemoveFavorite)

	admin := e.Group("", logged, authmw.AdminOnly)
	admin.POST("/devices", d.DeviceHandler.CreateDevice)
	admin.PUT("/devices/:id", d.DeviceHandler.UpdateDevice)
	admin.DELETE("/devices/:id", d.DeviceHandler.DeleteDevice)
	admin.GET("/users/stats", d.StatsHandler.UserStats)
}
