package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminOnly rejects any request whose verified role claim is not "admin".
// It must run after RequireLogin.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := c.Get(roleKey).(string)
		if !ok || role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin rights required")
		}
		return next(c)
	}
}
