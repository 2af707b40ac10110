package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/phuwanat/devicehub/internal/service/token"
)

// RequireLogin validates the Authorization bearer token and puts the
// verified claims into the echo context for downstream handlers.
func RequireLogin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := token.Verify(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			setUserContext(c, claims)
			return next(c)
		}
	}
}
