package auth

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/phuwanat/devicehub/internal/service/token"
)

const (
	userIDKey   = "userID"
	roleKey     = "role"
	usernameKey = "username"
)

func setUserContext(c echo.Context, claims *token.Claims) {
	c.Set(userIDKey, claims.UserID)
	c.Set(roleKey, claims.Role)
	c.Set(usernameKey, claims.Username)
}

// SetUserContext is exposed for tests that exercise handlers directly
// without going through RequireLogin.
func SetUserContext(c echo.Context, claims *token.Claims) {
	setUserContext(c, claims)
}

func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get(userIDKey).(uint)
	if !ok {
		return 0, fmt.Errorf("no authenticated user in context")
	}
	return id, nil
}

func Role(c echo.Context) string {
	role, _ := c.Get(roleKey).(string)
	return role
}

func Username(c echo.Context) string {
	name, _ := c.Get(usernameKey).(string)
	return name
}
