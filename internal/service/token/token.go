package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TTL = time.Hour

// Claims is what a verified session token carries. The server keeps no
// session state; everything downstream authorization needs is in here.
type Claims struct {
	UserID   uint
	Role     string
	Username string
}

func Sign(userID uint, role, username string, secret []byte) (string, error) {
	exp := time.Now().Add(TTL)
	claims := jwt.MapClaims{
		"sub":      userID,
		"role":     role,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func Verify(raw string, secret []byte) (*Claims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("cannot parse claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, fmt.Errorf("missing sub claim")
	}
	role, _ := claims["role"].(string)
	username, _ := claims["username"].(string)

	return &Claims{
		UserID:   uint(sub),
		Role:     role,
		Username: username,
	}, nil
}
