package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by Auth.
const (
	KeyUserID   = "user_id"
	KeyUsername = "username"
	KeyRole     = "role"
)

var errNoIdentity = errors.New("token missing identity claims")

// Auth verifies the bearer token and stores the caller identity in the
// echo context. Any failure is a 401.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	identify := identifier(jwtSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := identify(c); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth when an Authorization header is present and
// lets anonymous requests through untouched.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	identify := identifier(jwtSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			if err := identify(c); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func identifier(jwtSecret string) func(echo.Context) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(jwtSecret), nil }

	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed bearer token")
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		userID, _ := claims[KeyUserID].(string)
		role, _ := claims[KeyRole].(string)
		if userID == "" || role == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, errNoIdentity.Error())
		}
		username, _ := claims[KeyUsername].(string)

		c.Set(KeyUserID, userID)
		c.Set(KeyUsername, username)
		c.Set(KeyRole, role)
		return nil
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
