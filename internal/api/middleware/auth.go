package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/c-library/catalog-admin/internal/core/ports"
)

// Auth validates the bearer JWT, rejects revoked tokens, and injects the
// caller's identity claims into the echo context.
func Auth(jwtSecret string, denylist ports.TokenDenylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if jti, _ := claims["jti"].(string); jti != "" && denylist != nil {
				revoked, err := denylist.IsRevoked(c.Request().Context(), jti)
				if err != nil {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "token check unavailable")
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set("user_id", parseUserID(claims))
			c.Set("username", claims["username"])
			c.Set("role", claims["role"])
			c.Set("permissions", permissionSet(claims))
			c.Set("token", parts[1])

			return next(c)
		}
	}
}

func parseUserID(claims jwt.MapClaims) int64 {
	sub, _ := claims["sub"].(string)
	id, _ := strconv.ParseInt(sub, 10, 64)
	return id
}

// permissionSet flattens the permissions claim into a lookup set. A missing
// or malformed claim yields an empty set, never nil.
func permissionSet(claims jwt.MapClaims) map[string]struct{} {
	set := make(map[string]struct{})
	raw, _ := claims["permissions"].([]interface{})
	for _, p := range raw {
		if s, ok := p.(string); ok {
			set[s] = struct{}{}
		}
	}
	return set
}
