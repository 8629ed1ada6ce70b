package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// RequireUser rejects requests without a valid, non-anonymous bearer token.
// Anonymous sessions carry an "is_anonymous" claim and may browse, but
// cannot perform mutations (same policy as the storefront).
func RequireUser(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims := jwt.MapClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if anon, ok := claims["is_anonymous"].(bool); ok && anon {
				return echo.NewHTTPError(http.StatusUnauthorized, "action can't be performed as an anonymous user")
			}

			if sub, ok := claims["sub"].(string); ok {
				c.Set(userIDKey, sub)
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated caller's subject, if any.
func UserID(c echo.Context) string {
	if v, ok := c.Get(userIDKey).(string); ok {
		return v
	}
	return ""
}
