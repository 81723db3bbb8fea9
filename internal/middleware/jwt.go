package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/repository"
	"github.com/Oloap008/Trello-Clone/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer session token
// and injects the session into the request context. Handlers read it back
// with SessionFrom. Tokens found in revoked are refused; revoked may be
// nil.
func JWTAuth(secret string, revoked repository.TokenRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			s, err := claims.Session()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			if revoked != nil && claims.ID != "" {
				gone, err := revoked.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "token check failed"})
				}
				if gone {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
				}
			}

			c.Set(sessionKey, s)
			c.Set(claimsKey, claims)
			c.Set("user_id", strconv.FormatInt(s.ID, 10))
			return next(c)
		}
	}
}
