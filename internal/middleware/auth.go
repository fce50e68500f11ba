package middleware

import (
	"net/http"
	"strings"

	"github.com/ivkudzin/unimatch/internal/entity"
	"github.com/ivkudzin/unimatch/pkg/jwt"
	"github.com/labstack/echo"
)

const userIDKey = "userID"

// JWTMiddleware rejects requests without a valid bearer token and stores the
// authenticated user id on the request context.
func JWTMiddleware(tokens *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "missing token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token format"})
			}

			userID, err := tokens.ValidateToken(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the id stored by JWTMiddleware.
func UserID(c echo.Context) (int64, error) {
	id, ok := c.Get(userIDKey).(int64)
	if !ok || id == 0 {
		return 0, entity.ErrUnauthorized
	}
	return id, nil
}
