package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"transbridge/internal/auth"
)

// bearerAuthMiddleware rejects requests whose Authorization bearer token does
// not match the configured bcrypt hash. An empty hash disables authentication.
func bearerAuthMiddleware(tokenHash string) echo.MiddlewareFunc {
	hash := strings.TrimSpace(tokenHash)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if hash == "" {
				return next(c)
			}

			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" || !auth.VerifyToken(token, hash) {
				return fail(c, http.StatusUnauthorized, "Invalid or missing API token", nil)
			}
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
