package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ricknho777/CarllyRommanel/internal/service"
)

// RequireAdmin guards admin APIs with a Bearer credential: a database
// token, the static API token, or the admin password, in that order.
// It also piggybacks the expired-token sweep on admin traffic: an
// inline, low-probability check rather than a timer. Lookups reject
// expired tokens on their own regardless.
func RequireAdmin(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if time.Now().Unix()%600 < 1 {
				authService.SweepExpiredTokens(ctx)
			}

			bearer, ok := BearerToken(c)
			if !ok || !authService.VerifyAdminBearer(ctx, bearer) {
				return c.JSON(http.StatusUnauthorized, map[string]any{
					"success":       false,
					"error":         "Não autorizado. Token de autenticação necessário.",
					"required_auth": true,
				})
			}

			c.Set("admin_token", bearer)
			return next(c)
		}
	}
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
