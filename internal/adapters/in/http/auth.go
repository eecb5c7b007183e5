package http

import (
	"net/http"
	"slices"
	"strings"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// Authenticator resolves a bearer token to the calling actor.
type Authenticator interface {
	Actor(raw string) (kernel.Actor, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// actor for the handlers.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization is missing")
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'")
			}

			actor, err := auth.Actor(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

// RequireRole lets only the listed roles through.
func RequireRole(roles ...kernel.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !slices.Contains(roles, actorFrom(c).Role) {
				return echo.NewHTTPError(http.StatusForbidden, "Access denied: insufficient permissions")
			}
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) kernel.Actor {
	actor, _ := c.Get(actorContextKey).(kernel.Actor)
	return actor
}
