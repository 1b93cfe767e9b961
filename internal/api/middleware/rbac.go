package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gsme/workorder-system/internal/core/gate"
)

// Require runs the given guards against the request's session before the
// handler. Unauthenticated callers get 401; authenticated callers with the
// wrong role get 403 together with their own home path, so clients send the
// user back to their dashboard instead of a dead-end error page.
func Require(guards ...gate.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFrom(c)
			switch gate.Check(session, guards...) {
			case gate.Ok:
				return next(c)
			case gate.Unauthenticated:
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":    "authentication required",
					"location": "/login",
				})
			default:
				return c.JSON(http.StatusForbidden, map[string]string{
					"error":    "forbidden",
					"location": session.HomePath(),
				})
			}
		}
	}
}
