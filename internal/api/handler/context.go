package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gsme/workorder-system/internal/api/middleware"
	"github.com/gsme/workorder-system/internal/core/gate"
)

// ctxSession extracts the session injected by the Auth middleware. An empty
// session here means the route was wired without the middleware; the caller
// still gets a clean 401.
func ctxSession(c echo.Context) (gate.Session, error) {
	s := middleware.SessionFrom(c)
	if !s.Authenticated() {
		return gate.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return s, nil
}
