package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gsme/workorder-system/internal/core/domain"
	"github.com/gsme/workorder-system/internal/core/gate"
)

func runRequire(t *testing.T, session gate.Session, guards ...gate.Guard) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if session.Authenticated() {
		c.Set(sessionKey, session)
	}

	called := false
	handler := Require(guards...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRequire_Allows(t *testing.T) {
	rec, called := runRequire(t,
		gate.Session{Username: "boss", Role: domain.RoleAdmin},
		gate.Role(domain.RoleAdmin))

	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequire_ForbidsWrongRole(t *testing.T) {
	rec, called := runRequire(t,
		gate.Session{Username: "alice", Role: domain.RoleSubordinate},
		gate.Role(domain.RoleAdmin))

	if called {
		t.Fatalf("next handler must not run")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	// wrong-role callers are pointed home, not at an error page
	if body["location"] != "/dashboard" {
		t.Fatalf("expected subordinate home location, got %q", body["location"])
	}
}

func TestRequire_RejectsAnonymous(t *testing.T) {
	rec, called := runRequire(t, gate.Session{}, gate.Role(domain.RoleAdmin))

	if called {
		t.Fatalf("next handler must not run")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous caller must get 401, got %d", rec.Code)
	}
}
