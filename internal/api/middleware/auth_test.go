package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/gsme/workorder-system/internal/core/domain"
	"github.com/gsme/workorder-system/internal/core/gate"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, username, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, gate.Session, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var session gate.Session
	handler := Auth(testSecret)(func(c echo.Context) error {
		session = SessionFrom(c)
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, session, err
}

func TestAuth_ValidToken(t *testing.T) {
	_, session, err := runAuth(t, "Bearer "+signedToken(t, "alice", domain.RoleSubordinate))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if session.Username != "alice" || session.Role != domain.RoleSubordinate {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, _, err := runAuth(t, "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	_, _, err := runAuth(t, "Token abc")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_WrongSignature(t *testing.T) {
	claims := jwt.MapClaims{"username": "alice", "role": domain.RoleAdmin, "exp": time.Now().Add(time.Hour).Unix()}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, _, herr := runAuth(t, "Bearer "+forged)
	he, ok := herr.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", herr)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{"username": "alice", "role": domain.RoleAdmin, "exp": time.Now().Add(-time.Hour).Unix()}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, _, herr := runAuth(t, "Bearer "+expired)
	he, ok := herr.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", herr)
	}
}
