package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gsme/workorder-system/internal/core/domain"
)

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return &domain.User{Username: username, Role: domain.RoleSubordinate}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/users",
		`{"username":"alice","password":"secret123"}`)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["role"] != domain.RoleSubordinate {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Create_Duplicate(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newJSONContext(t, http.MethodPost, "/v1/users",
		`{"username":"alice","password":"secret123"}`)

	if err := handler.Create(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserHandler_List_Empty(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]string, error) {
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/users", "")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// nil slice must still render as an empty array, not null
	if got := rec.Body.String(); got != "{\"usernames\":[]}\n" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestUserHandler_Delete_StillAssigned(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, username string) error {
			if username != "alice" {
				t.Fatalf("unexpected username %q", username)
			}
			return domain.ErrUserHasWorkOrders
		},
	}
	handler := NewUserHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/users/alice", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := handler.Delete(c); !errors.Is(err, domain.ErrUserHasWorkOrders) {
		t.Fatalf("expected ErrUserHasWorkOrders, got %v", err)
	}
}
