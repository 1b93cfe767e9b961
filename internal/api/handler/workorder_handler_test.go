package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gsme/workorder-system/internal/core/domain"
	"github.com/gsme/workorder-system/internal/core/gate"
	"github.com/gsme/workorder-system/internal/core/ports"
)

type stubWorkOrderService struct {
	createFn   func(ctx context.Context, input ports.CreateWorkOrderInput) ([]*domain.WorkOrder, error)
	listFn     func(ctx context.Context, input ports.ListWorkOrdersInput) ([]ports.WorkOrderView, error)
	deliverFn  func(ctx context.Context, input ports.DeliverInput) (*ports.WorkOrderView, error)
	deleteFn   func(ctx context.Context, orderID int64) error
	artifactFn func(ctx context.Context, orderID int64) (*ports.ArtifactContent, error)
}

func (s *stubWorkOrderService) Create(ctx context.Context, input ports.CreateWorkOrderInput) ([]*domain.WorkOrder, error) {
	return s.createFn(ctx, input)
}

func (s *stubWorkOrderService) List(ctx context.Context, input ports.ListWorkOrdersInput) ([]ports.WorkOrderView, error) {
	return s.listFn(ctx, input)
}

func (s *stubWorkOrderService) Deliver(ctx context.Context, input ports.DeliverInput) (*ports.WorkOrderView, error) {
	return s.deliverFn(ctx, input)
}

func (s *stubWorkOrderService) Delete(ctx context.Context, orderID int64) error {
	return s.deleteFn(ctx, orderID)
}

func (s *stubWorkOrderService) Artifact(ctx context.Context, orderID int64) (*ports.ArtifactContent, error) {
	return s.artifactFn(ctx, orderID)
}

func withSession(c echo.Context, username, role string) {
	c.Set("session", gate.Session{Username: username, Role: role})
}

func TestWorkOrderHandler_Create_Broadcast(t *testing.T) {
	deadline := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	stub := &stubWorkOrderService{
		createFn: func(ctx context.Context, input ports.CreateWorkOrderInput) ([]*domain.WorkOrder, error) {
			if len(input.Assignees) != 2 {
				t.Fatalf("expected 2 assignees, got %d", len(input.Assignees))
			}
			return []*domain.WorkOrder{
				{ID: 1, Description: input.Description, Deadline: deadline, Status: domain.StatusPending, Assignee: "alice"},
				{ID: 2, Description: input.Description, Deadline: deadline, Status: domain.StatusPending, Assignee: "bob"},
			}, nil
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, rec := newJSONContext(t, http.MethodPost, "/v1/workorders",
		`{"description":"prepare report","deadline":"2024-01-10","assignees":["alice","bob"]}`)
	withSession(c, "boss", domain.RoleAdmin)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp WorkOrderListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.WorkOrders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(resp.WorkOrders))
	}
	if resp.WorkOrders[0].Deadline != "2024-01-10" || resp.WorkOrders[1].Assignee != "bob" {
		t.Fatalf("unexpected payload: %+v", resp.WorkOrders)
	}
}

func TestWorkOrderHandler_Create_BadDeadlineFormat(t *testing.T) {
	stub := &stubWorkOrderService{
		createFn: func(ctx context.Context, input ports.CreateWorkOrderInput) ([]*domain.WorkOrder, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, _ := newJSONContext(t, http.MethodPost, "/v1/workorders",
		`{"description":"x","deadline":"tomorrow","assignees":["alice"]}`)

	err := handler.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestWorkOrderHandler_List_PassesSessionScope(t *testing.T) {
	stub := &stubWorkOrderService{
		listFn: func(ctx context.Context, input ports.ListWorkOrdersInput) ([]ports.WorkOrderView, error) {
			if input.Role != domain.RoleSubordinate || input.Username != "alice" {
				t.Fatalf("session not propagated: %+v", input)
			}
			return nil, nil
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/workorders", "")
	withSession(c, "alice", domain.RoleSubordinate)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWorkOrderHandler_List_NoSession(t *testing.T) {
	stub := &stubWorkOrderService{
		listFn: func(ctx context.Context, input ports.ListWorkOrdersInput) ([]ports.WorkOrderView, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, _ := newJSONContext(t, http.MethodGet, "/v1/workorders", "")

	err := handler.List(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func newDeliverContext(t *testing.T, field string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body, contentType := multipartUpload(t, field, "report.pdf", "file-bytes")
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/workorders/7/delivery", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	return c, rec
}

func TestWorkOrderHandler_Deliver_Success(t *testing.T) {
	stub := &stubWorkOrderService{
		deliverFn: func(ctx context.Context, input ports.DeliverInput) (*ports.WorkOrderView, error) {
			if input.OrderID != 7 || input.Username != "alice" || input.Filename != "report.pdf" {
				t.Fatalf("unexpected input: %+v", input)
			}
			data, err := io.ReadAll(input.File)
			if err != nil || string(data) != "file-bytes" {
				t.Fatalf("upload not readable: %q %v", data, err)
			}
			delivered := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
			return &ports.WorkOrderView{
				ID:           7,
				Status:       domain.StatusDelivered,
				Assignee:     "alice",
				Deadline:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
				DeliveryDate: &delivered,
				HasArtifact:  true,
				Class:        domain.ClassOnTime,
			}, nil
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, rec := newDeliverContext(t, "file")
	withSession(c, "alice", domain.RoleSubordinate)

	if err := handler.Deliver(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp WorkOrderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != string(domain.StatusDelivered) || resp.Class != string(domain.ClassOnTime) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.DeliveryDate == nil || *resp.DeliveryDate != "2024-01-09" {
		t.Fatalf("unexpected delivery date: %v", resp.DeliveryDate)
	}
}

func TestWorkOrderHandler_Deliver_MissingFile(t *testing.T) {
	stub := &stubWorkOrderService{
		deliverFn: func(ctx context.Context, input ports.DeliverInput) (*ports.WorkOrderView, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, _ := newDeliverContext(t, "attachment")
	withSession(c, "alice", domain.RoleSubordinate)

	err := handler.Deliver(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestWorkOrderHandler_Deliver_AlreadyDelivered(t *testing.T) {
	stub := &stubWorkOrderService{
		deliverFn: func(ctx context.Context, input ports.DeliverInput) (*ports.WorkOrderView, error) {
			return nil, domain.ErrAlreadyDelivered
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, _ := newDeliverContext(t, "file")
	withSession(c, "alice", domain.RoleSubordinate)

	if err := handler.Deliver(c); !errors.Is(err, domain.ErrAlreadyDelivered) {
		t.Fatalf("expected ErrAlreadyDelivered, got %v", err)
	}
}

func TestWorkOrderHandler_Delete_NotFound(t *testing.T) {
	stub := &stubWorkOrderService{
		deleteFn: func(ctx context.Context, orderID int64) error {
			return domain.ErrWorkOrderNotFound
		},
	}
	handler := NewWorkOrderHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/workorders/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := handler.Delete(c); !errors.Is(err, domain.ErrWorkOrderNotFound) {
		t.Fatalf("expected ErrWorkOrderNotFound, got %v", err)
	}
}

func TestWorkOrderHandler_Delete_BadID(t *testing.T) {
	stub := &stubWorkOrderService{
		deleteFn: func(ctx context.Context, orderID int64) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewWorkOrderHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/workorders/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := handler.Delete(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func artifactContext(t *testing.T, id string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/workorders/"+id+"/artifact", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestWorkOrderHandler_Artifact_Streams(t *testing.T) {
	stub := &stubWorkOrderService{
		artifactFn: func(ctx context.Context, orderID int64) (*ports.ArtifactContent, error) {
			return &ports.ArtifactContent{
				Body:     io.NopCloser(strings.NewReader("deliverable-bytes")),
				Filename: "report.pdf",
			}, nil
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, rec := artifactContext(t, "7")
	if err := handler.Artifact(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "deliverable-bytes" {
		t.Fatalf("unexpected body: %q", got)
	}
	cd := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(cd, "report.pdf") {
		t.Fatalf("filename missing from content disposition: %q", cd)
	}
}

func TestWorkOrderHandler_Artifact_Redirects(t *testing.T) {
	stub := &stubWorkOrderService{
		artifactFn: func(ctx context.Context, orderID int64) (*ports.ArtifactContent, error) {
			return &ports.ArtifactContent{RedirectURL: "https://bucket.example.com/signed"}, nil
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, rec := artifactContext(t, "7")
	if err := handler.Artifact(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "https://bucket.example.com/signed" {
		t.Fatalf("unexpected location: %q", loc)
	}
}

func TestWorkOrderHandler_Artifact_NotDelivered(t *testing.T) {
	stub := &stubWorkOrderService{
		artifactFn: func(ctx context.Context, orderID int64) (*ports.ArtifactContent, error) {
			return nil, domain.ErrWorkOrderNotFound
		},
	}
	handler := NewWorkOrderHandler(stub)

	c, _ := artifactContext(t, "7")
	if err := handler.Artifact(c); !errors.Is(err, domain.ErrWorkOrderNotFound) {
		t.Fatalf("expected ErrWorkOrderNotFound, got %v", err)
	}
}
