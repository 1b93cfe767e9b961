package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gsme/workorder-system/internal/api/metrics"
	"github.com/gsme/workorder-system/internal/core/domain"
	"github.com/gsme/workorder-system/internal/core/ports"
)

// WorkOrderHandler handles HTTP requests for work order operations.
type WorkOrderHandler struct {
	service ports.WorkOrderService
}

func NewWorkOrderHandler(service ports.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{service: service}
}

// Create broadcasts a work order to one or more assignees.
//
// @Summary      Create work orders
// @Description  Creates one pending work order per assignee with a shared description and deadline.
// @Tags         workorders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateWorkOrderRequest  true  "Work order details"
// @Success      201   {object}  WorkOrderListResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/workorders [post]
func (h *WorkOrderHandler) Create(c echo.Context) error {
	var req CreateWorkOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	orders, err := h.service.Create(c.Request().Context(), ports.CreateWorkOrderInput{
		Description: req.Description,
		Deadline:    req.Deadline,
		Assignees:   req.Assignees,
	})
	if err != nil {
		return err
	}
	metrics.CreatedTotal.Add(float64(len(orders)))

	resp := WorkOrderListResponse{WorkOrders: make([]WorkOrderResponse, 0, len(orders))}
	for _, o := range orders {
		resp.WorkOrders = append(resp.WorkOrders, WorkOrderResponse{
			ID:          o.ID,
			Description: o.Description,
			Deadline:    o.Deadline.Format(dateLayout),
			Status:      string(o.Status),
			Assignee:    o.Assignee,
		})
	}

	return c.JSON(http.StatusCreated, resp)
}

// List returns the work orders visible to the caller.
//
// @Summary      List work orders
// @Description  Admins see every order and may filter by assignee; subordinates always see only their own.
// @Tags         workorders
// @Produce      json
// @Security     BearerAuth
// @Param        assignee  query     string  false  "Filter by assignee (admins only)"
// @Success      200       {object}  WorkOrderListResponse
// @Failure      401       {object}  map[string]string
// @Router       /v1/workorders [get]
func (h *WorkOrderHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	views, err := h.service.List(c.Request().Context(), ports.ListWorkOrdersInput{
		Role:     session.Role,
		Username: session.Username,
		Assignee: c.QueryParam("assignee"),
	})
	if err != nil {
		return err
	}

	resp := WorkOrderListResponse{WorkOrders: make([]WorkOrderResponse, 0, len(views))}
	for _, v := range views {
		resp.WorkOrders = append(resp.WorkOrders, toWorkOrderResponse(v))
	}

	return c.JSON(http.StatusOK, resp)
}

// Deliver accepts a subordinate's file upload against one of their orders.
//
// @Summary      Deliver a work order
// @Description  Uploads the deliverable as multipart form field "file" and marks the order delivered.
// @Tags         workorders
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int   true  "Work order ID"
// @Param        file  formData  file  true  "Deliverable file"
// @Success      200   {object}  WorkOrderResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/workorders/{id}/delivery [post]
func (h *WorkOrderHandler) Deliver(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file upload")
	}
	defer src.Close()

	view, err := h.service.Deliver(c.Request().Context(), ports.DeliverInput{
		OrderID:  orderID,
		Username: session.Username,
		Filename: fileHeader.Filename,
		File:     src,
	})
	if err != nil {
		metrics.DeliveriesTotal.WithLabelValues(deliveryResult(err)).Inc()
		return err
	}
	metrics.DeliveriesTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, toWorkOrderResponse(*view))
}

// Delete removes a work order and releases its artifact.
//
// @Summary      Delete a work order
// @Tags         workorders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Work order ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/workorders/{id} [delete]
func (h *WorkOrderHandler) Delete(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), orderID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "work order deleted"})
}

// Artifact downloads the deliverable of a delivered work order. The local
// backend streams the bytes; the S3 backend redirects to a presigned URL.
//
// @Summary      Download a work order artifact
// @Tags         workorders
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id  path  int  true  "Work order ID"
// @Success      200
// @Success      302
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /v1/workorders/{id}/artifact [get]
func (h *WorkOrderHandler) Artifact(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	content, err := h.service.Artifact(c.Request().Context(), orderID)
	if err != nil {
		return err
	}

	if content.RedirectURL != "" {
		metrics.ArtifactDownloadsTotal.WithLabelValues("redirect").Inc()
		return c.Redirect(http.StatusFound, content.RedirectURL)
	}

	defer content.Body.Close()
	metrics.ArtifactDownloadsTotal.WithLabelValues("stream").Inc()
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+content.Filename+`"`)
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, content.Body)
}

func orderIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid work order id")
	}
	return id, nil
}

func deliveryResult(err error) string {
	if errors.Is(err, domain.ErrArtifactStorage) {
		return "storage_error"
	}
	return "rejected"
}
