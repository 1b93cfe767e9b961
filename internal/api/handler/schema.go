package handler

import "github.com/gsme/workorder-system/internal/core/ports"

// RegisterRequest creates the first admin account. The access key is a shared
// bootstrap secret, not a user credential.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=8"`
	AccessKey string `json:"access_key" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type SubordinatesResponse struct {
	Usernames []string `json:"usernames"`
}

// CreateWorkOrderRequest broadcasts one order per assignee. Deadline is a
// calendar date, no time component.
type CreateWorkOrderRequest struct {
	Description string   `json:"description" validate:"required,max=2000"`
	Deadline    string   `json:"deadline" validate:"required,datetime=2006-01-02"`
	Assignees   []string `json:"assignees" validate:"required,min=1"`
}

type WorkOrderResponse struct {
	ID           int64   `json:"id"`
	Description  string  `json:"description"`
	Deadline     string  `json:"deadline"`
	Status       string  `json:"status"`
	Assignee     string  `json:"assignee"`
	DeliveryDate *string `json:"delivery_date,omitempty"`
	HasArtifact  bool    `json:"has_artifact"`
	Class        string  `json:"class,omitempty"`
}

type WorkOrderListResponse struct {
	WorkOrders []WorkOrderResponse `json:"work_orders"`
}

type messageResponse struct {
	Message string `json:"message"`
}

const dateLayout = "2006-01-02"

func toWorkOrderResponse(v ports.WorkOrderView) WorkOrderResponse {
	resp := WorkOrderResponse{
		ID:          v.ID,
		Description: v.Description,
		Deadline:    v.Deadline.Format(dateLayout),
		Status:      string(v.Status),
		Assignee:    v.Assignee,
		HasArtifact: v.HasArtifact,
		Class:       string(v.Class),
	}
	if v.DeliveryDate != nil {
		d := v.DeliveryDate.Format(dateLayout)
		resp.DeliveryDate = &d
	}
	return resp
}
