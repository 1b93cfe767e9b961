package ports

import (
	"context"
	"io"
	"time"

	"github.com/gsme/workorder-system/internal/core/domain"
)

// CreateWorkOrderInput carries one "create request" action. Several assignees
// broadcast into one work order row each.
type CreateWorkOrderInput struct {
	Description string
	// Deadline is the raw YYYY-MM-DD form value; the service parses it and
	// rejects anything else.
	Deadline  string
	Assignees []string
}

// ListWorkOrdersInput scopes the listing. The service forces the filter to
// the caller's own username for subordinates; the Assignee field is only
// honoured for admins.
type ListWorkOrdersInput struct {
	Role     string
	Username string
	// Assignee optionally narrows the admin view to one subordinate.
	Assignee string
}

// DeliverInput carries a subordinate's upload against one work order.
type DeliverInput struct {
	OrderID  int64
	Username string
	Filename string
	File     io.Reader
}

// WorkOrderView is a work order resolved for display: the raw record plus
// its deadline classification.
type WorkOrderView struct {
	ID           int64
	Description  string
	Deadline     time.Time
	Status       domain.WorkOrderStatus
	Assignee     string
	DeliveryDate *time.Time
	HasArtifact  bool
	Class        domain.DeadlineClass
}

// WorkOrderService defines the use-case operations around work orders.
type WorkOrderService interface {
	Create(ctx context.Context, input CreateWorkOrderInput) ([]*domain.WorkOrder, error)
	List(ctx context.Context, input ListWorkOrdersInput) ([]WorkOrderView, error)
	Deliver(ctx context.Context, input DeliverInput) (*WorkOrderView, error)
	Delete(ctx context.Context, orderID int64) error
	// Artifact resolves the stored deliverable of an order for download.
	Artifact(ctx context.Context, orderID int64) (*ArtifactContent, error)
}
