package ports

import (
	"context"
	"time"

	"github.com/gsme/workorder-system/internal/core/domain"
)

// WorkOrderRepository defines persistence operations for work orders.
// Assignees are referenced by username value; there is no database-level
// foreign key, so implementations enforce referential rules themselves.
type WorkOrderRepository interface {
	// CreateBatch inserts one pending work order per assignee, all sharing
	// description and deadline, atomically: all rows are created or none.
	// Every assignee must exist as a subordinate user
	// (domain.ErrUnknownAssignee otherwise).
	CreateBatch(ctx context.Context, description string, deadline time.Time, assignees []string) ([]*domain.WorkOrder, error)

	// List returns work orders in ascending deadline order. An empty
	// assignee restricts nothing (admin view); a non-empty assignee scopes
	// the result to that username.
	List(ctx context.Context, assignee string) ([]*domain.WorkOrder, error)

	FindByID(ctx context.Context, id int64) (*domain.WorkOrder, error)

	// MarkDelivered sets status, artifact key, and delivery date together on
	// the order matching both id and assignee. It fails with
	// domain.ErrWorkOrderNotFound when no such row exists (ownership check)
	// and domain.ErrAlreadyDelivered when the row is no longer pending.
	MarkDelivered(ctx context.Context, id int64, assignee, artifactKey string, deliveredOn time.Time) error

	// Delete removes the row and returns the artifact key it held, if any,
	// so the caller can release the stored file.
	Delete(ctx context.Context, id int64) (*string, error)
}
