package domain

import (
	"errors"
	"time"
)

// WorkOrderStatus represents the lifecycle state of a work order.
// The only supported transition is pending → delivered, performed exactly
// once by the assignee.
type WorkOrderStatus string

const (
	StatusPending   WorkOrderStatus = "pending"
	StatusDelivered WorkOrderStatus = "delivered"
)

// DeadlineClass is the display classification of a work order relative to
// its deadline. The empty class means nothing is shown.
type DeadlineClass string

const (
	ClassNone   DeadlineClass = ""
	ClassOnTime DeadlineClass = "on_time"
	ClassLate   DeadlineClass = "late"
)

var ErrWorkOrderNotFound = errors.New("work order not found")
var ErrAlreadyDelivered = errors.New("work order already delivered")
var ErrNoAssignees = errors.New("at least one assignee is required")
var ErrInvalidDeadline = errors.New("deadline must be a valid YYYY-MM-DD date")
var ErrUnknownAssignee = errors.New("assignee does not exist")
var ErrArtifactStorage = errors.New("artifact storage failure")

// WorkOrder is the core aggregate: one task assigned to one subordinate,
// tracked from pending to delivered. A request broadcast to several
// subordinates is stored as several rows sharing description and deadline.
type WorkOrder struct {
	ID           int64           `json:"id" db:"id"`
	Description  string          `json:"description" db:"description"`
	Deadline     time.Time       `json:"deadline" db:"deadline"`
	Status       WorkOrderStatus `json:"status" db:"status"`
	Assignee     string          `json:"assignee" db:"assignee_username"`
	ArtifactKey  *string         `json:"artifact_key,omitempty" db:"artifact_key"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty" db:"delivery_date"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Delivered reports whether the order has been fulfilled.
func (w *WorkOrder) Delivered() bool {
	return w.Status == StatusDelivered
}

// Classify computes the deadline classification of a work order from its
// deadline, its delivery date (nil when not delivered), and the caller's
// current date. It is pure and total: same inputs always yield the same
// class, comparisons are date-granular, and no clock is consulted.
func Classify(deadline time.Time, deliveryDate *time.Time, today time.Time) DeadlineClass {
	deadline = truncateToDate(deadline)
	if deliveryDate != nil {
		if !truncateToDate(*deliveryDate).After(deadline) {
			return ClassOnTime
		}
		return ClassLate
	}
	if truncateToDate(today).After(deadline) {
		return ClassLate
	}
	return ClassNone
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
