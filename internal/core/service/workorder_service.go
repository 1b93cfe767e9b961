package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gsme/workorder-system/internal/api/metrics"
	"github.com/gsme/workorder-system/internal/core/domain"
	"github.com/gsme/workorder-system/internal/core/ports"
)

const deadlineLayout = "2006-01-02"

// WorkOrderService implements the work-order lifecycle: broadcast creation,
// scoped listing with deadline classification, delivery, and deletion.
//
// A broadcast carries no shared group identifier; the N rows it creates are
// independent afterwards and cannot be edited as a unit.
type WorkOrderService struct {
	repo   ports.WorkOrderRepository
	store  ports.ArtifactStore
	now    func() time.Time
	logger zerolog.Logger
}

// NewWorkOrderService builds a WorkOrderService. A nil clock defaults to
// time.Now; tests inject a fixed clock so classification never reads the
// wall clock.
func NewWorkOrderService(repo ports.WorkOrderRepository, store ports.ArtifactStore, clock func() time.Time, logger zerolog.Logger) *WorkOrderService {
	if clock == nil {
		clock = time.Now
	}
	return &WorkOrderService{repo: repo, store: store, now: clock, logger: logger}
}

// Create expands one request into one pending work order per assignee.
func (s *WorkOrderService) Create(ctx context.Context, input ports.CreateWorkOrderInput) ([]*domain.WorkOrder, error) {
	assignees := make([]string, 0, len(input.Assignees))
	for _, a := range input.Assignees {
		if a = strings.TrimSpace(a); a != "" {
			assignees = append(assignees, a)
		}
	}
	if len(assignees) == 0 {
		return nil, domain.ErrNoAssignees
	}

	deadline, err := time.ParseInLocation(deadlineLayout, input.Deadline, time.UTC)
	if err != nil {
		return nil, domain.ErrInvalidDeadline
	}

	orders, err := s.repo.CreateBatch(ctx, input.Description, deadline, assignees)
	if err != nil {
		s.logger.Error().Err(err).Int("assignees", len(assignees)).Msg("failed to create work order batch")
		return nil, err
	}

	s.logger.Info().
		Int("rows", len(orders)).
		Str("deadline", input.Deadline).
		Msg("work order broadcast created")

	return orders, nil
}

// List returns work orders resolved for display, ascending by deadline.
// Subordinates always see their own orders only; the assignee filter is
// honoured for admins.
func (s *WorkOrderService) List(ctx context.Context, input ports.ListWorkOrdersInput) ([]ports.WorkOrderView, error) {
	filter := input.Assignee
	if input.Role != domain.RoleAdmin {
		filter = input.Username
	}

	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}

	today := s.now()
	views := make([]ports.WorkOrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, ports.WorkOrderView{
			ID:           o.ID,
			Description:  o.Description,
			Deadline:     o.Deadline,
			Status:       o.Status,
			Assignee:     o.Assignee,
			DeliveryDate: o.DeliveryDate,
			HasArtifact:  o.ArtifactKey != nil,
			Class:        domain.Classify(o.Deadline, o.DeliveryDate, today),
		})
	}
	return views, nil
}

// Deliver stores the uploaded artifact and then records the delivery. The
// order matters: if the store fails nothing is written to the database, and
// if the database update fails the freshly stored artifact is released so it
// does not linger unreferenced.
func (s *WorkOrderService) Deliver(ctx context.Context, input ports.DeliverInput) (*ports.WorkOrderView, error) {
	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	// Ownership check before touching storage: a subordinate delivering
	// someone else's order learns only that "their" order does not exist.
	if order.Assignee != input.Username {
		return nil, domain.ErrWorkOrderNotFound
	}
	if order.Delivered() {
		return nil, domain.ErrAlreadyDelivered
	}

	key, err := s.store.Save(ctx, input.OrderID, input.Filename, input.File)
	if err != nil {
		s.logger.Error().Err(err).Int64("workorder_id", input.OrderID).Msg("artifact save failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactStorage, err)
	}

	deliveredOn := s.now()
	if err := s.repo.MarkDelivered(ctx, input.OrderID, input.Username, key, deliveredOn); err != nil {
		// The row was not updated; release the artifact we just stored.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			metrics.ArtifactsOrphanedTotal.Inc()
			s.logger.Warn().Err(delErr).Str("artifact_key", key).Msg("failed to release artifact after delivery rollback")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("workorder_id", input.OrderID).
		Str("assignee", input.Username).
		Str("artifact_key", key).
		Msg("work order delivered")

	view := ports.WorkOrderView{
		ID:           order.ID,
		Description:  order.Description,
		Deadline:     order.Deadline,
		Status:       domain.StatusDelivered,
		Assignee:     order.Assignee,
		DeliveryDate: &deliveredOn,
		HasArtifact:  true,
		Class:        domain.Classify(order.Deadline, &deliveredOn, deliveredOn),
	}
	return &view, nil
}

// Delete removes the work order row and releases its artifact best-effort.
// A storage failure leaves an orphaned object behind; that is surfaced as a
// warning and a counter, never as an error to the caller.
func (s *WorkOrderService) Delete(ctx context.Context, orderID int64) error {
	artifactKey, err := s.repo.Delete(ctx, orderID)
	if err != nil {
		return err
	}

	if artifactKey != nil {
		if delErr := s.store.Delete(ctx, *artifactKey); delErr != nil {
			metrics.ArtifactsOrphanedTotal.Inc()
			s.logger.Warn().
				Err(delErr).
				Int64("workorder_id", orderID).
				Str("artifact_key", *artifactKey).
				Msg("work order deleted but artifact release failed")
		}
	}

	s.logger.Info().Int64("workorder_id", orderID).Msg("work order deleted")
	return nil
}

// Artifact resolves the deliverable stored for an order.
func (s *WorkOrderService) Artifact(ctx context.Context, orderID int64) (*ports.ArtifactContent, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ArtifactKey == nil {
		return nil, domain.ErrWorkOrderNotFound
	}

	content, err := s.store.Retrieve(ctx, *order.ArtifactKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactStorage, err)
	}
	return content, nil
}
