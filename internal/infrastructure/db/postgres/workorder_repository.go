package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gsme/workorder-system/internal/core/domain"
)

// WorkOrderRepository persists work orders in Postgres. Referential rules
// around the assignee are enforced here with explicit row locks, since the
// schema deliberately has no foreign key from work_orders to users.
type WorkOrderRepository struct {
	pool *pgxpool.Pool
}

func NewWorkOrderRepository(pool *pgxpool.Pool) *WorkOrderRepository {
	return &WorkOrderRepository{pool: pool}
}

// CreateBatch inserts one pending row per assignee inside one transaction.
// The assignee user rows are locked FOR SHARE for the duration, which
// conflicts with the FOR UPDATE lock taken by UserRepository.Delete: a batch
// create and a user delete against the same username serialize instead of
// racing.
func (r *WorkOrderRepository) CreateBatch(ctx context.Context, description string, deadline time.Time, assignees []string) ([]*domain.WorkOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create batch: %w", err)
	}
	defer tx.Rollback(ctx)

	var known []string
	err = pgxscan.Select(ctx, tx, &known,
		`SELECT username FROM users WHERE username = ANY($1) AND role = $2 FOR SHARE`,
		assignees, domain.RoleSubordinate)
	if err != nil {
		return nil, fmt.Errorf("lock assignees: %w", err)
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, u := range known {
		knownSet[u] = struct{}{}
	}
	for _, a := range assignees {
		if _, ok := knownSet[a]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAssignee, a)
		}
	}

	orders := make([]*domain.WorkOrder, 0, len(assignees))
	for _, a := range assignees {
		o := &domain.WorkOrder{
			Description: description,
			Deadline:    deadline,
			Status:      domain.StatusPending,
			Assignee:    a,
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO work_orders (description, deadline, status, assignee_username)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			description, deadline, domain.StatusPending, a,
		).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert work order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create batch: %w", err)
	}
	return orders, nil
}

// List returns orders in ascending deadline order, optionally scoped to one
// assignee.
func (r *WorkOrderRepository) List(ctx context.Context, assignee string) ([]*domain.WorkOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT id, description, deadline, status, assignee_username, artifact_key, delivery_date, created_at
	          FROM work_orders`
	args := []any{}
	if assignee != "" {
		query += ` WHERE assignee_username = $1`
		args = append(args, assignee)
	}
	query += ` ORDER BY deadline ASC, id ASC`

	var orders []*domain.WorkOrder
	if err := pgxscan.Select(ctx, r.pool, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	return orders, nil
}

func (r *WorkOrderRepository) FindByID(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.WorkOrder
	err := pgxscan.Get(ctx, r.pool, &o,
		`SELECT id, description, deadline, status, assignee_username, artifact_key, delivery_date, created_at
		 FROM work_orders WHERE id = $1`, id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("find work order: %w", err)
	}
	return &o, nil
}

// MarkDelivered locks the row scoped to (id, assignee) and flips it to
// delivered in one transaction, so a concurrent duplicate delivery observes
// the lock and then the non-pending status.
func (r *WorkOrderRepository) MarkDelivered(ctx context.Context, id int64, assignee, artifactKey string, deliveredOn time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin deliver: %w", err)
	}
	defer tx.Rollback(ctx)

	var status domain.WorkOrderStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM work_orders WHERE id = $1 AND assignee_username = $2 FOR UPDATE`,
		id, assignee,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrWorkOrderNotFound
		}
		return fmt.Errorf("lock work order: %w", err)
	}
	if status != domain.StatusPending {
		return domain.ErrAlreadyDelivered
	}

	_, err = tx.Exec(ctx,
		`UPDATE work_orders SET status = $1, artifact_key = $2, delivery_date = $3 WHERE id = $4`,
		domain.StatusDelivered, artifactKey, deliveredOn, id)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}

	return tx.Commit(ctx)
}

// Delete removes the row and hands back its artifact key for release.
func (r *WorkOrderRepository) Delete(ctx context.Context, id int64) (*string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var artifactKey *string
	err := r.pool.QueryRow(ctx,
		`DELETE FROM work_orders WHERE id = $1 RETURNING artifact_key`, id,
	).Scan(&artifactKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("delete work order: %w", err)
	}
	return artifactKey, nil
}
