package ports

import (
	"context"

	"github.com/gsme/workorder-system/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts the user, failing with domain.ErrUserExists on a
	// username collision.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListSubordinates returns the usernames of all subordinate users,
	// used by the admin assignment form.
	ListSubordinates(ctx context.Context) ([]string, error)

	// Delete removes the user only when no work order references the
	// username; otherwise it fails with domain.ErrUserHasWorkOrders. The
	// check and the delete run in one transaction so a concurrent batch
	// create against the same username cannot interleave.
	Delete(ctx context.Context, username string) error
}
