package ports

import (
	"context"

	"github.com/gsme/workorder-system/internal/core/domain"
)

// UserService defines account management and authentication use cases.
type UserService interface {
	// RegisterAdmin mints an admin account. It is the only self-service
	// registration path and is gated by the shared access key.
	RegisterAdmin(ctx context.Context, username, password, accessKey string) (*domain.User, error)

	// Login verifies credentials and returns a signed session token.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)

	// CreateSubordinate is the admin-initiated account creation path.
	CreateSubordinate(ctx context.Context, username, password string) (*domain.User, error)

	ListSubordinates(ctx context.Context) ([]string, error)

	// DeleteUser removes an account that owns zero work orders.
	DeleteUser(ctx context.Context, username string) error
}
