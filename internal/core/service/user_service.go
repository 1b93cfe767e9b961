package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gsme/workorder-system/internal/core/domain"
	"github.com/gsme/workorder-system/internal/core/ports"
)

// UserService implements account management: the access-key-gated admin
// registration, login, subordinate creation, and guarded deletion.
type UserService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	accessKey string
	logger    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, jwtSecret, accessKey string, tokenTTL time.Duration, logger zerolog.Logger) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &UserService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		accessKey: accessKey,
		logger:    logger,
	}
}

// RegisterAdmin is the only self-service registration path and the only way
// to mint the first admin; it is gated by the shared access key.
func (s *UserService) RegisterAdmin(ctx context.Context, username, password, accessKey string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if accessKey != s.accessKey {
		s.logger.Warn().Str("username", username).Msg("admin registration with wrong access key")
		return nil, domain.ErrInvalidAccessKey
	}
	return s.create(ctx, username, password, domain.RoleAdmin)
}

// CreateSubordinate creates a subordinate account on behalf of an admin.
func (s *UserService) CreateSubordinate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return s.create(ctx, username, password, domain.RoleSubordinate)
}

func (s *UserService) create(ctx context.Context, username, password, role string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Str("role", role).Msg("user created")
	return created, nil
}

// Login verifies credentials and returns a signed session token carrying the
// username and role claims the gate needs.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *UserService) ListSubordinates(ctx context.Context) ([]string, error) {
	return s.repo.ListSubordinates(ctx)
}

// DeleteUser removes an account. The repository refuses while any work order
// still references the username, so live assignments are never stranded.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}
	s.logger.Info().Str("username", username).Msg("user deleted")
	return nil
}
