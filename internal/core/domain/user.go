package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin       = "admin"
	RoleSubordinate = "subordinate"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUserHasWorkOrders = errors.New("user still has work orders assigned")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidAccessKey = errors.New("invalid admin access key")
var ErrForbidden = errors.New("access forbidden")

// User models an authenticated actor. Role is fixed at creation; there is no
// role-change operation.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
