// Package repository defines the storage interfaces the services depend on.
// Implementations live under internal/infra.
package repository

import (
	"context"

	"homestream/internal/domain"
)

// UserRepository stores and retrieves user accounts.
type UserRepository interface {
	// FindByUsername returns ErrUserNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID returns ErrUserNotFound when no such user exists.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Save creates the user, or updates it when ID is already set.
	// Returns ErrDuplicateEntry on a username collision.
	Save(ctx context.Context, user *domain.User) error
}
