package repository

import (
	"context"

	"homestream/internal/domain"
)

// VaultRepository stores encrypted credential entries.
type VaultRepository interface {
	// ListAll returns every entry ordered by name.
	ListAll(ctx context.Context) ([]domain.VaultEntry, error)
	// Save returns ErrDuplicateEntry when the name is already taken.
	Save(ctx context.Context, entry *domain.VaultEntry) error
	// Delete returns ErrVaultEntryNotFound when nothing was removed.
	Delete(ctx context.Context, id uint) error
}
