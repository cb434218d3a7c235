package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"homestream/internal/domain"
	"homestream/internal/repository"
)

// GormVaultRepository is the GORM implementation of repository.VaultRepository.
type GormVaultRepository struct {
	db *gorm.DB
}

func NewGormVaultRepository(db *gorm.DB) *GormVaultRepository {
	if db == nil {
		panic("database connection cannot be nil for GormVaultRepository")
	}
	return &GormVaultRepository{db: db}
}

func (r *GormVaultRepository) ListAll(ctx context.Context) ([]domain.VaultEntry, error) {
	var entries []domain.VaultEntry
	if err := r.db.WithContext(ctx).Order("name").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("gorm: list vault entries: %w", err)
	}
	return entries, nil
}

func (r *GormVaultRepository) Save(ctx context.Context, entry *domain.VaultEntry) error {
	err := r.db.WithContext(ctx).Save(entry).Error
	if err != nil {
		if mapped := mapMySQLError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("gorm: save vault entry %q: %w", entry.Name, err)
	}
	return nil
}

func (r *GormVaultRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.VaultEntry{}, id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete vault entry %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrVaultEntryNotFound
	}
	return nil
}
