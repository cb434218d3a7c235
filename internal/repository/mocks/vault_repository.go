package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"homestream/internal/domain"
)

// VaultRepository is a mock of repository.VaultRepository.
type VaultRepository struct {
	mock.Mock
}

func (m *VaultRepository) ListAll(ctx context.Context) ([]domain.VaultEntry, error) {
	args := m.Called(ctx)
	var entries []domain.VaultEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.VaultEntry)
	}
	return entries, args.Error(1)
}

func (m *VaultRepository) Save(ctx context.Context, entry *domain.VaultEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *VaultRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
