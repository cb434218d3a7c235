package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"homestream/internal/domain"
)

// SelectionStore is a mock of repository.SelectionStore.
type SelectionStore struct {
	mock.Mock
}

func (m *SelectionStore) Put(ctx context.Context, userID uint, sel *domain.PendingSelection) error {
	args := m.Called(ctx, userID, sel)
	return args.Error(0)
}

func (m *SelectionStore) Get(ctx context.Context, userID uint) (*domain.PendingSelection, error) {
	args := m.Called(ctx, userID)
	var sel *domain.PendingSelection
	if args.Get(0) != nil {
		sel = args.Get(0).(*domain.PendingSelection)
	}
	return sel, args.Error(1)
}

func (m *SelectionStore) Delete(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
