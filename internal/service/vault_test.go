package service_test

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"homestream/internal/domain"
	"homestream/internal/repository"
	"homestream/internal/repository/mocks"
	"homestream/internal/service"
)

var testVaultKey = hex.EncodeToString(make([]byte, 32))

func TestNewVaultService_RejectsBadKey(t *testing.T) {
	repo := new(mocks.VaultRepository)

	_, err := service.NewVaultService(repo, "not-hex")
	assert.Error(t, err)

	_, err = service.NewVaultService(repo, "abcd")
	assert.Error(t, err, "short key must be rejected")
}

func TestVaultService_RoundTrip(t *testing.T) {
	repo := new(mocks.VaultRepository)
	svc, err := service.NewVaultService(repo, testVaultKey)
	require.NoError(t, err)
	ctx := context.Background()

	var saved *domain.VaultEntry
	repo.On("Save", ctx, mock.AnythingOfType("*domain.VaultEntry")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.VaultEntry)
			saved.ID = 1
		}).
		Return(nil).
		Once()

	entry, err := svc.Add(ctx, "router", "hunter2")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotContains(t, string(saved.Ciphertext), "hunter2", "password must be encrypted at rest")

	repo.On("ListAll", ctx).Return([]domain.VaultEntry{*saved}, nil).Once()

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, entry.ID, listed[0].ID)
	assert.Equal(t, "router", listed[0].Name)
	assert.Equal(t, "hunter2", listed[0].Password)
}

func TestVaultService_List_UndecryptableEntryDegrades(t *testing.T) {
	repo := new(mocks.VaultRepository)
	svc, err := service.NewVaultService(repo, testVaultKey)
	require.NoError(t, err)
	ctx := context.Background()

	repo.On("ListAll", ctx).Return([]domain.VaultEntry{
		{ID: 1, Name: "corrupt", Ciphertext: []byte("short")},
	}, nil).Once()

	listed, err := svc.List(ctx)
	require.NoError(t, err, "one bad entry must not fail the whole listing")
	require.Len(t, listed, 1)
	assert.Equal(t, "*** DECRYPTION ERROR ***", listed[0].Password)
}

func TestVaultService_Add_DuplicateName(t *testing.T) {
	repo := new(mocks.VaultRepository)
	svc, err := service.NewVaultService(repo, testVaultKey)
	require.NoError(t, err)
	ctx := context.Background()

	repo.On("Save", ctx, mock.AnythingOfType("*domain.VaultEntry")).
		Return(repository.ErrDuplicateEntry).
		Once()

	_, err = svc.Add(ctx, "router", "hunter2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrDuplicateName))
}

func TestVaultService_Delete_NotFound(t *testing.T) {
	repo := new(mocks.VaultRepository)
	svc, err := service.NewVaultService(repo, testVaultKey)
	require.NoError(t, err)
	ctx := context.Background()

	repo.On("Delete", ctx, uint(9)).Return(repository.ErrVaultEntryNotFound).Once()

	err = svc.Delete(ctx, 9)
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrEntryNotFound))
}
