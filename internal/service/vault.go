package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/nacl/secretbox"

	"homestream/internal/domain"
	"homestream/internal/repository"
)

// vaultNonceSize is secretbox's nonce length; the nonce is prepended to the
// ciphertext so each entry is self-contained.
const vaultNonceSize = 24

// DecryptedEntry is a vault entry with its password recovered, as served to
// the master's vault page.
type DecryptedEntry struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// decryptFailedPlaceholder is shown instead of failing the whole listing
// when a single entry cannot be opened (e.g. after a key rotation).
const decryptFailedPlaceholder = "*** DECRYPTION ERROR ***"

// VaultService stores credentials encrypted at rest with NaCl secretbox.
type VaultService struct {
	vaultRepo repository.VaultRepository
	key       [32]byte
}

// NewVaultService creates a VaultService. keyHex must decode to exactly 32
// bytes; a bad key is a configuration error, not something to limp past.
func NewVaultService(vaultRepo repository.VaultRepository, keyHex string) (*VaultService, error) {
	if vaultRepo == nil {
		panic("VaultRepository cannot be nil for VaultService")
	}
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode vault key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("vault key must be 32 bytes, got %d", len(raw))
	}
	s := &VaultService{vaultRepo: vaultRepo}
	copy(s.key[:], raw)
	return s, nil
}

// List returns every entry with its password decrypted.
func (s *VaultService) List(ctx context.Context) ([]DecryptedEntry, error) {
	entries, err := s.vaultRepo.ListAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list vault entries")
		return nil, ErrInternalServer
	}
	out := make([]DecryptedEntry, 0, len(entries))
	for _, entry := range entries {
		password, err := s.open(entry.Ciphertext)
		if err != nil {
			logrus.WithField("entry_id", entry.ID).Warn("Vault entry could not be decrypted")
			password = decryptFailedPlaceholder
		}
		out = append(out, DecryptedEntry{ID: entry.ID, Name: entry.Name, Password: password})
	}
	return out, nil
}

// Add encrypts and stores a new credential.
func (s *VaultService) Add(ctx context.Context, name, password string) (*domain.VaultEntry, error) {
	sealed, err := s.seal([]byte(password))
	if err != nil {
		logrus.WithError(err).Error("Failed to seal vault entry")
		return nil, ErrInternalServer
	}
	entry := &domain.VaultEntry{Name: name, Ciphertext: sealed}
	if err := s.vaultRepo.Save(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrDuplicateName
		}
		logrus.WithError(err).WithField("name", name).Error("Failed to save vault entry")
		return nil, ErrInternalServer
	}
	return entry, nil
}

func (s *VaultService) Delete(ctx context.Context, id uint) error {
	err := s.vaultRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVaultEntryNotFound) {
			return ErrEntryNotFound
		}
		logrus.WithError(err).WithField("entry_id", id).Error("Failed to delete vault entry")
		return ErrInternalServer
	}
	return nil
}

func (s *VaultService) seal(plaintext []byte) ([]byte, error) {
	var nonce [vaultNonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &s.key), nil
}

func (s *VaultService) open(sealed []byte) (string, error) {
	if len(sealed) < vaultNonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}
	var nonce [vaultNonceSize]byte
	copy(nonce[:], sealed[:vaultNonceSize])
	plaintext, ok := secretbox.Open(nil, sealed[vaultNonceSize:], &nonce, &s.key)
	if !ok {
		return "", fmt.Errorf("secretbox open failed")
	}
	return string(plaintext), nil
}
