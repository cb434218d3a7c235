package domain

import "time"

// VaultEntry is a stored credential. Ciphertext holds the secretbox-sealed
// password; the plain text only ever exists in memory on the way in or out.
type VaultEntry struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"type:varchar(100);uniqueIndex:idx_vault_name;not null"`
	Ciphertext []byte    `gorm:"type:varbinary(1024);not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
