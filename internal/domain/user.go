// Package domain defines the data structures shared across the application.
package domain

import "time"

// User is an account holder. Masters may manage the catalog, vault and files;
// regular users may browse and join watch parties.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null"`
	Password  string    `gorm:"type:text;not null"` // bcrypt hash, never the plain text
	Email     string    `gorm:"type:varchar(191)"`
	IsMaster  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
