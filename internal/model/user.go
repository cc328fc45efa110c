package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an API account. Roles: "bartender" (may sell and read) and "admin"
// (full access). Accounts are soft-deactivated, never deleted.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'bartender'"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
