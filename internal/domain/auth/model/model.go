package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Name         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is the persisted half of a refresh credential. Records are
// only ever flipped to Revoked, never deleted inline.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (t RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  *string   `json:"name"`
}

// Session is what signup and login hand back to the transport layer.
type Session struct {
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
	User         UserSummary
}
