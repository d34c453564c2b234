package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Session lifecycle states. Transitions are driven by the photographer; the
// client-facing gate only honors whatever state is persisted.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusExpired   = "expired"
)

// Session represents one client photo-review engagement. Clients reach it
// through ClientToken, photographers through their own account.
type Session struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	PhotographerID uint       `json:"photographer_id" gorm:"index;not null"`
	Title          string     `json:"title" gorm:"not null"`
	ClientName     string     `json:"client_name"`
	ClientEmail    string     `json:"client_email"`
	ShootDate      *time.Time `json:"date,omitempty"`
	Description    string     `json:"description"`
	Status         string     `json:"status" gorm:"not null;default:active"`
	ClientToken    string     `json:"-" gorm:"uniqueIndex;not null"`
	Photos         []Photo    `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// BeforeCreate mints the client access token. The token is generated exactly
// once; it never changes for the lifetime of the session.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ClientToken == "" {
		token, err := GenerateClientToken()
		if err != nil {
			return err
		}
		s.ClientToken = token
	}
	if s.Status == "" {
		s.Status = SessionStatusActive
	}
	return nil
}

// IsActive reports whether the session accepts client access.
func (s *Session) IsActive() bool {
	return s.Status == SessionStatusActive
}

// GenerateClientToken returns a 64-character hex token from 32 bytes of
// crypto/rand entropy. URL-safe and unguessable.
func GenerateClientToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
