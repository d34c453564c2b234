package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Photographer represents a studio owner account.
type Photographer struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	StudioName   string    `json:"studio_name"`
	Sessions     []Session `json:"-" gorm:"foreignKey:PhotographerID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Photographer) TableName() string {
	return "photographers"
}

// SetPassword hashes the given password and sets it on the photographer.
func (p *Photographer) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the stored hash.
func (p *Photographer) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
	return err == nil
}
