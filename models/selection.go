package models

import "time"

// Selection marks a photo as chosen by the client. Presence of a row means
// selected; absence means not selected. Rows are only ever written as a full
// replace of a session's selection set, never as per-photo toggles.
type Selection struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID uint      `json:"session_id" gorm:"index;not null"`
	PhotoID   uint      `json:"photo_id" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Selection) TableName() string {
	return "photo_selections"
}
