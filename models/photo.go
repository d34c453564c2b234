package models

import "time"

// Photo represents one ingested image. Filename is the collision-resistant
// stored name assigned at ingestion; OriginalName is whatever the
// photographer's browser sent. Both blob keys are written before the row is
// inserted, so a listed Photo always has both assets present.
type Photo struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	SessionID    uint   `json:"session_id" gorm:"index;not null"`
	Filename     string `json:"filename" gorm:"uniqueIndex;not null"`
	OriginalName string `json:"original_name" gorm:"not null"`
	BlobKey      string `json:"-" gorm:"not null"`
	ThumbnailKey string `json:"-" gorm:"not null"`
	FileSize     int64  `json:"file_size"`

	// EXIF metadata captured at ingestion; all optional
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
	CameraMake  *string `json:"camera_make,omitempty"`
	CameraModel *string `json:"camera_model,omitempty"`
	TakenAt     *int64  `json:"taken_at,omitempty"` // Unix timestamp

	CreatedAt time.Time `json:"created_at"`
}

func (Photo) TableName() string {
	return "photos"
}
