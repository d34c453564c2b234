package utils

import (
	"bytes"
	"image"
	"log"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata holds the EXIF subset captured at ingestion time.
type Metadata struct {
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
	CameraMake  *string `json:"camera_make,omitempty"`
	CameraModel *string `json:"camera_model,omitempty"`
	TakenAt     *int64  `json:"taken_at,omitempty"`
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	// val string might have null chars at the end
	val := strings.Trim(strings.TrimRight(tag.String(), "\x00"), "\"")
	if val == "" {
		return nil
	}
	return &val
}

// GetImageMetadata extracts dimensions and relevant EXIF tags from raw
// upload bytes. Missing EXIF is not an error; whatever was found is
// returned.
func GetImageMetadata(data []byte) *Metadata {
	meta := &Metadata{}

	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width = &w
		meta.Height = &h
	} else {
		log.Printf("metadata: Warning - Could not decode config for dimensions (format: %s): %v", format, err)
	}

	exifData, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// not necessarily a problem, file might just lack EXIF data
		return meta
	}

	meta.CameraMake = getString(exifData, exif.Make)
	meta.CameraModel = getString(exifData, exif.Model)

	dt, err := exifData.DateTime()
	if err == nil {
		ts := dt.Unix()
		meta.TakenAt = &ts
	}

	return meta
}
