package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alboomhq/alboombackend/apperrors"
	"github.com/alboomhq/alboombackend/models"
)

func exportGallery() []models.Photo {
	return []models.Photo{
		{ID: 1, Filename: "IMG_01_1714822301000_a1b2c3d4e5f60718.jpg"},
		{ID: 2, Filename: "IMG_02_1714822301001_b2c3d4e5f60718a1.jpg"},
		{ID: 3, Filename: "IMG_03_1714822301002_c3d4e5f60718a1b2.jpg"},
	}
}

func TestExportCodeSingleSelection(t *testing.T) {
	code, err := ExportCode(exportGallery(), map[uint]bool{2: true})
	require.NoError(t, err)
	assert.Equal(t, "IMG_02_1714822301001_b2c3d4e5f60718a1", code)
}

func TestExportCodeJoinsInGalleryOrder(t *testing.T) {
	// selection set order is irrelevant, gallery order wins
	code, err := ExportCode(exportGallery(), map[uint]bool{3: true, 1: true})
	require.NoError(t, err)
	assert.Equal(t, "IMG_01_1714822301000_a1b2c3d4e5f60718 OR IMG_03_1714822301002_c3d4e5f60718a1b2", code)
}

func TestExportCodeEmptySelection(t *testing.T) {
	_, err := ExportCode(exportGallery(), map[uint]bool{})
	assert.ErrorIs(t, err, apperrors.ErrEmptySelection)

	// selected IDs that match no gallery photo are equally empty
	_, err = ExportCode(exportGallery(), map[uint]bool{99: true})
	assert.ErrorIs(t, err, apperrors.ErrEmptySelection)
}

func TestSelectedSet(t *testing.T) {
	set := SelectedSet([]uint{1, 3, 3})
	assert.Equal(t, map[uint]bool{1: true, 3: true}, set)
	assert.Empty(t, SelectedSet(nil))
}
