package services

import (
	"strings"

	"github.com/alboomhq/alboombackend/apperrors"
	"github.com/alboomhq/alboombackend/models"
	"github.com/alboomhq/alboombackend/utils"
)

// ExportSeparator joins the selected filename stems in the export
// expression; editing tools treat it as a logical OR.
const ExportSeparator = " OR "

// ExportCode builds the editing-tool query for the selected subset of a
// session's photos. The photos slice supplies the order (gallery order, i.e.
// stored filename order); selected is the chosen photo ID set. Stored
// filenames have their extension stripped. An empty selection is an error so
// callers can prompt for at least one pick instead of exporting nothing.
func ExportCode(photos []models.Photo, selected map[uint]bool) (string, error) {
	codes := make([]string, 0, len(selected))
	for _, photo := range photos {
		if selected[photo.ID] {
			codes = append(codes, utils.StripExtension(photo.Filename))
		}
	}
	if len(codes) == 0 {
		return "", apperrors.ErrEmptySelection
	}
	return strings.Join(codes, ExportSeparator), nil
}

// SelectedSet turns a selection ID list into the set form ExportCode takes.
func SelectedSet(photoIDs []uint) map[uint]bool {
	set := make(map[uint]bool, len(photoIDs))
	for _, id := range photoIDs {
		set[id] = true
	}
	return set
}
