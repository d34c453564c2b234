package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/apperrors"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// WriteServiceError maps service-layer errors onto the API error format.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidFile):
		WriteAPIError(w, http.StatusBadRequest, "invalid_file", err.Error())
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		WriteAPIError(w, http.StatusBadRequest, "capacity_exceeded", err.Error())
	case errors.Is(err, apperrors.ErrTokenNotFound):
		WriteAPIError(w, http.StatusNotFound, "session_not_found", "Session not found or expired")
	case errors.Is(err, apperrors.ErrSessionInactive):
		WriteAPIError(w, http.StatusForbidden, "session_inactive", "Session is no longer active")
	case errors.Is(err, apperrors.ErrEmptySelection):
		WriteAPIError(w, http.StatusConflict, "empty_selection", "Select at least one photo before exporting")
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		WriteAPIError(w, http.StatusServiceUnavailable, "store_unavailable", "Storage is temporarily unavailable")
	case errors.Is(err, gorm.ErrRecordNotFound):
		WriteAPIError(w, http.StatusNotFound, "not_found", "Resource not found")
	default:
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
