package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/apperrors"
	"github.com/alboomhq/alboombackend/config"
	"github.com/alboomhq/alboombackend/database"
	"github.com/alboomhq/alboombackend/media"
	"github.com/alboomhq/alboombackend/models"
	"github.com/alboomhq/alboombackend/repository"
	"github.com/alboomhq/alboombackend/services"
	"github.com/alboomhq/alboombackend/utils"
)

type SessionHandler struct {
	Sessions   repository.SessionRepositoryInterface
	Photos     repository.PhotoRepositoryInterface
	Selections *services.SelectionSynchronizer
	Blobs      media.BlobStore
	StatsDB    *sql.DB
	Cfg        config.Config
}

type CreateSessionPayload struct {
	Title       string     `json:"title"`
	ClientName  string     `json:"clientName"`
	ClientEmail string     `json:"clientEmail"`
	Date        *time.Time `json:"date"`
	Description string     `json:"description"`
}

type SessionResponse struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	ClientName     string     `json:"clientName"`
	ClientEmail    string     `json:"clientEmail"`
	Date           *time.Time `json:"date,omitempty"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	PhotoCount     int        `json:"photoCount"`
	SelectionCount int        `json:"selectionCount"`
	ClientLink     string     `json:"clientLink"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type PhotoResponse struct {
	ID           uint   `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Selected     bool   `json:"selected"`
}

func (h *SessionHandler) sessionResponse(session *models.Session, photoCount, selectionCount int) SessionResponse {
	return SessionResponse{
		ID:             session.ID,
		Title:          session.Title,
		ClientName:     session.ClientName,
		ClientEmail:    session.ClientEmail,
		Date:           session.ShootDate,
		Description:    session.Description,
		Status:         session.Status,
		PhotoCount:     photoCount,
		SelectionCount: selectionCount,
		ClientLink:     fmt.Sprintf("%s?session=%s", h.Cfg.FrontendURL, session.ClientToken),
		CreatedAt:      session.CreatedAt,
	}
}

func photoResponse(photo *models.Photo, selected bool) PhotoResponse {
	return PhotoResponse{
		ID:           photo.ID,
		Filename:     photo.Filename,
		OriginalName: photo.OriginalName,
		URL:          "/api/assets/" + photo.BlobKey,
		ThumbnailURL: "/api/assets/" + photo.ThumbnailKey,
		Selected:     selected,
	}
}

// requestPhotographer pulls the authenticated photographer out of the
// request context; AuthMiddleware guarantees it is present on these routes.
func requestPhotographer(r *http.Request) (*models.Photographer, bool) {
	photographer, ok := r.Context().Value(PhotographerContextKey).(*models.Photographer)
	return photographer, ok && photographer != nil
}

func sessionIDParam(r *http.Request) (uint, error) {
	idStr := chi.URLParam(r, "session_id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid session ID %q", idStr)
	}
	return uint(id), nil
}

// ownedSession loads the session and enforces photographer ownership.
func (h *SessionHandler) ownedSession(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	photographer, ok := requestPhotographer(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve account from context")
		return nil, false
	}

	sessionID, err := sessionIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return nil, false
	}

	session, err := h.Sessions.GetByIDForPhotographer(sessionID, photographer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "session_not_found", "Session not found")
		} else {
			log.Printf("session: failed to fetch session %d: %v", sessionID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch session")
		}
		return nil, false
	}
	return session, true
}

// CreateSession creates a review session and mints its client link.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	photographer, ok := requestPhotographer(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve account from context")
		return
	}

	var payload CreateSessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if payload.Title == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "Title is required")
		return
	}

	session := &models.Session{
		PhotographerID: photographer.ID,
		Title:          payload.Title,
		ClientName:     payload.ClientName,
		ClientEmail:    payload.ClientEmail,
		ShootDate:      payload.Date,
		Description:    payload.Description,
	}
	if err := h.Sessions.Create(session); err != nil {
		log.Printf("session: failed to create session: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Session created successfully",
		"session": h.sessionResponse(session, 0, 0),
	})
}

// ListSessions returns the photographer's sessions, newest first, with photo
// and selection counts.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	photographer, ok := requestPhotographer(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve account from context")
		return
	}

	sessions, err := h.Sessions.ListByPhotographer(photographer.ID)
	if err != nil {
		log.Printf("session: failed to list sessions: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list sessions")
		return
	}

	counts, err := database.GetSessionCounts(h.StatsDB, photographer.ID)
	if err != nil {
		log.Printf("session: failed to fetch session counts: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to list sessions")
		return
	}

	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		c := counts[sessions[i].ID]
		responses = append(responses, h.sessionResponse(&sessions[i], c.PhotoCount, c.SelectionCount))
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetSession returns one session with its gallery and current selections.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	photos, err := services.ReadWithRetry("session: session photos", func() ([]models.Photo, error) {
		return h.Photos.ListBySession(session.ID)
	})
	if err != nil {
		log.Printf("session: failed to list photos for session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch photos")
		return
	}

	selected, err := h.Selections.GetSelections(session.ID)
	if err != nil {
		log.Printf("session: failed to fetch selections for session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch selections")
		return
	}
	selectedSet := services.SelectedSet(selected)

	photoResponses := make([]PhotoResponse, 0, len(photos))
	for i := range photos {
		photoResponses = append(photoResponses, photoResponse(&photos[i], selectedSet[photos[i].ID]))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":          session.ID,
		"title":       session.Title,
		"clientName":  session.ClientName,
		"clientEmail": session.ClientEmail,
		"date":        session.ShootDate,
		"description": session.Description,
		"status":      session.Status,
		"clientLink":  fmt.Sprintf("%s?session=%s", h.Cfg.FrontendURL, session.ClientToken),
		"photos":      photoResponses,
		"selections":  selected,
	})
}

type UpdateStatusPayload struct {
	Status string `json:"status"`
}

// UpdateSessionStatus transitions the session lifecycle state. The client
// token is untouched; a completed or expired session simply stops resolving
// for clients.
func (h *SessionHandler) UpdateSessionStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	var payload UpdateStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	switch payload.Status {
	case models.SessionStatusActive, models.SessionStatusCompleted, models.SessionStatusExpired:
	default:
		WriteAPIError(w, http.StatusBadRequest, "invalid_status", "Status must be active, completed or expired")
		return
	}

	if err := h.Sessions.UpdateStatus(session.ID, payload.Status); err != nil {
		log.Printf("session: failed to update status for session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session updated", "status": payload.Status})
}

// DeleteSession removes a session with its photos and selections.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	if err := h.Sessions.Delete(session.ID); err != nil {
		log.Printf("session: failed to delete session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

// ExportSelection returns the editing-tool query for the session's selected
// photos: filename stems joined with " OR ".
func (h *SessionHandler) ExportSelection(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	photos, err := services.ReadWithRetry("session: export photos", func() ([]models.Photo, error) {
		return h.Photos.ListBySession(session.ID)
	})
	if err != nil {
		log.Printf("session: failed to list photos for export of session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch photos")
		return
	}

	selected, err := h.Selections.GetSelections(session.ID)
	if err != nil {
		log.Printf("session: failed to fetch selections for export of session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch selections")
		return
	}

	code, err := services.ExportCode(photos, services.SelectedSet(selected))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"code":  code,
		"count": len(selected),
	})
}

// DownloadSelectionArchive streams a zip of the selected photos.
func (h *SessionHandler) DownloadSelectionArchive(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	selected, err := h.Selections.GetSelections(session.ID)
	if err != nil {
		log.Printf("session: failed to fetch selections for archive of session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch selections")
		return
	}
	if len(selected) == 0 {
		WriteServiceError(w, apperrors.ErrEmptySelection)
		return
	}

	photos, err := services.ReadWithRetry("session: archive photos", func() ([]models.Photo, error) {
		return h.Photos.GetByIDs(selected)
	})
	if err != nil {
		log.Printf("session: failed to fetch photos for archive of session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch photos")
		return
	}

	zipPath, _, err := utils.CreateSelectionZip(h.Blobs, photos, h.Cfg.ArchivesPath)
	if err != nil {
		log.Printf("session: failed to build archive for session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to build archive")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("session_%d_selection.zip", session.ID)))
	http.ServeFile(w, r, zipPath)
}

// GetStats returns the photographer's dashboard totals.
func (h *SessionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	photographer, ok := requestPhotographer(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve account from context")
		return
	}

	stats, err := database.GetDashboardStats(h.StatsDB, photographer.ID)
	if err != nil {
		log.Printf("session: failed to fetch stats: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
