package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alboomhq/alboombackend/models"
	"github.com/alboomhq/alboombackend/repository"
	"github.com/alboomhq/alboombackend/services"
)

// ClientHandler serves the token-gated client gallery. Clients never
// authenticate; the session token in the URL is the whole credential.
type ClientHandler struct {
	Gate       *services.AccessGate
	Photos     repository.PhotoRepositoryInterface
	Selections *services.SelectionSynchronizer
	Debouncer  *services.SelectionDebouncer
}

// GetSession returns the gallery for the session behind the token: photos
// in filename order with thumbnails, plus the current selection.
func (h *ClientHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	session, err := h.Gate.ResolveToken(token)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	photos, err := services.ReadWithRetry("client: session photos", func() ([]models.Photo, error) {
		return h.Photos.ListBySession(session.ID)
	})
	if err != nil {
		log.Printf("client: failed to list photos for session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch photos")
		return
	}

	selected, err := h.Selections.GetSelections(session.ID)
	if err != nil {
		log.Printf("client: failed to fetch selections for session %d: %v", session.ID, err)
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
		"date":        session.ShootDate,
		"description": session.Description,
		"photos":      photoResponses,
		"selections":  selected,
	})
}

type SaveSelectionsPayload struct {
	Selections []uint `json:"selections"`
}

// SaveSelections replaces the session's selection set with the client's
// current snapshot. Always a full replace, never a per-photo upsert, so the
// persisted state matches exactly one coherent client snapshot.
//
// With ?autosave=1 the snapshot goes through the per-session debouncer:
// rapid toggles coalesce into a single write carrying the latest set, and
// the request is acknowledged before the write lands. A plain save persists
// synchronously and supersedes anything pending.
func (h *ClientHandler) SaveSelections(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	session, err := h.Gate.ResolveToken(token)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	var payload SaveSelectionsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	if r.URL.Query().Get("autosave") == "1" {
		h.Debouncer.Schedule(session.ID, payload.Selections)
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "Selections queued"})
		return
	}

	// a direct save wins over any pending autosave snapshot
	h.Debouncer.Cancel(session.ID)

	if err := h.Selections.ReplaceSelections(session.ID, payload.Selections); err != nil {
		log.Printf("client: failed to replace selections for session %d: %v", session.ID, err)
		WriteAPIError(w, http.StatusBadRequest, "invalid_selection", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Selections saved successfully"})
}
