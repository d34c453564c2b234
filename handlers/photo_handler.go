package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/config"
	"github.com/alboomhq/alboombackend/repository"
	"github.com/alboomhq/alboombackend/services"
)

type PhotoHandler struct {
	Sessions repository.SessionRepositoryInterface
	Pipeline *services.IngestionPipeline
	Cfg      config.Config
}

// UploadPhotos ingests a multipart batch of photos into the session. The
// request is streamed part by part into memory (the pipeline validates
// sizes and types before any blob is written) and handed to the ingestion
// pipeline as one batch.
func (h *PhotoHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	photographer, ok := requestPhotographer(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve account from context")
		return
	}

	sessionID, err := sessionIDParam(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	if _, err := h.Sessions.GetByIDForPhotographer(sessionID, photographer.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "session_not_found", "Session not found")
		} else {
			log.Printf("upload: failed to fetch session %d: %v", sessionID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch session")
		}
		return
	}

	reader, err := r.MultipartReader()
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_multipart", "Invalid multipart form: "+err.Error())
		return
	}

	var files []services.UploadFile
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("upload: error reading part: %v", err)
			WriteAPIError(w, http.StatusBadRequest, "invalid_multipart", "Malformed upload data")
			return
		}

		if part.FormName() != "photos" || part.FileName() == "" {
			// ignore unknown fields
			continue
		}

		// read one byte past the limit so oversized files are detected with
		// their true size flagged, without buffering arbitrarily large bodies
		data, err := io.ReadAll(io.LimitReader(part, h.Cfg.MaxUploadFileSize+1))
		part.Close()
		if err != nil {
			log.Printf("upload: error reading file %s: %v", part.FileName(), err)
			WriteAPIError(w, http.StatusBadRequest, "invalid_multipart", "Failed to read uploaded file "+part.FileName())
			return
		}

		files = append(files, services.UploadFile{
			Name:        part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        int64(len(data)),
			Data:        data,
		})
	}

	if len(files) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "no_files", "No photos submitted")
		return
	}

	result, err := h.Pipeline.Ingest(r.Context(), sessionID, files, nil)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	photoResponses := make([]PhotoResponse, 0, len(result.Uploaded))
	for i := range result.Uploaded {
		photoResponses = append(photoResponses, photoResponse(&result.Uploaded[i], false))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("%d photos uploaded successfully", len(result.Uploaded)),
		"photos":  photoResponses,
		"failed":  result.Failed,
	})
}
