package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/alboomhq/alboombackend/apperrors"
	"github.com/alboomhq/alboombackend/config"
	"github.com/alboomhq/alboombackend/media"
	"github.com/alboomhq/alboombackend/models"
	"github.com/alboomhq/alboombackend/repository"
	"github.com/alboomhq/alboombackend/utils"
)

// perFileTimeout bounds the derive/upload/insert chain for a single file. A
// timed-out step counts as that file's failure, never a pipeline abort.
const perFileTimeout = 60 * time.Second

// UploadFile is one file from an upload request.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// FileFailure reports one file that was dropped during ingestion and why.
type FileFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// IngestResult is the outcome of one ingestion run. Uploaded and Failed
// together cover every submitted file.
type IngestResult struct {
	Uploaded []models.Photo `json:"uploaded"`
	Failed   []FileFailure  `json:"failed"`
}

// ProgressEvent reports per-file ingestion progress. Events are emitted on
// an optional channel supplied by the caller; any transport can consume
// them.
type ProgressEvent struct {
	Filename  string `json:"filename"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
	Status    string `json:"status"` // "uploaded" or "failed"
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// IngestionPipeline turns an uploaded file set into persisted photos with
// original and thumbnail blobs. Files are processed in fixed-size batches:
// all files of a batch run concurrently, batches run sequentially, so peak
// in-flight work stays bounded by the batch size no matter how many files
// arrive.
type IngestionPipeline struct {
	photos  repository.PhotoRepositoryInterface
	blobs   media.BlobStore
	deriver *media.Deriver

	batchSize   int
	maxPhotos   int
	maxFileSize int64
}

func NewIngestionPipeline(photos repository.PhotoRepositoryInterface, blobs media.BlobStore, deriver *media.Deriver, cfg config.Config) *IngestionPipeline {
	batchSize := cfg.IngestBatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	return &IngestionPipeline{
		photos:      photos,
		blobs:       blobs,
		deriver:     deriver,
		batchSize:   batchSize,
		maxPhotos:   cfg.MaxPhotosPerSession,
		maxFileSize: cfg.MaxUploadFileSize,
	}
}

// Ingest validates the whole batch up front, then processes it. Validation
// failures (capacity, file type, file size) reject the batch before any blob
// or record is written. After validation, each file succeeds or fails on its
// own; one bad file never blocks the rest.
//
// progress may be nil. When set, one event per file is emitted; sends never
// block the pipeline.
func (p *IngestionPipeline) Ingest(ctx context.Context, sessionID uint, files []UploadFile, progress chan<- ProgressEvent) (*IngestResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files submitted", apperrors.ErrInvalidFile)
	}

	existing, err := ReadWithRetry("ingest: session photo count", func() (int64, error) {
		return p.photos.CountBySession(sessionID)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: capacity check failed: %v", apperrors.ErrStoreUnavailable, err)
	}
	if existing+int64(len(files)) > int64(p.maxPhotos) {
		return nil, fmt.Errorf("%w: session has %d photos, adding %d would exceed the limit of %d",
			apperrors.ErrCapacityExceeded, existing, len(files), p.maxPhotos)
	}

	for _, file := range files {
		if !utils.IsImageContentType(file.ContentType) {
			return nil, fmt.Errorf("%w: %s has content type %q, only images are allowed",
				apperrors.ErrInvalidFile, file.Name, file.ContentType)
		}
		// Size may be a truncated read rather than the file's true size, so
		// the message never states it
		if file.Size > p.maxFileSize {
			return nil, fmt.Errorf("%w: %s exceeds the per-file limit of %d bytes",
				apperrors.ErrInvalidFile, file.Name, p.maxFileSize)
		}
	}

	result := &IngestResult{}
	var mu sync.Mutex
	done := 0

	for start := 0; start < len(files); start += p.batchSize {
		end := start + p.batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[start:end]

		var wg sync.WaitGroup
		wg.Add(len(batch))
		for i := range batch {
			file := batch[i]
			go func() {
				defer wg.Done()

				photo, err := p.processFile(ctx, sessionID, file)

				mu.Lock()
				done++
				doneNow := done
				if err != nil {
					log.Printf("ingest: failed to process %s for session %d: %v", file.Name, sessionID, err)
					result.Failed = append(result.Failed, FileFailure{Name: file.Name, Reason: err.Error()})
				} else {
					result.Uploaded = append(result.Uploaded, *photo)
				}
				mu.Unlock()

				emitProgress(progress, file.Name, doneNow, len(files), err)
			}()
		}
		wg.Wait()
	}

	log.Printf("ingest: session %d: %d uploaded, %d failed", sessionID, len(result.Uploaded), len(result.Failed))
	return result, nil
}

// processFile runs the full chain for one file: mint stored name, derive the
// thumbnail, upload both blobs, insert the record. Both blobs are in place
// before the row is written, so a listed photo always has both assets.
func (p *IngestionPipeline) processFile(ctx context.Context, sessionID uint, file UploadFile) (*models.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, perFileTimeout)
	defer cancel()

	storedName, err := utils.GenerateStoredFilename(file.Name)
	if err != nil {
		return nil, err
	}

	thumbBytes, err := p.deriver.Derive(file.Data)
	if err != nil {
		return nil, fmt.Errorf("thumbnail derivation failed: %w", err)
	}

	blobKey := media.PhotoBlobKey(sessionID, storedName)
	if _, err := p.blobs.Put(ctx, blobKey, file.ContentType, bytes.NewReader(file.Data)); err != nil {
		return nil, fmt.Errorf("original upload failed: %w", err)
	}

	thumbKey := media.ThumbnailBlobKey(sessionID, storedName)
	if _, err := p.blobs.Put(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumbBytes)); err != nil {
		// don't leave the original orphaned if the thumbnail can't be stored
		if delErr := p.blobs.Delete(blobKey); delErr != nil {
			log.Printf("ingest: failed to clean up blob %s: %v", blobKey, delErr)
		}
		return nil, fmt.Errorf("thumbnail upload failed: %w", err)
	}

	meta := utils.GetImageMetadata(file.Data)

	photo := &models.Photo{
		SessionID:    sessionID,
		Filename:     storedName,
		OriginalName: file.Name,
		BlobKey:      blobKey,
		ThumbnailKey: thumbKey,
		FileSize:     file.Size,
		Width:        meta.Width,
		Height:       meta.Height,
		CameraMake:   meta.CameraMake,
		CameraModel:  meta.CameraModel,
		TakenAt:      meta.TakenAt,
	}
	if err := p.photos.Create(photo); err != nil {
		if delErr := p.blobs.Delete(blobKey); delErr != nil {
			log.Printf("ingest: failed to clean up blob %s: %v", blobKey, delErr)
		}
		if delErr := p.blobs.Delete(thumbKey); delErr != nil {
			log.Printf("ingest: failed to clean up blob %s: %v", thumbKey, delErr)
		}
		return nil, fmt.Errorf("record insert failed: %w", err)
	}

	return photo, nil
}

func emitProgress(progress chan<- ProgressEvent, name string, done, total int, err error) {
	if progress == nil {
		return
	}
	event := ProgressEvent{
		Filename:  name,
		Done:      done,
		Total:     total,
		Status:    "uploaded",
		Timestamp: time.Now().Unix(),
	}
	if err != nil {
		event.Status = "failed"
		event.Error = err.Error()
	}
	select {
	case progress <- event:
	default:
		// a slow consumer never stalls ingestion
	}
}
