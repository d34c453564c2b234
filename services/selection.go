package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/alboomhq/alboombackend/models"
	"github.com/alboomhq/alboombackend/repository"
)

// SelectionSynchronizer reconciles a client's selection snapshot with the
// persisted state. Writes are full replaces: the client sends its entire
// current set on every save, so the persisted state always matches exactly
// one coherent snapshot and never an interleaving of two toggles. If two
// replaces race, the later arrival at the store wins whole.
type SelectionSynchronizer struct {
	photos     repository.PhotoRepositoryInterface
	selections repository.SelectionRepositoryInterface
}

func NewSelectionSynchronizer(photos repository.PhotoRepositoryInterface, selections repository.SelectionRepositoryInterface) *SelectionSynchronizer {
	return &SelectionSynchronizer{photos: photos, selections: selections}
}

// ReplaceSelections swaps the session's persisted selection set for the
// given snapshot. Every photo ID must belong to the session; a stale client
// cannot attach selections to another session's photos.
func (s *SelectionSynchronizer) ReplaceSelections(sessionID uint, photoIDs []uint) error {
	if len(photoIDs) > 0 {
		photos, err := ReadWithRetry("selection: membership check", func() ([]models.Photo, error) {
			return s.photos.GetByIDs(photoIDs)
		})
		if err != nil {
			return err
		}
		known := make(map[uint]bool, len(photos))
		for _, photo := range photos {
			if photo.SessionID == sessionID {
				known[photo.ID] = true
			}
		}
		for _, id := range photoIDs {
			if !known[id] {
				return fmt.Errorf("photo %d does not belong to session %d", id, sessionID)
			}
		}
	}

	return s.selections.ReplaceForSession(sessionID, dedupe(photoIDs))
}

// GetSelections returns the photo IDs of the most recently completed replace.
// An idempotent read, retried once on store failure.
func (s *SelectionSynchronizer) GetSelections(sessionID uint) ([]uint, error) {
	return ReadWithRetry("selection: session selections", func() ([]uint, error) {
		return s.selections.GetPhotoIDsBySession(sessionID)
	})
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// DefaultDebounceDelay matches the client-side save window: rapid toggles
// within one second coalesce into a single persisted write.
const DefaultDebounceDelay = time.Second

// SelectionDebouncer coalesces rapid selection edits per session. Each
// session has at most one pending write; a new snapshot arriving before the
// delay elapses replaces the pending one and restarts the timer, so only the
// latest snapshot is ever flushed.
type SelectionDebouncer struct {
	syncer  *SelectionSynchronizer
	delay   time.Duration
	mu      sync.Mutex
	pending map[uint]*time.Timer
}

func NewSelectionDebouncer(syncer *SelectionSynchronizer, delay time.Duration) *SelectionDebouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &SelectionDebouncer{
		syncer:  syncer,
		delay:   delay,
		pending: make(map[uint]*time.Timer),
	}
}

// Schedule queues the snapshot for the session, superseding any pending one.
func (d *SelectionDebouncer) Schedule(sessionID uint, photoIDs []uint) {
	snapshot := append([]uint(nil), photoIDs...)

	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.pending[sessionID]; ok {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a fired timer may have been superseded by a newer Schedule or
		// dropped by Cancel before this ran; only the registered timer may
		// evict the entry and flush
		current := d.pending[sessionID] == timer
		if current {
			delete(d.pending, sessionID)
		}
		d.mu.Unlock()
		if !current {
			return
		}

		if err := d.syncer.ReplaceSelections(sessionID, snapshot); err != nil {
			log.Printf("selection: debounced replace failed for session %d: %v", sessionID, err)
		}
	})
	d.pending[sessionID] = timer
}

// Cancel drops any pending write for the session, e.g. when the initiating
// client is gone.
func (d *SelectionDebouncer) Cancel(sessionID uint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, ok := d.pending[sessionID]; ok {
		timer.Stop()
		delete(d.pending, sessionID)
	}
}

// Stop drops all pending writes.
func (d *SelectionDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for sessionID, timer := range d.pending {
		timer.Stop()
		delete(d.pending, sessionID)
	}
}
