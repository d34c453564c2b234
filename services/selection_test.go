package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alboomhq/alboombackend/models"
)

// fakeSelectionRepo records every replace so tests can assert coalescing.
// getFailures makes the next N reads fail with a transport error.
type fakeSelectionRepo struct {
	mu          sync.Mutex
	replaces    [][]uint
	current     []uint
	getFailures int
	getCalls    int
}

func (f *fakeSelectionRepo) ReplaceForSession(sessionID uint, photoIDs []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces = append(f.replaces, append([]uint(nil), photoIDs...))
	f.current = append([]uint(nil), photoIDs...)
	return nil
}

func (f *fakeSelectionRepo) GetPhotoIDsBySession(sessionID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getFailures > 0 {
		f.getFailures--
		return nil, errors.New("connection reset by peer")
	}
	return append([]uint(nil), f.current...), nil
}

func (f *fakeSelectionRepo) allReplaces() [][]uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]uint, len(f.replaces))
	copy(out, f.replaces)
	return out
}

func (f *fakeSelectionRepo) replaceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.replaces)
}

func (f *fakeSelectionRepo) lastReplace() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replaces) == 0 {
		return nil
	}
	return f.replaces[len(f.replaces)-1]
}

func sessionPhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{
		photos: []models.Photo{
			{ID: 1, SessionID: 7, Filename: "a.jpg"},
			{ID: 2, SessionID: 7, Filename: "b.jpg"},
			{ID: 3, SessionID: 7, Filename: "c.jpg"},
			{ID: 4, SessionID: 8, Filename: "d.jpg"},
		},
		nextID: 4,
	}
}

func TestReplaceSelectionsValidatesMembership(t *testing.T) {
	selections := &fakeSelectionRepo{}
	syncer := NewSelectionSynchronizer(sessionPhotoRepo(), selections)

	err := syncer.ReplaceSelections(7, []uint{1, 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to session")
	assert.Zero(t, selections.replaceCount(), "an invalid snapshot must not touch the store")

	err = syncer.ReplaceSelections(7, []uint{1, 99})
	require.Error(t, err)
	assert.Zero(t, selections.replaceCount())
}

func TestReplaceSelectionsDedupes(t *testing.T) {
	selections := &fakeSelectionRepo{}
	syncer := NewSelectionSynchronizer(sessionPhotoRepo(), selections)

	require.NoError(t, syncer.ReplaceSelections(7, []uint{2, 1, 2, 1}))
	assert.Equal(t, []uint{2, 1}, selections.lastReplace())
}

func TestReplaceSelectionsEmptyClears(t *testing.T) {
	selections := &fakeSelectionRepo{}
	syncer := NewSelectionSynchronizer(sessionPhotoRepo(), selections)

	require.NoError(t, syncer.ReplaceSelections(7, []uint{1, 2}))
	require.NoError(t, syncer.ReplaceSelections(7, nil))

	got, err := syncer.GetSelections(7)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetSelectionsRetriesTransientFailure(t *testing.T) {
	selections := &fakeSelectionRepo{current: []uint{1}, getFailures: 1}
	syncer := NewSelectionSynchronizer(sessionPhotoRepo(), selections)

	got, err := syncer.GetSelections(7)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, got)
	assert.Equal(t, 2, selections.getCalls)
}

func TestGetSelectionsGivesUpAfterOneRetry(t *testing.T) {
	selections := &fakeSelectionRepo{getFailures: 5}
	syncer := NewSelectionSynchronizer(sessionPhotoRepo(), selections)

	_, err := syncer.GetSelections(7)
	require.Error(t, err)
	assert.Equal(t, 2, selections.getCalls)
}

func TestDebouncerCoalescesRapidEdits(t *testing.T) {
	selections := &fakeSelectionRepo{}
	syncer := NewSelectionSynchronizer(sessionPhotoRepo(), selections)
	debouncer := NewSelectionDebouncer(syncer, 25*time.Millisecond)
	defer debouncer.Stop()

	debouncer.Schedule(7, []uint{1})
	debouncer.Schedule(7, []uint{1, 2})
	debouncer.Schedule(7, []uint{2, 3})

	require.Eventually(t, func() bool {
		return selections.replaceCount() == 1
	}, time.Second, 5*time.Millisecond, "rapid edits must coalesce into one write")

	assert.Equal(t, []uint{2, 3}, selections.lastReplace(), "only the latest snapshot is flushed")

	// nothing further lands once the pending write has flushed
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, selections.replaceCount())
}

func TestDebouncerIsPerSession(t *testing.T) {
	selections := &fakeSelectionRepo{}
	syncer := NewSelectionSynchronizer(sessionPhotoRepo(), selections)
	debouncer := NewSelectionDebouncer(syncer, 10*time.Millisecond)
	defer debouncer.Stop()

	debouncer.Schedule(7, []uint{1})
	debouncer.Schedule(8, []uint{4})

	require.Eventually(t, func() bool {
		return selections.replaceCount() == 2
	}, time.Second, 5*time.Millisecond, "sessions debounce independently")
}

func TestDebouncerCancelDropsPendingWrite(t *testing.T) {
	selections := &fakeSelectionRepo{}
	syncer := NewSelectionSynchronizer(sessionPhotoRepo(), selections)
	debouncer := NewSelectionDebouncer(syncer, 20*time.Millisecond)
	defer debouncer.Stop()

	debouncer.Schedule(7, []uint{1, 2})
	debouncer.Cancel(7)

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, selections.replaceCount())
}

func TestDebouncerCancelDropsRescheduledWrite(t *testing.T) {
	selections := &fakeSelectionRepo{}
	syncer := NewSelectionSynchronizer(sessionPhotoRepo(), selections)
	delay := 2 * time.Millisecond
	debouncer := NewSelectionDebouncer(syncer, delay)
	defer debouncer.Stop()

	// reschedule right as the first timer fires, then cancel; the cancelled
	// snapshot must never flush no matter how the firing interleaves with
	// the reschedule
	for i := 0; i < 200; i++ {
		debouncer.Schedule(7, []uint{1})
		time.Sleep(delay)
		debouncer.Schedule(7, []uint{2, 3})
		debouncer.Cancel(7)
	}

	time.Sleep(20 * delay)
	for _, flushed := range selections.allReplaces() {
		assert.NotEqual(t, []uint{2, 3}, flushed)
	}
}
