package repository

import (
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alboomhq/alboombackend/models"
)

func TestReplaceForSessionSwapsWholeSet(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	photos := NewPhotoRepository(db)
	selections := NewSelectionRepository(db)

	session := &models.Session{PhotographerID: 1, Title: "Smith Wedding"}
	require.NoError(t, sessions.Create(session))

	ids := make([]uint, 0, 3)
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		photo := &models.Photo{
			SessionID:    session.ID,
			Filename:     name,
			OriginalName: name,
			BlobKey:      "sessions/1/photos/" + name,
			ThumbnailKey: "sessions/1/thumbnails/thumb_" + name,
		}
		require.NoError(t, photos.Create(photo))
		ids = append(ids, photo.ID)
	}

	require.NoError(t, selections.ReplaceForSession(session.ID, []uint{ids[0], ids[1]}))
	got, err := selections.GetPhotoIDsBySession(session.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{ids[0], ids[1]}, got)

	// a later snapshot replaces the earlier one entirely
	require.NoError(t, selections.ReplaceForSession(session.ID, []uint{ids[1], ids[2]}))
	got, err = selections.GetPhotoIDsBySession(session.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{ids[1], ids[2]}, got)

	// empty snapshot clears everything
	require.NoError(t, selections.ReplaceForSession(session.ID, nil))
	got, err = selections.GetPhotoIDsBySession(session.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceForSessionScopedToSession(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	photos := NewPhotoRepository(db)
	selections := NewSelectionRepository(db)

	first := &models.Session{PhotographerID: 1, Title: "First"}
	second := &models.Session{PhotographerID: 1, Title: "Second"}
	require.NoError(t, sessions.Create(first))
	require.NoError(t, sessions.Create(second))

	photoA := &models.Photo{SessionID: first.ID, Filename: "a.jpg", OriginalName: "a.jpg", BlobKey: "ka", ThumbnailKey: "ta"}
	photoB := &models.Photo{SessionID: second.ID, Filename: "b.jpg", OriginalName: "b.jpg", BlobKey: "kb", ThumbnailKey: "tb"}
	require.NoError(t, photos.Create(photoA))
	require.NoError(t, photos.Create(photoB))

	require.NoError(t, selections.ReplaceForSession(first.ID, []uint{photoA.ID}))
	require.NoError(t, selections.ReplaceForSession(second.ID, []uint{photoB.ID}))

	// clearing one session leaves the other untouched
	require.NoError(t, selections.ReplaceForSession(first.ID, nil))

	got, err := selections.GetPhotoIDsBySession(second.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{photoB.ID}, got)
}

func sortedIDs(ids []uint) []uint {
	out := append([]uint(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestReplaceForSessionConcurrentSnapshots(t *testing.T) {
	db := openPooledTestDB(t)
	sessions := NewSessionRepository(db)
	photos := NewPhotoRepository(db)
	selections := NewSelectionRepository(db)

	session := &models.Session{PhotographerID: 1, Title: "Smith Wedding"}
	require.NoError(t, sessions.Create(session))

	ids := make([]uint, 0, 3)
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		photo := &models.Photo{
			SessionID:    session.ID,
			Filename:     name,
			OriginalName: name,
			BlobKey:      "k" + name,
			ThumbnailKey: "t" + name,
		}
		require.NoError(t, photos.Create(photo))
		ids = append(ids, photo.ID)
	}

	setA := []uint{ids[0], ids[1]}
	setB := []uint{ids[1], ids[2]}
	require.NoError(t, selections.ReplaceForSession(session.ID, setA))

	// two writers race full replaces of the two snapshots
	var wg sync.WaitGroup
	for _, set := range [][]uint{setA, setB} {
		set := set
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				if err := selections.ReplaceForSession(session.ID, set); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	writersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(writersDone)
	}()

	// a concurrent reader must only ever see one of the two whole snapshots,
	// never the cleared-but-not-yet-repopulated intermediate state
	wantA := sortedIDs(setA)
	wantB := sortedIDs(setB)
	for done := false; !done; {
		select {
		case <-writersDone:
			done = true
		default:
		}
		got, err := selections.GetPhotoIDsBySession(session.ID)
		require.NoError(t, err)
		observed := sortedIDs(got)
		if !reflect.DeepEqual(observed, wantA) && !reflect.DeepEqual(observed, wantB) {
			t.Fatalf("observed selection state %v, want %v or %v", observed, wantA, wantB)
		}
	}
}
