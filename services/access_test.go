package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/apperrors"
	"github.com/alboomhq/alboombackend/models"
)

// fakeSessionRepo resolves tokens from a map and can simulate transient
// lookup failures.
type fakeSessionRepo struct {
	sessions map[string]*models.Session
	failures int
	calls    int
}

func (f *fakeSessionRepo) GetByToken(token string) (*models.Session, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("connection reset by peer")
	}
	session, ok := f.sessions[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) Create(*models.Session) error            { return errors.New("not used") }
func (f *fakeSessionRepo) GetByID(uint) (*models.Session, error)   { return nil, gorm.ErrRecordNotFound }
func (f *fakeSessionRepo) GetByIDForPhotographer(uint, uint) (*models.Session, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeSessionRepo) ListByPhotographer(uint) ([]models.Session, error) { return nil, nil }
func (f *fakeSessionRepo) UpdateStatus(uint, string) error                   { return errors.New("not used") }
func (f *fakeSessionRepo) Delete(uint) error                                 { return errors.New("not used") }

func TestResolveTokenActiveSession(t *testing.T) {
	repo := &fakeSessionRepo{sessions: map[string]*models.Session{
		"tok-active": {ID: 7, Status: models.SessionStatusActive, ClientToken: "tok-active"},
	}}
	gate := NewAccessGate(repo)

	session, err := gate.ResolveToken("tok-active")
	require.NoError(t, err)
	assert.Equal(t, uint(7), session.ID)
}

func TestResolveTokenInactiveSession(t *testing.T) {
	repo := &fakeSessionRepo{sessions: map[string]*models.Session{
		"tok-done":    {ID: 7, Status: models.SessionStatusCompleted, ClientToken: "tok-done"},
		"tok-expired": {ID: 8, Status: models.SessionStatusExpired, ClientToken: "tok-expired"},
	}}
	gate := NewAccessGate(repo)

	_, err := gate.ResolveToken("tok-done")
	assert.ErrorIs(t, err, apperrors.ErrSessionInactive)

	_, err = gate.ResolveToken("tok-expired")
	assert.ErrorIs(t, err, apperrors.ErrSessionInactive)
}

func TestResolveTokenUnknown(t *testing.T) {
	gate := NewAccessGate(&fakeSessionRepo{sessions: map[string]*models.Session{}})

	_, err := gate.ResolveToken("no-such-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestResolveTokenEmpty(t *testing.T) {
	repo := &fakeSessionRepo{sessions: map[string]*models.Session{}}
	gate := NewAccessGate(repo)

	_, err := gate.ResolveToken("")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	assert.Zero(t, repo.calls, "empty tokens never hit the store")
}

func TestResolveTokenRetriesTransientFailure(t *testing.T) {
	repo := &fakeSessionRepo{
		sessions: map[string]*models.Session{
			"tok-flaky": {ID: 7, Status: models.SessionStatusActive, ClientToken: "tok-flaky"},
		},
		failures: 1,
	}
	gate := NewAccessGate(repo)

	session, err := gate.ResolveToken("tok-flaky")
	require.NoError(t, err)
	assert.Equal(t, uint(7), session.ID)
	assert.Equal(t, 2, repo.calls)
}

func TestResolveTokenGivesUpAfterOneRetry(t *testing.T) {
	repo := &fakeSessionRepo{sessions: map[string]*models.Session{}, failures: 5}
	gate := NewAccessGate(repo)

	_, err := gate.ResolveToken("tok-down")
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.Equal(t, 2, repo.calls)
}
