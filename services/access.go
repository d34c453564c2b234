package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/apperrors"
	"github.com/alboomhq/alboombackend/models"
	"github.com/alboomhq/alboombackend/repository"
)

// AccessGate maps opaque client tokens to sessions and enforces lifecycle
// state. Lifecycle transitions themselves happen elsewhere; the gate only
// honors whatever status is persisted.
type AccessGate struct {
	sessions repository.SessionRepositoryInterface
}

func NewAccessGate(sessions repository.SessionRepositoryInterface) *AccessGate {
	return &AccessGate{sessions: sessions}
}

// ResolveToken returns the active session holding the token. Fails with
// apperrors.ErrTokenNotFound for unknown tokens and
// apperrors.ErrSessionInactive when the session exists but is completed or
// expired. The lookup is an idempotent read, so a transport failure is
// retried once with backoff before giving up.
func (g *AccessGate) ResolveToken(token string) (*models.Session, error) {
	if token == "" {
		return nil, apperrors.ErrTokenNotFound
	}

	session, err := ReadWithRetry("access: token lookup", func() (*models.Session, error) {
		return g.sessions.GetByToken(token)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	if !session.IsActive() {
		return nil, apperrors.ErrSessionInactive
	}
	return session, nil
}
