package apperrors

import "errors"

// Sentinel errors shared across services and handlers. Handlers map these to
// HTTP statuses with errors.Is; services wrap them with fmt.Errorf("...: %w")
// to add context.
var (
	// ErrInvalidFile is returned during pre-validation when a file's declared
	// content type is not an image or its size exceeds the per-file limit.
	// Nothing has been written when this is returned.
	ErrInvalidFile = errors.New("invalid file")

	// ErrCapacityExceeded is returned when a batch would push a session past
	// its photo cap. Nothing has been written when this is returned.
	ErrCapacityExceeded = errors.New("session photo capacity exceeded")

	// ErrUnsupportedImage is returned by the thumbnail deriver when the input
	// bytes cannot be decoded as an image.
	ErrUnsupportedImage = errors.New("unsupported image data")

	// ErrTokenNotFound is returned when no session holds the given client token.
	ErrTokenNotFound = errors.New("session token not found")

	// ErrSessionInactive is returned when a token resolves to a session whose
	// status is not active (completed or expired).
	ErrSessionInactive = errors.New("session is not active")

	// ErrEmptySelection is returned when an export is requested with no
	// photos selected.
	ErrEmptySelection = errors.New("no photos selected")

	// ErrStoreUnavailable wraps transport-level failures from the record or
	// blob store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
