package services

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// retryBackoff is the pause before the single retry of an idempotent read.
const retryBackoff = 100 * time.Millisecond

// ReadWithRetry runs an idempotent store read, retrying once with backoff
// when the store itself fails. A not-found result is an answer, not a
// failure, and is returned immediately.
func ReadWithRetry[T any](what string, read func() (T, error)) (T, error) {
	out, err := read()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("%s: read failed, retrying once: %v", what, err)
		time.Sleep(retryBackoff)
		out, err = read()
	}
	return out, err
}
