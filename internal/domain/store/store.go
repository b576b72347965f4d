// Package store holds error classification shared by all repositories.
package store

import "github.com/go-faster/errors"

// ErrTransient marks store failures that left no partial write behind and are
// safe to retry: lock timeouts, deadlocks, serialization failures, and lost
// connections. Repositories wrap such errors with it; handlers surface them
// distinctly so clients can apply backoff-retry.
var ErrTransient = errors.New("transient store error")

// IsTransient reports whether err is classified as safely retryable.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
