package ports

import (
	"context"
	"errors"
)

// ErrRequestInProgress is returned by IdempotencyStore.Begin while the first
// request with the same key has not finished.
var ErrRequestInProgress = errors.New("a request with this idempotency key is in progress")

// StoredResponse is the first response given to an idempotent request.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// IdempotencyStore remembers responses of mutating requests by key.
type IdempotencyStore interface {
	// Begin reserves key. It returns the stored response when the key was
	// already completed and nil when the caller holds the reservation.
	Begin(ctx context.Context, key string) (*StoredResponse, error)

	// Complete stores the response and releases the reservation.
	Complete(ctx context.Context, key string, resp StoredResponse) error

	// Abort drops the reservation so the request can be retried.
	Abort(ctx context.Context, key string) error
}
