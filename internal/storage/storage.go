package storage

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned when no payload exists under a content id.
var ErrBlobNotFound = errors.New("blob not found in storage")

// BlobStore maps a content id to an attachment payload. Submissions embed only
// attachment metadata plus the content id, so the backend can move from
// inline document storage to object storage without touching the Submission
// contract.
type BlobStore interface {
	// Put stores the encoded payload under the given content id, overwriting
	// any previous payload with the same id.
	Put(ctx context.Context, contentID string, encoded string) error

	// Get returns the encoded payload for the content id, or ErrBlobNotFound.
	Get(ctx context.Context, contentID string) (string, error)

	// Delete removes the payload. Deleting a missing payload is not an error.
	Delete(ctx context.Context, contentID string) error
}
