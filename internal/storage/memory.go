package storage

import (
	"context"
	"sync"
)

// memoryBlobStore keeps payloads in a map. Used by tests and local
// development without a database.
type memoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]string
}

// NewMemoryBlobStore creates an in-memory BlobStore.
func NewMemoryBlobStore() BlobStore {
	return &memoryBlobStore{blobs: make(map[string]string)}
}

func (s *memoryBlobStore) Put(ctx context.Context, contentID string, encoded string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[contentID] = encoded
	return nil
}

func (s *memoryBlobStore) Get(ctx context.Context, contentID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	encoded, ok := s.blobs[contentID]
	if !ok {
		return "", ErrBlobNotFound
	}
	return encoded, nil
}

func (s *memoryBlobStore) Delete(ctx context.Context, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, contentID)
	return nil
}
