package storage

import (
	"context"
	"io"
	"sync"
)

// MemoryStorage is an in-memory BlobStore used by unit tests and the
// standalone content binary. Resolved URLs use a fake scheme so tests can
// assert the upload/resolve/write chain without a network.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte), baseURL: "mem://assets/"}
}

func (s *MemoryStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, progress ProgressFunc) error {
	data, err := io.ReadAll(newProgressReader(reader, size, progress))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *MemoryStorage) ResolveURL(ctx context.Context, key string) (string, error) {
	return s.baseURL + key, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, keyOrURL string) error {
	key := keyOrURL
	if len(keyOrURL) > len(s.baseURL) && keyOrURL[:len(s.baseURL)] == s.baseURL {
		key = keyOrURL[len(s.baseURL):]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key) // deleting a missing object is a no-op
	return nil
}

// Health always succeeds; memory storage has no backend to probe.
func (s *MemoryStorage) Health(ctx context.Context) error { return nil }

// Object returns the stored bytes for a key (test helper).
func (s *MemoryStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}

// Len reports the number of stored objects (test helper).
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
