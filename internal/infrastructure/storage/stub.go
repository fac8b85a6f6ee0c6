package storage

import (
	"context"
	"errors"
	"sync"

	insightapp "github.com/programmatrix/backend/internal/application/insight"
)

// StubObjectStorage keeps uploaded artifacts in memory and returns
// deterministic URLs. Used in development when no S3 backend is
// configured, and in tests.
type StubObjectStorage struct {
	// BaseURL prefixes returned artifact URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

var _ insightapp.ObjectStorage = (*StubObjectStorage)(nil)

// Put stores the artifact in memory and returns its stub URL
func (s *StubObjectStorage) Put(ctx context.Context, key string, contentType string, body []byte) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.Lock()
	s.objects[key] = append([]byte(nil), body...)
	s.mu.Unlock()

	return s.BaseURL + "/" + key, nil
}

// Get returns a stored artifact
func (s *StubObjectStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[key]
	return body, ok
}

// Delete removes a stored artifact
func (s *StubObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Count returns the number of stored artifacts
func (s *StubObjectStorage) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
