package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/venuedesk/backend/internal/application/effect"
)

// InMemoryDocumentArchive keeps archived documents in memory.
// Use this for development and tests until object storage is configured.
type InMemoryDocumentArchive struct {
	// BaseURL is the base URL for generated document URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewInMemoryDocumentArchive creates a new InMemoryDocumentArchive
func NewInMemoryDocumentArchive() *InMemoryDocumentArchive {
	return &InMemoryDocumentArchive{
		BaseURL: "https://archive.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure InMemoryDocumentArchive implements DocumentArchive
var _ effect.DocumentArchive = (*InMemoryDocumentArchive)(nil)

// Store keeps the content in memory and returns a deterministic URL
func (s *InMemoryDocumentArchive) Store(ctx context.Context, key string, content []byte) (string, error) {
	if key == "" {
		return "", errors.New("archive key is required")
	}
	if len(content) == 0 {
		return "", errors.New("archive content is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(content))
	copy(stored, content)
	s.objects[key] = stored

	return s.BaseURL + "/" + key, nil
}

// Get returns the stored content for a key
func (s *InMemoryDocumentArchive) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.objects[key]
	return content, ok
}

// Delete removes a stored document
func (s *InMemoryDocumentArchive) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("archive key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Size returns the number of stored documents
func (s *InMemoryDocumentArchive) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
