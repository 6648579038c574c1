package mocks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Upload records one Put call
type Upload struct {
	Key         string
	Path        string
	ContentType string
}

// MockArtifactStore is a mock implementation of the ArtifactStore interface for testing
type MockArtifactStore struct {
	mu         sync.Mutex
	uploads    []Upload
	ensured    int
	shouldFail bool
	failError  error
}

func NewMockArtifactStore() *MockArtifactStore {
	return &MockArtifactStore{}
}

func (m *MockArtifactStore) EnsureBucket(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured++
	return nil
}

func (m *MockArtifactStore) Put(ctx context.Context, key, path, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		if m.failError != nil {
			return m.failError
		}
		return fmt.Errorf("upload failed for %s", key)
	}
	m.uploads = append(m.uploads, Upload{Key: key, Path: path, ContentType: contentType})
	return nil
}

func (m *MockArtifactStore) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockArtifactStore) GetUploads() []Upload {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Upload, len(m.uploads))
	copy(out, m.uploads)
	return out
}

func (m *MockArtifactStore) EnsureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensured
}

// --- MockArchiveExtractor ---

// MockArchiveExtractor writes the configured entries into destDir
type MockArchiveExtractor struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMockArchiveExtractor(entries map[string][]byte) *MockArchiveExtractor {
	return &MockArchiveExtractor{entries: entries}
}

func (m *MockArchiveExtractor) Extract(ctx context.Context, archivePath, destDir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var paths []string
	for name, data := range m.entries {
		p := filepath.Join(destDir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
