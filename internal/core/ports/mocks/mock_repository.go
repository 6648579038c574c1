package mocks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

// MockMetadataStore is an in-memory implementation of the MetadataStore interface for testing
type MockMetadataStore struct {
	mu         sync.RWMutex
	records    map[string]*domain.Metadata
	catalogs   map[string]*domain.Catalog
	saves      []string
	shouldFail bool
	failError  error
}

// NewMockMetadataStore creates a new mock metadata store
func NewMockMetadataStore() *MockMetadataStore {
	return &MockMetadataStore{
		records:  make(map[string]*domain.Metadata),
		catalogs: make(map[string]*domain.Catalog),
	}
}

// Save stores a copy of the record under path
func (m *MockMetadataStore) Save(ctx context.Context, path string, meta *domain.Metadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves = append(m.saves, path)
	if m.shouldFail {
		return m.failure(path)
	}

	cp := *meta
	m.records[path] = &cp
	return nil
}

// Load returns the record stored under path
func (m *MockMetadataStore) Load(ctx context.Context, path string) (*domain.Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meta, ok := m.records[path]
	if !ok {
		return nil, fmt.Errorf("metadata not found: %s: %w", path, os.ErrNotExist)
	}
	cp := *meta
	return &cp, nil
}

// List returns every record stored directly under dir, sorted by path
func (m *MockMetadataStore) List(ctx context.Context, dir string) ([]domain.Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.records))
	for p := range m.records {
		if filepath.Dir(p) == filepath.Clean(dir) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	out := make([]domain.Metadata, 0, len(paths))
	for _, p := range paths {
		out = append(out, *m.records[p])
	}
	return out, nil
}

// SaveCatalog stores the catalog under path
func (m *MockMetadataStore) SaveCatalog(ctx context.Context, path string, catalog *domain.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return m.failure(path)
	}
	m.catalogs[path] = catalog
	return nil
}

// LoadCatalog returns the catalog stored under path
func (m *MockMetadataStore) LoadCatalog(ctx context.Context, path string) (*domain.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.catalogs[path]
	if !ok {
		return nil, fmt.Errorf("catalog not found: %s: %w", path, os.ErrNotExist)
	}
	cp := *c
	cp.Models = append([]domain.Metadata(nil), c.Models...)
	return &cp, nil
}

// Put seeds a record without recording a save
func (m *MockMetadataStore) Put(path string, meta domain.Metadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[path] = &meta
}

// Catalog returns the catalog saved under path, or nil
func (m *MockMetadataStore) Catalog(path string) *domain.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalogs[path]
}

// GetSaves returns the paths passed to Save in call order
func (m *MockMetadataStore) GetSaves() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	saves := make([]string, len(m.saves))
	copy(saves, m.saves)
	return saves
}

func (m *MockMetadataStore) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockMetadataStore) failure(path string) error {
	if m.failError != nil {
		return m.failError
	}
	return fmt.Errorf("write failed for %s", path)
}
