package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
)

// MetadataRepository stores metadata records and catalogs as indented JSON files
type MetadataRepository struct {
	mu sync.RWMutex
}

// NewMetadataRepository creates a new file-based metadata repository
func NewMetadataRepository() *MetadataRepository {
	return &MetadataRepository{}
}

// Ensure it implements the interface
var _ ports.MetadataStore = (*MetadataRepository)(nil)

// Save writes meta to path, creating parent directories
func (r *MetadataRepository) Save(ctx context.Context, path string, meta *domain.Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeJSON(path, meta)
}

// Load reads the record at path
func (r *MetadataRepository) Load(ctx context.Context, path string) (*domain.Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var meta domain.Metadata
	if err := readJSON(path, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// List reads every .json record in dir, sorted by filename.
// Unreadable files are skipped; a missing directory yields no records.
func (r *MetadataRepository) List(ctx context.Context, dir string) ([]domain.Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Metadata{}, nil
		}
		return nil, fmt.Errorf("failed to read metadata directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	records := make([]domain.Metadata, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var meta domain.Metadata
		if err := readJSON(filepath.Join(dir, name), &meta); err != nil {
			continue
		}
		if meta.ID == "" {
			meta.ID = domain.ModelID(name)
		}
		records = append(records, meta)
	}
	return records, nil
}

// SaveCatalog writes the catalog to path
func (r *MetadataRepository) SaveCatalog(ctx context.Context, path string, catalog *domain.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeJSON(path, catalog)
}

// LoadCatalog reads the catalog at path
func (r *MetadataRepository) LoadCatalog(ctx context.Context, path string) (*domain.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var catalog domain.Catalog
	if err := readJSON(path, &catalog); err != nil {
		return nil, err
	}
	if catalog.Models == nil {
		catalog.Models = []domain.Metadata{}
	}
	return &catalog, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
