package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

func sampleMetadata(id string, size int64) *domain.Metadata {
	return &domain.Metadata{
		ID:              id,
		Name:            domain.HumanizeID(id),
		ProfileType:     domain.ProfileTypeCustom,
		Dimensions:      domain.Dimensions{Width: 1, Height: 1, BaseLength: 10},
		ExtrusionAxis:   domain.AxisX,
		Material:        domain.MaterialAluminum,
		SupportsTapping: true,
		ModelFile:       id + ".glb",
		LOD:             domain.LODMedium,
		FileSize:        size,
	}
}

func TestMetadataRepository_SaveAndLoad(t *testing.T) {
	repo := NewMetadataRepository()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "metadata", "medium", "rail.json")

	if err := repo.Save(ctx, path, sampleMetadata("rail", 42)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Two-space indentation
	if !strings.Contains(string(data), "\n  \"id\": \"rail\"") {
		t.Errorf("unexpected formatting:\n%s", data)
	}

	got, err := repo.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != "rail" || got.FileSize != 42 || got.ExtrusionAxis != domain.AxisX {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestMetadataRepository_List(t *testing.T) {
	repo := NewMetadataRepository()
	ctx := context.Background()
	dir := t.TempDir()

	repo.Save(ctx, filepath.Join(dir, "b.json"), sampleMetadata("b", 2))
	repo.Save(ctx, filepath.Join(dir, "a.json"), sampleMetadata("a", 1))
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	records, err := repo.List(ctx, dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 || records[0].ID != "a" || records[1].ID != "b" {
		t.Errorf("records = %+v", records)
	}

	missing, err := repo.List(ctx, filepath.Join(dir, "nope"))
	if err != nil || len(missing) != 0 {
		t.Errorf("missing dir: %v, %d records", err, len(missing))
	}
}

func TestMetadataRepository_Catalog(t *testing.T) {
	repo := NewMetadataRepository()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "processed", "catalog.json")

	catalog := domain.NewCatalog([]domain.Metadata{*sampleMetadata("z", 3), *sampleMetadata("m", 4)})
	if err := repo.SaveCatalog(ctx, path, catalog); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}

	got, err := repo.LoadCatalog(ctx, path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(got.Models) != 2 || got.Models[0].ID != "m" || got.TotalSize() != 7 {
		t.Errorf("catalog = %+v", got)
	}

	if _, err := repo.LoadCatalog(ctx, filepath.Join(t.TempDir(), "none.json")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
