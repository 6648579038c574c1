package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/ports/mocks"
	"github.com/kamal-hamza/extrude-cli/pkg/workspace"
)

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := ws.Initialize(); err != nil {
		t.Fatal(err)
	}
	return ws
}

// seedModel records metadata for id at lod and, when withFile is set,
// writes its GLB into the workspace
func seedModel(t *testing.T, ws *workspace.Workspace, store *mocks.MockMetadataStore, id string, lod domain.LOD, withFile bool) {
	t.Helper()
	store.Put(ws.MetadataFile(lod, id), domain.Metadata{ID: id, LOD: lod, ModelFile: id + ".glb", FileSize: 3})
	if withFile {
		if err := os.WriteFile(ws.ModelPath(lod, id), []byte("glb"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCatalogService_Build(t *testing.T) {
	ws := newTestWorkspace(t)
	store := mocks.NewMockMetadataStore()
	seedModel(t, ws, store, "rail-b", domain.LODMedium, false)
	seedModel(t, ws, store, "rail-a", domain.LODMedium, false)
	seedModel(t, ws, store, "rail-low", domain.LODLow, false)

	svc := NewCatalogService(store, ws, nil)
	catalog, err := svc.Build(context.Background(), domain.LODMedium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(catalog.Models) != 2 || catalog.Models[0].ID != "rail-a" {
		t.Errorf("models = %+v", catalog.Models)
	}
	if store.Catalog(ws.CatalogPath()) == nil {
		t.Error("catalog was not saved")
	}
}

func TestCatalogService_LoadFallsBackToMetadata(t *testing.T) {
	ws := newTestWorkspace(t)
	store := mocks.NewMockMetadataStore()
	seedModel(t, ws, store, "only", domain.LODHigh, false)

	svc := NewCatalogService(store, ws, nil)
	catalog, err := svc.Load(context.Background(), domain.LODHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalog.Models) != 1 {
		t.Errorf("models = %d, want 1", len(catalog.Models))
	}

	if _, err := svc.Find(context.Background(), "only", domain.LODHigh); err != nil {
		t.Errorf("Find: %v", err)
	}
	if _, err := svc.Find(context.Background(), "missing", domain.LODHigh); err == nil {
		t.Error("expected not found")
	}
}

func TestCatalogService_Prepare_DefaultLOD(t *testing.T) {
	ws := newTestWorkspace(t)
	store := mocks.NewMockMetadataStore()
	seedModel(t, ws, store, "rail", domain.LODMedium, true)
	seedModel(t, ws, store, "ghost", domain.LODMedium, false)

	svc := NewCatalogService(store, ws, nil)
	out := filepath.Join(t.TempDir(), "public", "models")
	resp, err := svc.Prepare(context.Background(), PrepareRequest{OutputDir: out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Copied != 1 || len(resp.Missing) != 1 {
		t.Errorf("copied = %d, missing = %v", resp.Copied, resp.Missing)
	}
	if _, err := os.Stat(filepath.Join(out, "rail", "rail.glb")); err != nil {
		t.Errorf("model not copied: %v", err)
	}

	meta, err := store.Load(context.Background(), filepath.Join(out, "rail", "metadata.json"))
	if err != nil {
		t.Fatalf("per-model metadata missing: %v", err)
	}
	if meta.ModelFile != "rail/rail.glb" {
		t.Errorf("modelFile = %q", meta.ModelFile)
	}

	// Missing models keep their record and original modelFile
	ghost, err := store.Load(context.Background(), filepath.Join(out, "ghost", "metadata.json"))
	if err != nil || ghost.ModelFile != "ghost.glb" {
		t.Errorf("ghost = %+v, %v", ghost, err)
	}

	if store.Catalog(filepath.Join(out, "catalog.json")) == nil {
		t.Error("public catalog not written")
	}
}

func TestCatalogService_Prepare_OtherLODThanCatalog(t *testing.T) {
	ws := newTestWorkspace(t)
	store := mocks.NewMockMetadataStore()
	ctx := context.Background()
	seedModel(t, ws, store, "rail", domain.LODMedium, true)
	store.Put(ws.MetadataFile(domain.LODHigh, "rail"), domain.Metadata{ID: "rail", LOD: domain.LODHigh, ModelFile: "rail.glb", FileSize: 25})
	if err := os.WriteFile(ws.ModelPath(domain.LODHigh, "rail"), make([]byte, 25), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewCatalogService(store, ws, nil)
	if _, err := svc.Build(ctx, domain.LODMedium); err != nil {
		t.Fatal(err)
	}

	high, err := svc.Load(ctx, domain.LODHigh)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(high.Models) != 1 || high.Models[0].LOD != domain.LODHigh || high.Models[0].FileSize != 25 {
		t.Errorf("high models = %+v", high.Models)
	}
	medium, err := svc.Load(ctx, domain.LODMedium)
	if err != nil || medium.Models[0].FileSize != 3 {
		t.Errorf("medium models = %+v, %v", medium, err)
	}

	out := t.TempDir()
	if _, err := svc.Prepare(ctx, PrepareRequest{OutputDir: out, LOD: domain.LODHigh}); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	meta, err := store.Load(ctx, filepath.Join(out, "rail", "metadata.json"))
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(out, "rail", "rail.glb"))
	if err != nil {
		t.Fatal(err)
	}
	if meta.LOD != domain.LODHigh || meta.FileSize != info.Size() {
		t.Errorf("metadata lod = %s fileSize = %d, copied %d bytes", meta.LOD, meta.FileSize, info.Size())
	}
}

func TestCatalogService_Prepare_AllLODs(t *testing.T) {
	ws := newTestWorkspace(t)
	store := mocks.NewMockMetadataStore()
	seedModel(t, ws, store, "rail", domain.LODMedium, true)
	for _, lod := range []domain.LOD{domain.LODLow, domain.LODHigh} {
		os.WriteFile(ws.ModelPath(lod, "rail"), []byte("glb"), 0644)
	}

	svc := NewCatalogService(store, ws, nil)
	resp, err := svc.Prepare(context.Background(), PrepareRequest{AllLODs: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.OutputDir != ws.PublicPath || resp.Copied != 3 {
		t.Errorf("output = %s, copied = %d", resp.OutputDir, resp.Copied)
	}
	model := resp.Catalog.Models[0]
	for _, lod := range domain.AllLODs {
		want := "rail/" + string(lod) + "/rail.glb"
		if model.ModelFiles[lod] != want {
			t.Errorf("modelFiles[%s] = %q, want %q", lod, model.ModelFiles[lod], want)
		}
		if _, err := os.Stat(filepath.Join(ws.PublicPath, "rail", string(lod), "rail.glb")); err != nil {
			t.Errorf("%s copy missing", lod)
		}
	}
}

func TestCatalogService_SizesByLOD(t *testing.T) {
	ws := newTestWorkspace(t)
	store := mocks.NewMockMetadataStore()
	seedModel(t, ws, store, "a", domain.LODLow, false)
	seedModel(t, ws, store, "a", domain.LODHigh, false)
	seedModel(t, ws, store, "b", domain.LODHigh, false)

	svc := NewCatalogService(store, ws, nil)
	sizes, err := svc.SizesByLOD(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sizes[domain.LODLow]) != 1 || len(sizes[domain.LODMedium]) != 0 || len(sizes[domain.LODHigh]) != 2 {
		t.Errorf("sizes = %+v", sizes)
	}
}
