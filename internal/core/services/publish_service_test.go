package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/kamal-hamza/extrude-cli/internal/core/ports/mocks"
)

func publicFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"catalog.json":            `{"models":[]}`,
		"8020-1010/8020-1010.glb": "glTF",
		"8020-1010/metadata.json": `{"id":"8020-1010"}`,
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPublishService_Execute_Success(t *testing.T) {
	dir := publicFixture(t)
	store := mocks.NewMockArtifactStore()
	svc := NewPublishService(store, nil, nil)

	resp, err := svc.Execute(context.Background(), PublishRequest{Dir: dir, Prefix: "/models/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.EnsureCount() != 1 {
		t.Errorf("EnsureBucket called %d times, want 1", store.EnsureCount())
	}

	uploads := store.GetUploads()
	sort.Slice(uploads, func(i, j int) bool { return uploads[i].Key < uploads[j].Key })
	want := []struct{ key, contentType string }{
		{"models/8020-1010/8020-1010.glb", "model/gltf-binary"},
		{"models/8020-1010/metadata.json", "application/json"},
		{"models/catalog.json", "application/json"},
	}
	if len(uploads) != len(want) {
		t.Fatalf("uploads = %d, want %d", len(uploads), len(want))
	}
	for i, w := range want {
		if uploads[i].Key != w.key || uploads[i].ContentType != w.contentType {
			t.Errorf("upload[%d] = %+v, want %s (%s)", i, uploads[i], w.key, w.contentType)
		}
	}
	if resp.Bytes == 0 || len(resp.Uploaded) != 3 {
		t.Errorf("response = %+v", resp)
	}
}

func TestPublishService_Execute_DryRun(t *testing.T) {
	dir := publicFixture(t)
	store := mocks.NewMockArtifactStore()
	svc := NewPublishService(store, nil, nil)

	resp, err := svc.Execute(context.Background(), PublishRequest{Dir: dir, DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.GetUploads()) != 0 || store.EnsureCount() != 0 {
		t.Error("dry run touched the store")
	}
	if len(resp.Uploaded) != 3 {
		t.Errorf("planned = %d, want 3", len(resp.Uploaded))
	}
}

func TestPublishService_Execute_UploadFailure(t *testing.T) {
	dir := publicFixture(t)
	store := mocks.NewMockArtifactStore()
	boom := errors.New("connection refused")
	store.SetShouldFail(true, boom)
	svc := NewPublishService(store, nil, nil)

	resp, err := svc.Execute(context.Background(), PublishRequest{Dir: dir})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(resp.Failed) != 3 || len(resp.Uploaded) != 0 {
		t.Errorf("response = %+v", resp)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"a.glb":  "model/gltf-binary",
		"a.GLB":  "model/gltf-binary",
		"a.json": "application/json",
		"a.bin":  "application/octet-stream",
	}
	for p, want := range tests {
		if got := ContentType(p); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", p, got, want)
		}
	}
}
