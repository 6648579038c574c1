package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "profiles.zip")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestExtractor_Extract_Zip(t *testing.T) {
	archivePath := writeZip(t, map[string]string{
		"8020-1010.step":         "ISO-10303-21;",
		"imperial/8020-1515.stp": "ISO-10303-21;",
	})
	dest := t.TempDir()

	files, err := NewExtractor(nil).Extract(context.Background(), archivePath, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sort.Strings(files)
	want := []string{
		filepath.Join(dest, "8020-1010.step"),
		filepath.Join(dest, "imperial", "8020-1515.stp"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, files[i], want[i])
		}
		data, err := os.ReadFile(files[i])
		if err != nil || string(data) != "ISO-10303-21;" {
			t.Errorf("content of %s = %q (%v)", files[i], data, err)
		}
	}
}

func TestExtractor_Extract_NotAnArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing.zip")

	if _, err := NewExtractor(nil).Extract(context.Background(), p, t.TempDir()); err == nil {
		t.Error("expected error for missing archive")
	}
}
