package storage

import "testing"

func TestNewMinioStore_RequiresEndpointAndBucket(t *testing.T) {
	if _, err := NewMinioStore(Options{Bucket: "models"}, nil); err == nil {
		t.Error("expected error for missing endpoint")
	}
	if _, err := NewMinioStore(Options{Endpoint: "localhost:9000"}, nil); err == nil {
		t.Error("expected error for missing bucket")
	}
}

func TestMinioStore_ObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "catalog.json", "catalog.json"},
		{"", "/a/a.glb", "a/a.glb"},
		{"storefront/", "a/a.glb", "storefront/a/a.glb"},
		{"/v1/models/", "/catalog.json", "v1/models/catalog.json"},
	}

	for _, tt := range tests {
		store, err := NewMinioStore(Options{Endpoint: "localhost:9000", Bucket: "models", Prefix: tt.prefix}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := store.ObjectKey(tt.key); got != tt.want {
			t.Errorf("ObjectKey(%q) with prefix %q = %q, want %q", tt.key, tt.prefix, got, tt.want)
		}
	}
}
