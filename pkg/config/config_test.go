package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Defaults.LOD != domain.LODMedium {
		t.Errorf("expected default LOD='medium', got %q", cfg.Defaults.LOD)
	}

	if cfg.Defaults.Unit != domain.UnitInch {
		t.Errorf("expected default Unit='inch', got %q", cfg.Defaults.Unit)
	}

	if cfg.Defaults.Center || cfg.Defaults.Normalize || cfg.Defaults.Compress {
		t.Error("boolean flags should default to false")
	}

	if cfg.Blender.Executable != "blender" {
		t.Errorf("expected default Blender executable='blender', got %q", cfg.Blender.Executable)
	}

	if cfg.FreeCAD.Timeout != 10*time.Minute {
		t.Errorf("expected default FreeCAD timeout=10m, got %s", cfg.FreeCAD.Timeout)
	}

	if cfg.Batch.MaxWorkers != 4 {
		t.Errorf("expected default MaxWorkers=4, got %d", cfg.Batch.MaxWorkers)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// Loading a non-existent file should return default config
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg.Batch.MaxWorkers != 4 {
		t.Errorf("expected default MaxWorkers=4, got %d", cfg.Batch.MaxWorkers)
	}
}

func TestSave_And_Load(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Workspace = "/data/profiles"
	cfg.Blender.Executable = "/opt/blender/blender"
	cfg.Blender.Timeout = 90 * time.Second
	cfg.Defaults.LOD = domain.LODHigh
	cfg.Defaults.Unit = domain.UnitMillimeter
	cfg.Defaults.Normalize = true
	cfg.Batch.MaxWorkers = 8
	cfg.FreeCAD.Strategies = []domain.Strategy{
		{Name: "console", Executables: []string{"freecadcmd"}, Args: []string{"{script}"}},
	}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Workspace != cfg.Workspace {
		t.Errorf("Workspace: expected %q, got %q", cfg.Workspace, loaded.Workspace)
	}
	if loaded.Blender.Executable != cfg.Blender.Executable || loaded.Blender.Timeout != cfg.Blender.Timeout {
		t.Errorf("Blender: expected %+v, got %+v", cfg.Blender, loaded.Blender)
	}
	if loaded.Defaults != cfg.Defaults {
		t.Errorf("Defaults: expected %+v, got %+v", cfg.Defaults, loaded.Defaults)
	}
	if loaded.Batch.MaxWorkers != 8 {
		t.Errorf("MaxWorkers: expected 8, got %d", loaded.Batch.MaxWorkers)
	}
	if len(loaded.FreeCAD.Strategies) != 1 || loaded.FreeCAD.Strategies[0].Args[0] != "{script}" {
		t.Errorf("Strategies: got %+v", loaded.FreeCAD.Strategies)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `workspace: /srv/extrude
batch:
  max_workers: 0
blender:
  timeout: 30s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Batch.MaxWorkers != 4 {
		t.Errorf("expected default MaxWorkers=4 for zero value, got %d", cfg.Batch.MaxWorkers)
	}
	if cfg.Blender.Timeout != 30*time.Second {
		t.Errorf("expected Blender timeout=30s, got %s", cfg.Blender.Timeout)
	}
	if cfg.Blender.Executable != "blender" {
		t.Errorf("expected default executable, got %q", cfg.Blender.Executable)
	}
	if cfg.Workspace != "/srv/extrude" {
		t.Errorf("expected Workspace='/srv/extrude', got %q", cfg.Workspace)
	}
	if cfg.WatchDebounce() != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %s", cfg.WatchDebounce())
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"lod", "defaults:\n  lod: ultra\n", "defaults.lod"},
		{"unit", "defaults:\n  unit: cm\n", "defaults.unit"},
		{"batch lod", "batch:\n  lods: [low, huge]\n", "batch.lods"},
		{"log level", "log:\n  level: loud\n", "log.level"},
		{"log format", "log:\n  format: xml\n", "log.format"},
		{"strategy", "freecad:\n  strategies:\n    - name: empty\n", "freecad.strategies[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(configPath)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `workspace: /tmp
defaults: [invalid yaml structure
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error loading invalid YAML, got nil")
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal("config file was not created")
	}

	content := string(data)
	for _, want := range []string{"blender", "timeout: 10m0s", "lod: medium", "unit: inch"} {
		if !strings.Contains(content, want) {
			t.Errorf("config file should contain %q", want)
		}
	}
}
