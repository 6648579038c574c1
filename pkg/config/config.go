package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

type Config struct {
	// Workspace root, empty for the XDG default
	Workspace string `yaml:"workspace"`

	FreeCAD  FreeCADConfig  `yaml:"freecad"`
	Blender  BlenderConfig  `yaml:"blender"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Batch    BatchConfig    `yaml:"batch"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Serve    ServeConfig    `yaml:"serve"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// Prometheus textfile written after each command, empty to disable
	MetricsFile string `yaml:"metrics_file"`
}

// FreeCADConfig controls STEP meshing. An empty strategy list means the
// built-in order.
type FreeCADConfig struct {
	Strategies []domain.Strategy `yaml:"strategies,omitempty"`
	Timeout    time.Duration     `yaml:"timeout"`
}

type BlenderConfig struct {
	Executable string        `yaml:"executable"`
	Timeout    time.Duration `yaml:"timeout"`
}

// DefaultsConfig holds the flag defaults of the glb and batch commands
type DefaultsConfig struct {
	LOD       domain.LOD  `yaml:"lod"`
	Unit      domain.Unit `yaml:"unit"`
	Center    bool        `yaml:"center"`
	Normalize bool        `yaml:"normalize"`
	Compress  bool        `yaml:"compress"`
}

type BatchConfig struct {
	MaxWorkers int          `yaml:"max_workers"`
	LODs       []domain.LOD `yaml:"lods"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// StorageConfig points at an S3-compatible bucket for publishing
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type ServeConfig struct {
	Addr      string `yaml:"addr"`
	PublicDir string `yaml:"public_dir"` // empty for the workspace public dir
}

const (
	defaultTimeout    = 10 * time.Minute
	defaultMaxWorkers = 4
	defaultDebounceMS = 500
)

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Workspace: "",
		FreeCAD: FreeCADConfig{
			Timeout: defaultTimeout,
		},
		Blender: BlenderConfig{
			Executable: "blender",
			Timeout:    defaultTimeout,
		},
		Defaults: DefaultsConfig{
			LOD:       domain.DefaultLOD,
			Unit:      domain.DefaultUnit,
			Center:    false,
			Normalize: false,
			Compress:  false,
		},
		Batch: BatchConfig{
			MaxWorkers: defaultMaxWorkers,
			LODs:       []domain.LOD{domain.LODLow, domain.LODMedium, domain.LODHigh},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Bucket: "models",
			UseSSL: true,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8080",
		},
		WatchDebounceMS: defaultDebounceMS,
		MetricsFile:     "",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// applyDefaults fills in essential values a partial file left empty
func (c *Config) applyDefaults() {
	if c.FreeCAD.Timeout <= 0 {
		c.FreeCAD.Timeout = defaultTimeout
	}
	if c.Blender.Executable == "" {
		c.Blender.Executable = "blender"
	}
	if c.Blender.Timeout <= 0 {
		c.Blender.Timeout = defaultTimeout
	}
	if c.Defaults.LOD == "" {
		c.Defaults.LOD = domain.DefaultLOD
	}
	if c.Defaults.Unit == "" {
		c.Defaults.Unit = domain.DefaultUnit
	}
	if c.Batch.MaxWorkers <= 0 {
		c.Batch.MaxWorkers = defaultMaxWorkers
	}
	if len(c.Batch.LODs) == 0 {
		c.Batch.LODs = []domain.LOD{domain.DefaultLOD}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = "127.0.0.1:8080"
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = defaultDebounceMS
	}
}

// Validate checks enumerated values
func (c *Config) Validate() error {
	if _, err := domain.ParseLOD(string(c.Defaults.LOD)); err != nil {
		return fmt.Errorf("defaults.lod: %w", err)
	}
	if _, err := domain.ParseUnit(string(c.Defaults.Unit)); err != nil {
		return fmt.Errorf("defaults.unit: %w", err)
	}
	for _, lod := range c.Batch.LODs {
		if _, err := domain.ParseLOD(string(lod)); err != nil {
			return fmt.Errorf("batch.lods: %w", err)
		}
	}
	if !isOneOf(c.Log.Level, "debug", "info", "warn", "error") {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if !isOneOf(c.Log.Format, "console", "json") {
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	for i, s := range c.FreeCAD.Strategies {
		if s.Name == "" || len(s.Executables) == 0 {
			return fmt.Errorf("freecad.strategies[%d]: name and executables are required", i)
		}
	}
	return nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// WatchDebounce returns the watch debounce interval
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

func isOneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
