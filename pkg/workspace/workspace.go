package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

const appName = "extrude"

// Workspace represents the managed directory tree the batch pipeline
// reads from and writes to
type Workspace struct {
	RootPath         string
	SourcePath       string // STEP files waiting to be converted
	IntermediatePath string // OBJ meshes
	ProcessedPath    string // GLB models per LOD and the catalog
	MetadataPath     string // metadata records per LOD
	PublicPath       string // web-ready layout
}

// New creates a Workspace rooted at root, or at the XDG-compliant
// default when root is empty
func New(root string) (*Workspace, error) {
	if root == "" {
		var err error
		root, err = DefaultRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to determine workspace root: %w", err)
		}
	}

	return &Workspace{
		RootPath:         root,
		SourcePath:       filepath.Join(root, "source"),
		IntermediatePath: filepath.Join(root, "intermediate"),
		ProcessedPath:    filepath.Join(root, "processed"),
		MetadataPath:     filepath.Join(root, "metadata"),
		PublicPath:       filepath.Join(root, "public"),
	}, nil
}

// DefaultRoot returns the default workspace directory.
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func DefaultRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// Initialize creates the workspace directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	directories := []string{
		w.RootPath,
		w.SourcePath,
		w.IntermediatePath,
		w.ProcessedPath,
		w.MetadataPath,
		w.PublicPath,
	}
	for _, lod := range domain.AllLODs {
		directories = append(directories, w.ModelDir(lod), w.MetadataDir(lod))
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the workspace has been initialized
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IntermediateOBJ returns the mesh path for a model
func (w *Workspace) IntermediateOBJ(id string) string {
	return filepath.Join(w.IntermediatePath, id+".obj")
}

// ModelDir returns the directory holding the models of one LOD
func (w *Workspace) ModelDir(lod domain.LOD) string {
	return filepath.Join(w.ProcessedPath, string(lod))
}

// ModelPath returns the GLB path for a model at a LOD
func (w *Workspace) ModelPath(lod domain.LOD, id string) string {
	return filepath.Join(w.ModelDir(lod), id+".glb")
}

// MetadataDir returns the directory holding the metadata records of one LOD
func (w *Workspace) MetadataDir(lod domain.LOD) string {
	return filepath.Join(w.MetadataPath, string(lod))
}

// MetadataFile returns the metadata path for a model at a LOD
func (w *Workspace) MetadataFile(lod domain.LOD, id string) string {
	return filepath.Join(w.MetadataDir(lod), id+".json")
}

// CatalogPath returns the path to the catalog of processed models
func (w *Workspace) CatalogPath() string {
	return filepath.Join(w.ProcessedPath, "catalog.json")
}

// CleanIntermediate removes all meshes in the intermediate directory
func (w *Workspace) CleanIntermediate() error {
	entries, err := os.ReadDir(w.IntermediatePath)
	if err != nil {
		return fmt.Errorf("failed to read intermediate directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(w.IntermediatePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
