package ports

import (
	"context"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

// Runner defines the port for running external executables
type Runner interface {
	// Resolve finds an executable by name (PATH lookup) or absolute path
	Resolve(name string) (string, error)

	// Run executes the command and waits for it, killing it when the
	// command's timeout expires. A non-zero exit is reported in the
	// result, not as an error.
	Run(ctx context.Context, cmd domain.Command) (*domain.RunResult, error)
}

// ScriptRenderer defines the port for generating CAD kernel scripts
type ScriptRenderer interface {
	// Render returns the script that converts req.Input into req.Output.
	// ext is the script extension the invoking strategy expects.
	Render(req domain.MeshRequest, ext string) ([]byte, error)
}

// MeshVerifier checks that a produced mesh file actually holds geometry
type MeshVerifier interface {
	// CountFaces returns the number of faces in a mesh file
	CountFaces(path string) (int, error)
}

// SceneEngine defines the port for the 3D content tool
type SceneEngine interface {
	// Inspect imports a model, joins its parts and reports its bounds
	Inspect(ctx context.Context, req domain.InspectRequest) (*domain.SceneReport, error)

	// Export imports, re-orients, decimates, shades and exports a model,
	// reporting the bounds of the exported object
	Export(ctx context.Context, spec domain.ExportSpec) (*domain.SceneReport, error)
}

// MetadataStore defines the port for metadata and catalog persistence
type MetadataStore interface {
	// Save writes a metadata record as indented JSON
	Save(ctx context.Context, path string, meta *domain.Metadata) error

	// Load reads a metadata record
	Load(ctx context.Context, path string) (*domain.Metadata, error)

	// List reads every metadata record in a directory
	List(ctx context.Context, dir string) ([]domain.Metadata, error)

	// SaveCatalog writes a catalog as indented JSON
	SaveCatalog(ctx context.Context, path string, catalog *domain.Catalog) error

	// LoadCatalog reads a catalog
	LoadCatalog(ctx context.Context, path string) (*domain.Catalog, error)
}

// ArtifactStore defines the port for publishing files to object storage
type ArtifactStore interface {
	// EnsureBucket creates the destination bucket when missing
	EnsureBucket(ctx context.Context) error

	// Put uploads a local file under key
	Put(ctx context.Context, key, path, contentType string) error
}

// ArchiveExtractor defines the port for unpacking archives of source files
type ArchiveExtractor interface {
	// Extract unpacks archivePath into destDir and returns the extracted file paths
	Extract(ctx context.Context, archivePath, destDir string) ([]string, error)
}

// Mesher defines the port for the STEP to OBJ pipeline
type Mesher interface {
	Mesh(ctx context.Context, req domain.MeshRequest) (*domain.MeshResult, error)
}
