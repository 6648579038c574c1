package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/ports"
	"github.com/kamal-hamza/extrude-cli/pkg/workspace"
)

// CatalogService aggregates metadata records into catalogs and prepares
// the web-public model layout
type CatalogService struct {
	store     ports.MetadataStore
	workspace *workspace.Workspace
	logger    *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store ports.MetadataStore, ws *workspace.Workspace, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		store:     store,
		workspace: ws,
		logger:    logger,
	}
}

// Build reads every metadata record of lod and writes the catalog
func (s *CatalogService) Build(ctx context.Context, lod domain.LOD) (*domain.Catalog, error) {
	records, err := s.store.List(ctx, s.workspace.MetadataDir(lod))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	catalog := domain.NewCatalog(records)
	if err := s.store.SaveCatalog(ctx, s.workspace.CatalogPath(), catalog); err != nil {
		return nil, fmt.Errorf("failed to write catalog: %w", err)
	}

	s.logger.Info("catalog built",
		zap.String("lod", lod.String()),
		zap.Int("models", len(catalog.Models)),
		zap.String("path", s.workspace.CatalogPath()),
	)
	return catalog, nil
}

// Load reads the catalog when it was built for lod. Otherwise, or when no
// catalog has been built yet, the metadata records of lod are read.
func (s *CatalogService) Load(ctx context.Context, lod domain.LOD) (*domain.Catalog, error) {
	catalog, err := s.store.LoadCatalog(ctx, s.workspace.CatalogPath())
	switch {
	case err == nil && builtFor(catalog, lod):
		return catalog, nil
	case err == nil:
		s.logger.Debug("catalog holds another lod, reading metadata records", zap.String("lod", lod.String()))
	case errors.Is(err, os.ErrNotExist):
		s.logger.Debug("no catalog found, reading metadata records", zap.String("lod", lod.String()))
	default:
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	records, err := s.store.List(ctx, s.workspace.MetadataDir(lod))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	return domain.NewCatalog(records), nil
}

// builtFor reports whether every record in c describes lod. An empty
// catalog says nothing about its lod.
func builtFor(c *domain.Catalog, lod domain.LOD) bool {
	if len(c.Models) == 0 {
		return false
	}
	for _, m := range c.Models {
		if m.LOD != lod {
			return false
		}
	}
	return true
}

// Find returns one model's metadata
func (s *CatalogService) Find(ctx context.Context, id string, lod domain.LOD) (*domain.Metadata, error) {
	catalog, err := s.Load(ctx, lod)
	if err != nil {
		return nil, err
	}
	meta, ok := catalog.Find(id)
	if !ok {
		return nil, fmt.Errorf("model not found: %s", id)
	}
	return meta, nil
}

// SizesByLOD returns the metadata records of each LOD, for size reports
func (s *CatalogService) SizesByLOD(ctx context.Context) (map[domain.LOD][]domain.Metadata, error) {
	out := make(map[domain.LOD][]domain.Metadata, len(domain.AllLODs))
	for _, lod := range domain.AllLODs {
		records, err := s.store.List(ctx, s.workspace.MetadataDir(lod))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s metadata: %w", lod, err)
		}
		out[lod] = records
	}
	return out, nil
}

// PrepareRequest represents a request to build the web-public layout
type PrepareRequest struct {
	OutputDir string     // default: the workspace public dir
	LOD       domain.LOD // copied when AllLODs is false
	AllLODs   bool
}

// PrepareResponse represents the outcome of a prepare run
type PrepareResponse struct {
	OutputDir   string
	Catalog     *domain.Catalog
	Copied      int
	Missing     []string // source model files that did not exist
	CatalogPath string
}

// Prepare copies each model into <out>/<id>/<id>.glb (or
// <out>/<id>/<lod>/<id>.glb for all LODs), rewrites the model paths in
// its metadata, and writes per-model metadata.json and catalog.json.
func (s *CatalogService) Prepare(ctx context.Context, req PrepareRequest) (*PrepareResponse, error) {
	if req.LOD == "" {
		req.LOD = domain.DefaultLOD
	}
	out := req.OutputDir
	if out == "" {
		out = s.workspace.PublicPath
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	catalog, err := s.Load(ctx, req.LOD)
	if err != nil {
		return nil, err
	}

	lods := []domain.LOD{req.LOD}
	if req.AllLODs {
		lods = domain.AllLODs
	}

	resp := &PrepareResponse{OutputDir: out, Catalog: catalog}

	for i := range catalog.Models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		model := &catalog.Models[i]

		for _, lod := range lods {
			src := s.workspace.ModelPath(lod, model.ID)
			if _, err := os.Stat(src); err != nil {
				s.logger.Warn("model file not found", zap.String("id", model.ID), zap.String("path", src))
				resp.Missing = append(resp.Missing, src)
				continue
			}

			rel := path.Join(model.ID, model.ID+".glb")
			if req.AllLODs {
				rel = path.Join(model.ID, string(lod), model.ID+".glb")
			}
			if err := copyFile(src, filepath.Join(out, filepath.FromSlash(rel))); err != nil {
				return nil, fmt.Errorf("failed to copy %s: %w", src, err)
			}
			resp.Copied++

			if req.AllLODs {
				if model.ModelFiles == nil {
					model.ModelFiles = make(map[domain.LOD]string)
				}
				model.ModelFiles[lod] = rel
			} else {
				model.ModelFile = rel
			}
		}

		metaPath := filepath.Join(out, model.ID, "metadata.json")
		if err := s.store.Save(ctx, metaPath, model); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", metaPath, err)
		}
	}

	resp.CatalogPath = filepath.Join(out, "catalog.json")
	if err := s.store.SaveCatalog(ctx, resp.CatalogPath, catalog); err != nil {
		return nil, fmt.Errorf("failed to write catalog: %w", err)
	}

	s.logger.Info("models prepared",
		zap.String("output", out),
		zap.Int("models", len(catalog.Models)),
		zap.Int("copied", resp.Copied),
		zap.Int("missing", len(resp.Missing)),
	)
	return resp, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
